// Package services отправляет письма из очереди уведомлений по SMTP.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stepanenkodv/realty-board/internal/lib/sl"
	"github.com/stepanenkodv/realty-board/internal/lib/smtp"
	"github.com/stepanenkodv/realty-board/internal/models"
)

// SenderService превращает события очереди в письма и отправляет их.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// HandleEvent разбирает событие очереди и отправляет соответствующее письмо.
// Используется как обработчик потребителя очереди.
func (s *SenderService) HandleEvent(body []byte) error {
	var event models.MailEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal mail event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	var subject, bodyText string
	switch event.Kind {
	case models.MailVerify:
		subject = "Подтверждение адреса электронной почты"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nДля подтверждения почты перейдите по ссылке: %s\n\nСсылка действует 24 часа.",
			event.Username, event.Link)
	case models.MailReset:
		subject = "Сброс пароля"
		bodyText = fmt.Sprintf("Здравствуйте!\n\nДля смены пароля перейдите по ссылке: %s\n\nЕсли вы не запрашивали сброс, проигнорируйте это письмо.",
			event.Link)
	case models.MailPublished:
		subject = "Ваше объявление опубликовано"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nВаше объявление «%s» успешно опубликовано и доступно на витрине.",
			event.Username, event.Title)
	default:
		s.log.Warn("unknown mail event kind", slog.String("kind", event.Kind))
		return nil
	}

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
