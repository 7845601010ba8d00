package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/stepanenkodv/realty-board/internal/models"
)

// Обменник почтовых событий.
const notificationsExchange = "notifications"

// NotificationPublisher публикует почтовые события в обменник notifications.
// Ключом маршрутизации служит вид события, поэтому каждое письмо попадает
// в свою очередь.
type NotificationPublisher struct {
	ch *amqp.Channel
}

// NewNotificationPublisher создает издателя поверх открытого канала.
func NewNotificationPublisher(ch *amqp.Channel) *NotificationPublisher {
	return &NotificationPublisher{ch: ch}
}

// Publish отправляет событие в очередь уведомлений. Сообщения помечаются
// постоянными, чтобы пережить перезапуск брокера.
func (p *NotificationPublisher) Publish(event models.MailEvent) error {
	const op = "rabbitmq.NotificationPublisher.Publish"

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		notificationsExchange,
		event.Kind,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
