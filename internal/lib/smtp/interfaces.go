// Package smtp предоставляет транспорт для отправки писем по SMTP
// с STARTTLS и интерфейсы, позволяющие подменять клиента в тестах.
package smtp

import "io"

// Client описывает сессию SMTP после установления соединения.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface устанавливает соединение с почтовым сервером
// и сообщает адрес отправителя.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
