package models

// Типы почтовых событий, публикуемых в очередь уведомлений.
const (
	MailVerify    = "verify"
	MailReset     = "reset"
	MailPublished = "published"
)

// MailEvent — событие очереди уведомлений. API-процесс публикует события,
// отправитель почты потребляет их; для рабочего процесса публикации это
// fire-and-forget: сбои логируются и никогда не блокируют запрос.
type MailEvent struct {
	Kind     string `json:"kind"`            // Одно из Mail*-значений
	Email    string `json:"email"`           // Адрес получателя
	Username string `json:"username"`        // Имя пользователя для текста письма
	Link     string `json:"link,omitempty"`  // Ссылка подтверждения или сброса
	Title    string `json:"title,omitempty"` // Заголовок объявления для письма о публикации
}
