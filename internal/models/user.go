// Package models содержит доменные структуры площадки объявлений недвижимости:
// пользователей, тарифные планы, подписки, черновики, опубликованные объявления
// и справочник характеристик. Структуры используются в бизнес-логике и при
// работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID             string     // Уникальный идентификатор пользователя
	Email           string     // Электронная почта
	Username        string     // Имя пользователя (уникальное)
	PasswordHash    string     // Хэш пароля; пустая строка для входа через Google
	Role            string     // Роль пользователя, admin или user
	GoogleID        *string    // Идентификатор Google-аккаунта (nil для локальных)
	EmailVerified   bool       // Подтверждена ли почта
	VerifyToken     *string    // Токен подтверждения почты
	VerifyExpiresAt *time.Time // Срок действия токена подтверждения
	ResetToken      *string    // Токен сброса пароля
	ResetExpiresAt  *time.Time // Срок действия токена сброса
	LastSeenAt      *time.Time // Последняя активность
	CreatedAt       time.Time  // Дата регистрации
}

// DummyRegister — входные данные для регистрации пользователя.
type DummyRegister struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// DummyLogin — входные данные для входа по паролю.
type DummyLogin struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}
