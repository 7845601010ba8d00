package models

import "time"

// UnlimitedQuota — сентинел для тарифов без ограничения публикаций.
const UnlimitedQuota = -1

// SubscriptionPlan — запись каталога тарифов. После создания не изменяется,
// кроме административной деактивации (IsActive = false).
type SubscriptionPlan struct {
	ID             int       `json:"id"`              // Идентификатор тарифа
	Name           string    `json:"name"`            // Название тарифа
	Price          int       `json:"price"`           // Цена за период, в центах
	DurationDays   int       `json:"duration_days"`   // Длительность действия в днях
	MaxPublication int       `json:"max_publication"` // Лимит публикаций за период; UnlimitedQuota — без лимита
	IsActive       bool      `json:"is_active"`       // Доступен ли тариф для оформления
	CreatedAt      time.Time `json:"created_at"`      // Дата создания записи
}

// UserSubscription связывает пользователя и тариф на окне [StartDate, EndDate).
// Активной считается последняя по StartDate подписка, чьё окно содержит "сейчас";
// пересечения окон допустимы, авторитетна самая свежая.
type UserSubscription struct {
	ID        int       // Идентификатор подписки
	UserUID   string    // Идентификатор пользователя
	PlanID    int       // Идентификатор тарифа
	StartDate time.Time // Начало окна действия
	EndDate   time.Time // Конец окна действия (не включается)
}

// DummySubscribe — входные данные для оформления подписки на тариф.
type DummySubscribe struct {
	PlanID int `json:"plan_id" validate:"required,gt=0"`
}

// QuotaState описывает текущее состояние квоты публикаций пользователя,
// отдаётся клиенту для страницы тарифов.
type QuotaState struct {
	CanPublish bool              `json:"can_publish"`
	Remaining  int               `json:"remaining"` // UnlimitedQuota, если лимита нет
	Plan       *SubscriptionPlan `json:"plan,omitempty"`
}
