package models

import (
	"encoding/json"
	"time"
)

// Количество шагов мастера создания объявления: данные, адрес,
// характеристики, фотографии.
const (
	DraftStepDetails  = 1
	DraftStepLocation = 2
	DraftStepFeatures = 3
	DraftStepImages   = 4
)

// PropertyDraft — рабочий документ мастера создания объявления.
// Payload хранится как непрозрачный JSON: его структура принадлежит мастеру,
// хранилище её не разбирает. Черновик никогда не разделяется между
// пользователями, владение проверяется при каждом обращении.
type PropertyDraft struct {
	ID        string          // Идентификатор черновика (uuid)
	UserUID   string          // Владелец
	Payload   json.RawMessage // Сериализованный документ мастера
	Step      int             // Текущий шаг мастера
	UpdatedAt time.Time       // Время последнего изменения
}

// DraftPayload — бизнес-объект мастера. Сериализуется в PropertyDraft.Payload
// целиком: обновление всегда перезаписывает документ, частичного слияния нет.
type DraftPayload struct {
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Operation     string   `json:"operation,omitempty"`
	Category      string   `json:"category,omitempty"`
	Price         int      `json:"price,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Province      string   `json:"province,omitempty"`
	City          string   `json:"city,omitempty"`
	Street        string   `json:"street,omitempty"`
	StreetNumber  string   `json:"street_number,omitempty"`
	Rooms         int      `json:"rooms,omitempty"`
	Bathrooms     int      `json:"bathrooms,omitempty"`
	TotalArea     int      `json:"total_area,omitempty"`
	CoveredArea   int      `json:"covered_area,omitempty"`
	AgeYears      int      `json:"age_years,omitempty"`
	IsNew         bool     `json:"is_new,omitempty"`
	FeatureIDs    []int    `json:"feature_ids,omitempty"`
	PendingImages []string `json:"pending_images,omitempty"` // Временные ключи в хранилище изображений
}

// DummyDraftUpdate — входные данные шага мастера: новый документ целиком
// и номер шага, на который переходит пользователь.
type DummyDraftUpdate struct {
	Payload json.RawMessage `json:"payload" validate:"required"`
	Step    int             `json:"step" validate:"required,gte=1,lte=4"`
}
