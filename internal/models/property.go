package models

import "time"

// Типы операций с недвижимостью.
const (
	OperationSale = "sale"
	OperationRent = "rent"
)

// Категории недвижимости. CategoryField — загородные/полевые участки,
// для них действует отдельная область справочника характеристик.
const (
	CategoryHouse      = "house"
	CategoryApartment  = "apartment"
	CategoryLand       = "land"
	CategoryField      = "field"
	CategoryOffice     = "office"
	CategoryCommercial = "commercial"
)

// Состояния опубликованного объявления. У каждого объявления ровно одна
// запись статуса с одним из этих состояний.
const (
	StateDraft     = "draft"
	StatePending   = "pending"
	StatePublished = "published"
	StatePaused    = "paused"
	StateRejected  = "rejected"
)

// Property — опубликованное объявление о недвижимости.
type Property struct {
	ID          int       `json:"id"`           // Идентификатор объявления
	UserUID     string    `json:"user_uid"`     // Владелец
	Title       string    `json:"title"`        // Заголовок
	Description string    `json:"description"`  // Описание
	Operation   string    `json:"operation"`    // Тип операции: sale или rent
	Category    string    `json:"category"`     // Категория недвижимости
	Price       int       `json:"price"`        // Цена, в центах
	Currency    string    `json:"currency"`     // Валюта цены
	Rooms       int       `json:"rooms"`        // Количество комнат
	Bathrooms   int       `json:"bathrooms"`    // Количество санузлов
	TotalArea   int       `json:"total_area"`   // Общая площадь, м²
	CoveredArea int       `json:"covered_area"` // Крытая площадь, м²
	AgeYears    int       `json:"age_years"`    // Возраст постройки в годах
	IsNew       bool      `json:"is_new"`       // Новостройка
	CreatedAt   time.Time `json:"created_at"`   // Дата создания записи
}

// Location — адрес объявления, один к одному с Property.
type Location struct {
	PropertyID   int    `json:"property_id"`   // Объявление
	Province     string `json:"province"`      // Провинция/регион
	City         string `json:"city"`          // Город
	Street       string `json:"street"`        // Улица
	StreetNumber string `json:"street_number"` // Номер дома
}

// PropertyStatus — текущее состояние объявления с пояснением.
type PropertyStatus struct {
	PropertyID int       `json:"property_id"` // Объявление
	State      string    `json:"state"`       // Одно из State*-значений
	Note       string    `json:"note"`        // Пояснение к смене состояния
	UpdatedAt  time.Time `json:"updated_at"`  // Время последней смены
}

// PropertyImage — постоянное изображение объявления.
type PropertyImage struct {
	ID         int    `json:"id"`          // Идентификатор изображения
	PropertyID int    `json:"property_id"` // Объявление
	Path       string `json:"path"`        // Ключ в постоянном хранилище
	Position   int    `json:"position"`    // Порядок отображения
}

// FeatureSelection — выбранная характеристика объявления, ссылается на
// запись справочника и несёт только значение.
type FeatureSelection struct {
	PropertyID int    `json:"property_id"` // Объявление
	FeatureID  int    `json:"feature_id"`  // Запись справочника FeatureDefinition
	Value      string `json:"value"`       // Значение, для этого домена фактически булево
}

// PropertyCard — объявление со связанными данными для выдачи клиенту.
type PropertyCard struct {
	Property Property           `json:"property"`
	Location Location           `json:"location"`
	Status   PropertyStatus     `json:"status"`
	Images   []PropertyImage    `json:"images"`
	Features []FeatureSelection `json:"features"`
}

// ListingFilter — параметры фильтрации витрины опубликованных объявлений.
type ListingFilter struct {
	Operation string // Фильтр по типу операции, пустая строка — без фильтра
	Category  string // Фильтр по категории
	City      string // Фильтр по городу
	PriceMin  int    // Нижняя граница цены, 0 — без границы
	PriceMax  int    // Верхняя граница цены, 0 — без границы
	Limit     int
	Offset    int
}
