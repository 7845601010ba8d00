package models

// Области применимости характеристик. Городские категории получают
// {all, urban}, полевые — {all, field}.
const (
	ScopeAll   = "all"
	ScopeUrban = "urban"
	ScopeField = "field"
)

// FeatureDefinition — запись справочника характеристик недвижимости.
// Справочник заполняется сидом миграций и считается статической
// конфигурацией, контракта на изменение нет.
type FeatureDefinition struct {
	ID           int    `json:"id"`            // Идентификатор записи
	Key          string `json:"key"`           // Машинное имя характеристики
	Name         string `json:"name"`          // Отображаемое название
	Group        string `json:"group"`         // Группа в форме мастера
	Scope        string `json:"scope"`         // Область: all, urban или field
	DisplayOrder int    `json:"display_order"` // Порядок отображения
	IsActive     bool   `json:"-"`             // Участвует ли в выдаче
}

// ScopesForCategory возвращает области справочника, применимые к категории
// недвижимости: полевые категории видят {all, field}, остальные — {all, urban}.
func ScopesForCategory(category string) []string {
	if category == CategoryField {
		return []string{ScopeAll, ScopeField}
	}
	return []string{ScopeAll, ScopeUrban}
}
