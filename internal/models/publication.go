package models

import "time"

// PropertyPublication — неизменяемая запись журнала публикаций.
// Создаётся ровно один раз на успешную публикацию и связывает объявление,
// пользователя и тариф, действовавший в этот момент. Квота всегда
// пересчитывается по этому журналу внутри окна активной подписки,
// изменяемых счётчиков на подписке нет.
type PropertyPublication struct {
	ID          int        // Идентификатор записи журнала
	PropertyID  int        // Опубликованное объявление
	UserUID     string     // Пользователь
	PlanID      int        // Тариф, активный в момент публикации
	PublishedAt time.Time  // Время публикации
	ExpiresAt   *time.Time // Срок действия публикации (nil — бессрочно)
}
