package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/stepanenkodv/realty-board/internal/models"
)

// InsertPublication добавляет неизменяемую запись журнала публикаций
// и возвращает её ID. Это единственная мутация, влияющая на квоту.
func (s *Storage) InsertPublication(ctx context.Context, pub models.PropertyPublication) (int, error) {
	const op = "storage.InsertPublication"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO property_publications (property_id, user_uid, plan_id, published_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		pub.PropertyID, pub.UserUID, pub.PlanID, pub.PublishedAt, pub.ExpiresAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CountPublicationsInWindow считает публикации пользователя в окне [start, end).
// Квота всегда выводится из журнала на момент вызова, кэшируемых счётчиков нет.
func (s *Storage) CountPublicationsInWindow(ctx context.Context, userUID string, start, end time.Time) (int, error) {
	const op = "storage.CountPublicationsInWindow"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM property_publications
			  WHERE user_uid = $1
			    AND published_at >= $2
			    AND published_at < $3`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userUID, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
