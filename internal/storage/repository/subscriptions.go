package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stepanenkodv/realty-board/internal/models"
)

// CreateSubscription вставляет новую подписку пользователя и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.UserSubscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_subscriptions (user_uid, plan_id, start_date, end_date)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.PlanID, sub.StartDate, sub.EndDate).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// FindActiveSubscription возвращает активную подписку пользователя:
// окна, содержащие "сейчас", упорядочиваются по началу, берётся самая свежая.
// Пересечения окон допустимы, авторитетна последняя по start_date.
func (s *Storage) FindActiveSubscription(ctx context.Context, userUID string, now time.Time) (*models.UserSubscription, error) {
	const op = "storage.FindActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_id, start_date, end_date
			  FROM user_subscriptions
			  WHERE user_uid = $1
			    AND start_date <= $2
			    AND end_date > $2
			  ORDER BY start_date DESC
			  LIMIT 1`
	var sub models.UserSubscription
	err := s.DB.QueryRowContext(ctx, query, userUID, now).Scan(
		&sub.ID, &sub.UserUID, &sub.PlanID, &sub.StartDate, &sub.EndDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}
