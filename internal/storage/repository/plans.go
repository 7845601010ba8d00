package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stepanenkodv/realty-board/internal/models"
)

// ListActivePlans возвращает доступные для оформления тарифы.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	const op = "storage.ListActivePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, duration_days, max_publications, is_active, created_at
			  FROM subscription_plans
			  WHERE is_active = true
			  ORDER BY price`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionPlan
	for rows.Next() {
		var p models.SubscriptionPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.DurationDays,
			&p.MaxPublication, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPlan возвращает тариф по его ID.
func (s *Storage) GetPlan(ctx context.Context, id int) (*models.SubscriptionPlan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, duration_days, max_publications, is_active, created_at
			  FROM subscription_plans
			  WHERE id = $1`
	var p models.SubscriptionPlan
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price,
		&p.DurationDays, &p.MaxPublication, &p.IsActive, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
