package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stepanenkodv/realty-board/internal/models"
)

// CreateDraft сохраняет новый черновик и возвращает его.
func (s *Storage) CreateDraft(ctx context.Context, draft models.PropertyDraft) error {
	const op = "storage.CreateDraft"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO property_drafts (id, user_uid, payload, step, updated_at)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		draft.ID, draft.UserUID, []byte(draft.Payload), draft.Step, draft.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetDraft возвращает черновик по его ID. Проверка владения выполняется
// сервисным слоем, а не здесь.
func (s *Storage) GetDraft(ctx context.Context, id string) (*models.PropertyDraft, error) {
	const op = "storage.GetDraft"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, payload, step, updated_at
			  FROM property_drafts
			  WHERE id = $1`
	var d models.PropertyDraft
	var payload []byte
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.UserUID, &payload, &d.Step, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	d.Payload = json.RawMessage(payload)
	return &d, nil
}

// UpdateDraft целиком перезаписывает документ и шаг черновика, обновляет
// отметку изменения. Частичного слияния нет: пишется последняя версия.
func (s *Storage) UpdateDraft(ctx context.Context, id string, payload json.RawMessage, step int, now time.Time) (int, error) {
	const op = "storage.UpdateDraft"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE property_drafts
			  SET payload = $1, step = $2, updated_at = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, []byte(payload), step, now, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeleteDraft удаляет черновик. Идемпотентно: отсутствие записи не ошибка.
func (s *Storage) DeleteDraft(ctx context.Context, id string) error {
	const op = "storage.DeleteDraft"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM property_drafts WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteDraftsOlderThan удаляет черновики, не менявшиеся с момента cutoff,
// и возвращает количество удалённых строк. Используется фоновым свипом.
func (s *Storage) DeleteDraftsOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	const op = "storage.DeleteDraftsOlderThan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM property_drafts WHERE updated_at < $1`
	result, err := s.DB.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
