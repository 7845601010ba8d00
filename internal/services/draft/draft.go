// Package services содержит бизнес-логику многошагового мастера черновиков.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stepanenkodv/realty-board/internal/lib/clock"
	"github.com/stepanenkodv/realty-board/internal/models"
	"github.com/stepanenkodv/realty-board/internal/storage/repository"
)

// ErrNotFound возвращается, когда черновик не существует.
var ErrNotFound = errors.New("draft not found")

// ErrForbidden возвращается, когда черновик принадлежит другому пользователю.
var ErrForbidden = errors.New("draft belongs to another user")

// DraftRepository определяет методы хранилища черновиков.
type DraftRepository interface {
	// CreateDraft сохраняет новый черновик.
	CreateDraft(ctx context.Context, draft models.PropertyDraft) error
	// GetDraft возвращает черновик по ID без проверки владельца.
	GetDraft(ctx context.Context, id string) (*models.PropertyDraft, error)
	// UpdateDraft целиком перезаписывает содержимое и шаг черновика.
	UpdateDraft(ctx context.Context, id string, payload json.RawMessage, step int, now time.Time) (int, error)
	// DeleteDraft удаляет черновик, отсутствие не считается ошибкой.
	DeleteDraft(ctx context.Context, id string) error
	// DeleteDraftsOlderThan удаляет черновики, не обновлявшиеся с cutoff.
	DeleteDraftsOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// DraftService реализует операции мастера черновиков. Все операции чтения
// и изменения проверяют владельца: чужой черновик недоступен.
type DraftService struct {
	repo  DraftRepository
	clock clock.Clock
	log   *slog.Logger
}

// NewDraftService создает новый экземпляр DraftService.
func NewDraftService(repo DraftRepository, clk clock.Clock, log *slog.Logger) *DraftService {
	return &DraftService{
		repo:  repo,
		clock: clk,
		log:   log,
	}
}

// Create создает пустой черновик на первом шаге мастера и возвращает его ID.
func (s *DraftService) Create(ctx context.Context, userUID string) (string, error) {
	const op = "services.draft.Create"

	draft := models.PropertyDraft{
		ID:        uuid.NewString(),
		UserUID:   userUID,
		Payload:   json.RawMessage(`{}`),
		Step:      models.DraftStepDetails,
		UpdatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateDraft(ctx, draft); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("draft created",
		slog.String("draft_id", draft.ID),
		slog.String("user_uid", userUID))
	return draft.ID, nil
}

// GetForOwner возвращает черновик, если он существует и принадлежит
// пользователю.
func (s *DraftService) GetForOwner(ctx context.Context, id, userUID string) (*models.PropertyDraft, error) {
	const op = "services.draft.GetForOwner"

	draft, err := s.repo.GetDraft(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if draft.UserUID != userUID {
		return nil, ErrForbidden
	}
	return draft, nil
}

// Update перезаписывает содержимое черновика целиком. Переход возможен на
// любой шаг в обе стороны, сервер не хранит промежуточных дельт.
func (s *DraftService) Update(ctx context.Context, id, userUID string, req models.DummyDraftUpdate) error {
	const op = "services.draft.Update"

	if _, err := s.GetForOwner(ctx, id, userUID); err != nil {
		return err
	}

	if _, err := s.repo.UpdateDraft(ctx, id, req.Payload, req.Step, s.clock.Now()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет черновик пользователя. Повторное удаление не ошибка.
func (s *DraftService) Delete(ctx context.Context, id, userUID string) error {
	const op = "services.draft.Delete"

	_, err := s.GetForOwner(ctx, id, userUID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDraft(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SweepOlderThan удаляет черновики, не обновлявшиеся дольше maxAge, и
// возвращает число удалённых.
func (s *DraftService) SweepOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	const op = "services.draft.SweepOlderThan"

	cutoff := s.clock.Now().Add(-maxAge)
	n, err := s.repo.DeleteDraftsOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		s.log.Info("stale drafts removed", slog.Int("count", n))
	}
	return n, nil
}
