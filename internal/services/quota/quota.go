// Package services содержит бизнес-логику тарифных планов и квот публикаций.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stepanenkodv/realty-board/internal/lib/clock"
	"github.com/stepanenkodv/realty-board/internal/models"
	"github.com/stepanenkodv/realty-board/internal/storage/repository"
)

// ErrNoActiveSubscription возвращается, когда у пользователя нет подписки,
// покрывающей текущий момент.
var ErrNoActiveSubscription = errors.New("no active subscription")

// ErrQuotaExceeded возвращается, когда лимит публикаций плана исчерпан.
var ErrQuotaExceeded = errors.New("publication quota exceeded")

// QuotaRepository определяет методы хранилища для планов, подписок и
// журнала публикаций.
type QuotaRepository interface {
	// ListActivePlans возвращает активные тарифные планы.
	ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	// GetPlan возвращает план по ID.
	GetPlan(ctx context.Context, id int) (*models.SubscriptionPlan, error)
	// CreateSubscription добавляет подписку пользователя и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.UserSubscription) (int, error)
	// FindActiveSubscription возвращает подписку, окно которой содержит now.
	FindActiveSubscription(ctx context.Context, userUID string, now time.Time) (*models.UserSubscription, error)
	// InsertPublication добавляет запись в журнал публикаций.
	InsertPublication(ctx context.Context, pub models.PropertyPublication) (int, error)
	// CountPublicationsInWindow считает публикации пользователя в окне подписки.
	CountPublicationsInWindow(ctx context.Context, userUID string, start, end time.Time) (int, error)
}

// QuotaService реализует подписки пользователей и учёт квоты публикаций.
// Квота всегда выводится из журнала публикаций, счётчик нигде не хранится.
type QuotaService struct {
	repo  QuotaRepository
	clock clock.Clock
	log   *slog.Logger
}

// NewQuotaService создает новый экземпляр QuotaService.
func NewQuotaService(repo QuotaRepository, clk clock.Clock, log *slog.Logger) *QuotaService {
	return &QuotaService{
		repo:  repo,
		clock: clk,
		log:   log,
	}
}

// ListPlans возвращает активные тарифные планы.
func (s *QuotaService) ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	return s.repo.ListActivePlans(ctx)
}

// Subscribe оформляет пользователю подписку на план: окно действия
// начинается сейчас и длится DurationDays плана.
func (s *QuotaService) Subscribe(ctx context.Context, userUID string, planID int) (int, error) {
	const op = "services.quota.Subscribe"

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now()
	sub := models.UserSubscription{
		UserUID:   userUID,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
	}
	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user subscribed to plan",
		slog.String("user_uid", userUID),
		slog.Int("plan_id", plan.ID))
	return id, nil
}

// ActiveSubscription возвращает действующую подписку пользователя вместе
// с её планом или ErrNoActiveSubscription.
func (s *QuotaService) ActiveSubscription(ctx context.Context, userUID string) (*models.UserSubscription, *models.SubscriptionPlan, error) {
	const op = "services.quota.ActiveSubscription"

	sub, err := s.repo.FindActiveSubscription(ctx, userUID, s.clock.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNoActiveSubscription
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	plan, err := s.repo.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, plan, nil
}

// State возвращает текущее состояние квоты пользователя. Для безлимитного
// плана Remaining равен models.UnlimitedQuota.
func (s *QuotaService) State(ctx context.Context, userUID string) (*models.QuotaState, error) {
	const op = "services.quota.State"

	sub, plan, err := s.ActiveSubscription(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if plan.MaxPublication == models.UnlimitedQuota {
		return &models.QuotaState{CanPublish: true, Remaining: models.UnlimitedQuota, Plan: plan}, nil
	}

	used, err := s.repo.CountPublicationsInWindow(ctx, userUID, sub.StartDate, sub.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	remaining := plan.MaxPublication - used
	if remaining < 0 {
		remaining = 0
	}
	return &models.QuotaState{
		CanPublish: remaining > 0,
		Remaining:  remaining,
		Plan:       plan,
	}, nil
}

// CanPublish сообщает, может ли пользователь опубликовать ещё одно объявление.
func (s *QuotaService) CanPublish(ctx context.Context, userUID string) (bool, error) {
	state, err := s.State(ctx, userUID)
	if err != nil {
		return false, err
	}
	return state.CanPublish, nil
}

// RegisterPublication добавляет запись о публикации в журнал. Момент
// публикации определяет, к окну какой подписки она относится.
func (s *QuotaService) RegisterPublication(ctx context.Context, userUID string, propertyID, planID int) error {
	const op = "services.quota.RegisterPublication"

	pub := models.PropertyPublication{
		UserUID:     userUID,
		PropertyID:  propertyID,
		PlanID:      planID,
		PublishedAt: s.clock.Now(),
	}
	if _, err := s.repo.InsertPublication(ctx, pub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
