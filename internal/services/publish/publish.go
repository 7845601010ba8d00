// Package services содержит рабочий процесс публикации объявления и выдачу
// опубликованных объявлений.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stepanenkodv/realty-board/internal/lib/clock"
	"github.com/stepanenkodv/realty-board/internal/models"
	quota "github.com/stepanenkodv/realty-board/internal/services/quota"
)

// ErrIncompleteDraft возвращается, когда в черновике не хватает
// обязательных полей для публикации.
var ErrIncompleteDraft = errors.New("draft is incomplete")

// DraftProvider определяет операции мастера черновиков, нужные публикации.
type DraftProvider interface {
	// GetForOwner возвращает черновик пользователя.
	GetForOwner(ctx context.Context, id, userUID string) (*models.PropertyDraft, error)
	// Delete удаляет черновик после успешной публикации.
	Delete(ctx context.Context, id, userUID string) error
}

// QuotaProvider определяет операции квоты, нужные публикации.
type QuotaProvider interface {
	// State возвращает текущее состояние квоты пользователя.
	State(ctx context.Context, userUID string) (*models.QuotaState, error)
	// ActiveSubscription возвращает действующую подписку с планом.
	ActiveSubscription(ctx context.Context, userUID string) (*models.UserSubscription, *models.SubscriptionPlan, error)
	// RegisterPublication добавляет запись в журнал публикаций.
	RegisterPublication(ctx context.Context, userUID string, propertyID, planID int) error
}

// PropertyRepository определяет методы хранилища объявлений.
type PropertyRepository interface {
	// CreateProperty создает запись объявления и возвращает её ID.
	CreateProperty(ctx context.Context, p models.Property) (int, error)
	// CreatePropertyDetails создает адрес, характеристики и статус в одной транзакции.
	CreatePropertyDetails(ctx context.Context, loc models.Location,
		features []models.FeatureSelection, status models.PropertyStatus) error
	// UpdateStatusState меняет состояние объявления.
	UpdateStatusState(ctx context.Context, propertyID int, state, note string, now time.Time) (int, error)
	// AddImage добавляет постоянное изображение объявления.
	AddImage(ctx context.Context, img models.PropertyImage) (int, error)
	// GetProperty возвращает карточку объявления.
	GetProperty(ctx context.Context, id int) (*models.PropertyCard, error)
	// ListPublished возвращает опубликованные объявления по фильтру.
	ListPublished(ctx context.Context, filter models.ListingFilter) ([]*models.PropertyCard, error)
}

// ImageStore определяет операции хранилища изображений, нужные публикации.
type ImageStore interface {
	// MoveToPermanent переносит временный объект в постоянный префикс объявления.
	MoveToPermanent(ctx context.Context, handle string, propertyID int) (string, error)
}

// MailPublisher отправляет почтовое событие в очередь уведомлений.
type MailPublisher interface {
	Publish(event models.MailEvent) error
}

// UserProvider возвращает пользователя для письма о публикации.
type UserProvider interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// PublishService превращает готовый черновик в опубликованное объявление
// и отдаёт витрину опубликованных объявлений.
type PublishService struct {
	drafts DraftProvider
	quota  QuotaProvider
	repo   PropertyRepository
	images ImageStore
	mail   MailPublisher
	users  UserProvider
	clock  clock.Clock
	log    *slog.Logger
}

// NewPublishService создает новый экземпляр PublishService.
func NewPublishService(drafts DraftProvider, q QuotaProvider, repo PropertyRepository,
	images ImageStore, mail MailPublisher, users UserProvider,
	clk clock.Clock, log *slog.Logger) *PublishService {
	return &PublishService{
		drafts: drafts,
		quota:  q,
		repo:   repo,
		images: images,
		mail:   mail,
		users:  users,
		clock:  clk,
		log:    log,
	}
}

// PublishResult — итог публикации. Note непустая, когда объявление создано,
// но осталось в состоянии draft из-за сбоя на поздней стадии.
type PublishResult struct {
	PropertyID int    `json:"property_id"`
	Note       string `json:"note,omitempty"`
}

// Publish проводит черновик через рабочий процесс публикации: проверка
// квоты, создание объявления и его зависимых записей, запись в журнал
// публикаций, перенос изображений и удаление черновика. После создания
// записи объявления процесс не откатывается: при сбое учёта квоты
// объявление возвращается в состояние draft, но его ID всё равно
// отдается вызывающему.
func (s *PublishService) Publish(ctx context.Context, draftID, userUID, username string) (*PublishResult, error) {
	const op = "services.publish.Publish"

	draft, err := s.drafts.GetForOwner(ctx, draftID, userUID)
	if err != nil {
		return nil, err
	}

	var payload models.DraftPayload
	if err := json.Unmarshal(draft.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	state, err := s.quota.State(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if !state.CanPublish {
		return nil, quota.ErrQuotaExceeded
	}

	_, plan, err := s.quota.ActiveSubscription(ctx, userUID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	propertyID, err := s.repo.CreateProperty(ctx, models.Property{
		UserUID:     userUID,
		Title:       payload.Title,
		Description: payload.Description,
		Operation:   payload.Operation,
		Category:    payload.Category,
		Price:       payload.Price,
		Currency:    payload.Currency,
		Rooms:       payload.Rooms,
		Bathrooms:   payload.Bathrooms,
		TotalArea:   payload.TotalArea,
		CoveredArea: payload.CoveredArea,
		AgeYears:    payload.AgeYears,
		IsNew:       payload.IsNew,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	features := make([]models.FeatureSelection, 0, len(payload.FeatureIDs))
	for _, fid := range payload.FeatureIDs {
		features = append(features, models.FeatureSelection{
			PropertyID: propertyID,
			FeatureID:  fid,
			Value:      "true",
		})
	}
	err = s.repo.CreatePropertyDetails(ctx,
		models.Location{
			PropertyID:   propertyID,
			Province:     payload.Province,
			City:         payload.City,
			Street:       payload.Street,
			StreetNumber: payload.StreetNumber,
		},
		features,
		models.PropertyStatus{
			PropertyID: propertyID,
			State:      models.StatePublished,
			Note:       "published",
			UpdatedAt:  now,
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.quota.RegisterPublication(ctx, userUID, propertyID, plan.ID); err != nil {
		s.log.Warn("failed to register publication, demoting listing to draft",
			slog.Int("property_id", propertyID), slog.Any("err", err))
		if _, derr := s.repo.UpdateStatusState(ctx, propertyID, models.StateDraft,
			"publication accounting failed", s.clock.Now()); derr != nil {
			s.log.Error("failed to demote listing state",
				slog.Int("property_id", propertyID), slog.Any("err", derr))
		}
		return &PublishResult{
			PropertyID: propertyID,
			Note:       "listing created but not published, try publishing again later",
		}, nil
	}

	for i, handle := range payload.PendingImages {
		permanent, merr := s.images.MoveToPermanent(ctx, handle, propertyID)
		if merr != nil {
			s.log.Warn("failed to move image to permanent storage",
				slog.String("handle", handle), slog.Any("err", merr))
			continue
		}
		if _, merr := s.repo.AddImage(ctx, models.PropertyImage{
			PropertyID: propertyID,
			Path:       permanent,
			Position:   i,
		}); merr != nil {
			s.log.Warn("failed to attach image to listing",
				slog.String("path", permanent), slog.Any("err", merr))
		}
	}

	if err := s.drafts.Delete(ctx, draftID, userUID); err != nil {
		s.log.Warn("failed to delete draft after publication",
			slog.String("draft_id", draftID), slog.Any("err", err))
	}

	s.notifyPublished(ctx, username, payload.Title)

	s.log.Info("listing published",
		slog.Int("property_id", propertyID),
		slog.String("user_uid", userUID))
	return &PublishResult{PropertyID: propertyID}, nil
}

// Get возвращает карточку объявления.
func (s *PublishService) Get(ctx context.Context, id int) (*models.PropertyCard, error) {
	return s.repo.GetProperty(ctx, id)
}

// List возвращает опубликованные объявления по фильтру витрины.
func (s *PublishService) List(ctx context.Context, filter models.ListingFilter) ([]*models.PropertyCard, error) {
	return s.repo.ListPublished(ctx, filter)
}

// notifyPublished ставит письмо об успешной публикации в очередь.
// Сбой здесь никогда не срывает публикацию.
func (s *PublishService) notifyPublished(ctx context.Context, username, title string) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		s.log.Warn("failed to load user for publication mail", slog.Any("err", err))
		return
	}
	event := models.MailEvent{
		Kind:     models.MailPublished,
		Email:    user.Email,
		Username: user.Username,
		Title:    title,
	}
	if err := s.mail.Publish(event); err != nil {
		s.log.Warn("failed to enqueue publication mail", slog.Any("err", err))
	}
}

// validatePayload проверяет, что черновик дошёл до состояния, пригодного
// для публикации.
func validatePayload(p models.DraftPayload) error {
	switch {
	case p.Title == "",
		p.Operation == "",
		p.Category == "",
		p.Price <= 0,
		p.Province == "",
		p.City == "":
		return ErrIncompleteDraft
	}
	return nil
}
