package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stepanenkodv/realty-board/internal/lib/clock"
	"github.com/stepanenkodv/realty-board/internal/models"
	quota "github.com/stepanenkodv/realty-board/internal/services/quota"
)

// MockDrafts реализует интерфейс DraftProvider
type MockDrafts struct {
	mock.Mock
}

func (m *MockDrafts) GetForOwner(ctx context.Context, id, userUID string) (*models.PropertyDraft, error) {
	args := m.Called(ctx, id, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.PropertyDraft), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDrafts) Delete(ctx context.Context, id, userUID string) error {
	args := m.Called(ctx, id, userUID)
	return args.Error(0)
}

// MockQuota реализует интерфейс QuotaProvider
type MockQuota struct {
	mock.Mock
}

func (m *MockQuota) State(ctx context.Context, userUID string) (*models.QuotaState, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.QuotaState), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuota) ActiveSubscription(ctx context.Context, userUID string) (*models.UserSubscription, *models.SubscriptionPlan, error) {
	args := m.Called(ctx, userUID)
	var sub *models.UserSubscription
	var plan *models.SubscriptionPlan
	if res := args.Get(0); res != nil {
		sub = res.(*models.UserSubscription)
	}
	if res := args.Get(1); res != nil {
		plan = res.(*models.SubscriptionPlan)
	}
	return sub, plan, args.Error(2)
}

func (m *MockQuota) RegisterPublication(ctx context.Context, userUID string, propertyID, planID int) error {
	args := m.Called(ctx, userUID, propertyID, planID)
	return args.Error(0)
}

// MockPropertyRepo реализует интерфейс PropertyRepository
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) CreateProperty(ctx context.Context, p models.Property) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}

func (m *MockPropertyRepo) CreatePropertyDetails(ctx context.Context, loc models.Location,
	features []models.FeatureSelection, status models.PropertyStatus) error {
	args := m.Called(ctx, loc, features, status)
	return args.Error(0)
}

func (m *MockPropertyRepo) UpdateStatusState(ctx context.Context, propertyID int, state, note string, now time.Time) (int, error) {
	args := m.Called(ctx, propertyID, state, note, now)
	return args.Int(0), args.Error(1)
}

func (m *MockPropertyRepo) AddImage(ctx context.Context, img models.PropertyImage) (int, error) {
	args := m.Called(ctx, img)
	return args.Int(0), args.Error(1)
}

func (m *MockPropertyRepo) GetProperty(ctx context.Context, id int) (*models.PropertyCard, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.PropertyCard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPropertyRepo) ListPublished(ctx context.Context, filter models.ListingFilter) ([]*models.PropertyCard, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]*models.PropertyCard), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockImages реализует интерфейс ImageStore
type MockImages struct {
	mock.Mock
}

func (m *MockImages) MoveToPermanent(ctx context.Context, handle string, propertyID int) (string, error) {
	args := m.Called(ctx, handle, propertyID)
	return args.String(0), args.Error(1)
}

// MockMail реализует интерфейс MailPublisher
type MockMail struct {
	mock.Mock
}

func (m *MockMail) Publish(event models.MailEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockUsers реализует интерфейс UserProvider
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func completePayload(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(models.DraftPayload{
		Title:         "Квартира в центре",
		Operation:     models.OperationSale,
		Category:      models.CategoryApartment,
		Price:         12000000,
		Currency:      "USD",
		Province:      "Cordoba",
		City:          "Cordoba",
		Street:        "San Martin",
		StreetNumber:  "120",
		Rooms:         3,
		FeatureIDs:    []int{1, 5},
		PendingImages: []string{"tmp/a.jpg", "tmp/b.jpg"},
	})
	require.NoError(t, err)
	return raw
}

type fixture struct {
	drafts *MockDrafts
	quota  *MockQuota
	repo   *MockPropertyRepo
	images *MockImages
	mail   *MockMail
	users  *MockUsers
	svc    *PublishService
}

func newFixture() *fixture {
	f := &fixture{
		drafts: new(MockDrafts),
		quota:  new(MockQuota),
		repo:   new(MockPropertyRepo),
		images: new(MockImages),
		mail:   new(MockMail),
		users:  new(MockUsers),
	}
	f.svc = NewPublishService(f.drafts, f.quota, f.repo, f.images, f.mail, f.users,
		clock.Fixed{T: testNow}, noopLogger())
	return f
}

func TestPublish_HappyPath(t *testing.T) {
	f := newFixture()
	f.drafts.On("GetForOwner", mock.Anything, "d-1", "uid-1").
		Return(&models.PropertyDraft{ID: "d-1", UserUID: "uid-1", Payload: completePayload(t)}, nil)
	f.quota.On("State", mock.Anything, "uid-1").
		Return(&models.QuotaState{CanPublish: true, Remaining: 2}, nil)
	f.quota.On("ActiveSubscription", mock.Anything, "uid-1").
		Return(&models.UserSubscription{ID: 1, PlanID: 2}, &models.SubscriptionPlan{ID: 2}, nil)
	f.repo.On("CreateProperty", mock.Anything, mock.MatchedBy(func(p models.Property) bool {
		return p.UserUID == "uid-1" && p.Title == "Квартира в центре" && p.CreatedAt.Equal(testNow)
	})).Return(42, nil)
	f.repo.On("CreatePropertyDetails", mock.Anything,
		mock.MatchedBy(func(loc models.Location) bool {
			return loc.PropertyID == 42 && loc.City == "Cordoba"
		}),
		mock.MatchedBy(func(features []models.FeatureSelection) bool {
			return len(features) == 2 && features[0].FeatureID == 1
		}),
		mock.MatchedBy(func(status models.PropertyStatus) bool {
			return status.State == models.StatePublished
		})).Return(nil)
	f.quota.On("RegisterPublication", mock.Anything, "uid-1", 42, 2).Return(nil)
	f.images.On("MoveToPermanent", mock.Anything, "tmp/a.jpg", 42).Return("property/42/a.jpg", nil)
	f.images.On("MoveToPermanent", mock.Anything, "tmp/b.jpg", 42).Return("property/42/b.jpg", nil)
	f.repo.On("AddImage", mock.Anything, mock.AnythingOfType("models.PropertyImage")).Return(1, nil).Twice()
	f.drafts.On("Delete", mock.Anything, "d-1", "uid-1").Return(nil)
	f.users.On("GetUserByUsername", mock.Anything, "ivan").
		Return(&models.User{Username: "ivan", Email: "ivan@example.com"}, nil)
	f.mail.On("Publish", mock.MatchedBy(func(e models.MailEvent) bool {
		return e.Kind == models.MailPublished && e.Email == "ivan@example.com"
	})).Return(nil)

	result, err := f.svc.Publish(context.Background(), "d-1", "uid-1", "ivan")
	require.NoError(t, err)
	assert.Equal(t, 42, result.PropertyID)
	assert.Empty(t, result.Note)

	f.drafts.AssertExpectations(t)
	f.quota.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.images.AssertExpectations(t)
	f.mail.AssertExpectations(t)
}

func TestPublish_QuotaExceeded(t *testing.T) {
	f := newFixture()
	f.drafts.On("GetForOwner", mock.Anything, "d-1", "uid-1").
		Return(&models.PropertyDraft{ID: "d-1", UserUID: "uid-1", Payload: completePayload(t)}, nil)
	f.quota.On("State", mock.Anything, "uid-1").
		Return(&models.QuotaState{CanPublish: false, Remaining: 0}, nil)

	_, err := f.svc.Publish(context.Background(), "d-1", "uid-1", "ivan")
	assert.ErrorIs(t, err, quota.ErrQuotaExceeded)
	f.repo.AssertNotCalled(t, "CreateProperty", mock.Anything, mock.Anything)
}

func TestPublish_IncompleteDraft(t *testing.T) {
	raw, err := json.Marshal(models.DraftPayload{Title: "Без адреса и цены"})
	require.NoError(t, err)

	f := newFixture()
	f.drafts.On("GetForOwner", mock.Anything, "d-1", "uid-1").
		Return(&models.PropertyDraft{ID: "d-1", UserUID: "uid-1", Payload: raw}, nil)

	_, err = f.svc.Publish(context.Background(), "d-1", "uid-1", "ivan")
	assert.ErrorIs(t, err, ErrIncompleteDraft)
	f.quota.AssertNotCalled(t, "State", mock.Anything, mock.Anything)
}

func TestPublish_NoActiveSubscription(t *testing.T) {
	f := newFixture()
	f.drafts.On("GetForOwner", mock.Anything, "d-1", "uid-1").
		Return(&models.PropertyDraft{ID: "d-1", UserUID: "uid-1", Payload: completePayload(t)}, nil)
	f.quota.On("State", mock.Anything, "uid-1").
		Return(&models.QuotaState{CanPublish: true, Remaining: 1}, nil)
	f.quota.On("ActiveSubscription", mock.Anything, "uid-1").
		Return(nil, nil, quota.ErrNoActiveSubscription)

	_, err := f.svc.Publish(context.Background(), "d-1", "uid-1", "ivan")
	assert.ErrorIs(t, err, quota.ErrNoActiveSubscription)
}

func TestPublish_AccountingFailureDemotesListing(t *testing.T) {
	f := newFixture()
	f.drafts.On("GetForOwner", mock.Anything, "d-1", "uid-1").
		Return(&models.PropertyDraft{ID: "d-1", UserUID: "uid-1", Payload: completePayload(t)}, nil)
	f.quota.On("State", mock.Anything, "uid-1").
		Return(&models.QuotaState{CanPublish: true, Remaining: 1}, nil)
	f.quota.On("ActiveSubscription", mock.Anything, "uid-1").
		Return(&models.UserSubscription{ID: 1, PlanID: 2}, &models.SubscriptionPlan{ID: 2}, nil)
	f.repo.On("CreateProperty", mock.Anything, mock.Anything).Return(42, nil)
	f.repo.On("CreatePropertyDetails", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.quota.On("RegisterPublication", mock.Anything, "uid-1", 42, 2).Return(errors.New("db down"))
	f.repo.On("UpdateStatusState", mock.Anything, 42, models.StateDraft, mock.Anything, testNow).Return(1, nil)

	result, err := f.svc.Publish(context.Background(), "d-1", "uid-1", "ivan")
	require.NoError(t, err, "partial publication is reported, not failed")
	assert.Equal(t, 42, result.PropertyID)
	assert.NotEmpty(t, result.Note)

	// Черновик и изображения не трогаются, объявление осталось в draft.
	f.drafts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	f.images.AssertNotCalled(t, "MoveToPermanent", mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertExpectations(t)
}

func TestPublish_ImageFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.drafts.On("GetForOwner", mock.Anything, "d-1", "uid-1").
		Return(&models.PropertyDraft{ID: "d-1", UserUID: "uid-1", Payload: completePayload(t)}, nil)
	f.quota.On("State", mock.Anything, "uid-1").
		Return(&models.QuotaState{CanPublish: true, Remaining: 1}, nil)
	f.quota.On("ActiveSubscription", mock.Anything, "uid-1").
		Return(&models.UserSubscription{ID: 1, PlanID: 2}, &models.SubscriptionPlan{ID: 2}, nil)
	f.repo.On("CreateProperty", mock.Anything, mock.Anything).Return(42, nil)
	f.repo.On("CreatePropertyDetails", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.quota.On("RegisterPublication", mock.Anything, "uid-1", 42, 2).Return(nil)
	f.images.On("MoveToPermanent", mock.Anything, "tmp/a.jpg", 42).Return("", errors.New("s3 down"))
	f.images.On("MoveToPermanent", mock.Anything, "tmp/b.jpg", 42).Return("property/42/b.jpg", nil)
	f.repo.On("AddImage", mock.Anything, mock.MatchedBy(func(img models.PropertyImage) bool {
		return img.Path == "property/42/b.jpg"
	})).Return(1, nil).Once()
	f.drafts.On("Delete", mock.Anything, "d-1", "uid-1").Return(nil)
	f.users.On("GetUserByUsername", mock.Anything, "ivan").
		Return(&models.User{Username: "ivan", Email: "ivan@example.com"}, nil)
	f.mail.On("Publish", mock.Anything).Return(nil)

	result, err := f.svc.Publish(context.Background(), "d-1", "uid-1", "ivan")
	require.NoError(t, err)
	assert.Equal(t, 42, result.PropertyID)
	f.repo.AssertExpectations(t)
}
