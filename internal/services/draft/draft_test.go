package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stepanenkodv/realty-board/internal/lib/clock"
	"github.com/stepanenkodv/realty-board/internal/models"
	"github.com/stepanenkodv/realty-board/internal/storage/repository"
)

// MockRepo реализует интерфейс DraftRepository
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateDraft(ctx context.Context, draft models.PropertyDraft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockRepo) GetDraft(ctx context.Context, id string) (*models.PropertyDraft, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.PropertyDraft), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) UpdateDraft(ctx context.Context, id string, payload json.RawMessage, step int, now time.Time) (int, error) {
	args := m.Called(ctx, id, payload, step, now)
	return args.Int(0), args.Error(1)
}

func (m *MockRepo) DeleteDraft(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepo) DeleteDraftsOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestCreate_StartsAtFirstStep(t *testing.T) {
	repo := new(MockRepo)
	repo.On("CreateDraft", mock.Anything, mock.MatchedBy(func(d models.PropertyDraft) bool {
		return d.UserUID == "uid-1" &&
			d.Step == models.DraftStepDetails &&
			d.UpdatedAt.Equal(testNow)
	})).Return(nil)

	svc := NewDraftService(repo, clock.Fixed{T: testNow}, noopLogger())

	id, err := svc.Create(context.Background(), "uid-1")
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "draft id must be a uuid")
	repo.AssertExpectations(t)
}

func TestGetForOwner(t *testing.T) {
	tests := []struct {
		name      string
		userUID   string
		setupMock func(*MockRepo)
		wantErr   error
	}{
		{
			name:    "владелец получает свой черновик",
			userUID: "uid-1",
			setupMock: func(m *MockRepo) {
				m.On("GetDraft", mock.Anything, "d-1").
					Return(&models.PropertyDraft{ID: "d-1", UserUID: "uid-1"}, nil)
			},
		},
		{
			name:    "чужой черновик недоступен",
			userUID: "uid-2",
			setupMock: func(m *MockRepo) {
				m.On("GetDraft", mock.Anything, "d-1").
					Return(&models.PropertyDraft{ID: "d-1", UserUID: "uid-1"}, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:    "несуществующий черновик",
			userUID: "uid-1",
			setupMock: func(m *MockRepo) {
				m.On("GetDraft", mock.Anything, "d-1").
					Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepo)
			tt.setupMock(repo)

			svc := NewDraftService(repo, clock.Fixed{T: testNow}, noopLogger())

			draft, err := svc.GetForOwner(context.Background(), "d-1", tt.userUID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, draft)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "d-1", draft.ID)
		})
	}
}

func TestUpdate_OverwritesWholeDocument(t *testing.T) {
	payload := json.RawMessage(`{"title":"Дом у озера","step_data":{}}`)
	repo := new(MockRepo)
	repo.On("GetDraft", mock.Anything, "d-1").
		Return(&models.PropertyDraft{ID: "d-1", UserUID: "uid-1", Step: models.DraftStepFeatures}, nil)
	repo.On("UpdateDraft", mock.Anything, "d-1", payload, models.DraftStepLocation, testNow).
		Return(1, nil)

	svc := NewDraftService(repo, clock.Fixed{T: testNow}, noopLogger())

	// Возврат на более ранний шаг допустим.
	err := svc.Update(context.Background(), "d-1", "uid-1", models.DummyDraftUpdate{
		Payload: payload,
		Step:    models.DraftStepLocation,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDelete_Idempotent(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetDraft", mock.Anything, "d-1").Return(nil, repository.ErrNotFound)

	svc := NewDraftService(repo, clock.Fixed{T: testNow}, noopLogger())

	err := svc.Delete(context.Background(), "d-1", "uid-1")
	assert.NoError(t, err, "deleting a missing draft is not an error")
	repo.AssertNotCalled(t, "DeleteDraft", mock.Anything, mock.Anything)
}

func TestDelete_ForeignDraft(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetDraft", mock.Anything, "d-1").
		Return(&models.PropertyDraft{ID: "d-1", UserUID: "uid-1"}, nil)

	svc := NewDraftService(repo, clock.Fixed{T: testNow}, noopLogger())

	err := svc.Delete(context.Background(), "d-1", "uid-2")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSweepOlderThan_CutoffFromClock(t *testing.T) {
	maxAge := 30 * 24 * time.Hour
	repo := new(MockRepo)
	repo.On("DeleteDraftsOlderThan", mock.Anything, testNow.Add(-maxAge)).Return(3, nil)

	svc := NewDraftService(repo, clock.Fixed{T: testNow}, noopLogger())

	n, err := svc.SweepOlderThan(context.Background(), maxAge)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	repo.AssertExpectations(t)
}
