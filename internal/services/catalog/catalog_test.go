package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stepanenkodv/realty-board/internal/models"
)

// MockRepo реализует интерфейс FeatureRepository
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) ListFeaturesForScopes(ctx context.Context, scopes []string) ([]*models.FeatureDefinition, error) {
	args := m.Called(ctx, scopes)
	if res := args.Get(0); res != nil {
		return res.([]*models.FeatureDefinition), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCache реализует интерфейс Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFeaturesForCategory_ScopeSelection(t *testing.T) {
	tests := []struct {
		name       string
		category   string
		wantScopes []string
	}{
		{
			name:       "городская категория видит all и urban",
			category:   models.CategoryApartment,
			wantScopes: []string{models.ScopeAll, models.ScopeUrban},
		},
		{
			name:       "дом видит all и urban",
			category:   models.CategoryHouse,
			wantScopes: []string{models.ScopeAll, models.ScopeUrban},
		},
		{
			name:       "полевой участок видит all и field",
			category:   models.CategoryField,
			wantScopes: []string{models.ScopeAll, models.ScopeField},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			features := []*models.FeatureDefinition{{ID: 1, Key: "garage"}}
			repo := new(MockRepo)
			repo.On("ListFeaturesForScopes", mock.Anything, tt.wantScopes).Return(features, nil)

			cache := new(MockCache)
			cache.On("Get", "features:"+tt.category, mock.Anything).Return(false, nil)
			cache.On("Set", "features:"+tt.category, features, time.Hour).Return(nil)

			svc := NewCatalogService(repo, cache, noopLogger())

			got, err := svc.FeaturesForCategory(context.Background(), tt.category)
			require.NoError(t, err)
			assert.Equal(t, features, got)
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestFeaturesForCategory_CacheHit(t *testing.T) {
	repo := new(MockRepo)
	cache := new(MockCache)
	cache.On("Get", "features:apartment", mock.Anything).Return(true, nil)

	svc := NewCatalogService(repo, cache, noopLogger())

	_, err := svc.FeaturesForCategory(context.Background(), models.CategoryApartment)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "ListFeaturesForScopes", mock.Anything, mock.Anything)
}

func TestFeaturesForCategory_CacheErrorFallsThrough(t *testing.T) {
	features := []*models.FeatureDefinition{{ID: 2, Key: "fenced"}}
	repo := new(MockRepo)
	repo.On("ListFeaturesForScopes", mock.Anything, mock.Anything).Return(features, nil)

	cache := new(MockCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(false, assert.AnError)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewCatalogService(repo, cache, noopLogger())

	got, err := svc.FeaturesForCategory(context.Background(), models.CategoryField)
	require.NoError(t, err)
	assert.Equal(t, features, got)
}
