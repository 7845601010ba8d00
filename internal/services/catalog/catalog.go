// Package services содержит бизнес-логику справочника характеристик с кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stepanenkodv/realty-board/internal/models"
)

// FeatureRepository определяет методы хранилища справочника характеристик.
type FeatureRepository interface {
	// ListFeaturesForScopes возвращает определения характеристик указанных областей.
	ListFeaturesForScopes(ctx context.Context, scopes []string) ([]*models.FeatureDefinition, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// CatalogService отдает справочник характеристик, подрезанный под категорию
// объявления. Справочник меняется редко, поэтому ответы кешируются.
type CatalogService struct {
	repo  FeatureRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo FeatureRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// FeaturesForCategory возвращает характеристики, применимые к категории:
// для земельных участков области all и field, для остальных all и urban.
func (s *CatalogService) FeaturesForCategory(ctx context.Context, category string) ([]*models.FeatureDefinition, error) {
	const op = "services.catalog.FeaturesForCategory"

	scopes := models.ScopesForCategory(category)
	cacheKey := fmt.Sprintf("features:%s", category)

	var cached []*models.FeatureDefinition
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read features from cache",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	features, err := s.repo.ListFeaturesForScopes(ctx, scopes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey, features, time.Hour); err != nil {
		s.log.Warn("failed to cache features",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	return features, nil
}
