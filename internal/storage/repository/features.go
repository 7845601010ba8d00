package repository

import (
	"context"
	"fmt"

	"github.com/stepanenkodv/realty-board/internal/models"
)

// ListFeaturesForScopes возвращает активные записи справочника характеристик
// для заданных областей применимости, в порядке отображения.
func (s *Storage) ListFeaturesForScopes(ctx context.Context, scopes []string) ([]*models.FeatureDefinition, error) {
	const op = "storage.ListFeaturesForScopes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, key, name, feature_group, scope, display_order, is_active
			  FROM feature_definitions
			  WHERE is_active = true
			    AND scope = ANY($1)
			  ORDER BY display_order`
	rows, err := s.DB.QueryContext(ctx, query, scopes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.FeatureDefinition
	for rows.Next() {
		var f models.FeatureDefinition
		if err := rows.Scan(&f.ID, &f.Key, &f.Name, &f.Group, &f.Scope,
			&f.DisplayOrder, &f.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
