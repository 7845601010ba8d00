package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stepanenkodv/realty-board/internal/models"
)

// CreateProperty вставляет запись объявления и возвращает её ID.
// Первая точка фиксации рабочего процесса публикации.
func (s *Storage) CreateProperty(ctx context.Context, p models.Property) (int, error) {
	const op = "storage.CreateProperty"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO properties (user_uid, title, description, operation, category,
			      price, currency, rooms, bathrooms, total_area, covered_area, age_years, is_new,
			      created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		p.UserUID, p.Title, p.Description, p.Operation, p.Category,
		p.Price, p.Currency, p.Rooms, p.Bathrooms, p.TotalArea,
		p.CoveredArea, p.AgeYears, p.IsNew, p.CreatedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CreatePropertyDetails создаёт зависимые записи объявления — адрес,
// выбранные характеристики и статус — в одной транзакции.
// Вторая точка фиксации рабочего процесса публикации.
func (s *Storage) CreatePropertyDetails(ctx context.Context, loc models.Location,
	features []models.FeatureSelection, status models.PropertyStatus) error {
	const op = "storage.CreatePropertyDetails"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `INSERT INTO property_locations (property_id, province, city, street, street_number)
			  VALUES ($1, $2, $3, $4, $5)`,
		loc.PropertyID, loc.Province, loc.City, loc.Street, loc.StreetNumber)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, f := range features {
		_, err = tx.ExecContext(ctx, `INSERT INTO property_features (property_id, feature_id, value)
				  VALUES ($1, $2, $3)`,
			f.PropertyID, f.FeatureID, f.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO property_statuses (property_id, state, note, updated_at)
			  VALUES ($1, $2, $3, $4)`,
		status.PropertyID, status.State, status.Note, status.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateStatusState меняет состояние объявления с пояснительной заметкой
// и возвращает количество обновлённых строк.
func (s *Storage) UpdateStatusState(ctx context.Context, propertyID int, state, note string, now time.Time) (int, error) {
	const op = "storage.UpdateStatusState"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE property_statuses
			  SET state = $1, note = $2, updated_at = $3
			  WHERE property_id = $4`
	result, err := s.DB.ExecContext(ctx, query, state, note, now, propertyID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// AddImage добавляет постоянное изображение объявления и возвращает его ID.
func (s *Storage) AddImage(ctx context.Context, img models.PropertyImage) (int, error) {
	const op = "storage.AddImage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO property_images (property_id, path, position)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, img.PropertyID, img.Path, img.Position).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetProperty возвращает объявление со связанными адресом, статусом,
// изображениями и характеристиками.
func (s *Storage) GetProperty(ctx context.Context, id int) (*models.PropertyCard, error) {
	const op = "storage.GetProperty"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.user_uid, p.title, p.description, p.operation, p.category,
			      p.price, p.currency, p.rooms, p.bathrooms, p.total_area, p.covered_area,
			      p.age_years, p.is_new, p.created_at,
			      l.province, l.city, l.street, l.street_number,
			      st.state, st.note, st.updated_at
			  FROM properties p
			  JOIN property_locations l ON l.property_id = p.id
			  JOIN property_statuses st ON st.property_id = p.id
			  WHERE p.id = $1`
	var card models.PropertyCard
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&card.Property.ID, &card.Property.UserUID, &card.Property.Title, &card.Property.Description,
		&card.Property.Operation, &card.Property.Category, &card.Property.Price, &card.Property.Currency,
		&card.Property.Rooms, &card.Property.Bathrooms, &card.Property.TotalArea, &card.Property.CoveredArea,
		&card.Property.AgeYears, &card.Property.IsNew, &card.Property.CreatedAt,
		&card.Location.Province, &card.Location.City, &card.Location.Street, &card.Location.StreetNumber,
		&card.Status.State, &card.Status.Note, &card.Status.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	card.Location.PropertyID = card.Property.ID
	card.Status.PropertyID = card.Property.ID

	images, err := s.listImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	card.Images = images

	features, err := s.listFeatureSelections(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	card.Features = features

	return &card, nil
}

func (s *Storage) listImages(ctx context.Context, propertyID int) ([]models.PropertyImage, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, property_id, path, position
			  FROM property_images
			  WHERE property_id = $1
			  ORDER BY position`, propertyID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.PropertyImage
	for rows.Next() {
		var img models.PropertyImage
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.Path, &img.Position); err != nil {
			return nil, err
		}
		result = append(result, img)
	}
	return result, rows.Err()
}

func (s *Storage) listFeatureSelections(ctx context.Context, propertyID int) ([]models.FeatureSelection, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT property_id, feature_id, value
			  FROM property_features
			  WHERE property_id = $1`, propertyID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.FeatureSelection
	for rows.Next() {
		var f models.FeatureSelection
		if err := rows.Scan(&f.PropertyID, &f.FeatureID, &f.Value); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// ListPublished возвращает опубликованные объявления по фильтру витрины
// с пагинацией, свежие первыми.
func (s *Storage) ListPublished(ctx context.Context, filter models.ListingFilter) ([]*models.PropertyCard, error) {
	const op = "storage.ListPublished"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var sb strings.Builder
	sb.WriteString(`SELECT p.id, p.user_uid, p.title, p.description, p.operation, p.category,
			      p.price, p.currency, p.rooms, p.bathrooms, p.total_area, p.covered_area,
			      p.age_years, p.is_new, p.created_at,
			      l.province, l.city, l.street, l.street_number,
			      st.state, st.note, st.updated_at
			  FROM properties p
			  JOIN property_locations l ON l.property_id = p.id
			  JOIN property_statuses st ON st.property_id = p.id
			  WHERE st.state = 'published'`)

	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Operation != "" {
		sb.WriteString(" AND p.operation = " + arg(filter.Operation))
	}
	if filter.Category != "" {
		sb.WriteString(" AND p.category = " + arg(filter.Category))
	}
	if filter.City != "" {
		sb.WriteString(" AND l.city = " + arg(filter.City))
	}
	if filter.PriceMin > 0 {
		sb.WriteString(" AND p.price >= " + arg(filter.PriceMin))
	}
	if filter.PriceMax > 0 {
		sb.WriteString(" AND p.price <= " + arg(filter.PriceMax))
	}
	sb.WriteString(" ORDER BY p.created_at DESC")
	sb.WriteString(" LIMIT " + arg(filter.Limit))
	sb.WriteString(" OFFSET " + arg(filter.Offset))

	rows, err := s.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PropertyCard
	for rows.Next() {
		var card models.PropertyCard
		if err := rows.Scan(
			&card.Property.ID, &card.Property.UserUID, &card.Property.Title, &card.Property.Description,
			&card.Property.Operation, &card.Property.Category, &card.Property.Price, &card.Property.Currency,
			&card.Property.Rooms, &card.Property.Bathrooms, &card.Property.TotalArea, &card.Property.CoveredArea,
			&card.Property.AgeYears, &card.Property.IsNew, &card.Property.CreatedAt,
			&card.Location.Province, &card.Location.City, &card.Location.Street, &card.Location.StreetNumber,
			&card.Status.State, &card.Status.Note, &card.Status.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		card.Location.PropertyID = card.Property.ID
		card.Status.PropertyID = card.Property.ID
		result = append(result, &card)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
