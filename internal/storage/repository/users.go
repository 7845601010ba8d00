package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stepanenkodv/realty-board/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role, google_id,
			      email_verified, verify_token, verify_expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role, user.GoogleID,
		user.EmailVerified, user.VerifyToken, user.VerifyExpiresAt).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

const userColumns = `uid, email, username, password_hash, role, google_id,
			      email_verified, verify_token, verify_expires_at,
			      reset_token, reset_expires_at, last_seen_at, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var googleID, verifyToken, resetToken sql.NullString
	var verifyExpires, resetExpires, lastSeen sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&googleID, &u.EmailVerified, &verifyToken, &verifyExpires,
		&resetToken, &resetExpires, &lastSeen, &u.CreatedAt); err != nil {
		return nil, err
	}
	if googleID.Valid {
		u.GoogleID = &googleID.String
	}
	if verifyToken.Valid {
		u.VerifyToken = &verifyToken.String
	}
	if verifyExpires.Valid {
		u.VerifyExpiresAt = &verifyExpires.Time
	}
	if resetToken.Valid {
		u.ResetToken = &resetToken.String
	}
	if resetExpires.Valid {
		u.ResetExpiresAt = &resetExpires.Time
	}
	if lastSeen.Valid {
		u.LastSeenAt = &lastSeen.Time
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по его почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByGoogleID возвращает пользователя по идентификатору Google-аккаунта.
func (s *Storage) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	const op = "storage.GetUserByGoogleID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, googleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// MarkEmailVerified подтверждает почту по токену подтверждения
// и возвращает количество обновлённых строк.
func (s *Storage) MarkEmailVerified(ctx context.Context, token string, now time.Time) (int, error) {
	const op = "storage.MarkEmailVerified"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET email_verified = true, verify_token = NULL, verify_expires_at = NULL
			  WHERE verify_token = $1 AND verify_expires_at > $2`
	result, err := s.DB.ExecContext(ctx, query, token, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetResetToken сохраняет токен сброса пароля и срок его действия.
func (s *Storage) SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	const op = "storage.SetResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET reset_token = $1, reset_expires_at = $2
			  WHERE email = $3`
	_, err := s.DB.ExecContext(ctx, query, token, expiresAt, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetPassword меняет хэш пароля по действующему токену сброса
// и возвращает количество обновлённых строк.
func (s *Storage) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) (int, error) {
	const op = "storage.ResetPassword"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1, reset_token = NULL, reset_expires_at = NULL
			  WHERE reset_token = $2 AND reset_expires_at > $3`
	result, err := s.DB.ExecContext(ctx, query, passwordHash, token, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// TouchLastSeen обновляет отметку последней активности пользователя.
func (s *Storage) TouchLastSeen(ctx context.Context, userUID string, now time.Time) error {
	const op = "storage.TouchLastSeen"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET last_seen_at = $1 WHERE uid = $2`
	_, err := s.DB.ExecContext(ctx, query, now, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
