// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stepanenkodv/realty-board/internal/lib/clock"
	"github.com/stepanenkodv/realty-board/internal/lib/googleid"
	"github.com/stepanenkodv/realty-board/internal/lib/jwt"
	"github.com/stepanenkodv/realty-board/internal/lib/password"
	"github.com/stepanenkodv/realty-board/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken возвращается для неизвестного или просроченного токена
// подтверждения почты либо сброса пароля.
var ErrInvalidToken = errors.New("invalid or expired token")

// Срок действия токенов подтверждения почты и сброса пароля.
const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = time.Hour
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByGoogleID возвращает пользователя по идентификатору Google-аккаунта.
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	// MarkEmailVerified подтверждает почту по токену и возвращает число обновлённых строк.
	MarkEmailVerified(ctx context.Context, token string, now time.Time) (int, error)
	// SetResetToken сохраняет токен сброса пароля для почты.
	SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) error
	// ResetPassword меняет пароль по токену сброса и возвращает число обновлённых строк.
	ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) (int, error)
	// TouchLastSeen обновляет отметку последней активности пользователя.
	TouchLastSeen(ctx context.Context, userUID string, now time.Time) error
}

// GoogleVerifier проверяет Google ID-токен.
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (*googleid.Claims, error)
}

// MailPublisher отправляет почтовое событие в очередь уведомлений.
type MailPublisher interface {
	Publish(event models.MailEvent) error
}

// AuthService отвечает за регистрацию, вход по паролю и через Google,
// подтверждение почты, сброс пароля и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	google   GoogleVerifier
	mail     MailPublisher
	clock    clock.Clock
	baseURL  string
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, google GoogleVerifier,
	mail MailPublisher, clk clock.Clock, baseURL string, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		google:   google,
		mail:     mail,
		clock:    clk,
		baseURL:  baseURL,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью "user" и ставит в очередь письмо с подтверждением почты.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token := uuid.NewString()
	expiresAt := s.clock.Now().Add(verifyTokenTTL)
	user := models.User{
		Email:           req.Email,
		Username:        req.Username,
		PasswordHash:    hashed,
		Role:            "user", // дефолтная роль при регистрации
		VerifyToken:     &token,
		VerifyExpiresAt: &expiresAt,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.enqueueMail(models.MailEvent{
		Kind:     models.MailVerify,
		Email:    req.Email,
		Username: req.Username,
		Link:     s.baseURL + "/auth/verify?token=" + token,
	})
	s.log.Info("user registered", slog.String("username", req.Username))
	return uid, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	// У пользователей Google нет локального пароля.
	if user.PasswordHash == "" {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.TouchLastSeen(ctx, user.UID, s.clock.Now()); err != nil {
		s.log.Warn("failed to touch last seen", slog.Any("err", err))
	}
	return token, user.Role, nil
}

// GoogleLogin проверяет Google ID-токен и входит существующим пользователем
// либо регистрирует нового с уже подтверждённой почтой.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (token, role string, err error) {
	const op = "services.auth.GoogleLogin"

	claims, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	user, err := s.users.GetUserByGoogleID(ctx, claims.Sub)
	if err != nil {
		user, err = s.registerGoogleUser(ctx, claims)
		if err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
	}

	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.TouchLastSeen(ctx, user.UID, s.clock.Now()); err != nil {
		s.log.Warn("failed to touch last seen", slog.Any("err", err))
	}
	return token, user.Role, nil
}

// VerifyEmail подтверждает почту по токену из письма.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	const op = "services.auth.VerifyEmail"

	n, err := s.users.MarkEmailVerified(ctx, token, s.clock.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrInvalidToken
	}
	return nil
}

// RequestPasswordReset сохраняет токен сброса и ставит письмо в очередь.
// Для неизвестной почты ошибка не возвращается, чтобы не раскрывать
// существование аккаунта.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	token := uuid.NewString()
	err := s.users.SetResetToken(ctx, email, token, s.clock.Now().Add(resetTokenTTL))
	if err != nil {
		s.log.Warn("failed to set reset token", slog.Any("err", err))
		return nil
	}

	s.enqueueMail(models.MailEvent{
		Kind:  models.MailReset,
		Email: email,
		Link:  s.baseURL + "/auth/reset?token=" + token,
	})
	return nil
}

// ResetPassword меняет пароль по токену из письма.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "services.auth.ResetPassword"

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := s.users.ResetPassword(ctx, token, hashed, s.clock.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrInvalidToken
	}
	return nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе, роль и признак валидности.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, string, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, "", false, err
	}
	user := &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.UserUID,
	}
	return user, claims.Role, true, nil
}

func (s *AuthService) registerGoogleUser(ctx context.Context, claims *googleid.Claims) (*models.User, error) {
	username := claims.Name
	if username == "" {
		username = claims.Email
	}
	username = strings.ToLower(strings.ReplaceAll(username, " ", "."))

	googleID := claims.Sub
	user := models.User{
		Email:         claims.Email,
		Username:      username,
		Role:          "user",
		GoogleID:      &googleID,
		EmailVerified: true, // почта уже подтверждена Google
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.UID = uid
	return &user, nil
}

func (s *AuthService) enqueueMail(event models.MailEvent) {
	if err := s.mail.Publish(event); err != nil {
		s.log.Warn("failed to enqueue mail event",
			slog.String("kind", event.Kind), slog.Any("err", err))
	}
}
