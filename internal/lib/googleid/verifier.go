// Package googleid проверяет Google ID-токены для входа через Google-аккаунт.
package googleid

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Claims — поля Google-аккаунта, нужные для входа.
type Claims struct {
	Sub   string // Стабильный идентификатор аккаунта
	Email string
	Name  string
}

// Verifier проверяет подпись и аудиторию ID-токена.
type Verifier struct {
	clientID string
}

// NewVerifier создает Verifier для клиентского ID приложения.
func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID}
}

// Verify валидирует токен и возвращает его claims.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	const op = "googleid.Verify"

	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	claims := &Claims{Sub: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		claims.Name = name
	}
	return claims, nil
}
