package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrAuthRequired возвращается, когда токена нет или его невозможно разобрать.
// Текст ошибки используется клиентом для редиректа на страницу входа.
var ErrAuthRequired = errors.New("Authentication required")

const bearerPrefix = "bearer "

// Session данные сессии пользователя, полученные из bearer-токена.
// Передается явно в каждый вызов сервисов.
type Session struct {
	Token     string
	UserID    string
	Role      string
	ExpiresAt *time.Time
}

// FromBearer разбирает заголовок Authorization вида "Bearer <token>".
// Подпись не проверяется: токен выпускает внешний сервис авторизации и
// бэкенд проверяет его сам. Здесь извлекаются только клеймы и срок действия.
func FromBearer(header string, now time.Time) (Session, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return Session{}, ErrAuthRequired
	}

	if strings.HasPrefix(strings.ToLower(raw), bearerPrefix) {
		raw = strings.TrimSpace(raw[len(bearerPrefix):])
	}
	if raw == "" {
		return Session{}, ErrAuthRequired
	}

	return FromToken(raw, now)
}

// FromToken разбирает JWT без проверки подписи
func FromToken(token string, now time.Time) (Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("%w: malformed token: %v", ErrAuthRequired, err)
	}

	s := Session{
		Token:  token,
		UserID: claimString(claims, "id"),
		Role:   claimString(claims, "role"),
	}
	if s.UserID == "" {
		s.UserID = claimString(claims, "sub")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Session{}, fmt.Errorf("%w: invalid exp claim: %v", ErrAuthRequired, err)
	}
	if exp != nil {
		expiresAt := exp.Time
		if !now.Before(expiresAt) {
			return Session{}, fmt.Errorf("%w: token expired", ErrAuthRequired)
		}
		s.ExpiresAt = &expiresAt
	}

	return s, nil
}

// BearerToken возвращает токен для заголовка Authorization или ErrAuthRequired
func (s Session) BearerToken() (string, error) {
	if strings.TrimSpace(s.Token) == "" {
		return "", ErrAuthRequired
	}
	return s.Token, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	v, ok := claims[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%.0f", val)
	default:
		return fmt.Sprint(val)
	}
}

type ctxKey struct{}

// WithSession кладет сессию в контекст запроса
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext достает сессию из контекста запроса
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
