package middleware

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

// accessTokenParam query-параметр с токеном для websocket: браузер не передает заголовки при апгрейде
const accessTokenParam = "access_token"

// Auth извлекает сессию из заголовка Authorization и кладет ее в контекст.
// Запрос без валидного токена получает 401 до вызова обработчика.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, time.Now())
		if err != nil {
			handlers.RespondUnauthorized(w, session.ErrAuthRequired.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

// GetSession возвращает сессию, положенную middleware Auth
func GetSession(r *http.Request) (session.Session, bool) {
	return session.FromContext(r.Context())
}

func sessionFromRequest(r *http.Request, now time.Time) (session.Session, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		return session.FromBearer(header, now)
	}
	if token := r.URL.Query().Get(accessTokenParam); token != "" {
		return session.FromToken(token, now)
	}
	return session.Session{}, session.ErrAuthRequired
}
