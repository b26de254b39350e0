package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
)

const (
	msgRateLimited = "слишком много запросов, попробуйте позже"

	limiterIdleTTL = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает число запросов с одного IP
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time

	trusted []*net.IPNet
}

// RateLimiterOption настройка ограничителя
type RateLimiterOption func(*RateLimiter)

// WithTrustedProxies задает подсети прокси, чьим заголовкам X-Forwarded-For
// и X-Real-IP можно верить. Некорректные CIDR пропускаются.
func WithTrustedProxies(cidrs []string) RateLimiterOption {
	return func(l *RateLimiter) {
		for _, cidr := range cidrs {
			if _, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr)); err == nil {
				l.trusted = append(l.trusted, ipNet)
			}
		}
	}
}

// NewRateLimiter создает ограничитель: requestsPerMinute запросов в минуту с запасом burst
func NewRateLimiter(requestsPerMinute, burst int, opts ...RateLimiterOption) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	l := &RateLimiter{
		visitors: map[string]*visitor{},
		limit:    limit,
		burst:    burst,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Middleware отвечает 429, если лимит IP исчерпан
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(l.clientIP(r)) {
			handlers.RespondError(w, http.StatusTooManyRequests, msgRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// clientIP адрес клиента. Заголовки прокси учитываются, только если запрос
// пришел от доверенного прокси; в X-Forwarded-For берется самый правый
// адрес, не принадлежащий доверенным подсетям.
func (l *RateLimiter) clientIP(r *http.Request) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if !l.isTrusted(remote) {
		return remote
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if net.ParseIP(hop) == nil {
				break
			}
			if !l.isTrusted(hop) {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	return remote
}

func (l *RateLimiter) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, ipNet := range l.trusted {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}
