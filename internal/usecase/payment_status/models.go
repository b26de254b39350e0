package payment_status

import (
	"time"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

// Options настройки опроса статуса оплаты
type Options struct {
	PollInterval        time.Duration
	DirectRedirectDelay time.Duration
	PolledRedirectDelay time.Duration
	RedirectTo          string

	// MaxLifetime ограничивает время опроса, 0 означает без ограничения
	MaxLifetime time.Duration
}

// DefaultOptions настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		PollInterval:        domain.DefaultPollInterval,
		DirectRedirectDelay: domain.DefaultDirectRedirectDelay,
		PolledRedirectDelay: domain.DefaultPolledRedirectDelay,
		RedirectTo:          domain.DefaultRedirectTarget,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PollInterval <= 0 {
		o.PollInterval = def.PollInterval
	}
	if o.DirectRedirectDelay <= 0 {
		o.DirectRedirectDelay = def.DirectRedirectDelay
	}
	if o.PolledRedirectDelay <= 0 {
		o.PolledRedirectDelay = def.PolledRedirectDelay
	}
	if o.RedirectTo == "" {
		o.RedirectTo = def.RedirectTo
	}
	return o
}

// Redirect запланированный переход после успешной оплаты
type Redirect struct {
	To    string    `json:"to"`
	At    time.Time `json:"at"`
	Fired bool      `json:"fired"`
}

// Snapshot состояние оплаты бронирования
type Snapshot struct {
	BookingID string               `json:"bookingId"`
	Status    domain.BookingStatus `json:"status"`
	Error     string               `json:"error,omitempty"`
	Polling   bool                 `json:"polling"`
	Redirect  *Redirect            `json:"redirect,omitempty"`
	UpdatedAt time.Time            `json:"updatedAt"`
}
