package payment_status

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

type pollerKey struct {
	userID    string
	bookingID string
}

// Registry хранит по одному опросу на пару пользователь и бронирование
type Registry struct {
	bookings BookingService
	journal  Journal
	metrics  Metrics
	logger   Logger
	opts     Options

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pollers map[pollerKey]*Poller
}

// NewRegistry создает реестр опросов. journal и metrics могут быть nil
func NewRegistry(
	bookings BookingService,
	journal Journal,
	metrics Metrics,
	logger Logger,
	opts Options,
) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		bookings: bookings,
		journal:  journal,
		metrics:  metrics,
		logger:   logger,
		opts:     opts.withDefaults(),
		ctx:      ctx,
		cancel:   cancel,
		pollers:  map[pollerKey]*Poller{},
	}
}

// GetOrStart возвращает опрос бронирования, запуская его при необходимости.
// Завершившийся опрос заменяется новым.
func (r *Registry) GetOrStart(sess session.Session, bookingID string) (*Poller, error) {
	if _, err := sess.BearerToken(); err != nil {
		return nil, err
	}

	key := pollerKey{userID: sess.UserID, bookingID: bookingID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx.Err() != nil {
		return nil, ErrStopped
	}

	if p, ok := r.pollers[key]; ok {
		if !p.finished() {
			return p, nil
		}
		p.Stop()
		delete(r.pollers, key)
	}

	p := NewPoller(bookingID, sess, r.bookings, r.journal, r.metrics, r.logger, r.opts, nil)
	if err := p.Start(r.ctx); err != nil {
		return nil, err
	}
	r.pollers[key] = p

	r.logger.Info("GetOrStart: started payment poller for booking id=%s user=%s", bookingID, sess.UserID)
	return p, nil
}

// Get возвращает запущенный опрос бронирования
func (r *Registry) Get(sess session.Session, bookingID string) (*Poller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pollers[pollerKey{userID: sess.UserID, bookingID: bookingID}]
	return p, ok
}

// Release останавливает опрос бронирования и убирает его из реестра
func (r *Registry) Release(sess session.Session, bookingID string) {
	key := pollerKey{userID: sess.UserID, bookingID: bookingID}

	r.mu.Lock()
	p, ok := r.pollers[key]
	delete(r.pollers, key)
	r.mu.Unlock()

	if ok {
		p.Stop()
	}
}

// StopAll останавливает все опросы и ждет завершения их горутин
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	r.cancel()
	pollers := make([]*Poller, 0, len(r.pollers))
	for key, p := range r.pollers {
		pollers = append(pollers, p)
		delete(r.pollers, key)
	}
	r.mu.Unlock()

	for _, p := range pollers {
		p.Stop()
	}
	for _, p := range pollers {
		select {
		case <-p.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.logger.Info("StopAll: stopped %d payment pollers", len(pollers))
	return nil
}
