package payment_status

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

const (
	subscriberBuffer = 8
	journalTimeout   = 5 * time.Second
)

// Poller следит за статусом оплаты одного бронирования.
// Опрос идет в отдельной горутине до completed/failed с бэкенда,
// после completed планируется ровно один переход.
type Poller struct {
	bookingID string
	sess      session.Session

	bookings   BookingService
	journal    Journal
	metrics    Metrics
	logger     Logger
	opts       Options
	onRedirect func(Redirect)

	mu          sync.Mutex
	status      domain.BookingStatus
	errMsg      string
	provisional bool
	simulating  bool
	polling     bool
	updatedAt   time.Time

	redirect      *Redirect
	redirectTimer *time.Timer

	subscribers map[int]chan Snapshot
	nextSubID   int

	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPoller создает опрос статуса оплаты бронирования.
// journal, metrics и onRedirect могут быть nil.
func NewPoller(
	bookingID string,
	sess session.Session,
	bookings BookingService,
	journal Journal,
	metrics Metrics,
	logger Logger,
	opts Options,
	onRedirect func(Redirect),
) *Poller {
	return &Poller{
		bookingID:   bookingID,
		sess:        sess,
		bookings:    bookings,
		journal:     journal,
		metrics:     metrics,
		logger:      logger,
		opts:        opts.withDefaults(),
		onRedirect:  onRedirect,
		status:      domain.StatusPending,
		updatedAt:   time.Now(),
		subscribers: map[int]chan Snapshot{},
		done:        make(chan struct{}),
	}
}

// Start запускает опрос. Повторный вызов ничего не делает
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrStopped
	}
	if p.started {
		p.mu.Unlock()
		return nil
	}

	pollCtx, cancel := context.WithCancel(ctx)
	if p.opts.MaxLifetime > 0 {
		var timeoutCancel context.CancelFunc
		pollCtx, timeoutCancel = context.WithTimeout(pollCtx, p.opts.MaxLifetime)
		parentCancel := cancel
		cancel = func() {
			timeoutCancel()
			parentCancel()
		}
	}

	p.started = true
	p.polling = true
	p.cancel = cancel
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.PollerStarted()
	}
	p.logger.Info("payment poller: started for booking id=%s", p.bookingID)

	go p.loop(pollCtx)
	return nil
}

// SimulatePayment имитирует оплату: статус локально становится processing,
// затем бэкенду отправляется completed. При ошибке статус становится failed
// с текстом ошибки, повторной попытки нет.
func (p *Poller) SimulatePayment(ctx context.Context) (Snapshot, error) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return p.Snapshot(), ErrStopped
	}
	if p.status.IsTerminal() {
		p.mu.Unlock()
		return p.Snapshot(), ErrAlreadySettled
	}
	if p.simulating {
		p.mu.Unlock()
		return p.Snapshot(), ErrSimulationInProgress
	}

	p.simulating = true
	event := p.setStatusLocked(domain.StatusProcessing, "", domain.SourceOptimistic)
	p.provisional = true
	p.mu.Unlock()

	p.record(event)

	_, err := p.bookings.UpdateStatus(ctx, p.sess, p.bookingID, domain.StatusCompleted)

	p.mu.Lock()
	p.simulating = false
	p.provisional = false

	if err != nil {
		p.logger.Warn("payment poller: simulate payment failed for booking id=%s: %v", p.bookingID, err)
		// Опрос успел получить итоговый статус с бэкенда
		if p.status.IsTerminal() {
			p.mu.Unlock()
			return p.Snapshot(), err
		}
		event = p.setStatusLocked(domain.StatusFailed, err.Error(), domain.SourceSimulate)
		p.mu.Unlock()

		p.record(event)
		return p.Snapshot(), err
	}

	event = nil
	if p.status != domain.StatusCompleted {
		event = p.setStatusLocked(domain.StatusCompleted, "", domain.SourceSimulate)
		p.scheduleRedirectLocked(p.opts.DirectRedirectDelay)
	}
	p.stopPollingLocked()
	p.mu.Unlock()

	p.record(event)
	return p.Snapshot(), nil
}

// Refresh запрашивает статус у бэкенда вне расписания опроса
func (p *Poller) Refresh(ctx context.Context) (Snapshot, error) {
	booking, err := p.bookings.GetOne(ctx, p.sess, p.bookingID)
	if err != nil {
		return p.Snapshot(), err
	}

	p.mu.Lock()
	event := p.applyPolledLocked(booking.Status)
	p.mu.Unlock()

	p.record(event)
	return p.Snapshot(), nil
}

// Snapshot возвращает текущее состояние оплаты
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Subscribe подписывает на изменения состояния. Первым приходит текущее состояние.
// Канал закрывается при отписке или остановке опроса.
func (p *Poller) Subscribe() (<-chan Snapshot, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Snapshot, subscriberBuffer)
	ch <- p.snapshotLocked()

	if p.stopped {
		close(ch)
		return ch, func() {}
	}

	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if sub, ok := p.subscribers[id]; ok {
				delete(p.subscribers, id)
				close(sub)
			}
		})
	}
	return ch, unsubscribe
}

// Stop останавливает опрос и отменяет запланированный переход.
// Повторный вызов безопасен.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.stopPollingLocked()

	if p.redirectTimer != nil {
		p.redirectTimer.Stop()
	}
	for id, ch := range p.subscribers {
		delete(p.subscribers, id)
		close(ch)
	}

	started := p.started
	p.mu.Unlock()

	// Если опрос не запускался, закрывать done некому
	if !started {
		close(p.done)
	}
	p.logger.Info("payment poller: stopped for booking id=%s", p.bookingID)
}

// Done закрывается, когда горутина опроса завершилась
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// finished сообщает, что опрос закончен, а переход выполнен или не планировался
func (p *Poller) finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return true
	}
	if p.polling || !p.started {
		return false
	}
	return p.redirect == nil || p.redirect.Fired
}

// Вспомогательные методы

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)
	defer func() {
		if p.metrics != nil {
			p.metrics.PollerStopped()
		}
	}()
	defer func() {
		p.mu.Lock()
		p.polling = false
		p.mu.Unlock()
	}()

	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	for {
		if !p.pollOnce(ctx) {
			return
		}

		select {
		case <-ctx.Done():
			p.logger.Info("payment poller: context done for booking id=%s: %v", p.bookingID, ctx.Err())
			return
		case <-ticker.C:
		}
	}
}

// pollOnce запрашивает статус у бэкенда. Возвращает false, если опрос пора прекратить
func (p *Poller) pollOnce(ctx context.Context) bool {
	booking, err := p.bookings.GetOne(ctx, p.sess, p.bookingID)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		if errors.Is(err, session.ErrAuthRequired) {
			p.mu.Lock()
			p.errMsg = err.Error()
			p.notifyLocked()
			p.mu.Unlock()
			p.logger.Warn("payment poller: session rejected for booking id=%s, polling stopped", p.bookingID)
			return false
		}
		p.logger.Warn("payment poller: failed to fetch booking id=%s: %v", p.bookingID, err)
		return true
	}

	p.mu.Lock()
	event := p.applyPolledLocked(booking.Status)
	keepPolling := p.polling && !p.stopped
	p.mu.Unlock()

	p.record(event)
	return keepPolling
}

// applyPolledLocked применяет статус с бэкенда.
// Ответ опроса важнее локальной записи processing. Локальный failed
// меняется только на completed или failed с бэкенда.
func (p *Poller) applyPolledLocked(server domain.BookingStatus) *domain.PaymentEvent {
	if !server.IsValid() || p.stopped {
		return nil
	}

	switch {
	case p.status == domain.StatusCompleted:
		p.stopPollingLocked()
		return nil
	case p.status == domain.StatusFailed && !server.IsTerminal():
		return nil
	case server == p.status && !p.provisional:
		if server == domain.StatusFailed {
			p.stopPollingLocked()
		}
		return nil
	}

	p.provisional = false
	event := p.setStatusLocked(server, p.errMsgFor(server), domain.SourcePoll)

	switch server {
	case domain.StatusCompleted:
		p.stopPollingLocked()
		p.scheduleRedirectLocked(p.opts.PolledRedirectDelay)
	case domain.StatusFailed:
		p.stopPollingLocked()
	}

	return event
}

func (p *Poller) errMsgFor(status domain.BookingStatus) string {
	if status == domain.StatusFailed {
		return p.errMsg
	}
	return ""
}

// setStatusLocked меняет статус и уведомляет подписчиков.
// Возвращает событие для журнала или nil, если статус не изменился.
func (p *Poller) setStatusLocked(status domain.BookingStatus, errMsg string, source domain.PaymentEventSource) *domain.PaymentEvent {
	changed := p.status != status || p.errMsg != errMsg
	p.status = status
	p.errMsg = errMsg
	p.updatedAt = time.Now()

	if !changed {
		return nil
	}
	p.notifyLocked()

	event := &domain.PaymentEvent{
		BookingID: p.bookingID,
		UserID:    p.sess.UserID,
		Status:    status,
		Source:    source,
	}
	if errMsg != "" {
		msg := errMsg
		event.Message = &msg
	}
	return event
}

// scheduleRedirectLocked планирует переход. Повторные вызовы игнорируются
func (p *Poller) scheduleRedirectLocked(delay time.Duration) {
	if p.redirect != nil || p.stopped {
		return
	}

	p.redirect = &Redirect{
		To: p.opts.RedirectTo,
		At: time.Now().Add(delay),
	}
	p.notifyLocked()
	p.redirectTimer = time.AfterFunc(delay, p.fireRedirect)
}

func (p *Poller) fireRedirect() {
	p.mu.Lock()
	if p.stopped || p.redirect == nil || p.redirect.Fired {
		p.mu.Unlock()
		return
	}
	p.redirect.Fired = true
	redirect := *p.redirect
	p.notifyLocked()
	p.mu.Unlock()

	p.logger.Info("payment poller: redirecting booking id=%s to %s", p.bookingID, redirect.To)
	if p.onRedirect != nil {
		p.onRedirect(redirect)
	}
}

func (p *Poller) stopPollingLocked() {
	if p.cancel != nil {
		p.cancel()
	}
	p.polling = false
}

func (p *Poller) snapshotLocked() Snapshot {
	s := Snapshot{
		BookingID: p.bookingID,
		Status:    p.status,
		Error:     p.errMsg,
		Polling:   p.polling,
		UpdatedAt: p.updatedAt,
	}
	if p.redirect != nil {
		r := *p.redirect
		s.Redirect = &r
	}
	return s
}

// notifyLocked рассылает состояние подписчикам без блокировки.
// Медленный подписчик пропускает промежуточные состояния.
func (p *Poller) notifyLocked() {
	snapshot := p.snapshotLocked()
	for _, ch := range p.subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// record пишет событие в журнал и метрики
func (p *Poller) record(event *domain.PaymentEvent) {
	if event == nil {
		return
	}

	if p.metrics != nil {
		p.metrics.PaymentTransition(string(event.Status), string(event.Source))
	}

	if p.journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()
	if err := p.journal.Append(ctx, event); err != nil {
		p.logger.Error("payment poller: failed to journal status=%s for booking id=%s: %v", event.Status, p.bookingID, err)
	}
}
