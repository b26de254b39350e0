package booking_form

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
	"github.com/m04kA/SMC-CarRentalGateway/pkg/ptr"
)

// UseCase use case формы бронирования: создает контроллеры форм
// и выполняет отправку формы одним запросом
type UseCase struct {
	catalog      CatalogService
	pricing      PricingService
	bookings     BookingService
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalog CatalogService,
	pricing PricingService,
	bookings BookingService,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalog:      catalog,
		pricing:      pricing,
		bookings:     bookings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// NewCreateForm создает пустую форму нового бронирования
func (uc *UseCase) NewCreateForm(sess session.Session) *Form {
	return newForm(uc, ModeCreate, sess)
}

// NewEditForm создает форму переноса, заполненную данными бронирования
func (uc *UseCase) NewEditForm(sess session.Session, booking *domain.Booking) *Form {
	f := newForm(uc, ModeEdit, sess)
	f.bookingID = booking.ID
	f.start = booking.StartDate
	f.end = booking.EndDate
	f.providerID = booking.ProviderID
	f.carID = booking.CarID
	f.promoID = ptr.Deref(booking.PromotionID)
	f.origProviderID = booking.ProviderID
	f.origCarID = booking.CarID
	f.origPromoID = f.promoID
	return f
}

// Create проверяет данные как форма нового бронирования и создает его
func (uc *UseCase) Create(ctx context.Context, sess session.Session, req Request, idempotencyKey string) (*SubmitResult, error) {
	if _, err := sess.BearerToken(); err != nil {
		return nil, err
	}

	f := uc.NewCreateForm(sess)
	f.fill(req)
	if err := uc.prepare(ctx, f, req); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.idempotencyKey = idempotencyKey
	f.mu.Unlock()

	return f.Submit(ctx)
}

// Reschedule проверяет данные как форма переноса и обновляет бронирование
func (uc *UseCase) Reschedule(ctx context.Context, sess session.Session, booking *domain.Booking, req Request) (*SubmitResult, error) {
	if booking == nil || booking.ID == "" {
		return nil, ErrNotEditing
	}

	f := uc.NewEditForm(sess, booking)
	f.fill(req)
	if err := uc.prepare(ctx, f, req); err != nil {
		return nil, err
	}

	return f.Submit(ctx)
}

// prepare загружает листинги провайдера и проверяет, что выбор из них.
// Машина и промоакция редактируемого бронирования у того же провайдера не перепроверяются.
func (uc *UseCase) prepare(ctx context.Context, f *Form, req Request) error {
	if req.ProviderID == "" {
		return nil
	}

	f.mu.Lock()
	f.providerGen++
	gen := f.providerGen
	f.mu.Unlock()

	if err := f.loadListings(ctx, req.ProviderID, gen); err != nil {
		return err
	}

	state := f.State()
	if req.CarID != "" && state.CarID != req.CarID {
		return &ValidationError{Fields: map[string]string{
			FieldCar: fmt.Sprintf("Car %s is not offered by this provider", req.CarID),
		}}
	}
	if req.PromoID != nil && *req.PromoID != "" && state.PromotionID != *req.PromoID {
		return fmt.Errorf("%w: promotion %s", ErrUnknownSelection, *req.PromoID)
	}

	return nil
}
