package booking_form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
	"github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings/models"
	"github.com/m04kA/SMC-CarRentalGateway/internal/session"
)

const paymentPathPrefix = "/payment/"

// Form контроллер формы бронирования.
// Все методы безопасны для конкурентного вызова. Результаты загрузки листингов
// и расчета цены помечаются поколением: устаревшие ответы отбрасываются.
type Form struct {
	mu sync.Mutex

	mode      Mode
	bookingID string
	sess      session.Session

	catalog  CatalogService
	pricing  PricingService
	bookings BookingService
	clock    TimeProvider
	logger   Logger

	start      time.Time
	end        time.Time
	providerID string
	carID      string
	promoID    string

	cars       []domain.Car
	promotions []domain.Promotion

	// Выбор редактируемого бронирования. Он остается допустимым у того же
	// провайдера, даже если машины или промоакции уже нет в листинге.
	origProviderID string
	origCarID      string
	origPromoID    string

	price    *domain.PriceCalculation
	priceErr string

	fieldErrors map[string]string
	banner      string
	submitting  bool

	providerGen uint64
	priceGen    uint64

	// idempotencyKey сбрасывается при любом изменении полей
	idempotencyKey string
}

func newForm(uc *UseCase, mode Mode, sess session.Session) *Form {
	return &Form{
		mode:        mode,
		sess:        sess,
		catalog:     uc.catalog,
		pricing:     uc.pricing,
		bookings:    uc.bookings,
		clock:       uc.timeProvider,
		logger:      uc.logger,
		cars:        []domain.Car{},
		promotions:  []domain.Promotion{},
		fieldErrors: map[string]string{},
	}
}

// SetDates задает даты аренды и пересчитывает цену, если выбрана машина
func (f *Form) SetDates(ctx context.Context, start, end time.Time) error {
	f.mu.Lock()
	f.start = start
	f.end = end
	f.touch()
	f.mu.Unlock()

	return f.recomputePrice(ctx)
}

// SelectProvider выбирает провайдера.
// Машина, промоакция, списки и цена сбрасываются сразу, до загрузки новых листингов.
func (f *Form) SelectProvider(ctx context.Context, providerID string) error {
	f.mu.Lock()
	f.providerID = providerID
	f.carID = ""
	f.promoID = ""
	f.cars = []domain.Car{}
	f.promotions = []domain.Promotion{}
	f.price = nil
	f.priceErr = ""
	f.providerGen++
	f.priceGen++
	gen := f.providerGen
	f.touch()
	f.mu.Unlock()

	if providerID == "" {
		return nil
	}

	return f.loadListings(ctx, providerID, gen)
}

// SelectCar выбирает машину провайдера и пересчитывает цену
func (f *Form) SelectCar(ctx context.Context, carID string) error {
	f.mu.Lock()
	if carID != "" && !f.keepsCar(carID) {
		if _, ok := domain.FindCar(f.cars, carID); !ok {
			f.mu.Unlock()
			return fmt.Errorf("%w: car %s", ErrUnknownSelection, carID)
		}
	}
	f.carID = carID
	f.touch()
	f.mu.Unlock()

	return f.recomputePrice(ctx)
}

// SelectPromotion выбирает промоакцию (пустая строка снимает выбор) и пересчитывает цену
func (f *Form) SelectPromotion(ctx context.Context, promoID string) error {
	f.mu.Lock()
	if promoID != "" && !f.keepsPromotion(promoID) {
		if _, ok := domain.FindPromotion(f.promotions, promoID); !ok {
			f.mu.Unlock()
			return fmt.Errorf("%w: promotion %s", ErrUnknownSelection, promoID)
		}
	}
	f.promoID = promoID
	f.touch()
	f.mu.Unlock()

	return f.recomputePrice(ctx)
}

// Init загружает листинги провайдера для формы редактирования,
// сохраняя выбранные машину и промоакцию, и пересчитывает цену
func (f *Form) Init(ctx context.Context) error {
	f.mu.Lock()
	providerID := f.providerID
	f.providerGen++
	gen := f.providerGen
	f.mu.Unlock()

	if providerID == "" {
		return nil
	}

	if err := f.loadListings(ctx, providerID, gen); err != nil {
		return err
	}
	return f.recomputePrice(ctx)
}

// State возвращает снимок состояния формы
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := State{
		Mode:        f.mode,
		BookingID:   f.bookingID,
		StartDate:   f.start,
		EndDate:     f.end,
		ProviderID:  f.providerID,
		CarID:       f.carID,
		PromotionID: f.promoID,
		Cars:        append([]domain.Car(nil), f.cars...),
		Promotions:  append([]domain.Promotion(nil), f.promotions...),
		Price:       f.price,
		PriceError:  f.priceErr,
		FieldErrors: make(map[string]string, len(f.fieldErrors)),
		BannerError: f.banner,
		Submitting:  f.submitting,
	}
	if state.Cars == nil {
		state.Cars = []domain.Car{}
	}
	if state.Promotions == nil {
		state.Promotions = []domain.Promotion{}
	}
	for k, v := range f.fieldErrors {
		state.FieldErrors[k] = v
	}

	if estimate, ok := f.estimate(); ok {
		state.Estimate = &estimate
	}

	return state
}

// Validate проверяет форму и сохраняет ошибки по полям
func (f *Form) Validate() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fieldErrors = f.validate()
	return copyErrors(f.fieldErrors)
}

// Submit отправляет форму.
// При ошибках валидации сетевых вызовов нет. При ошибке бэкенда введенные
// данные сохраняются, а текст ошибки показывается баннером без изменений.
func (f *Form) Submit(ctx context.Context) (*SubmitResult, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}

	f.fieldErrors = f.validate()
	if len(f.fieldErrors) > 0 {
		err := &ValidationError{Fields: copyErrors(f.fieldErrors)}
		f.mu.Unlock()
		return nil, err
	}

	if f.carID == "" {
		f.banner = ErrNoCarAvailable.Error()
		f.mu.Unlock()
		return nil, ErrNoCarAvailable
	}

	if f.idempotencyKey == "" {
		f.idempotencyKey = uuid.NewString()
	}

	f.submitting = true
	f.banner = ""
	mode := f.mode
	bookingID := f.bookingID
	key := f.idempotencyKey
	start, end := f.start, f.end
	providerID, carID := f.providerID, f.carID
	promoID := f.promoID
	f.mu.Unlock()

	var (
		booking *domain.Booking
		err     error
	)

	switch mode {
	case ModeEdit:
		f.logger.Info("Submit: rescheduling booking id=%s", bookingID)
		// Пустая строка снимает промоакцию на бэкенде
		booking, err = f.bookings.Update(ctx, f.sess, bookingID, models.UpdateBookingPayload{
			StartDate:  start,
			EndDate:    end,
			ProviderID: providerID,
			CarID:      carID,
			PromoID:    &promoID,
		})
	default:
		f.logger.Info("Submit: creating booking car=%s provider=%s key=%s", carID, providerID, key)
		payload := models.CreateBookingPayload{
			StartDate:  start,
			EndDate:    end,
			ProviderID: providerID,
		}
		if promoID != "" {
			payload.PromoID = &promoID
		}
		booking, err = f.bookings.Create(ctx, f.sess, carID, payload, key)
	}
	f.dropStaleListings(ctx, providerID, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err != nil {
		f.banner = err.Error()
		f.logger.Warn("Submit: failed: %v", err)
		return nil, err
	}

	if mode == ModeEdit {
		return &SubmitResult{
			Booking: booking,
			Message: "Booking updated successfully",
		}, nil
	}

	f.idempotencyKey = ""
	return &SubmitResult{
		Booking:    booking,
		RedirectTo: paymentPathPrefix + booking.ID,
		Message:    "Booking created successfully",
	}, nil
}

// Вспомогательные методы

// touch отмечает изменение ввода. Вызывается под мьютексом
func (f *Form) touch() {
	f.idempotencyKey = ""
	f.banner = ""
}

// loadListings загружает машины и промоакции провайдера параллельно.
// Результат применяется, только если поколение провайдера не сменилось.
func (f *Form) loadListings(ctx context.Context, providerID string, gen uint64) error {
	var (
		cars       []domain.Car
		promotions []domain.Promotion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cars, err = f.catalog.GetCarsByProvider(gctx, f.sess, providerID)
		return err
	})
	g.Go(func() error {
		var err error
		promotions, err = f.catalog.GetPromotionsByProvider(gctx, f.sess, providerID)
		return err
	})
	err := g.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.providerGen {
		f.logger.Info("loadListings: discarding stale listings for provider=%s", providerID)
		return nil
	}

	if err != nil {
		f.banner = err.Error()
		f.logger.Warn("loadListings: provider=%s: %v", providerID, err)
		return err
	}

	if cars == nil {
		cars = []domain.Car{}
	}
	if promotions == nil {
		promotions = []domain.Promotion{}
	}
	f.cars = cars
	f.promotions = promotions

	// Выбор, которого нет в новом списке, снимается
	if f.carID != "" && !f.keepsCar(f.carID) {
		if _, ok := domain.FindCar(f.cars, f.carID); !ok {
			f.carID = ""
			f.price = nil
		}
	}
	if f.promoID != "" && !f.keepsPromotion(f.promoID) {
		if _, ok := domain.FindPromotion(f.promotions, f.promoID); !ok {
			f.promoID = ""
		}
	}

	return nil
}

// keepsCar и keepsPromotion вызываются под мьютексом
func (f *Form) keepsCar(carID string) bool {
	return f.mode == ModeEdit && f.origCarID != "" && carID == f.origCarID && f.providerID == f.origProviderID
}

func (f *Form) keepsPromotion(promoID string) bool {
	return f.mode == ModeEdit && f.origPromoID != "" && promoID == f.origPromoID && f.providerID == f.origProviderID
}

// recomputePrice запрашивает цену один раз, если выбраны машина и обе даты
func (f *Form) recomputePrice(ctx context.Context) error {
	f.mu.Lock()
	if f.carID == "" || f.start.IsZero() || f.end.IsZero() || !f.end.After(f.start) {
		f.priceGen++
		f.price = nil
		f.priceErr = ""
		f.mu.Unlock()
		return nil
	}

	f.priceGen++
	gen := f.priceGen
	providerID, carID := f.providerID, f.carID
	days := domain.DayCount(f.start, f.end)
	var promoID *string
	if f.promoID != "" {
		id := f.promoID
		promoID = &id
	}
	f.mu.Unlock()

	price, err := f.pricing.CalculatePrice(ctx, f.sess, carID, days, promoID)
	f.dropStaleListings(ctx, providerID, err)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.priceGen {
		return nil
	}

	if err != nil {
		f.price = nil
		f.priceErr = err.Error()
		return err
	}

	f.price = price
	f.priceErr = ""
	return nil
}

// dropStaleListings сбрасывает кэш листингов провайдера, если бэкенд отклонил
// выбор: машина или промоакция могли уже исчезнуть из каталога.
// Вызывается без мьютекса
func (f *Form) dropStaleListings(ctx context.Context, providerID string, err error) {
	var rejected *domain.RejectedError
	if providerID == "" || !errors.As(err, &rejected) {
		return
	}
	if err := f.catalog.InvalidateListings(ctx, providerID); err != nil {
		f.logger.Warn("dropStaleListings: provider=%s: %v", providerID, err)
	}
}

// estimate предварительная стоимость. Вызывается под мьютексом
func (f *Form) estimate() (decimal.Decimal, bool) {
	if f.carID == "" || f.start.IsZero() || f.end.IsZero() {
		return decimal.Decimal{}, false
	}
	car, ok := domain.FindCar(f.cars, f.carID)
	if !ok {
		return decimal.Decimal{}, false
	}
	return domain.Estimate(domain.DayCount(f.start, f.end), car.PricePerDay), true
}

// fill задает все поля сразу без пересчета цены
func (f *Form) fill(req Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.start = req.StartDate
	f.end = req.EndDate
	f.providerID = req.ProviderID
	f.carID = req.CarID
	f.promoID = ""
	if req.PromoID != nil {
		f.promoID = *req.PromoID
	}
	f.touch()
}

func copyErrors(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
