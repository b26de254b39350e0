package rentalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-CarRentalGateway/internal/domain"
)

const (
	tracerName = "github.com/m04kA/SMC-CarRentalGateway/internal/integrations/rentalapi"

	// HeaderIdempotencyKey заголовок ключа идемпотентности при создании бронирования
	HeaderIdempotencyKey = "Idempotency-Key"

	maxResponseBodySize = 4 << 20
)

// Client клиент REST бэкенда аренды автомобилей
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	tracer     trace.Tracer
	metrics    Metrics
	log        Logger
}

// Option настраивает клиент
type Option func(*Client)

// WithRateLimit ограничивает частоту исходящих запросов (rps <= 0 отключает ограничение)
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics включает учет запросов в метриках
func WithMetrics(m Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithHTTPClient подменяет http.Client (например, в тестах)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient создает новый экземпляр клиента бэкенда
func NewClient(baseURL string, timeout time.Duration, log Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tracer:  otel.Tracer(tracerName),
		metrics: nopMetrics{},
		log:     log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CreateBooking создает бронирование машины: POST /cars/{carId}/bookings
func (c *Client) CreateBooking(ctx context.Context, token, carID string, req CreateBookingRequest, idempotencyKey string) (*domain.Booking, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{HeaderIdempotencyKey: idempotencyKey}
	}

	var dto BookingDTO
	path := fmt.Sprintf("/cars/%s/bookings", url.PathEscape(carID))
	if err := c.do(ctx, "create_booking", http.MethodPost, path, token, req, headers, &dto); err != nil {
		return nil, err
	}

	return dto.toDomain(), nil
}

// GetBooking получает бронирование: GET /bookings/{id}
func (c *Client) GetBooking(ctx context.Context, token, id string) (*domain.Booking, error) {
	var dto BookingDTO
	path := fmt.Sprintf("/bookings/%s", url.PathEscape(id))
	if err := c.do(ctx, "get_booking", http.MethodGet, path, token, nil, nil, &dto); err != nil {
		return nil, err
	}

	return dto.toDomain(), nil
}

// ListBookings получает бронирования текущего пользователя: GET /bookings
func (c *Client) ListBookings(ctx context.Context, token string) ([]*domain.Booking, error) {
	var dtos []BookingDTO
	if err := c.do(ctx, "list_bookings", http.MethodGet, "/bookings", token, nil, nil, &dtos); err != nil {
		return nil, err
	}

	bookings := make([]*domain.Booking, 0, len(dtos))
	for i := range dtos {
		bookings = append(bookings, dtos[i].toDomain())
	}
	return bookings, nil
}

// UpdateBooking обновляет бронирование: PUT /bookings/{id}
func (c *Client) UpdateBooking(ctx context.Context, token, id string, req UpdateBookingRequest) (*domain.Booking, error) {
	var dto BookingDTO
	path := fmt.Sprintf("/bookings/%s", url.PathEscape(id))
	if err := c.do(ctx, "update_booking", http.MethodPut, path, token, req, nil, &dto); err != nil {
		return nil, err
	}

	return dto.toDomain(), nil
}

// DeleteBooking отменяет бронирование: DELETE /bookings/{id}
func (c *Client) DeleteBooking(ctx context.Context, token, id string) error {
	path := fmt.Sprintf("/bookings/%s", url.PathEscape(id))
	return c.do(ctx, "delete_booking", http.MethodDelete, path, token, nil, nil, nil)
}

// GetProviderCars получает машины провайдера: GET /rentalcarproviders/{id}/cars
func (c *Client) GetProviderCars(ctx context.Context, token, providerID string) ([]domain.Car, error) {
	var dtos []CarDTO
	path := fmt.Sprintf("/rentalcarproviders/%s/cars", url.PathEscape(providerID))
	if err := c.do(ctx, "get_provider_cars", http.MethodGet, path, token, nil, nil, &dtos); err != nil {
		return nil, err
	}

	cars := make([]domain.Car, 0, len(dtos))
	for i := range dtos {
		car := dtos[i].toDomain("")
		if car.ProviderID == "" {
			car.ProviderID = providerID
		}
		cars = append(cars, *car)
	}
	return cars, nil
}

// GetProviderPromotions получает промоакции провайдера: GET /rentalcarproviders/{id}/promotions
func (c *Client) GetProviderPromotions(ctx context.Context, token, providerID string) ([]domain.Promotion, error) {
	var dtos []PromotionDTO
	path := fmt.Sprintf("/rentalcarproviders/%s/promotions", url.PathEscape(providerID))
	if err := c.do(ctx, "get_provider_promotions", http.MethodGet, path, token, nil, nil, &dtos); err != nil {
		return nil, err
	}

	promotions := make([]domain.Promotion, 0, len(dtos))
	for i := range dtos {
		promotions = append(promotions, *dtos[i].toDomain(""))
	}
	return promotions, nil
}

// CalculatePrice запрашивает расчет цены: POST /cars/calculate-price
func (c *Client) CalculatePrice(ctx context.Context, token string, req CalculatePriceRequest) (*domain.PriceCalculation, error) {
	var dto PriceCalculationDTO
	if err := c.do(ctx, "calculate_price", http.MethodPost, "/cars/calculate-price", token, req, nil, &dto); err != nil {
		return nil, err
	}

	return dto.toDomain(), nil
}

// do выполняет запрос с трассировкой и учетом метрик
func (c *Client) do(
	ctx context.Context,
	operation, method, path, token string,
	body interface{},
	headers map[string]string,
	out interface{},
) error {
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, "rentalapi."+operation, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	)

	err := c.doRequest(ctx, method, path, token, body, headers, out)

	outcome := outcomeOf(err)
	c.metrics.ObserveBackend(operation, outcome, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if outcome == "unavailable" || outcome == "error" {
			c.log.Error("rentalapi: %s %s failed: %v", method, path, err)
		} else {
			c.log.Warn("rentalapi: %s %s failed: %v", method, path, err)
		}
	}

	return err
}

func (c *Client) doRequest(
	ctx context.Context,
	method, path, token string,
	body interface{},
	headers map[string]string,
	out interface{},
) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", ErrUnavailable, err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	var env envelope
	var decodeErr error
	if len(bytes.TrimSpace(raw)) > 0 {
		decodeErr = json.Unmarshal(raw, &env)
	} else {
		// Пустое тело допустимо только для успешного ответа без данных
		env.Success = true
	}

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &APIError{Kind: ErrUnauthorized, StatusCode: resp.StatusCode, Message: env.message()}
	case resp.StatusCode == http.StatusForbidden:
		return &APIError{Kind: ErrForbidden, StatusCode: resp.StatusCode, Message: env.message()}
	case resp.StatusCode == http.StatusNotFound:
		return &APIError{Kind: ErrNotFound, StatusCode: resp.StatusCode, Message: env.message()}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &APIError{Kind: ErrUnexpectedStatus, StatusCode: resp.StatusCode, Message: env.message()}
	}

	if decodeErr != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, decodeErr)
	}

	if !env.Success {
		return &APIError{Kind: ErrRejected, StatusCode: resp.StatusCode, Message: env.message()}
	}

	if out == nil || len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: failed to decode data: %v", ErrInvalidResponse, err)
	}

	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrUnexpectedStatus):
		return "unavailable"
	default:
		return "error"
	}
}

type nopMetrics struct{}

func (nopMetrics) ObserveBackend(string, string, time.Duration) {}
