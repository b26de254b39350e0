package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers"
	calculatePriceHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/calculate_price"
	cancelBookingHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/get_booking"
	getPaymentHistoryHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/get_payment_history"
	getPaymentStatusHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/get_payment_status"
	getProviderCarsHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/get_provider_cars"
	getProviderPromotionsHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/get_provider_promotions"
	getUserBookingsHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/get_user_bookings"
	paymentStreamHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/payment_stream"
	simulatePaymentHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/simulate_payment"
	updateBookingHandler "github.com/m04kA/SMC-CarRentalGateway/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-CarRentalGateway/internal/api/middleware"
	"github.com/m04kA/SMC-CarRentalGateway/internal/config"
	listingCache "github.com/m04kA/SMC-CarRentalGateway/internal/infra/cache"
	intentRepo "github.com/m04kA/SMC-CarRentalGateway/internal/infra/storage/intent"
	paymentRepo "github.com/m04kA/SMC-CarRentalGateway/internal/infra/storage/payment"
	"github.com/m04kA/SMC-CarRentalGateway/internal/integrations/rentalapi"
	bookingsService "github.com/m04kA/SMC-CarRentalGateway/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-CarRentalGateway/internal/service/catalog"
	pricingService "github.com/m04kA/SMC-CarRentalGateway/internal/service/pricing"
	bookingFormUC "github.com/m04kA/SMC-CarRentalGateway/internal/usecase/booking_form"
	paymentStatusUC "github.com/m04kA/SMC-CarRentalGateway/internal/usecase/payment_status"
	"github.com/m04kA/SMC-CarRentalGateway/pkg/logger"
	"github.com/m04kA/SMC-CarRentalGateway/pkg/metrics"
)

// appMetrics метрики всех слоев: Prometheus или заглушка
type appMetrics interface {
	ObserveHTTP(method, route string, status int, duration time.Duration)
	ObserveBackend(operation, outcome string, duration time.Duration)
	PaymentTransition(status, source string)
	PollerStarted()
	PollerStopped()
	CacheLookup(listing string, hit bool)
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CarRentalGateway...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector appMetrics = metrics.Nop{}
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Трассировка: экспортер не настроен, но контекст трассы передается бэкенду
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Подключаемся к базе данных (ключи идемпотентности и журнал оплат)
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Кэш листингов (если включен). Без Redis каталог читает бэкенд напрямую
	var cache catalogService.ListingCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unavailable at %s, listing cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			cache = listingCache.NewListingCache(redisClient, time.Duration(cfg.Redis.TTL)*time.Second)
			log.Info("Listing cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
		}
	}

	// Инициализируем клиент бэкенда
	rentalClient := rentalapi.NewClient(
		cfg.Backend.URL,
		time.Duration(cfg.Backend.Timeout)*time.Second,
		log,
		rentalapi.WithRateLimit(cfg.Backend.RateLimit, cfg.Backend.Burst),
		rentalapi.WithMetrics(metricsCollector),
	)
	log.Info("Rental backend client initialized (url=%s, timeout=%ds, rate_limit=%.1f rps)",
		cfg.Backend.URL, cfg.Backend.Timeout, cfg.Backend.RateLimit)

	// Инициализируем репозитории
	intentRepository := intentRepo.NewRepository(db)
	paymentRepository := paymentRepo.NewRepository(db)

	// Инициализируем сервисы
	pricingSvc := pricingService.NewService(rentalClient, log)
	catalogSvc := catalogService.NewService(rentalClient, cache, metricsCollector, log)
	bookingSvc := bookingsService.NewService(rentalClient, intentRepository, log)

	// Инициализируем use cases
	bookingFormUseCase := bookingFormUC.NewUseCase(catalogSvc, pricingSvc, bookingSvc, log)
	paymentRegistry := paymentStatusUC.NewRegistry(
		bookingSvc,
		paymentRepository,
		metricsCollector,
		log,
		paymentOptions(cfg.Payment),
	)

	// Инициализируем handlers
	getProviderCars := getProviderCarsHandler.NewHandler(catalogSvc, log)
	getProviderPromotions := getProviderPromotionsHandler.NewHandler(catalogSvc, log)
	calculatePrice := calculatePriceHandler.NewHandler(pricingSvc, log)
	createBooking := createBookingHandler.NewHandler(bookingFormUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, bookingFormUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, paymentRegistry, log)
	getPaymentStatus := getPaymentStatusHandler.NewHandler(paymentRegistry, log)
	getPaymentHistory := getPaymentHistoryHandler.NewHandler(bookingSvc, paymentRepository, log)
	simulatePayment := simulatePaymentHandler.NewHandler(paymentRegistry, log)
	paymentStream := paymentStreamHandler.NewHandler(paymentRegistry, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		pingCtx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMinute,
			cfg.RateLimit.Burst,
			middleware.WithTrustedProxies(cfg.RateLimit.TrustedProxies),
		)
		api.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %d requests/min per IP, burst %d",
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	// Все маршруты API требуют bearer-токен: бэкенд отвечает только авторизованным
	api.Use(middleware.Auth)

	// --- Каталог ---
	api.HandleFunc("/providers/{providerId}/cars", getProviderCars.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/promotions", getProviderPromotions.Handle).Methods(http.MethodGet)

	// --- Расчет цены ---
	api.HandleFunc("/price-quotes", calculatePrice.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{bookingId}", cancelBooking.Handle).Methods(http.MethodDelete)

	// --- Оплата ---
	api.HandleFunc("/bookings/{bookingId}/payment", getPaymentStatus.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/payment/events", getPaymentHistory.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/payment/simulate", simulatePayment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/payment/ws", paymentStream.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем опросы статуса оплаты
	if err := paymentRegistry.StopAll(shutdownCtx); err != nil {
		log.Error("Payment pollers did not stop in time: %v", err)
	}

	log.Info("Server stopped gracefully")
}

func paymentOptions(cfg config.PaymentConfig) paymentStatusUC.Options {
	return paymentStatusUC.Options{
		PollInterval:        time.Duration(cfg.PollIntervalSeconds) * time.Second,
		DirectRedirectDelay: time.Duration(cfg.DirectRedirectDelaySeconds) * time.Second,
		PolledRedirectDelay: time.Duration(cfg.PolledRedirectDelaySeconds) * time.Second,
		MaxLifetime:         time.Duration(cfg.MaxPollerLifetimeMinutes) * time.Minute,
		RedirectTo:          cfg.RedirectTo,
	}
}
