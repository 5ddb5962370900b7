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

	cancelReservationHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/create_reservation"
	getAvailableTimesHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/get_available_times"
	getReservationHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/get_reservation"
	getRestaurantPolicyHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/get_restaurant_policy"
	getRestaurantReservationsHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/get_restaurant_reservations"
	getUserReservationsHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/get_user_reservations"
	modifyReservationHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/modify_reservation"
	sweepRemindersHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/sweep_reminders"
	updateReservationStatusHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/update_reservation_status"
	updateRestaurantPolicyHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/update_restaurant_policy"
	"github.com/m04kA/RST-ReservationService/internal/api/middleware"
	"github.com/m04kA/RST-ReservationService/internal/availability"
	"github.com/m04kA/RST-ReservationService/internal/config"
	"github.com/m04kA/RST-ReservationService/internal/events"
	policyRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/policy"
	reservationRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
	tableRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/table"
	guestServiceClient "github.com/m04kA/RST-ReservationService/internal/integrations/guestservice"
	paymentServiceClient "github.com/m04kA/RST-ReservationService/internal/integrations/paymentservice"
	restaurantServiceClient "github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	policiesService "github.com/m04kA/RST-ReservationService/internal/service/policies"
	remindersService "github.com/m04kA/RST-ReservationService/internal/service/reminders"
	reservationsService "github.com/m04kA/RST-ReservationService/internal/service/reservations"
	createReservationUC "github.com/m04kA/RST-ReservationService/internal/usecase/create_reservation"
	getAvailableTimesUC "github.com/m04kA/RST-ReservationService/internal/usecase/get_available_times"
	modifyReservationUC "github.com/m04kA/RST-ReservationService/internal/usecase/modify_reservation"
	"github.com/m04kA/RST-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/RST-ReservationService/pkg/logger"
	"github.com/m04kA/RST-ReservationService/pkg/metrics"
	"github.com/m04kA/RST-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/RST-ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting RST-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
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

	// Подключаемся к Redis (кэш профилей ресторанов)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Инициализируем интеграционных клиентов
	restaurantClient := restaurantServiceClient.NewCachedClient(
		restaurantServiceClient.NewClient(
			cfg.RestaurantService.URL,
			time.Duration(cfg.RestaurantService.Timeout)*time.Second,
			log,
		),
		rdb,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		log,
	)
	guestClient := guestServiceClient.NewClient(
		cfg.GuestService.URL,
		time.Duration(cfg.GuestService.Timeout)*time.Second,
		log,
	)
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (RestaurantService=%s, GuestService=%s, PaymentService=%s)",
		cfg.RestaurantService.URL, cfg.GuestService.URL, cfg.PaymentService.URL)

	// Подключаемся к RabbitMQ (публикация доменных событий)
	publisher, err := events.NewPublisher(cfg.RabbitMQ.URL, log)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()
	log.Info("Event publisher connected to RabbitMQ")

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		tableRepository       *tableRepo.Repository
		policyRepository      *policyRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		tableRepository = tableRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		tableRepository = tableRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Калькулятор доступности столов
	calculator := availability.NewCalculator(tableRepository, reservationRepository, log)

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		policyRepository,
		restaurantClient,
		guestClient,
		publisher,
		log,
	)
	policySvc := policiesService.NewService(
		policyRepository,
		restaurantClient,
		log,
	)
	reminderSvc := remindersService.NewService(
		reservationRepository,
		policyRepository,
		publisher,
		cfg.Engine.ReminderMaxLeadMinutes,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		tableRepository,
		policyRepository,
		calculator,
		restaurantClient,
		paymentClient,
		publisher,
		txMgr,
		cfg.Engine.DuplicateWindowMinutes,
		log,
	)
	modifyReservationUseCase := modifyReservationUC.NewUseCase(
		reservationRepository,
		tableRepository,
		policyRepository,
		calculator,
		restaurantClient,
		publisher,
		txMgr,
		log,
	)
	getAvailableTimesUseCase := getAvailableTimesUC.NewUseCase(
		reservationRepository,
		tableRepository,
		policyRepository,
		restaurantClient,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	modifyReservation := modifyReservationHandler.NewHandler(modifyReservationUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getRestaurantReservations := getRestaurantReservationsHandler.NewHandler(reservationSvc, log)
	getAvailableTimes := getAvailableTimesHandler.NewHandler(getAvailableTimesUseCase, log)
	getRestaurantPolicy := getRestaurantPolicyHandler.NewHandler(policySvc, log)
	updateRestaurantPolicy := updateRestaurantPolicyHandler.NewHandler(policySvc, log)
	sweepReminders := sweepRemindersHandler.NewHandler(reminderSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Служебный endpoint развёртки напоминаний (вызывается планировщиком)
	r.HandleFunc("/internal/v1/reminders/sweep", sweepReminders.Handle).Methods(http.MethodPost)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные времена для брони на дату
	api.HandleFunc("/restaurants/{restaurantId}/available-times",
		getAvailableTimes.Handle).Methods(http.MethodGet)

	// Политика бронирования ресторана
	api.HandleFunc("/restaurants/{restaurantId}/policy",
		getRestaurantPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Брони ---
	// Создание брони
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение брони по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Перенос брони (дата, время, размер компании)
	protected.HandleFunc("/reservations/{reservationId}", modifyReservation.Handle).Methods(http.MethodPatch)

	// Отмена брони
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// Смена статуса брони (seated / completed / no_show)
	protected.HandleFunc("/reservations/{reservationId}/status", updateReservationStatus.Handle).Methods(http.MethodPatch)

	// История броней пользователя
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Управление рестораном (для сотрудников и менеджеров) ---
	// Список броней ресторана
	protected.HandleFunc("/restaurants/{restaurantId}/reservations", getRestaurantReservations.Handle).Methods(http.MethodGet)

	// Обновление политики бронирования
	protected.HandleFunc("/restaurants/{restaurantId}/policy", updateRestaurantPolicy.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
