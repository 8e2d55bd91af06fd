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

	acceptAgreementHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/accept_agreement"
	advanceFulfillmentHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/advance_fulfillment"
	cancelAppointmentHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/cancel_appointment"
	cancelOrderHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/cancel_order"
	createOrderHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/create_order"
	decideOrderHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/decide_order"
	getAppointmentHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/get_appointment"
	getCustomerAppointmentsHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/get_customer_appointments"
	getDailyCapacityHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/get_daily_capacity"
	getOrderHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/get_order"
	listOrdersHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/list_orders"
	notificationsHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/notifications"
	orderPenaltiesHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/order_penalties"
	rescheduleAppointmentHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/reschedule_appointment"
	reserveAppointmentHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/reserve_appointment"
	respondCounterOfferHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/respond_counter_offer"
	respondQuotationHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/respond_quotation"
	setQuotationHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/set_quotation"
	shopSettingsHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/shop_settings"
	submitCounterOfferHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/submit_counter_offer"
	updateAppointmentStatusHandler "github.com/fitform/FitForm-OrderService/internal/api/handlers/update_appointment_status"
	"github.com/fitform/FitForm-OrderService/internal/api/middleware"
	"github.com/fitform/FitForm-OrderService/internal/config"
	appointmentRepo "github.com/fitform/FitForm-OrderService/internal/infra/storage/appointment"
	notificationRepo "github.com/fitform/FitForm-OrderService/internal/infra/storage/notification"
	orderRepo "github.com/fitform/FitForm-OrderService/internal/infra/storage/order"
	settingsRepo "github.com/fitform/FitForm-OrderService/internal/infra/storage/settings"
	"github.com/fitform/FitForm-OrderService/internal/jobs"
	"github.com/fitform/FitForm-OrderService/internal/notifier"
	"github.com/fitform/FitForm-OrderService/internal/scheduler"
	appointmentsService "github.com/fitform/FitForm-OrderService/internal/service/appointments"
	notificationsService "github.com/fitform/FitForm-OrderService/internal/service/notifications"
	ordersService "github.com/fitform/FitForm-OrderService/internal/service/orders"
	settingsService "github.com/fitform/FitForm-OrderService/internal/service/settings"
	getDailyCapacityUC "github.com/fitform/FitForm-OrderService/internal/usecase/get_daily_capacity"
	rescheduleAppointmentUC "github.com/fitform/FitForm-OrderService/internal/usecase/reschedule_appointment"
	reserveAppointmentUC "github.com/fitform/FitForm-OrderService/internal/usecase/reserve_appointment"
	"github.com/fitform/FitForm-OrderService/pkg/dbmetrics"
	"github.com/fitform/FitForm-OrderService/pkg/logger"
	"github.com/fitform/FitForm-OrderService/pkg/metrics"
	"github.com/fitform/FitForm-OrderService/pkg/simpletxmanager"
	"github.com/fitform/FitForm-OrderService/pkg/txmanager"
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

	log.Info("Starting FitForm-OrderService...")
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

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository  *appointmentRepo.Repository
		orderRepository        *orderRepo.Repository
		settingsRepository     *settingsRepo.Repository
		notificationRepository *notificationRepo.Repository
	)

	// Интерфейс transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		orderRepository = orderRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		notificationRepository = notificationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		orderRepository = orderRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		notificationRepository = notificationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Диспетчер уведомлений о смене статусов
	dispatcher := notifier.NewDispatcher(notificationRepository, log)

	// Инициализируем сервисы
	settingsSvc := settingsService.NewService(settingsRepository, log)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		settingsSvc,
		txMgr,
		dispatcher,
		log,
	)
	ordersSvc := ordersService.NewService(
		orderRepository,
		settingsSvc,
		txMgr,
		dispatcher,
		log,
	)
	notificationsSvc := notificationsService.NewService(notificationRepository, log)

	// Инициализируем use cases
	reserveAppointmentUseCase := reserveAppointmentUC.NewUseCase(
		appointmentRepository,
		appointmentsSvc,
		settingsSvc,
		dispatcher,
		txMgr,
		log,
	)
	getDailyCapacityUseCase := getDailyCapacityUC.NewUseCase(
		appointmentRepository,
		settingsSvc,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		appointmentsSvc,
		settingsSvc,
		txMgr,
		log,
	)

	// Инициализируем handlers
	reserveAppointment := reserveAppointmentHandler.NewHandler(reserveAppointmentUseCase, log)
	getDailyCapacity := getDailyCapacityHandler.NewHandler(getDailyCapacityUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)

	createOrder := createOrderHandler.NewHandler(ordersSvc, log)
	getOrder := getOrderHandler.NewHandler(ordersSvc, log)
	listOrders := listOrdersHandler.NewHandler(ordersSvc, log)
	decideOrder := decideOrderHandler.NewHandler(ordersSvc, log)
	setQuotation := setQuotationHandler.NewHandler(ordersSvc, log)
	respondQuotation := respondQuotationHandler.NewHandler(ordersSvc, log)
	submitCounterOffer := submitCounterOfferHandler.NewHandler(ordersSvc, log)
	respondCounterOffer := respondCounterOfferHandler.NewHandler(ordersSvc, log)
	advanceFulfillment := advanceFulfillmentHandler.NewHandler(ordersSvc, log)
	cancelOrder := cancelOrderHandler.NewHandler(ordersSvc, log)
	acceptAgreement := acceptAgreementHandler.NewHandler(ordersSvc, log)
	orderPenalties := orderPenaltiesHandler.NewHandler(ordersSvc, log)

	shopSettings := shopSettingsHandler.NewHandler(settingsSvc, log)
	notifications := notificationsHandler.NewHandler(notificationsSvc, log)

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

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Загрузка дня: занятые времена и свободные места
	api.HandleFunc("/capacity", getDailyCapacity.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Примерки ---
	protected.HandleFunc("/appointments", reserveAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Заказы ---
	protected.HandleFunc("/orders", createOrder.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/orders", listOrders.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/orders/{orderId}", getOrder.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/orders/{orderId}/cancel", cancelOrder.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/orders/{orderId}/quotation/respond", respondQuotation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/orders/{orderId}/counter-offer", submitCounterOffer.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/orders/{orderId}/agreement", acceptAgreement.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/orders/{orderId}/penalties", orderPenalties.HandleGet).Methods(http.MethodGet)

	// --- Уведомления ---
	protected.HandleFunc("/users/{userId}/notifications", notifications.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}/read", notifications.HandleMarkRead).Methods(http.MethodPatch)

	// ============================================================
	// ADMIN ROUTES (требуют X-User-Role: admin)
	// ============================================================

	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/orders/{orderId}/decision", decideOrder.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/orders/{orderId}/quotation", setQuotation.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/orders/{orderId}/counter-offer/respond", respondCounterOffer.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/orders/{orderId}/fulfillment", advanceFulfillment.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/orders/{orderId}/penalties", orderPenalties.HandleAssess).Methods(http.MethodPost)
	admin.HandleFunc("/orders/{orderId}/penalties/paid", orderPenalties.HandleMarkPaid).Methods(http.MethodPost)
	admin.HandleFunc("/settings", shopSettings.HandleGet).Methods(http.MethodGet)
	admin.HandleFunc("/settings", shopSettings.HandleUpdate).Methods(http.MethodPut)

	// Планировщик фоновых задач: переоценка зависших pending записей
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobRunner := jobs.NewRunner(appointmentsSvc, log)
		sched = scheduler.New(jobRunner, cfg.Scheduler.ReevaluatePendingSpec, log)
		sched.Start()
		log.Info("Scheduler started (reevaluate_pending_spec=%s)", cfg.Scheduler.ReevaluatePendingSpec)
	}

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

	if sched != nil {
		sched.Stop()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
