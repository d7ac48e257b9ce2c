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

	cancelAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_appointment"
	deleteWorkingHoursHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_working_hours"
	getAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_appointment"
	getAppointmentStatsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_appointment_stats"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getClientAppointmentsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_client_appointments"
	getCompanyAppointmentsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_company_appointments"
	getProviderAppointmentsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_provider_appointments"
	getWorkingHoursHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_working_hours"
	updateAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_appointment_status"
	updateWorkingHoursHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_working_hours"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	outboxRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/outbox"
	workingHoursRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/workinghours"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	appointmentsService "github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/conflict"
	outboxService "github.com/m04kA/SMC-SchedulingService/internal/service/outbox"
	workingHoursService "github.com/m04kA/SMC-SchedulingService/internal/service/workinghours"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию (CONFIG_PATH переопределяет путь)
	cfg, err := config.Load(config.DefaultPath)
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

	log.Info("Starting SMC-SchedulingService...")

	location, err := cfg.Scheduling.LoadLocation()
	if err != nil {
		log.Fatal("Invalid scheduling location: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Без метрик обёртка работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = wrappedDB.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Блокировка слотов в Redis (опционально)
	var slotLocker appointmentsService.SlotLocker = lock.NoopLocker{}
	if cfg.Redis.Enabled {
		rdb, err := lock.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		slotLocker = lock.NewRedisSlotLocker(rdb, cfg.Redis.LockTTL())
		log.Info("Redis slot lock enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.LockTTL())
	}

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	workingHoursRepository := workingHoursRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// События пишутся в outbox в транзакции записи, relay пересылает их в Kafka (опционально)
	var publisher appointmentsService.EventPublisher = events.NoopPublisher{}
	relayCtx, stopRelay := context.WithCancel(context.Background())
	relayDone := make(chan struct{})
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := events.NewKafkaPublisher(events.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: time.Duration(cfg.Kafka.WriteTimeout) * time.Second,
			BatchTimeout: cfg.Kafka.BatchTimeout(),
		})
		if err != nil {
			log.Fatal("Failed to create kafka publisher: %v", err)
		}
		defer kafkaPublisher.Close()

		outboxRepository := outboxRepo.NewRepository(wrappedDB)
		publisher = outboxService.NewWriter(outboxRepository)
		relay := outboxService.NewRelay(outboxRepository, kafkaPublisher, txMgr, log, outboxService.RelayConfig{
			PollInterval: cfg.Kafka.PollInterval(),
			BatchSize:    cfg.Kafka.OutboxBatchSize,
		})
		go func() {
			relay.Run(relayCtx)
			close(relayDone)
		}()
		log.Info("Kafka events enabled (brokers=%s, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		close(relayDone)
	}

	// Алгоритмы расписания
	detector := conflict.NewDetector(appointmentRepository)
	grid := availability.Grid{
		OpeningHour: cfg.Scheduling.OpeningHour,
		ClosingHour: cfg.Scheduling.ClosingHour,
		StepMinutes: cfg.Scheduling.SlotStepMinutes,
	}
	calculator := availability.NewCalculator(grid, detector)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		workingHoursRepository,
		detector,
		calculator,
		txMgr,
		slotLocker,
		publisher,
		metricsCollector,
		log,
		appointmentsService.Config{
			Location:           location,
			HardDeleteOnCancel: cfg.Scheduling.HardDeleteOnCancel,
			DefaultPageSize:    cfg.Scheduling.DefaultPageSize,
			MaxPageSize:        cfg.Scheduling.MaxPageSize,
		},
	)
	workingHoursSvc := workingHoursService.NewService(workingHoursRepository, txMgr, log)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointment := updateAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getProviderAppointments := getProviderAppointmentsHandler.NewHandler(appointmentSvc, log)
	getCompanyAppointments := getCompanyAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(appointmentSvc, log)
	getAppointmentStats := getAppointmentStatsHandler.NewHandler(appointmentSvc, log)
	getWorkingHours := getWorkingHoursHandler.NewHandler(workingHoursSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(workingHoursSvc, log)
	deleteWorkingHours := deleteWorkingHoursHandler.NewHandler(workingHoursSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/providers/{kind}/{providerId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{kind}/{providerId}/working-hours", getWorkingHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	// stats регистрируется раньше {id}
	protected.HandleFunc("/appointments/stats", getAppointmentStats.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", updateAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{id}", cancelAppointment.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/appointments/{id}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Списки ---
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{kind}/{providerId}/appointments", getProviderAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/appointments", getCompanyAppointments.Handle).Methods(http.MethodGet)

	// --- Рабочее время провайдера ---
	protected.HandleFunc("/providers/{kind}/{providerId}/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/providers/{kind}/{providerId}/working-hours", deleteWorkingHours.Handle).Methods(http.MethodDelete)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopRelay()
	<-relayDone

	log.Info("Server stopped gracefully")
}
