package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	acknowledgeReminderHandler "github.com/m04kA/VideoBookingService/internal/api/handlers/acknowledge_reminder"
	dispatchRemindersHandler "github.com/m04kA/VideoBookingService/internal/api/handlers/dispatch_reminders"
	getBookingHandler "github.com/m04kA/VideoBookingService/internal/api/handlers/get_booking"
	getDayRouteHandler "github.com/m04kA/VideoBookingService/internal/api/handlers/get_day_route"
	listDayBookingsHandler "github.com/m04kA/VideoBookingService/internal/api/handlers/list_day_bookings"
	rescheduleBookingHandler "github.com/m04kA/VideoBookingService/internal/api/handlers/reschedule_booking"
	reviewBookingHandler "github.com/m04kA/VideoBookingService/internal/api/handlers/review_booking"
	submitBookingHandler "github.com/m04kA/VideoBookingService/internal/api/handlers/submit_booking"
	"github.com/m04kA/VideoBookingService/internal/api/middleware"
	"github.com/m04kA/VideoBookingService/internal/config"
	routeCache "github.com/m04kA/VideoBookingService/internal/infra/cache/route"
	reminderQueue "github.com/m04kA/VideoBookingService/internal/infra/queue/reminder"
	bookingRepo "github.com/m04kA/VideoBookingService/internal/infra/storage/booking"
	reminderRepo "github.com/m04kA/VideoBookingService/internal/infra/storage/reminder"
	"github.com/m04kA/VideoBookingService/internal/integrations/agentdirectory"
	"github.com/m04kA/VideoBookingService/internal/integrations/distancematrix"
	"github.com/m04kA/VideoBookingService/internal/service/approval"
	bookingsService "github.com/m04kA/VideoBookingService/internal/service/bookings"
	"github.com/m04kA/VideoBookingService/internal/service/reminders"
	"github.com/m04kA/VideoBookingService/internal/service/routing"
	"github.com/m04kA/VideoBookingService/internal/service/scoring"
	acknowledgeReminderUC "github.com/m04kA/VideoBookingService/internal/usecase/acknowledge_reminder"
	dispatchRemindersUC "github.com/m04kA/VideoBookingService/internal/usecase/dispatch_reminders"
	optimizeRouteUC "github.com/m04kA/VideoBookingService/internal/usecase/optimize_route"
	rescheduleBookingUC "github.com/m04kA/VideoBookingService/internal/usecase/reschedule_booking"
	reviewBookingUC "github.com/m04kA/VideoBookingService/internal/usecase/review_booking"
	submitBookingUC "github.com/m04kA/VideoBookingService/internal/usecase/submit_booking"
	"github.com/m04kA/VideoBookingService/pkg/logger"
	"github.com/m04kA/VideoBookingService/pkg/metrics"
	"github.com/m04kA/VideoBookingService/pkg/txmanager"
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

	log.Info("Starting VideoBookingService...")
	log.Info("Configuration loaded from config.toml")

	engine, err := cfg.Engine()
	if err != nil {
		log.Fatal("Invalid engine settings: %v", err)
	}

	// Инициализируем метрики (если включены); nil *Metrics - метрики выключены
	var metricsCollector *metrics.Metrics
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

	txMgr := txmanager.NewTransactionManager(db)
	bookingRepository := bookingRepo.NewRepository(db)
	reminderRepository := reminderRepo.NewRepository(db)

	// Кэш маршрутов; без redis nil *Cache работает как выключенный кэш
	var routes *routeCache.Cache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Кэш не обязателен: маршруты будут считаться на каждый запрос
			log.Warn("Redis unavailable at %s, route cache degraded: %v", cfg.Redis.Addr, err)
		}
		cancel()

		routes = routeCache.NewCache(redisClient, time.Duration(cfg.Redis.RouteTTL)*time.Second)
		log.Info("Route cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.RouteTTL)
	} else {
		log.Info("Route cache disabled")
	}

	// Инициализируем интеграционных клиентов
	agentClient := agentdirectory.NewClient(
		cfg.AgentDirectory.URL,
		time.Duration(cfg.AgentDirectory.Timeout)*time.Second,
		log,
	)
	log.Info("Agent directory client initialized (url=%s, timeout=%ds)", cfg.AgentDirectory.URL, cfg.AgentDirectory.Timeout)

	// Провайдер матрицы расстояний опционален; интерфейс должен остаться nil, если он не настроен
	var matrixProvider optimizeRouteUC.DistanceMatrix
	if cfg.DistanceMatrix.URL != "" {
		matrixProvider = distancematrix.NewClient(
			cfg.DistanceMatrix.URL,
			cfg.DistanceMatrix.APIKey,
			time.Duration(cfg.DistanceMatrix.Timeout)*time.Second,
			cfg.DistanceMatrix.RequestsPerSecond,
			cfg.DistanceMatrix.Burst,
			log,
		)
		log.Info("Distance matrix provider enabled (url=%s, rps=%.1f)", cfg.DistanceMatrix.URL, cfg.DistanceMatrix.RequestsPerSecond)
	} else {
		log.Info("Distance matrix provider not configured, routes use haversine estimates")
	}

	// Доменные сервисы движка
	scorer := scoring.NewScorer(engine.Scoring)
	decider := approval.NewDecider(engine.Approval)
	optimizer := routing.NewOptimizer(engine.Routing)
	scheduler := reminders.NewScheduler(engine.Reminders)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, reminderRepository, log)

	// Инициализируем use cases
	submitBookingUseCase := submitBookingUC.NewUseCase(
		bookingRepository,
		reminderRepository,
		agentClient,
		routes,
		scorer,
		decider,
		scheduler,
		txMgr,
		metricsCollector,
		log,
	)
	reviewBookingUseCase := reviewBookingUC.NewUseCase(
		bookingRepository,
		reminderRepository,
		routes,
		decider,
		scheduler,
		txMgr,
		metricsCollector,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		reminderRepository,
		routes,
		decider,
		scheduler,
		txMgr,
		log,
	)
	optimizeRouteUseCase := optimizeRouteUC.NewUseCase(
		bookingRepository,
		matrixProvider,
		routes,
		optimizer,
		metricsCollector,
		log,
	)
	acknowledgeReminderUseCase := acknowledgeReminderUC.NewUseCase(reminderRepository, log)

	// Выгрузка напоминаний в Kafka
	var dispatchUseCase *dispatchRemindersUC.UseCase
	if cfg.Dispatch.Enabled {
		producer, err := reminderQueue.NewProducer(reminderQueue.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: time.Duration(cfg.Kafka.WriteTimeout) * time.Second,
		})
		if err != nil {
			log.Fatal("Failed to create reminder producer: %v", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				log.Error("Failed to close reminder producer: %v", err)
			}
		}()

		dispatchUseCase = dispatchRemindersUC.NewUseCase(reminderRepository, producer, txMgr, metricsCollector, log)
		log.Info("Reminder dispatch enabled (brokers=%v, topic=%s, interval=%ds, batch=%d)",
			cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Dispatch.Interval, cfg.Dispatch.BatchSize)
	} else {
		log.Info("Reminder dispatch disabled")
	}

	// Инициализируем handlers
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listDayBookings := listDayBookingsHandler.NewHandler(bookingSvc, log)
	reviewBooking := reviewBookingHandler.NewHandler(reviewBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getDayRoute := getDayRouteHandler.NewHandler(optimizeRouteUseCase, log)
	acknowledgeReminder := acknowledgeReminderHandler.NewHandler(acknowledgeReminderUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Заявки ---
	// Подача заявки: оценка, первичное решение, напоминания
	api.HandleFunc("/bookings", submitBooking.Handle).Methods(http.MethodPost)

	// Заявки дня съемки
	api.HandleFunc("/bookings", listDayBookings.Handle).Methods(http.MethodGet)

	// Получение заявки по ID
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Перенос подтверждённой съемки
	api.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// Ручные действия менеджера
	api.HandleFunc("/bookings/{bookingId}/{action:approve|decline|complete|cancel}", reviewBooking.Handle).Methods(http.MethodPatch)

	// --- Маршруты ---
	api.HandleFunc("/routes/{date}", getDayRoute.Handle).Methods(http.MethodGet)

	// --- Напоминания ---
	// Подтверждение доставки от диспетчера уведомлений
	api.HandleFunc("/reminders/{reminderId}/ack", acknowledgeReminder.Handle).Methods(http.MethodPost)

	if dispatchUseCase != nil {
		dispatchReminders := dispatchRemindersHandler.NewHandler(dispatchUseCase, log)
		api.HandleFunc("/reminders/dispatch", dispatchReminders.Handle).Methods(http.MethodPost)
	}

	// Фоновая выгрузка наступивших напоминаний
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	if dispatchUseCase != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runDispatchLoop(dispatchCtx, dispatchUseCase, time.Duration(cfg.Dispatch.Interval)*time.Second, cfg.Dispatch.BatchSize, log)
		}()
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

	// Сначала останавливаем выгрузку, чтобы не оборвать пачку посреди транзакции
	stopDispatch()
	wg.Wait()
	log.Info("Reminder dispatch stopped")

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

// runDispatchLoop раз в interval выгружает наступившие напоминания, пока ctx не отменён
func runDispatchLoop(ctx context.Context, uc *dispatchRemindersUC.UseCase, interval time.Duration, batchSize int, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			resp, err := uc.Execute(ctx, &dispatchRemindersUC.Request{Limit: batchSize})
			if err != nil {
				log.Error("Reminder dispatch failed: %v", err)
				continue
			}
			if resp.Dispatched > 0 {
				log.Info("Reminder dispatch: %d reminders handed to dispatcher", resp.Dispatched)
			}
		}
	}
}
