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

	cancelAppointmentHandler "github.com/agendafacil/booking-service/internal/api/handlers/cancel_appointment"
	createDepositHandler "github.com/agendafacil/booking-service/internal/api/handlers/create_deposit"
	createReservationHandler "github.com/agendafacil/booking-service/internal/api/handlers/create_reservation"
	getAppointmentHandler "github.com/agendafacil/booking-service/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/agendafacil/booking-service/internal/api/handlers/get_availability"
	getPaymentStatusHandler "github.com/agendafacil/booking-service/internal/api/handlers/get_payment_status"
	getSlotsHandler "github.com/agendafacil/booking-service/internal/api/handlers/get_slots"
	paymentWebhookHandler "github.com/agendafacil/booking-service/internal/api/handlers/payment_webhook"
	"github.com/agendafacil/booking-service/internal/api/middleware"
	"github.com/agendafacil/booking-service/internal/config"
	appointmentRepo "github.com/agendafacil/booking-service/internal/infra/storage/appointment"
	couponRepo "github.com/agendafacil/booking-service/internal/infra/storage/coupon"
	transactionRepo "github.com/agendafacil/booking-service/internal/infra/storage/transaction"
	notifierClient "github.com/agendafacil/booking-service/internal/integrations/notifier"
	pixGatewayClient "github.com/agendafacil/booking-service/internal/integrations/pixgateway"
	settingsServiceClient "github.com/agendafacil/booking-service/internal/integrations/settingsservice"
	appointmentsService "github.com/agendafacil/booking-service/internal/service/appointments"
	pricingService "github.com/agendafacil/booking-service/internal/service/pricing"
	createDepositUC "github.com/agendafacil/booking-service/internal/usecase/create_deposit"
	createReservationUC "github.com/agendafacil/booking-service/internal/usecase/create_reservation"
	expireTransactionsUC "github.com/agendafacil/booking-service/internal/usecase/expire_transactions"
	getAvailabilityUC "github.com/agendafacil/booking-service/internal/usecase/get_availability"
	getPaymentStatusUC "github.com/agendafacil/booking-service/internal/usecase/get_payment_status"
	getSlotsUC "github.com/agendafacil/booking-service/internal/usecase/get_slots"
	ingestPaymentStatusUC "github.com/agendafacil/booking-service/internal/usecase/ingest_payment_status"
	"github.com/agendafacil/booking-service/pkg/dbmetrics"
	"github.com/agendafacil/booking-service/pkg/logger"
	"github.com/agendafacil/booking-service/pkg/metrics"
	"github.com/agendafacil/booking-service/pkg/simpletxmanager"
	"github.com/agendafacil/booking-service/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from config.toml")

	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Integration clients.
	settingsClient := settingsServiceClient.NewClient(
		cfg.SettingsService.URL,
		time.Duration(cfg.SettingsService.Timeout)*time.Second,
		log,
	)
	gatewayClient := pixGatewayClient.NewClient(
		cfg.PaymentGateway.URL,
		cfg.PaymentGateway.APIKey,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		cfg.PaymentGateway.MaxRetries,
		time.Duration(cfg.PaymentGateway.RetryBaseDelayMS)*time.Millisecond,
		log,
	)
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (Settings=%s, Gateway=%s, Notifier=%s)",
		cfg.SettingsService.URL, cfg.PaymentGateway.URL, cfg.Notifier.URL)

	// Repositories and the transaction manager, instrumented when metrics
	// are enabled.
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var (
		appointments *appointmentRepo.Repository
		coupons      *couponRepo.Repository
		transactions *transactionRepo.Repository
		txMgr        TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointments = appointmentRepo.NewRepository(wrappedDB)
		coupons = couponRepo.NewRepository(wrappedDB)
		transactions = transactionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointments = appointmentRepo.NewRepository(db)
		coupons = couponRepo.NewRepository(db)
		transactions = transactionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Services.
	pricing := pricingService.NewService(coupons, log)
	appointmentsSvc := appointmentsService.NewService(appointments, notifier, log)

	// Use cases.
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(appointments, settingsClient, log, cfg.Booking.MaxRangeDays)
	getSlotsUseCase := getSlotsUC.NewUseCase(appointments, settingsClient, log)
	createReservationUseCase := createReservationUC.NewUseCase(
		appointments,
		coupons,
		pricing,
		settingsClient,
		txMgr,
		notifier,
		log,
	)
	ingestPaymentStatusUseCase := ingestPaymentStatusUC.NewUseCase(
		transactions,
		appointments,
		coupons,
		txMgr,
		notifier,
		log,
	)
	createDepositUseCase := createDepositUC.NewUseCase(
		appointments,
		transactions,
		settingsClient,
		gatewayClient,
		time.Duration(cfg.PaymentGateway.ChargeTTLMinutes)*time.Minute,
		log,
	)
	getPaymentStatusUseCase := getPaymentStatusUC.NewUseCase(transactions, gatewayClient, ingestPaymentStatusUseCase, log)
	expireTransactionsUseCase := expireTransactionsUC.NewUseCase(transactions, ingestPaymentStatusUseCase, log)

	// Handlers.
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getSlots := getSlotsHandler.NewHandler(getSlotsUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	createDeposit := createDepositHandler.NewHandler(createDepositUseCase, log)
	getPaymentStatus := getPaymentStatusHandler.NewHandler(getPaymentStatusUseCase, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(ingestPaymentStatusUseCase, log)

	// Router.
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Availability reads.
	api.HandleFunc("/establishments/{establishmentId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/establishments/{establishmentId}/slots",
		getSlots.Handle).Methods(http.MethodGet)

	// Appointments.
	api.HandleFunc("/appointments", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/deposit", createDeposit.Handle).Methods(http.MethodPost)

	// Payments.
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)
	api.HandleFunc("/payments/{ref}", getPaymentStatus.Handle).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Timeout sweep: expires overdue deposit charges and frees their slots.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Sweeper.IntervalSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if _, err := expireTransactionsUseCase.Execute(sweepCtx); err != nil {
					log.Error("Sweep failed: %v", err)
				}
			}
		}
	}()
	log.Info("Expiry sweeper started (interval=%ds)", cfg.Sweeper.IntervalSeconds)

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

	stopSweep()

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
