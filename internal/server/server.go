package server

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"thermo-guard/cmd/app"
	"thermo-guard/internal/api/v1/handler"
	"thermo-guard/internal/common"
	alarmservice "thermo-guard/internal/features/alarm/service"
	coordinatorservice "thermo-guard/internal/features/coordinator/service"
	fabricservice "thermo-guard/internal/features/fabric/service"
	powerservice "thermo-guard/internal/features/power/service"
)

// Run starts the application and blocks until an interrupt is received.
func Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Watch for termination signals in the background. Cancellation is
	// honored between control loop ticks, not mid-procedure.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		log.Printf("Received signal %v, shutting down", sig)
		cancel()
	}()

	// 1. Load and validate configuration
	cfg, err := app.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Set up structured logging
	logger := common.NewLogger(common.LoggerConfig{
		Level: common.LogLevel(cfg.App.LogLevel),
	})
	slog.SetDefault(logger)

	// 3. Build the external system clients
	clients, err := app.NewClients(cfg)
	if err != nil {
		log.Fatalf("Failed to create external clients: %v", err)
	}

	// 4. Wire the services
	alarmProvider := alarmservice.NewService(alarmservice.Config{
		MaxAttempts:    cfg.Sensor.MaxAttempts,
		InitialBackoff: cfg.Sensor.InitialBackoff,
	}, clients.AlarmFeed)

	fabricProvider := fabricservice.NewService(fabricservice.Config{
		GracefulShutdownAttempts: cfg.Fabric.GracefulShutdownAttempts,
		GracefulPollInterval:     cfg.Fabric.GracefulPollInterval,
		ForceOffTimeout:          cfg.Fabric.ForceOffTimeout,
		ForceOffPollInterval:     cfg.Fabric.ForceOffPollInterval,
		MaintenanceTimeout:       cfg.Fabric.MaintenanceTimeout,
		HostTaskPollInterval:     cfg.Fabric.HostTaskPollInterval,
	}, clients.FabricConnector)

	powerProvider := powerservice.NewService(clients.PowerConnector)

	registry := prometheus.NewRegistry()
	metrics := coordinatorservice.NewMetricsCollector()
	metrics.Register(registry)

	coordinator := coordinatorservice.NewCoordinator(
		fabricProvider,
		powerProvider,
		cfg.OutOfBand.Hosts,
		metrics,
	)

	// 5. Optionally reconcile the assumed initial state with reality
	if cfg.Controller.ProbeInitialState {
		if err := coordinator.SeedFromProbe(ctx, powerProvider); err != nil {
			log.Printf("Initial state probe failed, assuming cluster is running: %v", err)
		}
	}

	// 6. Start the HTTP status server
	httpServer := startHTTPServer(cfg, coordinator, registry)
	defer stopHTTPServer(cfg, httpServer)

	// 7. Run the control loop until interrupted
	loop := coordinatorservice.NewControlLoop(coordinatorservice.LoopConfig{
		PollInterval: cfg.Controller.PollInterval,
		ErrorDelay:   cfg.Controller.ErrorDelay,
	}, alarmProvider, coordinator)

	log.Println("Starting Thermo-Guard")
	if err := loop.Run(ctx); err != nil {
		log.Printf("Control loop error: %v", err)
	}

	log.Println("Thermo-Guard stopped")
}

// startHTTPServer serves the health, status and metrics endpoints in the
// background.
func startHTTPServer(cfg *app.Config, coordinator *coordinatorservice.Coordinator, registry *prometheus.Registry) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	handler.NewHealthHandler().SetupRoutes(engine)
	handler.NewStatusHandler(coordinator).SetupRoutes(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: engine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	return srv
}

// stopHTTPServer drains the HTTP server with the configured timeout.
func stopHTTPServer(cfg *app.Config, srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}
