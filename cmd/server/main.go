package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/freightledger/internal/approval"
	"github.com/mmynk/freightledger/internal/auth"
	"github.com/mmynk/freightledger/internal/config"
	"github.com/mmynk/freightledger/internal/fund"
	"github.com/mmynk/freightledger/internal/jobs"
	"github.com/mmynk/freightledger/internal/metrics"
	"github.com/mmynk/freightledger/internal/middleware"
	"github.com/mmynk/freightledger/internal/service"
	"github.com/mmynk/freightledger/internal/settlement"
	"github.com/mmynk/freightledger/internal/storage/backend"
	"github.com/mmynk/freightledger/pkg/api/apiconnect"
	"github.com/mmynk/freightledger/pkg/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := pflag.StringP("config", "c", "", "path to the YAML config file (default $LEDGER_CONFIG)")
	envFile := pflag.String("env-file", "", "dotenv file to load before reading the environment (default ./.env if present)")
	pflag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(*configPath, envFiles...)
	if err != nil {
		// Logging is not configured yet.
		logging.Setup()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if err := logging.Configure(strings.ToLower(cfg.Log.Level), strings.ToLower(cfg.Log.Format)); err != nil {
		logging.Setup()
		slog.Error("Failed to configure logging", "error", err)
		os.Exit(1)
	}
	logger := slog.Default()

	// Initialize storage
	store, err := backend.Open(cfg.Database)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Database.Driver, "database", backend.Describe(cfg.Database))

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Ledger components
	ledger := fund.NewLedger(store, logger, m)
	batcher := settlement.NewBatcher(store, logger, m)
	workflow := approval.NewWorkflow(store, ledger, logger, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if balance, err := ledger.CurrentBalance(ctx); err != nil {
		slog.Warn("Failed to read fund balance", "error", err)
	} else {
		m.SetFundBalance(balance)
		slog.Info("Fund balance loaded", "balance", balance.StringFixed(2))
	}

	var scheduler *jobs.Scheduler
	if cfg.Audit.Enabled {
		scheduler, err = jobs.NewScheduler(jobs.NewLedgerAuditor(store, logger, m), cfg.Audit.Schedule, logger)
		if err != nil {
			slog.Error("Failed to create scheduler", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
	}

	// Interceptors run in order: log, authenticate, then check the role.
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(m),
		middleware.RequireAuth(jwtManager),
		middleware.RequireLedgerRole(apiconnect.LedgerProcedures...),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewSettlementServiceHandler(service.NewSettlementService(batcher), interceptors))
	mux.Handle(apiconnect.NewFundServiceHandler(service.NewFundService(ledger), interceptors))
	mux.Handle(apiconnect.NewCarrierPayServiceHandler(service.NewCarrierPayService(store, workflow), interceptors))
	mux.Handle(apiconnect.NewIntakeServiceHandler(service.NewIntakeService(store), interceptors))

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.DB().PingContext(r.Context()); err != nil {
			slog.Error("Health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(loggedHandler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
