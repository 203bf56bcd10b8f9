package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmrzaf/colgen/internal/api"
	"github.com/mmrzaf/colgen/internal/app"
	"github.com/mmrzaf/colgen/internal/config"
	"github.com/mmrzaf/colgen/internal/infra/repos/schemas"
	"github.com/mmrzaf/colgen/internal/logging"
	"github.com/mmrzaf/colgen/internal/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger("error").Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "config"})
		os.Exit(1)
	}

	schemasDir := flag.String("schemas-dir", cfg.SchemasDir, "Schemas directory")
	bindAddr := flag.String("bind", cfg.BindAddr, "Bind address")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	batchSize := flag.Int("batch-size", cfg.BatchSize, "Rows per generated batch")
	maxRows := flag.Int("max-rows", cfg.MaxSampleRows, "Largest sample a request may ask for")
	flag.Parse()

	base := logging.NewLogger(*logLevel)
	if cfg.LogFile != "" {
		var closer io.Closer
		base, closer = logging.NewFileLogger(*logLevel, os.Stdout, logging.FileOptions{
			Path: cfg.LogFile, MaxSizeMB: 100, MaxBackups: 5, MaxAgeDays: 30,
		})
		defer closer.Close()
	}
	logger := base.WithComponent("api_main")

	sampleService := app.NewSampleService(
		schemas.NewFileRepository(*schemasDir),
		registry.DefaultGeneratorRegistry(),
		app.Defaults{
			NullThreshold:      cfg.NullThreshold,
			ArrayNullThreshold: cfg.ArrayNullThreshold,
			NaNPercent:         cfg.NaNPercent,
			BatchSize:          *batchSize,
			MaxRows:            *maxRows,
		},
		base,
	)
	handler := api.NewHandler(sampleService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/schemas", handler.ListSchemas)
	mux.HandleFunc("GET /api/v1/schemas/{id}", handler.GetSchema)
	mux.HandleFunc("POST /api/v1/samples", handler.CreateSample)
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              *bindAddr,
		Handler:           loggingMiddleware(base.WithComponent("http"), mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infow("startup.listening", map[string]any{"bind": *bindAddr, "schemas_dir": *schemasDir})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "listen"})
		os.Exit(1)
	}
	logger.Infow("shutdown.completed", nil)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		fields := map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      sw.status,
			"duration_ms": time.Since(started).Milliseconds(),
			"remote":      r.RemoteAddr,
		}
		if sw.status >= 500 {
			logger.Errorw("request.completed", fields)
			return
		}
		if sw.status >= 400 {
			logger.Warnw("request.completed", fields)
			return
		}
		logger.Infow("request.completed", fields)
	})
}
