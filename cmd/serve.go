package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"storefront-service/internal/handler"
	"storefront-service/internal/middleware"
	"storefront-service/internal/service"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/pkg/tracing"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	log := a.log

	shutdownTracing, err := tracing.Init(&a.cfg.Tracing, log)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	if a.cfg.Store.Seed {
		if err := seedStore(ctx, a.store, &a.cfg.Store, log); err != nil {
			return err
		}
	}

	jwtUtil := jwtutil.NewJWTUtil(&a.cfg.JWT)
	services := service.New(a.store, log)

	e := echo.New()
	e.HideBanner = true

	// order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(middleware.MetricsMiddleware)
	if a.cfg.Tracing.Enabled {
		e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware(a.cfg.Tracing.ServiceName)))
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	handler.New(services, jwtUtil).Register(e)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", a.cfg.Server.Port))
		if err := e.Start(":" + a.cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server stopped", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
