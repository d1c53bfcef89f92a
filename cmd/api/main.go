package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	httpadp "credit-approval-service/internal/adapter/http"
	idemp "credit-approval-service/internal/adapter/middleware"
	repo "credit-approval-service/internal/adapter/repository/mysql"
	"credit-approval-service/internal/adapter/worker"
	"credit-approval-service/internal/config"
	"credit-approval-service/internal/infrastructure/cache"
	"credit-approval-service/internal/infrastructure/db"
	"credit-approval-service/internal/metrics"
	custuc "credit-approval-service/internal/usecase/customer"
	"credit-approval-service/internal/usecase/ingest"
	loanuc "credit-approval-service/internal/usecase/loan"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	gdb, err := db.Open(cfg.DBDriver, cfg.DBTarget())
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	m := metrics.New(prometheus.DefaultRegisterer)

	customers := repo.NewCustomerRepository(gdb)
	loans := repo.NewLoanRepository(gdb)
	ingester := ingest.NewIngester(customers, loans, m, log)
	queue := worker.NewQueue(rdb, cfg.IngestQueue, cfg.IngestDir, ingester, m, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
				log.LogAttrs(c.Request().Context(), slog.LevelError, "request", attrs...)
				return nil
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	}))

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(sqlDB),
		Customers: httpadp.NewCustomerHandler(custuc.NewUsecase(customers, log)),
		Loans:     httpadp.NewLoanHandler(loanuc.NewUsecase(repo.NewGormUoW(gdb), m, log)),
		Ingest:    httpadp.NewIngestHandler(queue),
	}, idemp.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.AppPort
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return queue.Run(gctx, cfg.IngestWorkers) })
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return e.Shutdown(sctx)
	})
	return g.Wait()
}
