package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/identity"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog := logger.New(cfg.Env)
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := buildStorage(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to set up storage", zap.String("storage", string(cfg.Storage)), zap.Error(err))
	}
	defer store.cleanup()

	dispatcher := audit.NewDispatcher(store.sink, zlog.Named("audit"), cfg.AuditQueueSize)
	defer dispatcher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	err = routes.RegisterRoutes(r, routes.Deps{
		Config:       cfg,
		Log:          zlog,
		Appointments: store.appointments,
		Users:        store.users,
		Audit:        dispatcher,
		Registry:     registry,
		Now:          func() time.Time { return timezone.NowIn(cfg.Timezone) },
	})
	if err != nil {
		zlog.Fatal("failed to register routes", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("storage", string(cfg.Storage)),
			zap.String("timezone", cfg.Timezone),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

type storage struct {
	appointments domain.Repository
	users        identity.Directory
	sink         audit.Sink
	cleanup      func()
}

// buildStorage escolhe onde ficam agendamentos, usuários e auditoria.
// Os usuários de demonstração são semeados se ainda não existirem.
func buildStorage(
	ctx context.Context,
	cfg *config.Config,
	zlog *zap.Logger,
) (*storage, error) {

	zapSink := audit.NewZapSink(zlog.Named("audit"))

	switch cfg.Storage {
	case config.StorageRedis:
		rdb, err := dbpkg.NewRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}

		users := identity.NewRedisDirectory(rdb)
		if err := users.Seed(ctx, identity.SeedUsers...); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("seed users: %w", err)
		}

		return &storage{
			appointments: infraRepo.NewRedisRepository(rdb),
			users:        users,
			sink:         zapSink,
			cleanup:      func() { _ = rdb.Close() },
		}, nil

	case config.StoragePostgres:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}

		users := identity.NewGormDirectory(db)
		if err := users.Seed(ctx, identity.SeedUsers...); err != nil {
			cleanup()
			return nil, fmt.Errorf("seed users: %w", err)
		}

		return &storage{
			appointments: infraRepo.NewAppointmentGormRepository(db),
			users:        users,
			sink:         audit.NewGormSink(db),
			cleanup:      cleanup,
		}, nil

	default:
		return &storage{
			appointments: infraRepo.NewMemoryRepository(),
			users:        identity.NewMemoryDirectory(identity.SeedUsers...),
			sink:         zapSink,
			cleanup:      func() {},
		}, nil
	}
}
