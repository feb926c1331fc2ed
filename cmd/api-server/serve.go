package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hackgods/doctor-booking/internal/api"
	"github.com/hackgods/doctor-booking/internal/auth"
	"github.com/hackgods/doctor-booking/internal/booking"
	"github.com/hackgods/doctor-booking/internal/config"
	"github.com/hackgods/doctor-booking/internal/db"
	"github.com/hackgods/doctor-booking/internal/doctor"
	"github.com/hackgods/doctor-booking/internal/logging"
	"github.com/hackgods/doctor-booking/internal/metrics"
	redisclient "github.com/hackgods/doctor-booking/internal/redis"
	"github.com/hackgods/doctor-booking/internal/schedule"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config load: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

// stores is the repository set for one storage driver.
type stores struct {
	doctors   doctor.Repository
	schedules schedule.Repository
	bookings  booking.Repository
	deps      []api.Dependency
	close     func()
}

func openStores(ctx context.Context, cfg config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StorageDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &stores{
			doctors:   doctor.NewMemoryRepository(),
			schedules: schedule.NewMemoryRepository(),
			bookings:  booking.NewMemoryRepository(),
			close:     func() {},
		}, nil
	}

	pgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN, db.PoolOptions{})
	if err != nil {
		return nil, fmt.Errorf("postgres connection: %w", err)
	}
	log.Info().Msg("connected to Postgres")

	return &stores{
		doctors:   doctor.NewPgRepository(pool),
		schedules: schedule.NewPgRepository(pool),
		bookings:  booking.NewPgRepository(pool),
		deps:      []api.Dependency{{Name: "postgres", Critical: true, Pinger: pool}},
		close:     pool.Close,
	}, nil
}

// openLocker connects Redis when slot locking is on. Without Redis the
// service still starts; storage constraints alone arbitrate reservations.
func openLocker(ctx context.Context, cfg config.Config, log zerolog.Logger) (redisclient.Locker, *redis.Client) {
	if !cfg.SlotLockEnabled {
		return redisclient.NoopLocker{}, nil
	}

	rdb, err := redisclient.NewRedisClient(ctx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, slot lock disabled")
		return redisclient.NoopLocker{}, nil
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")
	return redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL), rdb
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logging.New(cfg.Env, cfg.LogLevel)
	log.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTPPort).
		Str("storage", cfg.StorageDriver).
		Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(rootCtx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	locker, rdb := openLocker(rootCtx, cfg, log)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("error closing redis")
			}
		}()
		st.deps = append(st.deps, api.Dependency{
			Name:   "redis",
			Pinger: api.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		})
	}

	metrics.Register()

	doctors := doctor.NewService(st.doctors, log)
	resolver := schedule.NewResolver(st.schedules, schedule.ResolverOptions{
		HorizonDays: cfg.BookingHorizon,
		Granularity: cfg.SlotGranularity,
		Location:    cfg.ClinicLocation,
	})

	handler := api.NewRouter(api.RouterConfig{
		Doctors:       doctors,
		Schedules:     schedule.NewService(st.schedules, doctors, resolver.Granularity(), log),
		Resolver:      resolver,
		Allocator:     booking.NewAllocator(st.bookings, doctors, resolver, locker, log),
		Lifecycle:     booking.NewLifecycle(st.bookings, log),
		Queries:       booking.NewQueries(st.bookings),
		Tokens:        auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Dependencies:  st.deps,
		Logger:        log,
		ReservePerMin: cfg.ReservePerMin,
		Env:           cfg.Env,
		Version:       version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-rootCtx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down api-server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("api-server stopped")
	return nil
}
