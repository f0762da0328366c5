package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/salonware/booking-engine/internal/api"
	"github.com/salonware/booking-engine/internal/booking"
	"github.com/salonware/booking-engine/internal/clock"
	"github.com/salonware/booking-engine/internal/config"
	"github.com/salonware/booking-engine/internal/db"
	"github.com/salonware/booking-engine/internal/notify"
	redisclient "github.com/salonware/booking-engine/internal/redis"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	logger.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.Int("slot_granularity", cfg.SlotGranularity))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("error closing redis", zap.Error(err))
		}
	}()
	logger.Info("connected to Redis")

	repo := booking.NewPgRepository(pgPool)
	settings := booking.NewPgSettings(pgPool)
	hours := booking.NewHoursResolver(settings, logger)
	locker := redisclient.NewRedisStaffDayLocker(rdb, cfg.LockTTL)
	notifier := newNotifier(cfg, logger)

	engine := booking.NewEngine(repo, hours, cfg.SlotGranularity, logger)
	admission := booking.NewAdmission(repo, hours, locker, notifier, clock.NewSystem(), logger)

	router := api.NewRouter(api.RouterConfig{
		Engine:    engine,
		Admission: admission,
		PgPool:    pgPool,
		Redis:     rdb,
		Env:       cfg.Env,
		Version:   version,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("logger init error: " + err.Error())
	}
	return logger
}

// newNotifier picks the configured notification channel: Kafka events when
// brokers are set, direct SMTP when only mail is configured, log output
// otherwise.
func newNotifier(cfg config.Config, logger *zap.Logger) booking.Notifier {
	if cfg.KafkaBrokers != "" {
		logger.Info("notifications via kafka", zap.String("topic", cfg.NotifyTopic))
		return notify.NewKafkaNotifier(splitBrokers(cfg.KafkaBrokers), cfg.NotifyTopic)
	}
	if cfg.SMTPHost != "" {
		logger.Info("notifications via smtp", zap.String("host", cfg.SMTPHost))
		return notify.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	}
	logger.Info("notifications via log only")
	return notify.NewLogNotifier(logger)
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
