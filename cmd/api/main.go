package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"flowsync/configs"
	"flowsync/internal/api"
	"flowsync/internal/config"
	"flowsync/internal/repository"
	"flowsync/pkg/database"
	"flowsync/pkg/logger"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Muat config
	cfg := configs.LoadConfig()

	// Inisialisasi logger
	logger.InitLoggers(cfg.LogDir)
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	if cfg.InsecureJWTSecret {
		logger.SecurityLogger.Warn("JWT_SECRET is not set, tokens are signed with the development default")
	}
	if err := cfg.Validate(); err != nil {
		logger.ErrorLogger.Error("Invalid configuration", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		logger.SyncLoggers()
		os.Exit(1)
	}

	ctx := context.Background()

	// Inisialisasi database
	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.ErrorLogger.Error("Database connection failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.SystemLogger.Info("Database Connected")

	// Buat tabel jika belum ada
	if err := repository.CreateTableIfNotExists(ctx, db); err != nil {
		logger.ErrorLogger.Error("Schema setup failed", zap.Error(err))
		db.Close()
		os.Exit(1)
	}

	// Redis opsional; tanpa redis profil user dibaca langsung dari database
	var rdb *redis.Client
	if cfg.RedisEnabled {
		rdb, err = database.ConnectRedis(ctx, cfg)
		if err != nil {
			logger.ErrorLogger.Warn("Redis unavailable, cache disabled", zap.Error(err))
			rdb = nil
		} else {
			logger.SystemLogger.Info("Redis Connected")
		}
	}

	deps := config.NewDependencies(cfg, db, rdb)

	if cfg.AdminPassword != "" {
		if err := seedAdmin(ctx, deps, cfg); err != nil {
			logger.ErrorLogger.Error("Admin seed failed", zap.Error(err))
		}
	}

	go deps.Hub.Run()

	app := api.NewApp(deps, cfg)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
			logger.SyncLoggers()
			os.Exit(1)
		}
	}()

	// Urutan penting: HTTP berhenti dulu, baru hub dan koneksi storage.
	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"flowsync": func(ctx context.Context) error {
			logger.SystemLogger.Info("Graceful shutdown initiated")
			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}
			deps.Hub.Stop()
			if rdb != nil {
				if err := rdb.Close(); err != nil {
					logger.ErrorLogger.Warn("Closing redis", zap.Error(err))
				}
			}
			return db.Close()
		},
	})

	code := <-wait
	logger.SystemLogger.Info("Application stopped", zap.Int("exit_code", code))
	logger.SyncLoggers()
	os.Exit(code)
}

func seedAdmin(ctx context.Context, deps *config.Dependencies, cfg configs.Config) error {
	hash, err := deps.Hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}
	return repository.CreateAdminUser(ctx, deps.DB, cfg.AdminUsername, cfg.AdminEmail, hash, cfg.AdminFullName)
}
