package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicewave-backend/internal/auth"
	"voicewave-backend/internal/config"
	"voicewave-backend/internal/database"
	"voicewave-backend/internal/feed"
	"voicewave-backend/internal/fileHandlers"
	"voicewave-backend/internal/friends"
	"voicewave-backend/internal/handlers"
	"voicewave-backend/internal/hub"
	"voicewave-backend/internal/jwt"
	"voicewave-backend/internal/keyValue"
	"voicewave-backend/internal/models"
	"voicewave-backend/internal/rooms"
	"voicewave-backend/internal/settings"
	"voicewave-backend/internal/snowflake"
	"voicewave-backend/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var rootCmd = &cobra.Command{
	Use:          "voicewave",
	Short:        "Voice rooms, voice posts and friends backend",
	RunE:         runServer,
	SilenceUsage: true,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the demo rooms and posts into the configured store and exit",
	RunE:  runSeed,
}

var (
	flagConfigPath string
	flagReset      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "config.json", "path of the json config file")
	seedCmd.Flags().BoolVar(&flagReset, "reset", false, "overwrite the stored rooms and posts with the demo data")
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(cfg *models.ConfigFile) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	if cfg.LogToFile {
		config.OutputPaths = []string{"app.log", "stdout"}
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	config.Level = level

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// backend holds what the configured store needs open for the lifetime of
// the process.
type backend struct {
	db          *sql.DB
	redisClient *redis.Client
	kv          keyValue.Store
}

func (b *backend) Close(sugar *zap.SugaredLogger) {
	if b.kv != nil {
		if err := b.kv.Close(); err != nil {
			sugar.Error(err)
		}
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			sugar.Error(err)
		}
	}
	if b.redisClient != nil {
		if err := b.redisClient.Close(); err != nil {
			sugar.Error(err)
		}
	}
}

func openBackend(cfg *models.ConfigFile, sugar *zap.SugaredLogger) (*backend, error) {
	b := &backend{}

	if cfg.Store == config.StoreRedis {
		sugar.Info("Connecting to redis...")
		redisClient, err := keyValue.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		b.redisClient = redisClient
	}

	var dialect string
	if database.IsSQL(cfg.Store) {
		sugar.Info("Setting up database...")
		db, d, err := database.Setup(cfg, sugar)
		if err != nil {
			b.Close(sugar)
			return nil, err
		}
		b.db = db
		dialect = d
	}

	kv, err := keyValue.Open(cfg, sugar, b.redisClient, b.db, dialect)
	if err != nil {
		b.Close(sugar)
		return nil, err
	}
	b.kv = kv

	return b, nil
}

func loadConfig() (models.ConfigFile, *zap.SugaredLogger, error) {
	cfg, warnings, err := config.Load(flagConfigPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}

	sugar, err := setupLogger(&cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("setup logger: %w", err)
	}

	for _, w := range warnings {
		sugar.Warn(w)
	}
	return cfg, sugar, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, sugar, err := loadConfig()
	if err != nil {
		return err
	}
	defer sugar.Sync()

	b, err := openBackend(&cfg, sugar)
	if err != nil {
		return err
	}
	defer b.Close(sugar)

	store := storage.New(b.kv, sugar)
	if flagReset {
		if err := store.Reset(); err != nil {
			return err
		}
		sugar.Info("Replaced stored rooms and posts with the demo data")
	}

	if err := store.Initialize(); err != nil {
		return err
	}
	sugar.Info("Seeded demo data")
	return nil
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, sugar, err := loadConfig()
	if err != nil {
		return err
	}
	defer sugar.Sync()

	if err := snowflake.Setup(cfg.SnowflakeWorkerID); err != nil {
		return err
	}

	b, err := openBackend(&cfg, sugar)
	if err != nil {
		sugar.Error(err)
		return err
	}
	defer b.Close(sugar)

	store := storage.New(b.kv, sugar)
	if err := store.Initialize(); err != nil {
		sugar.Error(err)
		return err
	}

	isHttps := cfg.TlsCert != "" && cfg.TlsKey != ""
	jwt.Setup(cfg.JwtSecret, isHttps)
	fileHandlers.Setup(sugar, cfg.FfmpegPath, cfg.PublicDir)

	// with redis configured, room events also reach clients of other processes
	roomHub := hub.New(sugar, b.redisClient, cfg.AllowedOrigins)
	defer roomHub.Close()

	authService := auth.NewService(store, sugar, bcrypt.DefaultCost)
	router := handlers.Setup(&cfg, sugar, handlers.Services{
		Auth:     authService,
		Rooms:    rooms.NewService(store, sugar),
		Feed:     feed.NewService(store, sugar),
		Friends:  friends.NewService(store, sugar),
		Settings: settings.NewService(store, authService, sugar),
		Hub:      roomHub,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Address, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infof("Listening on %s (https: %t)", srv.Addr, isHttps)
		var err error
		if isHttps {
			err = srv.ListenAndServeTLS(cfg.TlsCert, cfg.TlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			sugar.Error(err)
			return err
		}
	case <-ctx.Done():
		sugar.Info("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// hijacked websocket connections are not closed by Shutdown
	roomHub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Error(err)
		return err
	}
	return nil
}
