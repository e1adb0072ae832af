// Package config loads the server configuration.
//
// Values come from config.json first, then from a .env file if one exists,
// then from VOICEWAVE_* environment variables. Later sources win.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"voicewave-backend/internal/models"

	"github.com/joho/godotenv"
)

const (
	StoreHashmap  = "hashmap"
	StoreRedis    = "redis"
	StoreSqlite   = "sqlite"
	StoreMysql    = "mysql"
	StorePostgres = "postgres"
	StorePebble   = "pebble"
)

const envPrefix = "VOICEWAVE_"

// Default returns the configuration used when config.json is missing.
func Default() models.ConfigFile {
	return models.ConfigFile{
		Address:        "0.0.0.0",
		Port:           "3000",
		LogLevel:       "info",
		Store:          StoreHashmap,
		RedisAddress:   "localhost:6379",
		SqlitePath:     "./database.db",
		PebblePath:     "./data/pebble",
		DbPort:         "3306",
		PublicDir:      "./public",
		StaticDir:      "./public/static",
		FfmpegPath:     "ffmpeg",
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
	}
}

// Load reads path (a missing file is not an error), applies .env and
// environment overrides and validates the result. The returned warnings are
// meant to be logged once a logger exists.
func Load(path string) (models.ConfigFile, []string, error) {
	cfg := Default()
	var warnings []string

	if err := readConfigFile(path, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, nil, err
		}
		warnings = append(warnings, fmt.Sprintf("config file %s not found, using defaults", path))
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, nil, fmt.Errorf("load .env: %w", err)
	}

	applyEnv(&cfg)

	w, err := validate(&cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, append(warnings, w...), nil
}

func readConfigFile(path string, cfg *models.ConfigFile) error {
	configFile, err := os.Open(path)
	if err != nil {
		return err
	}
	defer configFile.Close()

	bytes, err := io.ReadAll(configFile)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(bytes, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *models.ConfigFile) {
	cfg.Address = envOr("ADDRESS", cfg.Address)
	cfg.Port = envOr("PORT", cfg.Port)
	cfg.TlsCert = envOr("TLS_CERT", cfg.TlsCert)
	cfg.TlsKey = envOr("TLS_KEY", cfg.TlsKey)
	cfg.Cors = envBool("CORS", cfg.Cors)
	cfg.AllowedOrigins = envCSV("CORS_ORIGINS", cfg.AllowedOrigins)
	cfg.PrintHttpRequests = envBool("PRINT_HTTP_REQUESTS", cfg.PrintHttpRequests)
	cfg.LogToFile = envBool("LOG_TO_FILE", cfg.LogToFile)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.JwtSecret = envOr("JWT_SECRET", cfg.JwtSecret)
	cfg.SnowflakeWorkerID = int64(envInt("SNOWFLAKE_WORKER_ID", int(cfg.SnowflakeWorkerID)))
	cfg.Store = envOr("STORE", cfg.Store)
	cfg.RedisAddress = envOr("REDIS_ADDR", cfg.RedisAddress)
	cfg.RedisPassword = envOr("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = envInt("REDIS_DB", cfg.RedisDB)
	cfg.SqlitePath = envOr("SQLITE_PATH", cfg.SqlitePath)
	cfg.PebblePath = envOr("PEBBLE_PATH", cfg.PebblePath)
	cfg.DbUser = envOr("DB_USER", cfg.DbUser)
	cfg.DbPassword = envOr("DB_PASSWORD", cfg.DbPassword)
	cfg.DbAddress = envOr("DB_ADDRESS", cfg.DbAddress)
	cfg.DbPort = envOr("DB_PORT", cfg.DbPort)
	cfg.DbDatabase = envOr("DB_DATABASE", cfg.DbDatabase)
	cfg.PublicDir = envOr("PUBLIC_DIR", cfg.PublicDir)
	cfg.StaticDir = envOr("STATIC_DIR", cfg.StaticDir)
	cfg.FfmpegPath = envOr("FFMPEG_PATH", cfg.FfmpegPath)
}

func validate(cfg *models.ConfigFile) ([]string, error) {
	var warnings []string

	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case StoreHashmap, StoreRedis, StoreSqlite, StoreMysql, StorePostgres, StorePebble:
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	if cfg.SnowflakeWorkerID < 0 || cfg.SnowflakeWorkerID > 1023 {
		return nil, fmt.Errorf("snowflake worker ID %d out of range", cfg.SnowflakeWorkerID)
	}

	if cfg.JwtSecret == "" {
		if cfg.Store != StoreHashmap {
			return nil, errors.New("JwtSecret is required when the store outlives the process")
		}
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
		cfg.JwtSecret = hex.EncodeToString(secret)
		warnings = append(warnings, "no JwtSecret configured, generated a random one for this run")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown log level %q, using info", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	return warnings, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(envPrefix + key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return i
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(envPrefix + key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	return def
}

func envCSV(key string, def []string) []string {
	if v := os.Getenv(envPrefix + key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
