package database

import (
	"database/sql"
	"fmt"

	"voicewave-backend/internal/config"
	"voicewave-backend/internal/models"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// IsSQL reports whether the store needs a database connection.
func IsSQL(store string) bool {
	switch store {
	case config.StoreSqlite, config.StoreMysql, config.StorePostgres:
		return true
	}
	return false
}

func setPragmaValues(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	// these next 2 extremely speed up performance of sqlite
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return err
	}

	if _, err := db.Exec("PRAGMA synchronous = normal"); err != nil {
		return err
	}

	return nil
}

func readPragmaValues(db *sql.DB, sugar *zap.SugaredLogger) error {
	var foreignKeysValue bool
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeysValue)
	if err != nil {
		return err
	}

	var journalModeValue string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&journalModeValue)
	if err != nil {
		return err
	}

	var synchronousValue int
	err = db.QueryRow("PRAGMA synchronous").Scan(&synchronousValue)
	if err != nil {
		return err
	}

	var synchronousValueStr string
	switch synchronousValue {
	case 0:
		synchronousValueStr = "off"
	case 1:
		synchronousValueStr = "normal"
	case 2:
		synchronousValueStr = "full"
	case 3:
		synchronousValueStr = "extra"
	default:
		return fmt.Errorf("synchronous value is unsupported")
	}

	sugar.Debugf("sqlite PRAGMA foreign_keys: %t, journal_mode: %s, synchronous: %s", foreignKeysValue, journalModeValue, synchronousValueStr)
	return nil
}

// Setup connects to the database named by cfg.Store and creates the
// local_storage table. The returned dialect is cfg.Store.
func Setup(cfg *models.ConfigFile, sugar *zap.SugaredLogger) (*sql.DB, string, error) {
	sugar.Infof("Connecting to database %s...", cfg.Store)

	var db *sql.DB
	var err error

	switch cfg.Store {
	case config.StoreSqlite:
		db, err = sql.Open("sqlite", cfg.SqlitePath)
		if err != nil {
			return nil, "", err
		}

		// there can be sqlite busy errors if this is not set to 1
		db.SetMaxOpenConns(1)

		if err = setPragmaValues(db); err != nil {
			db.Close()
			return nil, "", err
		}

		if err = readPragmaValues(db, sugar); err != nil {
			db.Close()
			return nil, "", err
		}
	case config.StoreMysql:
		db, err = sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&timeout=10s", cfg.DbUser, cfg.DbPassword, cfg.DbAddress, cfg.DbPort, cfg.DbDatabase))
		if err != nil {
			return nil, "", err
		}

		db.SetMaxOpenConns(10)
	case config.StorePostgres:
		db, err = sql.Open("pgx", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", cfg.DbUser, cfg.DbPassword, cfg.DbAddress, cfg.DbPort, cfg.DbDatabase))
		if err != nil {
			return nil, "", err
		}

		db.SetMaxOpenConns(10)
	default:
		return nil, "", fmt.Errorf("store %q is not a database", cfg.Store)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, "", err
	}

	if err = setupTables(db, cfg.Store); err != nil {
		db.Close()
		return nil, "", err
	}

	return db, cfg.Store, nil
}

func setupTables(db *sql.DB, dialect string) error {
	var query string

	switch dialect {
	case config.StoreMysql:
		query = `
			CREATE TABLE IF NOT EXISTS local_storage (
				k VARCHAR(255) PRIMARY KEY,
				v LONGTEXT NOT NULL,
				expires_at BIGINT NOT NULL DEFAULT 0
			);
		`
	default:
		query = `
			CREATE TABLE IF NOT EXISTS local_storage (
				k VARCHAR(255) PRIMARY KEY,
				v TEXT NOT NULL,
				expires_at BIGINT NOT NULL DEFAULT 0
			);
		`
	}

	_, err := db.Exec(query)
	return err
}
