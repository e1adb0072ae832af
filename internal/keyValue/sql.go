package keyValue

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"voicewave-backend/internal/config"

	"go.uber.org/zap"
)

// SQLStore keeps keys in the local_storage table created by database.Setup.
// expires_at is unix milliseconds, 0 for keys that never expire.
type SQLStore struct {
	sugar   *zap.SugaredLogger
	db      *sql.DB
	dialect string

	stop     chan struct{}
	stopOnce sync.Once
}

func NewSQLStore(sugar *zap.SugaredLogger, db *sql.DB, dialect string) *SQLStore {
	s := &SQLStore{
		sugar:   sugar,
		db:      db,
		dialect: dialect,
		stop:    make(chan struct{}),
	}
	go s.checkForExpiredKeys(time.Minute)
	return s
}

func (s *SQLStore) checkForExpiredKeys(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			_, err := s.db.Exec(s.rebind("DELETE FROM local_storage WHERE expires_at > 0 AND expires_at <= ?"), now.UnixMilli())
			if err != nil {
				s.sugar.Warnf("Failed to delete expired keys: %v", err)
			}
		}
	}
}

// rebind turns ? placeholders into $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != config.StorePostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (s *SQLStore) upsertQuery() string {
	switch s.dialect {
	case config.StoreMysql:
		return "INSERT INTO local_storage (k, v, expires_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v), expires_at = VALUES(expires_at)"
	default:
		return s.rebind("INSERT INTO local_storage (k, v, expires_at) VALUES (?, ?, ?) ON CONFLICT (k) DO UPDATE SET v = excluded.v, expires_at = excluded.expires_at")
	}
}

type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (s *SQLStore) get(q queryRower, key string) (string, bool, error) {
	var value string
	var expiresAtMs int64

	err := q.QueryRow(s.rebind("SELECT v, expires_at FROM local_storage WHERE k = ?"), key).Scan(&value, &expiresAtMs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}

	if expiresAtMs > 0 && expiresAtMs <= time.Now().UnixMilli() {
		return "", false, nil
	}
	return value, true, nil
}

func (s *SQLStore) Get(key string) (string, bool, error) {
	s.sugar.Debugf("Getting value of key [%s] from %s", key, s.dialect)
	return s.get(s.db, key)
}

func (s *SQLStore) GetDel(key string) (string, bool, error) {
	s.sugar.Debugf("Getting and deleting value of key [%s] from %s", key, s.dialect)

	tx, err := s.db.Begin()
	if err != nil {
		return "", false, err
	}
	defer tx.Rollback()

	value, ok, err := s.get(tx, key)
	if err != nil {
		return "", false, err
	}

	if _, err := tx.Exec(s.rebind("DELETE FROM local_storage WHERE k = ?"), key); err != nil {
		return "", false, err
	}

	if err := tx.Commit(); err != nil {
		return "", false, err
	}
	return value, ok, nil
}

func (s *SQLStore) Set(key string, value string, expires time.Duration) error {
	s.sugar.Debugf("Setting value of key [%s] in %s", key, s.dialect)

	var expiresAtMs int64
	if at := expiresAt(expires); !at.IsZero() {
		expiresAtMs = at.UnixMilli()
	}

	_, err := s.db.Exec(s.upsertQuery(), key, value, expiresAtMs)
	return err
}

func (s *SQLStore) Del(key string) error {
	_, err := s.db.Exec(s.rebind("DELETE FROM local_storage WHERE k = ?"), key)
	return err
}

// Close stops the sweeper. The database itself is closed by main.
func (s *SQLStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}
