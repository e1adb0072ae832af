package keyValue

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/pebble/v2"
	"go.uber.org/zap"
)

// PebbleStore frames every value as 8 bytes of big-endian expiry (unix
// milliseconds, 0 for never) followed by the value itself.
type PebbleStore struct {
	sugar *zap.SugaredLogger
	db    *pebble.DB

	// pebble has no atomic get-and-delete
	mu sync.Mutex
}

func OpenPebbleStore(sugar *zap.SugaredLogger, dir string) (*PebbleStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{sugar: sugar, db: db}, nil
}

func encodeFramed(value string, expires time.Duration) []byte {
	buf := make([]byte, 8+len(value))
	if at := expiresAt(expires); !at.IsZero() {
		binary.BigEndian.PutUint64(buf[:8], uint64(at.UnixMilli()))
	}
	copy(buf[8:], value)
	return buf
}

func decodeFramed(raw []byte) (string, bool) {
	if len(raw) < 8 {
		return "", false
	}
	at := int64(binary.BigEndian.Uint64(raw[:8]))
	if at > 0 && at <= time.Now().UnixMilli() {
		return "", false
	}
	return string(raw[8:]), true
}

func (s *PebbleStore) get(key string) (string, bool, bool, error) {
	raw, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, false, nil
	} else if err != nil {
		return "", false, false, err
	}
	defer closer.Close()

	value, ok := decodeFramed(raw)
	return value, ok, true, nil
}

func (s *PebbleStore) Get(key string) (string, bool, error) {
	s.sugar.Debugf("Getting value of key [%s] from pebble", key)

	value, ok, present, err := s.get(key)
	if err != nil {
		return "", false, err
	}
	if present && !ok {
		if err := s.deleteIfExpired(key); err != nil {
			s.sugar.Debugf("Failed to delete expired key [%s]: %v", key, err)
		}
	}
	return value, ok, nil
}

// deleteIfExpired reads the key again under the lock, so a Set that landed
// after the caller's read is kept.
func (s *PebbleStore) deleteIfExpired(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok, present, err := s.get(key)
	if err != nil || !present || ok {
		return err
	}
	return s.db.Delete([]byte(key), pebble.NoSync)
}

func (s *PebbleStore) GetDel(key string) (string, bool, error) {
	s.sugar.Debugf("Getting and deleting value of key [%s] from pebble", key)

	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok, present, err := s.get(key)
	if err != nil || !present {
		return "", false, err
	}
	if err := s.db.Delete([]byte(key), pebble.Sync); err != nil {
		return "", false, err
	}
	return value, ok, nil
}

func (s *PebbleStore) Set(key string, value string, expires time.Duration) error {
	s.sugar.Debugf("Setting value of key [%s] in pebble", key)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Set([]byte(key), encodeFramed(value, expires), pebble.Sync)
}

func (s *PebbleStore) Del(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Delete([]byte(key), pebble.Sync)
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}
