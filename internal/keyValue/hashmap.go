package keyValue

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type value struct {
	value   string
	expires time.Time
}

// HashmapStore keeps everything in process memory. Used when the server runs
// self-contained.
type HashmapStore struct {
	sugar *zap.SugaredLogger

	mutex   sync.RWMutex
	hashmap map[string]value

	stop     chan struct{}
	stopOnce sync.Once
}

func NewHashmapStore(sugar *zap.SugaredLogger) *HashmapStore {
	s := &HashmapStore{
		sugar:   sugar,
		hashmap: make(map[string]value),
		stop:    make(chan struct{}),
	}
	go s.checkForExpiredKeys(time.Minute)
	return s
}

func (s *HashmapStore) checkForExpiredKeys(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.removeExpired(now)
		}
	}
}

func (s *HashmapStore) removeExpired(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key, v := range s.hashmap {
		if expired(v.expires, now) {
			s.sugar.Debugf("Key [%s] expired, deleting", key)
			delete(s.hashmap, key)
		}
	}
}

func (s *HashmapStore) Get(key string) (string, bool, error) {
	s.sugar.Debugf("Getting value of key [%s] from hashmap", key)

	s.mutex.RLock()
	v, ok := s.hashmap[key]
	s.mutex.RUnlock()

	if !ok || expired(v.expires, time.Now()) {
		return "", false, nil
	}
	return v.value, true, nil
}

func (s *HashmapStore) GetDel(key string) (string, bool, error) {
	s.sugar.Debugf("Getting and deleting value of key [%s] from hashmap", key)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	v, ok := s.hashmap[key]
	delete(s.hashmap, key)

	if !ok || expired(v.expires, time.Now()) {
		return "", false, nil
	}
	return v.value, true, nil
}

func (s *HashmapStore) Set(key string, val string, expires time.Duration) error {
	s.sugar.Debugf("Setting value of key [%s] in hashmap", key)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.hashmap[key] = value{val, expiresAt(expires)}
	return nil
}

func (s *HashmapStore) Del(key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.hashmap, key)
	return nil
}

func (s *HashmapStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}
