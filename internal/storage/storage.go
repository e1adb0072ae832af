// Package storage is the persistence facade: named collections and small
// records kept as JSON strings in a keyValue.Store.
package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"voicewave-backend/internal/keyValue"
	"voicewave-backend/internal/models"

	"go.uber.org/zap"
)

const (
	KeyRooms       = "voicewave_rooms"
	KeyUsers       = "voicewave_users"
	KeyPosts       = "voicewave_posts"
	KeyCredentials = "voicewave_credentials"
)

func sessionKey(userID string) string  { return "voicewave_auth:" + userID }
func friendsKey(userID string) string  { return "voicewave_friends:" + userID }
func settingsKey(userID string) string { return "voicewave_settings:" + userID }
func sidebarKey(userID string) string  { return "sidebarCollapsed:" + userID }

func chatKey(userID string, friendID string) string {
	return "chatMessages_" + userID + "_" + friendID
}

type Storage struct {
	kv    keyValue.Store
	sugar *zap.SugaredLogger

	// serializes read-modify-write inside this process
	mu sync.Mutex

	now func() time.Time
}

func New(kv keyValue.Store, sugar *zap.SugaredLogger) *Storage {
	return &Storage{kv: kv, sugar: sugar, now: time.Now}
}

func (s *Storage) Rooms() Collection[models.Room] {
	return NewCollection[models.Room](s, KeyRooms)
}

func (s *Storage) Users() Collection[models.User] {
	return NewCollection[models.User](s, KeyUsers)
}

func (s *Storage) Credentials() Collection[models.Credential] {
	return NewCollection[models.Credential](s, KeyCredentials)
}

func (s *Storage) Posts() Collection[models.VoicePost] {
	return NewCollection[models.VoicePost](s, KeyPosts)
}

func (s *Storage) Friends(userID string) Collection[models.Friend] {
	return NewCollection[models.Friend](s, friendsKey(userID))
}

func (s *Storage) Messages(userID string, friendID string) Collection[models.ChatMessage] {
	return NewCollection[models.ChatMessage](s, chatKey(userID, friendID))
}

// Initialize writes the seeded rooms, posts and an empty user table for any of
// those keys that is absent. Calling it again changes nothing.
func (s *Storage) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := s.now().UTC().Format(time.RFC3339)

	if err := s.setIfAbsent(KeyRooms, func() any { return seedRooms(createdAt) }); err != nil {
		return err
	}
	if err := s.setIfAbsent(KeyPosts, func() any { return seedPosts(s.now()) }); err != nil {
		return err
	}
	if err := s.setIfAbsent(KeyUsers, func() any { return []models.User{} }); err != nil {
		return err
	}
	return nil
}

// InitializeUser seeds the friends list of a user seen for the first time.
func (s *Storage) InitializeUser(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setIfAbsent(friendsKey(userID), func() any { return seedFriends() })
}

// InitializeConversation fills a conversation that reads empty with the
// starter messages. Malformed content reads empty too.
func (s *Storage) InitializeConversation(userID string, friendID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := s.Messages(userID, friendID)
	current, err := messages.read()
	if err != nil {
		return err
	}
	if len(current) > 0 {
		return nil
	}

	s.sugar.Infof("Seeding key [%s]", messages.Key())
	return messages.write(StarterMessages())
}

// Reset overwrites the rooms and posts with the seeded ones. Users and their
// per-user keys are kept.
func (s *Storage) Reset() error {
	createdAt := s.now().UTC().Format(time.RFC3339)

	if err := s.Rooms().Replace(seedRooms(createdAt)); err != nil {
		return err
	}
	return s.Posts().Replace(seedPosts(s.now()))
}

func (s *Storage) setIfAbsent(key string, seed func() any) error {
	_, ok, err := s.kv.Get(key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if ok {
		return nil
	}

	s.sugar.Infof("Seeding key [%s]", key)
	return s.setJSON(key, seed(), 0)
}

func (s *Storage) setJSON(key string, v any, expires time.Duration) error {
	bytes, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.kv.Set(key, string(bytes), expires); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// TakeJSON is GetJSON that also removes the key in the same step.
func (s *Storage) TakeJSON(key string, v any) (bool, error) {
	raw, ok, err := s.kv.GetDel(key)
	if err != nil {
		return false, fmt.Errorf("take %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.sugar.Debugf("Malformed content under key [%s], treating as absent: %v", key, err)
		return false, nil
	}
	return true, nil
}

// GetJSON decodes the value under key into v. Absent and malformed values
// both report false.
func (s *Storage) GetJSON(key string, v any) (bool, error) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.sugar.Debugf("Malformed content under key [%s], treating as absent: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (s *Storage) SetJSON(key string, v any, expires time.Duration) error {
	return s.setJSON(key, v, expires)
}

func (s *Storage) Delete(key string) error {
	if err := s.kv.Del(key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Storage) GetSession(userID string) (models.Session, bool, error) {
	var session models.Session
	ok, err := s.GetJSON(sessionKey(userID), &session)
	if err != nil || !ok {
		return models.Session{}, false, err
	}
	return session, true, nil
}

func (s *Storage) SetSession(session models.Session) error {
	return s.setJSON(sessionKey(session.User.ID), session, 0)
}

func (s *Storage) ClearSession(userID string) error {
	return s.Delete(sessionKey(userID))
}

func (s *Storage) SidebarCollapsed(userID string) (bool, error) {
	raw, ok, err := s.kv.Get(sidebarKey(userID))
	if err != nil || !ok {
		return false, err
	}
	collapsed, err := strconv.ParseBool(raw)
	if err != nil {
		s.sugar.Debugf("Malformed sidebar flag for user [%s]: %v", userID, err)
		return false, nil
	}
	return collapsed, nil
}

func (s *Storage) SetSidebarCollapsed(userID string, collapsed bool) error {
	return s.kv.Set(sidebarKey(userID), strconv.FormatBool(collapsed), 0)
}

func (s *Storage) GetSettings(userID string) (models.Settings, bool, error) {
	var settings models.Settings
	ok, err := s.GetJSON(settingsKey(userID), &settings)
	if err != nil || !ok {
		return models.Settings{}, false, err
	}
	return settings, true, nil
}

func (s *Storage) SaveSettings(userID string, settings models.Settings) error {
	return s.setJSON(settingsKey(userID), settings, 0)
}
