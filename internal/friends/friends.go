// Package friends manages a user's friends list and the simulated chat,
// calls and room joins with them.
package friends

import (
	"errors"
	"slices"
	"strings"
	"time"

	"voicewave-backend/internal/models"
	"voicewave-backend/internal/sanitize"
	"voicewave-backend/internal/snowflake"
	"voicewave-backend/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrFriendNotFound  = errors.New("Friend not found")
	ErrAlreadyFriend   = errors.New("Already in your friends list")
	ErrEmptyName       = errors.New("Enter a username")
	ErrFriendOffline   = errors.New("Friend is offline")
	ErrFriendNotInRoom = errors.New("Friend is not in a room")
)

const (
	FilterAll    = "all"
	FilterOnline = "online"
	FilterInRoom = "in-room"
)

type Service struct {
	store *storage.Storage
	sugar *zap.SugaredLogger
	now   func() time.Time
}

func NewService(store *storage.Storage, sugar *zap.SugaredLogger) *Service {
	return &Service{store: store, sugar: sugar, now: time.Now}
}

// List filters by name substring and status. Unknown filters act as "all".
func (s *Service) List(userID string, query string, filter string) ([]models.Friend, error) {
	friends, err := s.store.Friends(userID).All()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	return slices.DeleteFunc(friends, func(f models.Friend) bool {
		if !strings.Contains(strings.ToLower(f.Name), query) {
			return true
		}
		switch filter {
		case FilterOnline:
			return f.Status != models.StatusOnline
		case FilterInRoom:
			return f.Status != models.StatusInRoom
		}
		return false
	}), nil
}

func (s *Service) Friend(userID string, friendID string) (models.Friend, error) {
	friend, found, err := s.store.Friends(userID).Find(friendID)
	if err != nil {
		return models.Friend{}, err
	}
	if !found {
		return models.Friend{}, ErrFriendNotFound
	}
	return friend, nil
}

// Profile is Friend under the name the profile dialog uses.
func (s *Service) Profile(userID string, friendID string) (models.Friend, error) {
	return s.Friend(userID, friendID)
}

// Remove also drops the conversation with the friend.
func (s *Service) Remove(userID string, friendID string) error {
	found, err := s.store.Friends(userID).DeleteByID(friendID)
	if err != nil {
		return err
	}
	if !found {
		return ErrFriendNotFound
	}

	if err := s.store.Delete(s.store.Messages(userID, friendID).Key()); err != nil {
		s.sugar.Warnf("Failed to delete conversation of user [%s] with [%s]: %v", userID, friendID, err)
	}
	return nil
}

// Suggestions lists people the user is not friends with yet, filtered by name.
func (s *Service) Suggestions(userID string, query string) ([]models.Suggestion, error) {
	friends, err := s.store.Friends(userID).All()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	return slices.DeleteFunc(storage.Suggestions(), func(sg models.Suggestion) bool {
		if !strings.Contains(strings.ToLower(sg.Name), query) {
			return true
		}
		return slices.ContainsFunc(friends, func(f models.Friend) bool { return strings.EqualFold(f.Name, sg.Name) })
	}), nil
}

// Add befriends someone by name. Suggested people keep their spelling.
func (s *Service) Add(userID string, name string) (models.Friend, error) {
	name = sanitize.Line(name, 64)
	if name == "" {
		return models.Friend{}, ErrEmptyName
	}

	for _, sg := range storage.Suggestions() {
		if strings.EqualFold(sg.Name, name) {
			name = sg.Name
			break
		}
	}

	friend := models.Friend{
		ID:     snowflake.GenerateString(),
		Name:   name,
		Status: models.StatusOffline,
	}

	err := s.store.Friends(userID).Mutate(func(friends []models.Friend) ([]models.Friend, error) {
		if slices.ContainsFunc(friends, func(f models.Friend) bool { return strings.EqualFold(f.Name, name) }) {
			return nil, ErrAlreadyFriend
		}
		return append(friends, friend), nil
	})
	if err != nil {
		return models.Friend{}, err
	}
	return friend, nil
}
