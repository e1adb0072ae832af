// Package rooms lists, creates and opens voice rooms.
package rooms

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"voicewave-backend/internal/media"
	"voicewave-backend/internal/models"
	"voicewave-backend/internal/sanitize"
	"voicewave-backend/internal/storage"
	"voicewave-backend/internal/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrRoomNotFound = errors.New("Room not found")
	ErrNotRoomOwner = errors.New("Only the room creator can do that")
)

const maxGeneratedListeners = 20

type Service struct {
	store *storage.Storage
	sugar *zap.SugaredLogger
	now   func() time.Time

	randMu sync.Mutex
	rand   *rand.Rand
}

func NewService(store *storage.Storage, sugar *zap.SugaredLogger) *Service {
	return &Service{
		store: store,
		sugar: sugar,
		now:   time.Now,
		rand:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// List returns rooms newest first. A non-empty query keeps rooms whose name,
// host name or any tag contains it, ignoring case.
func (s *Service) List(query string) ([]models.Room, error) {
	rooms, err := s.store.Rooms().All()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rooms, nil
	}

	return slices.DeleteFunc(rooms, func(r models.Room) bool { return !matches(r, query) }), nil
}

func matches(r models.Room, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(r.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(r.HostName), lowerQuery) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}

type CreateInput struct {
	Name        string `json:"name" validate:"required,min=3,max=50"`
	Description string `json:"description" validate:"max=300"`
	Tags        string `json:"tags" validate:"max=200"`
	ImageURL    string `json:"imageUrl" validate:"max=512"`
}

// SplitTags splits a comma separated list, dropping empty entries.
func SplitTags(csv string) []string {
	tags := []string{}
	for _, tag := range strings.Split(csv, ",") {
		if tag = sanitize.Line(tag, 32); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (s *Service) Create(user models.User, input CreateInput) (models.Room, error) {
	input.Name = sanitize.Line(input.Name, 0)
	input.Description = sanitize.Text(input.Description)
	input.ImageURL = sanitize.Line(input.ImageURL, 0)

	if err := validator.Struct(input); err != nil {
		return models.Room{}, err
	}

	roomID, err := uuid.NewV7()
	if err != nil {
		return models.Room{}, err
	}

	tags := SplitTags(input.Tags)
	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = media.ImageForTags(tags)
	}

	room := models.Room{
		ID:               roomID.String(),
		Name:             input.Name,
		HostName:         user.Username,
		ParticipantCount: 4,
		SpeakerCount:     2,
		IsLive:           true,
		Description:      input.Description,
		Tags:             tags,
		ImageURL:         imageURL,
		CreatorID:        user.ID,
		CreatedAt:        s.now().UTC().Format(time.RFC3339),
		Participants: []models.Participant{
			{ID: user.ID, Name: user.Username, ImageURL: user.AvatarURL, IsSpeaker: true, IsHost: true},
			{ID: "dummy-speaker", Name: "Demo Speaker", IsSpeaker: true},
			{ID: "dummy-listener-1", Name: "Demo Listener 1", IsMuted: true},
			{ID: "dummy-listener-2", Name: "Demo Listener 2", IsMuted: true},
		},
	}

	if err := s.store.Rooms().Add(room); err != nil {
		return models.Room{}, err
	}

	s.sugar.Infof("User [%s] created room [%s]", user.ID, room.ID)
	return room, nil
}

// Get opens a room for viewer. Rooms without stored participants get a
// generated crowd. The viewer is placed first among the listeners unless
// already present.
func (s *Service) Get(roomID string, viewer models.User) (models.RoomDetail, error) {
	room, found, err := s.store.Rooms().Find(roomID)
	if err != nil {
		return models.RoomDetail{}, err
	}
	if !found {
		return models.RoomDetail{}, ErrRoomNotFound
	}

	participants := room.Participants
	if len(participants) == 0 {
		participants = s.generateParticipants(room)
	}
	room.Participants = insertViewer(participants, viewer)

	return models.RoomDetail{
		Room:       room,
		TopicAudio: media.TopicAudio(room.Name, room.Tags),
		JoinSound:  media.JoinSound,
		LeaveSound: media.LeaveSound,
	}, nil
}

func (s *Service) generateParticipants(room models.Room) []models.Participant {
	s.randMu.Lock()
	defer s.randMu.Unlock()

	participants := []models.Participant{{
		ID:         "host-1",
		Name:       room.HostName,
		IsSpeaker:  true,
		IsHost:     true,
		IsSpeaking: true,
	}}

	for i := 1; i < room.SpeakerCount; i++ {
		participants = append(participants, models.Participant{
			ID:         fmt.Sprintf("speaker-%d", i),
			Name:       fmt.Sprintf("Speaker %d", i),
			IsSpeaker:  true,
			IsMuted:    s.rand.Float64() > 0.7,
			IsSpeaking: s.rand.Float64() > 0.5,
		})
	}

	listeners := min(maxGeneratedListeners, room.ParticipantCount-room.SpeakerCount)
	for i := 1; i <= listeners; i++ {
		participants = append(participants, models.Participant{
			ID:            fmt.Sprintf("participant-%d", i),
			Name:          fmt.Sprintf("Listener %d", i),
			IsMuted:       true,
			HasRaisedHand: s.rand.Float64() > 0.8,
		})
	}

	return participants
}

func insertViewer(participants []models.Participant, viewer models.User) []models.Participant {
	if viewer.ID == "" || slices.ContainsFunc(participants, func(p models.Participant) bool { return p.ID == viewer.ID }) {
		return participants
	}

	out := make([]models.Participant, 0, len(participants)+1)
	for _, p := range participants {
		if p.IsSpeaker || p.IsHost {
			out = append(out, p)
		}
	}
	out = append(out, models.Participant{
		ID:       viewer.ID,
		Name:     viewer.Username,
		ImageURL: viewer.AvatarURL,
		IsMuted:  true,
	})
	for _, p := range participants {
		if !p.IsSpeaker && !p.IsHost {
			out = append(out, p)
		}
	}
	return out
}

// Delete removes a room. Rooms with a creator can only be removed by them.
func (s *Service) Delete(roomID string, userID string) error {
	return s.store.Rooms().Mutate(func(rooms []models.Room) ([]models.Room, error) {
		i := slices.IndexFunc(rooms, func(r models.Room) bool { return r.ID == roomID })
		if i < 0 {
			return nil, ErrRoomNotFound
		}
		if rooms[i].CreatorID != "" && rooms[i].CreatorID != userID {
			return nil, ErrNotRoomOwner
		}
		return slices.Delete(rooms, i, i+1), nil
	})
}

func (s *Service) SetLive(roomID string, userID string, live bool) (models.Room, error) {
	var updated models.Room
	err := s.store.Rooms().Mutate(func(rooms []models.Room) ([]models.Room, error) {
		i := slices.IndexFunc(rooms, func(r models.Room) bool { return r.ID == roomID })
		if i < 0 {
			return nil, ErrRoomNotFound
		}
		if rooms[i].CreatorID != userID {
			return nil, ErrNotRoomOwner
		}
		rooms[i].IsLive = live
		updated = rooms[i]
		return rooms, nil
	})
	return updated, err
}

// IsHost reports whether userID hosts the room. Only created rooms have a
// host that is a real user.
func (s *Service) IsHost(roomID string, userID string) (bool, error) {
	room, found, err := s.store.Rooms().Find(roomID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, ErrRoomNotFound
	}
	return room.CreatorID != "" && room.CreatorID == userID, nil
}
