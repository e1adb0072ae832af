package rooms

import (
	"errors"
	"math/rand/v2"
	"testing"

	"voicewave-backend/internal/keyValue"
	"voicewave-backend/internal/media"
	"voicewave-backend/internal/models"
	"voicewave-backend/internal/storage"

	"go.uber.org/zap"
)

var (
	host   = models.User{ID: "u-host", Username: "host_1"}
	viewer = models.User{ID: "u-viewer", Username: "viewer_1"}
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	sugar := zap.NewNop().Sugar()
	kv := keyValue.NewHashmapStore(sugar)
	t.Cleanup(func() { kv.Close() })

	store := storage.New(kv, sugar)
	if err := store.Initialize(); err != nil {
		t.Fatal(err)
	}

	s := NewService(store, sugar)
	s.rand = rand.New(rand.NewPCG(1, 2))
	return s
}

func TestListSearch(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "Empty query lists all", query: "", want: []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{name: "Name match ignores case", query: "MEDITATION", want: []string{"2"}},
		{name: "Host match", query: "crypto king", want: []string{"6"}},
		{name: "Tag match", query: "finance", want: []string{"3", "6"}},
		{name: "Partial tag match", query: "disc", want: []string{"1", "5"}},
		{name: "No match", query: "gardening", want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rooms, err := s.List(tc.query)
			if err != nil {
				t.Fatal(err)
			}
			if len(rooms) != len(tc.want) {
				t.Fatalf("got %d rooms, want %v", len(rooms), tc.want)
			}
			for i := range rooms {
				if rooms[i].ID != tc.want[i] {
					t.Errorf("position %d: got %s, want %s", i, rooms[i].ID, tc.want[i])
				}
			}
		})
	}
}

func TestCreate(t *testing.T) {
	s := newTestService(t)

	room, err := s.Create(host, CreateInput{Name: "Late Night <b>Jazz</b>", Description: "smooth", Tags: "Music, , jazz ,"})
	if err != nil {
		t.Fatal(err)
	}

	if room.Name != "Late Night Jazz" {
		t.Errorf("name not sanitized: %q", room.Name)
	}
	if room.HostName != "host_1" || room.CreatorID != "u-host" || !room.IsLive {
		t.Errorf("unexpected room %+v", room)
	}
	if room.ParticipantCount != 4 || room.SpeakerCount != 2 || len(room.Participants) != 4 {
		t.Errorf("unexpected counts %d/%d/%d", room.ParticipantCount, room.SpeakerCount, len(room.Participants))
	}
	if len(room.Tags) != 2 || room.Tags[0] != "Music" || room.Tags[1] != "jazz" {
		t.Errorf("unexpected tags %v", room.Tags)
	}
	if room.ImageURL != "/images/music.jpeg" {
		t.Errorf("unexpected image %s", room.ImageURL)
	}

	rooms, _ := s.List("")
	if rooms[0].ID != room.ID {
		t.Errorf("created room not first")
	}

	if _, err := s.Create(host, CreateInput{Name: "ab"}); err == nil {
		t.Error("short name accepted")
	}
}

func TestGetGeneratesParticipantsAndInsertsViewer(t *testing.T) {
	s := newTestService(t)

	detail, err := s.Get("3", viewer)
	if err != nil {
		t.Fatal(err)
	}

	// host + 4 speakers + viewer + 20 listeners
	if len(detail.Participants) != 26 {
		t.Fatalf("got %d participants, want 26", len(detail.Participants))
	}
	if !detail.Participants[0].IsHost || detail.Participants[0].Name != "Alex Rivera" {
		t.Errorf("first participant is not the host: %+v", detail.Participants[0])
	}
	for i := 1; i <= 4; i++ {
		if !detail.Participants[i].IsSpeaker {
			t.Errorf("participant %d is not a speaker", i)
		}
	}
	if detail.Participants[5].ID != viewer.ID || detail.Participants[5].IsSpeaker {
		t.Errorf("viewer not first listener: %+v", detail.Participants[5])
	}
	if detail.JoinSound != media.JoinSound || detail.LeaveSound != media.LeaveSound {
		t.Errorf("missing join/leave sounds")
	}
	if detail.TopicAudio != media.ClipStartup {
		t.Errorf("got topic %s", detail.TopicAudio)
	}
}

func TestGetSmallRoomListenerCount(t *testing.T) {
	s := newTestService(t)

	created, _ := s.Create(host, CreateInput{Name: "Tiny room"})
	// stored participants are used as is
	detail, err := s.Get(created.ID, viewer)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Participants) != 5 || detail.Participants[2].ID != viewer.ID {
		t.Fatalf("unexpected participants %+v", detail.Participants)
	}

	own, _ := s.Get(created.ID, host)
	if len(own.Participants) != 4 {
		t.Errorf("host inserted twice: %d", len(own.Participants))
	}
}

func TestGetMissingRoom(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Get("missing", viewer); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestService(t)

	created, _ := s.Create(host, CreateInput{Name: "Mine only"})

	if err := s.Delete(created.ID, viewer.ID); !errors.Is(err, ErrNotRoomOwner) {
		t.Fatalf("got %v, want not owner", err)
	}
	if err := s.Delete(created.ID, host.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(created.ID, host.ID); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("got %v, want not found", err)
	}

	// seeded rooms have no creator
	if err := s.Delete("1", viewer.ID); err != nil {
		t.Fatal(err)
	}
	rooms, _ := s.List("")
	if len(rooms) != 7 || rooms[0].ID != "2" {
		t.Errorf("unexpected rooms after delete: %d", len(rooms))
	}
}

func TestSetLive(t *testing.T) {
	s := newTestService(t)

	created, _ := s.Create(host, CreateInput{Name: "Going offline"})

	if _, err := s.SetLive(created.ID, viewer.ID, false); !errors.Is(err, ErrNotRoomOwner) {
		t.Fatalf("got %v", err)
	}
	room, err := s.SetLive(created.ID, host.ID, false)
	if err != nil || room.IsLive {
		t.Fatalf("SetLive = %+v, %v", room, err)
	}

	isHost, _ := s.IsHost(created.ID, host.ID)
	if !isHost {
		t.Error("creator is not host")
	}
	isHost, _ = s.IsHost("1", viewer.ID)
	if isHost {
		t.Error("viewer is host of a seeded room")
	}
}
