package friends

import (
	"errors"
	"testing"
	"time"

	"voicewave-backend/internal/keyValue"
	"voicewave-backend/internal/models"
	"voicewave-backend/internal/storage"

	"go.uber.org/zap"
)

const userID = "u1"

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()

	sugar := zap.NewNop().Sugar()
	kv := keyValue.NewHashmapStore(sugar)
	t.Cleanup(func() { kv.Close() })

	store := storage.New(kv, sugar)
	if err := store.InitializeUser(userID); err != nil {
		t.Fatal(err)
	}

	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 33, 0, 0, time.UTC)}
	s := NewService(store, sugar)
	s.now = clock.now
	return s, clock
}

func friendIDs(friends []models.Friend) []string {
	ids := make([]string, len(friends))
	for i, f := range friends {
		ids[i] = f.ID
	}
	return ids
}

func TestList(t *testing.T) {
	s, _ := newTestService(t)

	tests := []struct {
		name   string
		query  string
		filter string
		want   []string
	}{
		{name: "All", filter: FilterAll, want: []string{"1", "2", "3", "4", "5"}},
		{name: "Online", filter: FilterOnline, want: []string{"1", "4"}},
		{name: "In room", filter: FilterInRoom, want: []string{"2", "5"}},
		{name: "Search ignores case", query: "JO", filter: FilterAll, want: []string{"1", "4"}},
		{name: "Search and filter", query: "son", filter: FilterInRoom, want: []string{"5"}},
		{name: "Unknown filter", filter: "weird", want: []string{"1", "2", "3", "4", "5"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			friends, err := s.List(userID, tc.query, tc.filter)
			if err != nil {
				t.Fatal(err)
			}
			got := friendIDs(friends)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestAddAndSuggestions(t *testing.T) {
	s, _ := newTestService(t)

	suggestions, _ := s.Suggestions(userID, "")
	if len(suggestions) != 4 {
		t.Fatalf("got %d suggestions", len(suggestions))
	}

	friend, err := s.Add(userID, "sarah parker")
	if err != nil {
		t.Fatal(err)
	}
	if friend.Name != "Sarah Parker" || friend.Status != models.StatusOffline {
		t.Errorf("unexpected friend %+v", friend)
	}

	suggestions, _ = s.Suggestions(userID, "")
	if len(suggestions) != 3 {
		t.Errorf("added friend still suggested")
	}

	if _, err := s.Add(userID, "Sarah Parker"); !errors.Is(err, ErrAlreadyFriend) {
		t.Errorf("got %v", err)
	}
	if _, err := s.Add(userID, "  "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("got %v", err)
	}

	friends, _ := s.List(userID, "", FilterAll)
	if len(friends) != 6 || friends[5].ID != friend.ID {
		t.Errorf("new friend not last: %v", friendIDs(friends))
	}
}

func TestRemove(t *testing.T) {
	s, _ := newTestService(t)

	if err := s.Remove(userID, "3"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(userID, "3"); !errors.Is(err, ErrFriendNotFound) {
		t.Fatalf("got %v", err)
	}
	if _, err := s.Profile(userID, "3"); !errors.Is(err, ErrFriendNotFound) {
		t.Fatalf("got %v", err)
	}

	profile, err := s.Profile(userID, "4")
	if err != nil || profile.Occupation != "Musician" {
		t.Fatalf("Profile = %+v, %v", profile, err)
	}
}

func TestChat(t *testing.T) {
	s, _ := newTestService(t)

	msgs, err := s.Messages(userID, "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 3 || msgs[0].Content != "Hey! How are you?" {
		t.Fatalf("starter messages missing: %+v", msgs)
	}

	sent, err := s.Send(userID, "1", "See you <i>tonight</i>")
	if err != nil {
		t.Fatal(err)
	}
	if sent.Sender != models.SenderMe || sent.Content != "See you tonight" || sent.Timestamp != "12:33" {
		t.Errorf("unexpected message %+v", sent)
	}

	msgs, _ = s.Messages(userID, "1")
	if len(msgs) != 4 || msgs[3].ID != sent.ID {
		t.Fatalf("sent message not last: %+v", msgs)
	}

	if err := s.DeleteMessage(userID, "1", "1"); !errors.Is(err, ErrNotOwnMessage) {
		t.Errorf("deleted a friend's message: %v", err)
	}
	if err := s.DeleteMessage(userID, "1", sent.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteMessage(userID, "1", sent.ID); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("got %v", err)
	}

	if _, err := s.Send(userID, "1", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("got %v", err)
	}
	if _, err := s.Messages(userID, "missing"); !errors.Is(err, ErrFriendNotFound) {
		t.Errorf("got %v", err)
	}

	if len(Emojis()) != 10 {
		t.Errorf("got %d emojis", len(Emojis()))
	}
}

func TestCallLifecycle(t *testing.T) {
	s, clock := newTestService(t)

	if _, err := s.StartCall(userID, "3"); !errors.Is(err, ErrFriendOffline) {
		t.Fatalf("called an offline friend: %v", err)
	}

	call, err := s.StartCall(userID, "1")
	if err != nil {
		t.Fatal(err)
	}
	if call.Status != models.CallCalling {
		t.Fatalf("got %s", call.Status)
	}

	clock.advance(7 * time.Second)
	if call, _ = s.Call(userID, call.ID); call.Status != models.CallCalling {
		t.Fatalf("after 7s got %s", call.Status)
	}

	clock.advance(time.Second)
	if call, _ = s.Call(userID, call.ID); call.Status != models.CallNoAnswer {
		t.Fatalf("after 8s got %s", call.Status)
	}

	if call, err = s.EndCall(userID, call.ID); err != nil || call.Status != models.CallEnded {
		t.Fatalf("EndCall = %s, %v", call.Status, err)
	}
	clock.advance(time.Minute)
	if call, _ = s.Call(userID, call.ID); call.Status != models.CallEnded {
		t.Fatalf("ended is not final, got %s", call.Status)
	}

	if _, err := s.Call("someone-else", call.ID); !errors.Is(err, ErrCallNotFound) {
		t.Errorf("other user saw the call: %v", err)
	}
}

func TestJoinFriendRoom(t *testing.T) {
	s, clock := newTestService(t)

	if _, err := s.JoinFriendRoom(userID, "1"); !errors.Is(err, ErrFriendNotInRoom) {
		t.Fatalf("got %v", err)
	}

	status, err := s.JoinFriendRoom(userID, "2")
	if err != nil || status.Status != JoinJoining || status.RoomID != "room1" {
		t.Fatalf("JoinFriendRoom = %+v, %v", status, err)
	}

	clock.advance(time.Second)
	if status, _ = s.JoinFriendRoom(userID, "2"); status.Status != JoinJoining {
		t.Fatalf("after 1s got %s", status.Status)
	}

	clock.advance(800 * time.Millisecond)
	if status, _ = s.JoinFriendRoom(userID, "2"); status.Status != JoinJoined {
		t.Fatalf("after 1.8s got %s", status.Status)
	}

	if status, _ = s.JoinFriendRoom(userID, "2"); status.Status != JoinJoining {
		t.Fatalf("a finished join was not consumed, got %s", status.Status)
	}
}
