package storage

import (
	"testing"

	"voicewave-backend/internal/keyValue"
	"voicewave-backend/internal/models"

	"go.uber.org/zap"
)

func newTestStorage(t *testing.T) (*Storage, keyValue.Store) {
	t.Helper()

	kv := keyValue.NewHashmapStore(zap.NewNop().Sugar())
	t.Cleanup(func() { kv.Close() })
	return New(kv, zap.NewNop().Sugar()), kv
}

func roomIDs(rooms []models.Room) []string {
	ids := make([]string, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID
	}
	return ids
}

func equalIDs(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInitializeIsIdempotent(t *testing.T) {
	s, _ := newTestStorage(t)

	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}

	rooms, err := s.Rooms().All()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	if !equalIDs(roomIDs(rooms), want) {
		t.Fatalf("got rooms %v, want %v", roomIDs(rooms), want)
	}

	posts, _ := s.Posts().All()
	if len(posts) != 2 {
		t.Errorf("got %d posts, want 2", len(posts))
	}

	users, _ := s.Users().All()
	if len(users) != 0 {
		t.Errorf("got %d users, want 0", len(users))
	}
}

func TestInitializeKeepsExistingRooms(t *testing.T) {
	s, _ := newTestStorage(t)

	if err := s.Rooms().Replace([]models.Room{{ID: "mine"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}

	rooms, _ := s.Rooms().All()
	if !equalIDs(roomIDs(rooms), []string{"mine"}) {
		t.Fatalf("existing rooms overwritten: %v", roomIDs(rooms))
	}
}

func TestInitializeUser(t *testing.T) {
	s, _ := newTestStorage(t)

	if err := s.InitializeUser("u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Friends("u1").DeleteByID("1"); err != nil {
		t.Fatal(err)
	}
	if err := s.InitializeUser("u1"); err != nil {
		t.Fatal(err)
	}

	friends, _ := s.Friends("u1").All()
	if len(friends) != 4 {
		t.Errorf("got %d friends after reseed, want 4", len(friends))
	}

	other, _ := s.Friends("u2").All()
	if len(other) != 0 {
		t.Errorf("friends leaked to another user: %d", len(other))
	}
}

func TestAddThenReadReturnsRecordFirst(t *testing.T) {
	s, _ := newTestStorage(t)
	s.Initialize()

	if err := s.Rooms().Add(models.Room{ID: "new", Name: "Late Night Jazz"}); err != nil {
		t.Fatal(err)
	}

	rooms, _ := s.Rooms().All()
	if len(rooms) != 9 || rooms[0].ID != "new" {
		t.Fatalf("got %v, want new first of 9", roomIDs(rooms))
	}
}

func TestAppendKeepsOldestFirst(t *testing.T) {
	s, _ := newTestStorage(t)
	c := s.Messages("u1", "2")

	c.Append(models.ChatMessage{ID: "a"})
	c.Append(models.ChatMessage{ID: "b"})

	msgs, _ := c.All()
	if len(msgs) != 2 || msgs[0].ID != "a" || msgs[1].ID != "b" {
		t.Fatalf("unexpected order %+v", msgs)
	}
}

func TestDeleteByIDRemovesExactlyOne(t *testing.T) {
	s, _ := newTestStorage(t)
	s.Initialize()

	found, err := s.Rooms().DeleteByID("4")
	if err != nil || !found {
		t.Fatalf("DeleteByID = %t, %v", found, err)
	}

	rooms, _ := s.Rooms().All()
	want := []string{"1", "2", "3", "5", "6", "7", "8"}
	if !equalIDs(roomIDs(rooms), want) {
		t.Fatalf("got %v, want %v", roomIDs(rooms), want)
	}

	found, _ = s.Rooms().DeleteByID("missing")
	if found {
		t.Error("DeleteByID reported a missing record as found")
	}
	rooms, _ = s.Rooms().All()
	if len(rooms) != 7 {
		t.Errorf("deleting a missing id changed the collection: %d", len(rooms))
	}
}

func TestUpdateReplacesOnlyMatching(t *testing.T) {
	s, _ := newTestStorage(t)
	s.Initialize()

	before, _ := s.Rooms().All()

	updated := before[2]
	updated.Name = "Renamed"
	updated.IsLive = false

	found, err := s.Rooms().Update(updated)
	if err != nil || !found {
		t.Fatalf("Update = %t, %v", found, err)
	}

	after, _ := s.Rooms().All()
	if !equalIDs(roomIDs(after), roomIDs(before)) {
		t.Fatalf("order changed: %v", roomIDs(after))
	}
	for i := range after {
		if i == 2 {
			if after[i].Name != "Renamed" || after[i].IsLive {
				t.Errorf("record not updated: %+v", after[i])
			}
			continue
		}
		if after[i].Name != before[i].Name || after[i].IsLive != before[i].IsLive {
			t.Errorf("record %s changed: %+v", after[i].ID, after[i])
		}
	}

	found, _ = s.Rooms().Update(models.Room{ID: "missing"})
	if found {
		t.Error("Update matched a missing id")
	}
}

func TestMalformedContentReadsAsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "Not JSON", value: "{{{"},
		{name: "Wrong shape", value: `{"id":"1"}`},
		{name: "Null", value: "null"},
		{name: "Empty string", value: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, kv := newTestStorage(t)
			kv.Set(KeyRooms, tc.value, 0)

			rooms, err := s.Rooms().All()
			if err != nil {
				t.Fatalf("got error %v, want none", err)
			}
			if len(rooms) != 0 {
				t.Fatalf("got %d rooms, want 0", len(rooms))
			}

			if err := s.Rooms().Add(models.Room{ID: "x"}); err != nil {
				t.Fatal(err)
			}
			rooms, _ = s.Rooms().All()
			if len(rooms) != 1 {
				t.Fatalf("add after malformed content gave %d rooms", len(rooms))
			}
		})
	}
}

func TestSessionAndSidebar(t *testing.T) {
	s, kv := newTestStorage(t)

	if _, ok, _ := s.GetSession("u1"); ok {
		t.Fatal("session present before login")
	}

	session := models.Session{User: models.User{ID: "u1", Email: "a@b.co"}, SessionID: "s1"}
	if err := s.SetSession(session); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.GetSession("u1")
	if err != nil || !ok || got.SessionID != "s1" {
		t.Fatalf("GetSession = %+v, %t, %v", got, ok, err)
	}

	s.ClearSession("u1")
	if _, ok, _ := s.GetSession("u1"); ok {
		t.Fatal("session present after clear")
	}

	kv.Set(sessionKey("u2"), "garbage", 0)
	if _, ok, err := s.GetSession("u2"); ok || err != nil {
		t.Fatalf("malformed session = %t, %v", ok, err)
	}

	if collapsed, _ := s.SidebarCollapsed("u1"); collapsed {
		t.Fatal("sidebar collapsed by default")
	}
	s.SetSidebarCollapsed("u1", true)
	if collapsed, _ := s.SidebarCollapsed("u1"); !collapsed {
		t.Fatal("sidebar flag not stored")
	}
}

func TestInitializeConversationSeedsEmpty(t *testing.T) {
	testCases := []struct {
		name     string
		stored   string
		expected int
	}{
		{"absent", "", 3},
		{"emptied", "[]", 3},
		{"malformed", "garbage", 3},
		{"existing", `[{"id":"9","sender":"me","content":"hi","timestamp":"10:00"}]`, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, kv := newTestStorage(t)
			if tc.stored != "" {
				kv.Set(chatKey("u1", "f1"), tc.stored, 0)
			}

			if err := s.InitializeConversation("u1", "f1"); err != nil {
				t.Fatal(err)
			}

			messages, err := s.Messages("u1", "f1").All()
			if err != nil {
				t.Fatal(err)
			}
			if len(messages) != tc.expected {
				t.Errorf("got %d messages, want %d", len(messages), tc.expected)
			}
		})
	}
}

func TestResetRestoresSeeds(t *testing.T) {
	s, _ := newTestStorage(t)

	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := s.Rooms().Add(models.Room{ID: "mine"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Posts().DeleteByID("1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Users().Add(models.User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}

	rooms, _ := s.Rooms().All()
	if len(rooms) != 8 || rooms[0].ID == "mine" {
		t.Errorf("rooms not reset: %v", roomIDs(rooms))
	}
	posts, _ := s.Posts().All()
	if len(posts) != 2 {
		t.Errorf("got %d posts, want 2", len(posts))
	}
	users, _ := s.Users().All()
	if len(users) != 1 {
		t.Errorf("reset touched users: got %d", len(users))
	}
}

func TestTakeJSONRemovesKey(t *testing.T) {
	s, _ := newTestStorage(t)

	if err := s.SetJSON("once", 42, 0); err != nil {
		t.Fatal(err)
	}

	var v int
	if ok, err := s.TakeJSON("once", &v); !ok || err != nil || v != 42 {
		t.Fatalf("TakeJSON = %t, %v, %d", ok, err, v)
	}
	if ok, err := s.TakeJSON("once", &v); ok || err != nil {
		t.Fatalf("second TakeJSON = %t, %v", ok, err)
	}
}
