package auth

import (
	"errors"
	"reflect"
	"testing"

	"voicewave-backend/internal/keyValue"
	"voicewave-backend/internal/storage"
	"voicewave-backend/internal/validator"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*Service, *storage.Storage) {
	t.Helper()

	sugar := zap.NewNop().Sugar()
	kv := keyValue.NewHashmapStore(sugar)
	t.Cleanup(func() { kv.Close() })

	store := storage.New(kv, sugar)
	if err := store.Initialize(); err != nil {
		t.Fatal(err)
	}
	return NewService(store, sugar, bcrypt.MinCost), store
}

func TestSignupLogsIn(t *testing.T) {
	s, store := newTestService(t)

	session, err := s.Signup(SignupInput{Email: " Host@Example.com ", Password: "secret1", Username: "host_1"})
	if err != nil {
		t.Fatal(err)
	}
	if session.User.Email != "host@example.com" || session.SessionID == "" {
		t.Fatalf("unexpected session %+v", session)
	}

	current, err := s.CurrentUser(session.User.ID)
	if err != nil || current.ID != session.User.ID {
		t.Fatalf("CurrentUser = %+v, %v", current, err)
	}

	friends, _ := store.Friends(session.User.ID).All()
	if len(friends) != 5 {
		t.Errorf("got %d seeded friends, want 5", len(friends))
	}
}

func TestSignupDuplicatesLeaveUserTableUnchanged(t *testing.T) {
	s, store := newTestService(t)

	if _, err := s.Signup(SignupInput{Email: "a@example.com", Password: "secret1", Username: "alpha"}); err != nil {
		t.Fatal(err)
	}
	before, _ := store.Users().All()

	tests := []struct {
		name  string
		input SignupInput
		want  error
	}{
		{
			name:  "Duplicate email",
			input: SignupInput{Email: "A@example.com", Password: "secret1", Username: "beta"},
			want:  ErrEmailTaken,
		},
		{
			name:  "Duplicate username",
			input: SignupInput{Email: "b@example.com", Password: "secret1", Username: "Alpha"},
			want:  ErrUsernameTaken,
		},
		{
			name:  "Both duplicate reports email",
			input: SignupInput{Email: "a@example.com", Password: "secret1", Username: "alpha"},
			want:  ErrEmailTaken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Signup(tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}

			after, _ := store.Users().All()
			if !reflect.DeepEqual(before, after) {
				t.Fatalf("user table changed: %+v", after)
			}
		})
	}
}

func TestSignupValidation(t *testing.T) {
	s, store := newTestService(t)

	_, err := s.Signup(SignupInput{Email: "nope", Password: "123", Username: "x"})

	var fieldErrors validator.FieldErrors
	if !errors.As(err, &fieldErrors) {
		t.Fatalf("got %v, want field errors", err)
	}
	if len(fieldErrors) != 3 {
		t.Errorf("got %v, want three field errors", fieldErrors)
	}

	users, _ := store.Users().All()
	if len(users) != 0 {
		t.Errorf("invalid signup stored a user")
	}
}

func TestLogin(t *testing.T) {
	s, _ := newTestService(t)

	first, err := s.Signup(SignupInput{Email: "a@example.com", Password: "secret1", Username: "alpha"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Login(LoginInput{Email: "missing@example.com", Password: "secret1"}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown email: got %v", err)
	}
	if _, err := s.Login(LoginInput{Email: "a@example.com", Password: "wrong!!"}); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("wrong password: got %v", err)
	}

	second, err := s.Login(LoginInput{Email: "a@example.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	if second.SessionID == first.SessionID {
		t.Fatal("login did not issue a new session")
	}

	if _, err := s.Verify(first.User.ID, first.SessionID); !errors.Is(err, ErrNoSession) {
		t.Errorf("old session still valid: %v", err)
	}
	if _, err := s.Verify(second.User.ID, second.SessionID); err != nil {
		t.Errorf("new session rejected: %v", err)
	}
}

func TestLogout(t *testing.T) {
	s, _ := newTestService(t)

	session, err := s.Signup(SignupInput{Email: "a@example.com", Password: "secret1", Username: "alpha"})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Logout(session.User.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CurrentUser(session.User.ID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("got %v after logout", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	s, store := newTestService(t)

	a, _ := s.Signup(SignupInput{Email: "a@example.com", Password: "secret1", Username: "alpha"})
	if _, err := s.Signup(SignupInput{Email: "b@example.com", Password: "secret1", Username: "beta"}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.UpdateProfile(a.User.ID, ProfileInput{Username: "beta", Email: "a@example.com"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("got %v, want username taken", err)
	}

	updated, err := s.UpdateProfile(a.User.ID, ProfileInput{Username: "alpha.two", Email: "a@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Username != "alpha.two" {
		t.Fatalf("unexpected user %+v", updated)
	}

	current, _ := s.CurrentUser(a.User.ID)
	if current.Username != "alpha.two" {
		t.Errorf("session record not refreshed: %+v", current)
	}

	stored, _, _ := store.Users().Find(a.User.ID)
	if stored.Username != "alpha.two" {
		t.Errorf("user table not updated: %+v", stored)
	}
}
