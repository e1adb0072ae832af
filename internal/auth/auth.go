// Package auth manages the user table, password credentials and the
// per-user session record.
package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"voicewave-backend/internal/models"
	"voicewave-backend/internal/sanitize"
	"voicewave-backend/internal/storage"
	"voicewave-backend/internal/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken    = errors.New("Email already exists")
	ErrUsernameTaken = errors.New("Username already exists")
	ErrUserNotFound  = errors.New("User not found")
	ErrWrongPassword = errors.New("Wrong password")
	ErrNoSession     = errors.New("not logged in")
)

type Service struct {
	store      *storage.Storage
	sugar      *zap.SugaredLogger
	bcryptCost int
	now        func() time.Time
}

func NewService(store *storage.Storage, sugar *zap.SugaredLogger, bcryptCost int) *Service {
	return &Service{store: store, sugar: sugar, bcryptCost: bcryptCost, now: time.Now}
}

type SignupInput struct {
	Email    string `json:"email" validate:"required,mail"`
	Password string `json:"password" validate:"required,password"`
	Username string `json:"username" validate:"required,username"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileInput struct {
	Username  string `json:"username" validate:"required,username"`
	Email     string `json:"email" validate:"required,mail"`
	AvatarURL string `json:"avatarUrl" validate:"max=512"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkTaken reports the first conflict with users other than exceptID,
// email before username.
func checkTaken(users []models.User, email string, username string, exceptID string) error {
	for _, u := range users {
		if u.ID != exceptID && u.Email == email {
			return ErrEmailTaken
		}
	}
	for _, u := range users {
		if u.ID != exceptID && strings.EqualFold(u.Username, username) {
			return ErrUsernameTaken
		}
	}
	return nil
}

// Signup creates the user and logs them in. A duplicate email or username
// leaves the user table untouched.
func (s *Service) Signup(input SignupInput) (models.Session, error) {
	input.Email = normalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	if err := validator.Struct(input); err != nil {
		return models.Session{}, err
	}

	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return models.Session{}, err
	}

	userID, err := uuid.NewV7()
	if err != nil {
		return models.Session{}, err
	}

	user := models.User{
		ID:        userID.String(),
		Email:     input.Email,
		Username:  input.Username,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	err = s.store.Users().Mutate(func(users []models.User) ([]models.User, error) {
		if err := checkTaken(users, user.Email, user.Username, ""); err != nil {
			return nil, err
		}
		return append(users, user), nil
	})
	if err != nil {
		return models.Session{}, err
	}

	err = s.store.Credentials().Add(models.Credential{ID: user.ID, Password: passwordBytes})
	if err != nil {
		if _, delErr := s.store.Users().DeleteByID(user.ID); delErr != nil {
			s.sugar.Errorf("Failed to roll back user [%s] after credential write failed: %v", user.ID, delErr)
		}
		return models.Session{}, err
	}

	s.sugar.Infof("User [%s] signed up as [%s]", user.ID, user.Username)

	return s.Login(LoginInput{Email: input.Email, Password: input.Password})
}

// Login replaces any previous session of the user.
func (s *Service) Login(input LoginInput) (models.Session, error) {
	email := normalizeEmail(input.Email)

	users, err := s.store.Users().All()
	if err != nil {
		return models.Session{}, err
	}

	i := slices.IndexFunc(users, func(u models.User) bool { return u.Email == email })
	if i < 0 {
		return models.Session{}, ErrUserNotFound
	}
	user := users[i]

	credential, found, err := s.store.Credentials().Find(user.ID)
	if err != nil {
		return models.Session{}, err
	}
	if !found {
		s.sugar.Warnf("User [%s] has no stored credential", user.ID)
		return models.Session{}, ErrWrongPassword
	}

	if err := bcrypt.CompareHashAndPassword(credential.Password, []byte(input.Password)); err != nil {
		return models.Session{}, ErrWrongPassword
	}

	sessionID, err := uuid.NewV7()
	if err != nil {
		return models.Session{}, err
	}

	session := models.Session{
		User:      user,
		SessionID: sessionID.String(),
		IssuedAt:  s.now().UTC().Format(time.RFC3339),
	}
	if err := s.store.SetSession(session); err != nil {
		return models.Session{}, err
	}

	if err := s.store.InitializeUser(user.ID); err != nil {
		return models.Session{}, fmt.Errorf("initialize user: %w", err)
	}

	return session, nil
}

func (s *Service) Logout(userID string) error {
	return s.store.ClearSession(userID)
}

// CurrentUser returns ErrNoSession when the user has no session record.
func (s *Service) CurrentUser(userID string) (models.User, error) {
	session, ok, err := s.store.GetSession(userID)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrNoSession
	}
	return session.User, nil
}

// Verify checks that sessionID is the user's current session.
func (s *Service) Verify(userID string, sessionID string) (models.User, error) {
	session, ok, err := s.store.GetSession(userID)
	if err != nil {
		return models.User{}, err
	}
	if !ok || session.SessionID != sessionID {
		return models.User{}, ErrNoSession
	}
	return session.User, nil
}

func (s *Service) UpdateProfile(userID string, input ProfileInput) (models.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)
	input.AvatarURL = sanitize.Line(input.AvatarURL, 512)

	if err := validator.Struct(input); err != nil {
		return models.User{}, err
	}

	var updated models.User
	err := s.store.Users().Mutate(func(users []models.User) ([]models.User, error) {
		i := slices.IndexFunc(users, func(u models.User) bool { return u.ID == userID })
		if i < 0 {
			return nil, ErrUserNotFound
		}
		if err := checkTaken(users, input.Email, input.Username, userID); err != nil {
			return nil, err
		}

		users[i].Email = input.Email
		users[i].Username = input.Username
		users[i].AvatarURL = input.AvatarURL
		updated = users[i]
		return users, nil
	})
	if err != nil {
		return models.User{}, err
	}

	session, ok, err := s.store.GetSession(userID)
	if err != nil {
		return models.User{}, err
	}
	if ok {
		session.User = updated
		if err := s.store.SetSession(session); err != nil {
			return models.User{}, err
		}
	}

	return updated, nil
}

// User looks a user up in the user table.
func (s *Service) User(userID string) (models.User, error) {
	user, found, err := s.store.Users().Find(userID)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}
