// Package settings stores per-user preferences.
package settings

import (
	"voicewave-backend/internal/auth"
	"voicewave-backend/internal/models"
	"voicewave-backend/internal/sanitize"
	"voicewave-backend/internal/storage"
	"voicewave-backend/internal/validator"

	"go.uber.org/zap"
)

const (
	DefaultInputDevice  = "Default Microphone"
	DefaultOutputDevice = "Default Speaker"
)

type ProfileUpdater interface {
	UpdateProfile(userID string, input auth.ProfileInput) (models.User, error)
}

type Service struct {
	store    *storage.Storage
	profiles ProfileUpdater
	sugar    *zap.SugaredLogger
}

func NewService(store *storage.Storage, profiles ProfileUpdater, sugar *zap.SugaredLogger) *Service {
	return &Service{store: store, profiles: profiles, sugar: sugar}
}

type View struct {
	models.Settings
	SidebarCollapsed bool `json:"sidebarCollapsed"`
}

type Input struct {
	DisplayName   string                      `json:"displayName" validate:"required,username"`
	Email         string                      `json:"email" validate:"required,mail"`
	InputDevice   string                      `json:"inputDevice" validate:"max=64"`
	OutputDevice  string                      `json:"outputDevice" validate:"max=64"`
	Notifications models.NotificationSettings `json:"notifications"`
}

func defaults(user models.User) models.Settings {
	return models.Settings{
		DisplayName:  user.Username,
		Email:        user.Email,
		InputDevice:  DefaultInputDevice,
		OutputDevice: DefaultOutputDevice,
		Notifications: models.NotificationSettings{
			FriendRequests: true,
			RoomInvites:    true,
			FriendActivity: false,
		},
	}
}

// Get returns the stored settings, or the defaults for a user who never saved.
// Display name and email always come from the user record.
func (s *Service) Get(user models.User) (View, error) {
	stored, ok, err := s.store.GetSettings(user.ID)
	if err != nil {
		return View{}, err
	}
	if !ok {
		stored = defaults(user)
	}
	stored.DisplayName = user.Username
	stored.Email = user.Email

	collapsed, err := s.store.SidebarCollapsed(user.ID)
	if err != nil {
		return View{}, err
	}
	return View{Settings: stored, SidebarCollapsed: collapsed}, nil
}

// Save persists the settings. A changed display name or email goes through
// the same duplicate checks as signup.
func (s *Service) Save(user models.User, input Input) (View, error) {
	input.InputDevice = sanitize.Line(input.InputDevice, 64)
	input.OutputDevice = sanitize.Line(input.OutputDevice, 64)
	if input.InputDevice == "" {
		input.InputDevice = DefaultInputDevice
	}
	if input.OutputDevice == "" {
		input.OutputDevice = DefaultOutputDevice
	}

	if err := validator.Struct(input); err != nil {
		return View{}, err
	}

	if input.DisplayName != user.Username || input.Email != user.Email {
		updated, err := s.profiles.UpdateProfile(user.ID, auth.ProfileInput{
			Username:  input.DisplayName,
			Email:     input.Email,
			AvatarURL: user.AvatarURL,
		})
		if err != nil {
			return View{}, err
		}
		user = updated
	}

	settings := models.Settings{
		DisplayName:   user.Username,
		Email:         user.Email,
		InputDevice:   input.InputDevice,
		OutputDevice:  input.OutputDevice,
		Notifications: input.Notifications,
	}
	if err := s.store.SaveSettings(user.ID, settings); err != nil {
		return View{}, err
	}

	return s.Get(user)
}

func (s *Service) SidebarCollapsed(userID string) (bool, error) {
	return s.store.SidebarCollapsed(userID)
}

func (s *Service) SetSidebarCollapsed(userID string, collapsed bool) error {
	return s.store.SetSidebarCollapsed(userID, collapsed)
}
