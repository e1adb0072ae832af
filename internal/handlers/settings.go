package handlers

import (
	"net/http"

	"voicewave-backend/internal/auth"
	"voicewave-backend/internal/fileHandlers"
	"voicewave-backend/internal/settings"
)

func GetSettings(w http.ResponseWriter, r *http.Request) {
	view, err := svc.Settings.Get(userFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func SaveSettings(w http.ResponseWriter, r *http.Request) {
	var input settings.Input
	if !decodeJSON(w, r, &input) {
		return
	}

	view, err := svc.Settings.Save(userFrom(r), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

type sidebarState struct {
	Collapsed bool `json:"collapsed"`
}

func GetSidebar(w http.ResponseWriter, r *http.Request) {
	collapsed, err := svc.Settings.SidebarCollapsed(userFrom(r).ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sidebarState{Collapsed: collapsed})
}

func SetSidebar(w http.ResponseWriter, r *http.Request) {
	var body sidebarState
	if !decodeJSON(w, r, &body) {
		return
	}

	if err := svc.Settings.SetSidebarCollapsed(userFrom(r).ID, body.Collapsed); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, body)
}

func UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, fileHandlers.MaxPictureSize+maxBodySize)

	url, err := fileHandlers.HandleAvatarPicture(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	updated, err := svc.Auth.UpdateProfile(user.ID, auth.ProfileInput{
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: url,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
