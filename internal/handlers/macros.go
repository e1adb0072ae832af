package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"voicewave-backend/internal/auth"
	"voicewave-backend/internal/feed"
	"voicewave-backend/internal/fileHandlers"
	"voicewave-backend/internal/friends"
	"voicewave-backend/internal/models"
	"voicewave-backend/internal/rooms"
	"voicewave-backend/internal/validator"
)

const maxBodySize = 1 << 20

const internalErrorMessage = "internal error"

type errorResponse struct {
	Message string                `json:"message"`
	Fields  validator.FieldErrors `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		sugar.Error(err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondInternal is the reply for anything the caller has already logged.
func respondInternal(w http.ResponseWriter) {
	respondError(w, http.StatusInternalServerError, internalErrorMessage)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		sugar.Debug(err)
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			respondError(w, http.StatusRequestEntityTooLarge, "Request body is too large")
		case errors.Is(err, io.EOF):
			respondError(w, http.StatusBadRequest, "Request body is empty")
		default:
			respondError(w, http.StatusBadRequest, "Malformed request body")
		}
		return false
	}
	return true
}

var errorStatus = []struct {
	err    error
	status int
}{
	{auth.ErrEmailTaken, http.StatusConflict},
	{auth.ErrUsernameTaken, http.StatusConflict},
	{auth.ErrUserNotFound, http.StatusUnauthorized},
	{auth.ErrWrongPassword, http.StatusUnauthorized},
	{auth.ErrNoSession, http.StatusUnauthorized},

	{rooms.ErrRoomNotFound, http.StatusNotFound},
	{rooms.ErrNotRoomOwner, http.StatusForbidden},

	{feed.ErrPostNotFound, http.StatusNotFound},
	{feed.ErrNotPostAuthor, http.StatusForbidden},
	{feed.ErrEmptyPost, http.StatusBadRequest},
	{feed.ErrEmptyComment, http.StatusBadRequest},
	{feed.ErrUnknownAudio, http.StatusBadRequest},

	{friends.ErrFriendNotFound, http.StatusNotFound},
	{friends.ErrAlreadyFriend, http.StatusConflict},
	{friends.ErrEmptyName, http.StatusBadRequest},
	{friends.ErrFriendOffline, http.StatusConflict},
	{friends.ErrFriendNotInRoom, http.StatusConflict},
	{friends.ErrEmptyMessage, http.StatusBadRequest},
	{friends.ErrMessageNotFound, http.StatusNotFound},
	{friends.ErrNotOwnMessage, http.StatusForbidden},
	{friends.ErrCallNotFound, http.StatusNotFound},

	{fileHandlers.ErrNotAnImage, http.StatusBadRequest},
	{fileHandlers.ErrNotAudio, http.StatusBadRequest},
	{fileHandlers.ErrTooLarge, http.StatusRequestEntityTooLarge},
	{http.ErrMissingFile, http.StatusBadRequest},
}

// respondServiceError maps a service error to its status code. Anything
// unknown is logged and answered with 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var fieldErrors validator.FieldErrors
	if errors.As(err, &fieldErrors) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid input", Fields: fieldErrors})
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			sugar.Debug(err)
			respondError(w, e.status, e.err.Error())
			return
		}
	}

	sugar.Error(err)
	respondInternal(w)
}

// userFrom returns the user UserVerifier put into the request context.
func userFrom(r *http.Request) models.User {
	return r.Context().Value(UserKeyType{}).(models.User)
}
