package handlers

import (
	"net/http"

	"voicewave-backend/internal/friends"
	"voicewave-backend/internal/hub"

	"github.com/go-chi/chi/v5"
)

func ListFriends(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	list, err := svc.Friends.List(userFrom(r).ID, query.Get("q"), query.Get("filter"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func AddFriend(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	friend, err := svc.Friends.Add(userFrom(r).ID, body.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, friend)
}

func GetSuggestions(w http.ResponseWriter, r *http.Request) {
	list, err := svc.Friends.Suggestions(userFrom(r).ID, r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func GetFriend(w http.ResponseWriter, r *http.Request) {
	friend, err := svc.Friends.Profile(userFrom(r).ID, chi.URLParam(r, "friendID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, friend)
}

func RemoveFriend(w http.ResponseWriter, r *http.Request) {
	if err := svc.Friends.Remove(userFrom(r).ID, chi.URLParam(r, "friendID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func StartCall(w http.ResponseWriter, r *http.Request) {
	call, err := svc.Friends.StartCall(userFrom(r).ID, chi.URLParam(r, "friendID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, call)
}

func GetCall(w http.ResponseWriter, r *http.Request) {
	call, err := svc.Friends.Call(userFrom(r).ID, chi.URLParam(r, "callID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

func EndCall(w http.ResponseWriter, r *http.Request) {
	call, err := svc.Friends.EndCall(userFrom(r).ID, chi.URLParam(r, "callID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, call)
}

func JoinFriendRoom(w http.ResponseWriter, r *http.Request) {
	status, err := svc.Friends.JoinFriendRoom(userFrom(r).ID, chi.URLParam(r, "friendID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func GetEmojis(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, struct {
		Chat      []string `json:"chat"`
		Reactions []string `json:"reactions"`
	}{friends.Emojis(), hub.ReactionEmojis})
}
