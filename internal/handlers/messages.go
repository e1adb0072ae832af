package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func GetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := svc.Friends.Messages(userFrom(r).ID, chi.URLParam(r, "friendID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

func SendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	message, err := svc.Friends.Send(userFrom(r).ID, chi.URLParam(r, "friendID"), body.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, message)
}

func DeleteMessage(w http.ResponseWriter, r *http.Request) {
	err := svc.Friends.DeleteMessage(userFrom(r).ID, chi.URLParam(r, "friendID"), chi.URLParam(r, "messageID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
