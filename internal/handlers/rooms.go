package handlers

import (
	"net/http"

	"voicewave-backend/internal/rooms"

	"github.com/go-chi/chi/v5"
)

func ListRooms(w http.ResponseWriter, r *http.Request) {
	list, err := svc.Rooms.List(r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func CreateRoom(w http.ResponseWriter, r *http.Request) {
	var input rooms.CreateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	room, err := svc.Rooms.Create(userFrom(r), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, room)
}

func GetRoom(w http.ResponseWriter, r *http.Request) {
	detail, err := svc.Rooms.Get(chi.URLParam(r, "roomID"), userFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := svc.Rooms.Delete(chi.URLParam(r, "roomID"), userFrom(r).ID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func SetRoomLive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Live bool `json:"live"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	room, err := svc.Rooms.SetLive(chi.URLParam(r, "roomID"), userFrom(r).ID, body.Live)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}
