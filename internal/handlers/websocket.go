package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func HandleRoomWebSocket(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	roomID := chi.URLParam(r, "roomID")

	isHost, err := svc.Rooms.IsHost(roomID, user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	svc.Hub.Serve(w, r, user, roomID, isHost)
}
