package hub

import (
	"encoding/json"
	"strings"
)

const channelPrefix = "room:"

// envelope is what goes over redis. Exclude is the id of the sending client,
// which never gets its own event back.
type envelope struct {
	RoomID  string          `json:"roomId"`
	Exclude string          `json:"exclude,omitempty"`
	Frame   json.RawMessage `json:"frame"`
}

func channelFor(roomID string) string {
	return channelPrefix + roomID
}

// broadcast sends frame to every client in the room except the one with id
// exclude. Without redis this only reaches clients of this process.
func (h *Hub) broadcast(roomID string, exclude string, frame Frame) {
	bytes, err := json.Marshal(frame)
	if err != nil {
		h.sugar.Error(err)
		return
	}

	if h.redisClient == nil {
		h.deliverLocal(roomID, exclude, bytes)
		return
	}

	env, err := json.Marshal(envelope{RoomID: roomID, Exclude: exclude, Frame: bytes})
	if err != nil {
		h.sugar.Error(err)
		return
	}
	if err := h.redisClient.Publish(h.ctx, channelFor(roomID), env).Err(); err != nil {
		h.sugar.Error(err)
	}
}

func (h *Hub) deliverLocal(roomID string, exclude string, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for id, c := range h.rooms[roomID] {
		if id == exclude {
			continue
		}
		h.deliver(c, message)
	}
}

func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.PSubscribe(h.ctx, channelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.sugar.Debug(err)
				continue
			}
			if env.RoomID != strings.TrimPrefix(msg.Channel, channelPrefix) {
				continue
			}
			h.deliverLocal(env.RoomID, env.Exclude, env.Frame)
		}
	}
}
