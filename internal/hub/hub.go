// Package hub relays transient room events (reactions, raised hands, mute and
// mic state, live transcript) between the websocket clients in a room.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"voicewave-backend/internal/models"
	"voicewave-backend/internal/sanitize"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32

	maxTranscriptLength = 1000
)

type Client struct {
	id        string
	roomID    string
	user      models.User
	isHost    bool
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

type Hub struct {
	sugar       *zap.SugaredLogger
	redisClient *redis.Client
	upgrader    websocket.Upgrader

	mutex sync.RWMutex
	rooms map[string]map[string]*Client

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a hub. With a redis client, events go through redis pub/sub so
// clients connected to different processes share rooms.
func New(sugar *zap.SugaredLogger, redisClient *redis.Client, allowedOrigins []string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		sugar:       sugar,
		redisClient: redisClient,
		rooms:       make(map[string]map[string]*Client),
		ctx:         ctx,
		cancel:      cancel,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	// one pattern subscription covers every room
	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
			return true
		}
		return slices.Contains(allowedOrigins, origin)
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.cancel()

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, clients := range h.rooms {
		for _, c := range clients {
			c.conn.Close()
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.rooms[c.roomID] == nil {
		h.rooms[c.roomID] = make(map[string]*Client)
	}
	h.rooms[c.roomID][c.id] = c
}

func (h *Hub) unregister(c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	delete(h.rooms[c.roomID], c.id)
	if len(h.rooms[c.roomID]) == 0 {
		delete(h.rooms, c.roomID)
	}
	c.close()
}

// Count returns how many clients are connected to a room on this process.
func (h *Hub) Count(roomID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.rooms[roomID])
}

// Serve upgrades the request and keeps the client in roomID until it leaves.
// The caller has already checked the room exists.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, user models.User, roomID string, isHost bool) {
	// upgrade the http connection to websocket
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied
		h.sugar.Debug(err)
		return
	}

	c := &Client{
		id:     uuid.NewString(),
		roomID: roomID,
		user:   user,
		isHost: isHost,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}

	h.sugar.Debugf("User [%s] connected to room [%s]", user.ID, roomID)
	h.register(c)
	go h.writePump(c)

	// tell the others in the room
	h.broadcast(roomID, c.id, Frame{Type: UserJoined, Payload: userPayload(user)})

	// blocks until the client disconnects
	h.readPump(c)

	// cleanup
	h.unregister(c)
	conn.Close()
	h.broadcast(roomID, c.id, Frame{Type: UserLeft, Payload: userPayload(user)})
	h.sugar.Debugf("User [%s] left room [%s]", user.ID, roomID)
}

func userPayload(user models.User) UserPayload {
	return UserPayload{UserID: user.ID, UserName: user.Username, UserImage: user.AvatarURL}
}

func (h *Hub) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			// send was closed by unregister
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.sugar.Debug(err)
				return
			}
		// keep the connection alive
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type incoming struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (h *Hub) readPump(c *Client) {
	// the client has to answer pings within pongWait
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg incoming
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.sugar.Debugf("Websocket of user [%s] closed: %v", c.user.ID, err)
			}
			return
		}
		h.handle(c, msg)
	}
}

func (h *Hub) reply(c *Client, frame Frame) {
	bytes, err := json.Marshal(frame)
	if err != nil {
		h.sugar.Error(err)
		return
	}
	h.deliver(c, bytes)
}

func (h *Hub) replyError(c *Client, message string) {
	h.reply(c, Frame{Type: Error, Payload: ErrorPayload{Message: message}})
}

// deliver drops the message when the client is too slow to keep up. Callers
// either hold the read lock or run on the client's own read goroutine, so send
// is never closed underneath them.
func (h *Hub) deliver(c *Client, message []byte) {
	select {
	case c.send <- message:
	default:
		h.sugar.Debugf("Dropping message to slow client of user [%s]", c.user.ID)
	}
}

func (h *Hub) handle(c *Client, msg incoming) {
	decode := func(v any) bool {
		if len(msg.Payload) == 0 {
			return true
		}
		if err := json.Unmarshal(msg.Payload, v); err != nil {
			h.replyError(c, ErrBadPayload)
			return false
		}
		return true
	}

	switch msg.Type {
	case Ping:
		h.reply(c, Frame{Type: Pong})
	case Reaction:
		var p struct {
			Emoji string `json:"emoji"`
		}
		if !decode(&p) {
			return
		}
		if !slices.Contains(ReactionEmojis, p.Emoji) {
			h.replyError(c, ErrUnknownReaction)
			return
		}
		h.broadcast(c.roomID, c.id, Frame{Type: Reaction, Payload: ReactionPayload{UserID: c.user.ID, Emoji: p.Emoji}})
	case Hand:
		var p struct {
			Raised bool `json:"raised"`
		}
		if !decode(&p) {
			return
		}
		h.broadcast(c.roomID, c.id, Frame{Type: HandRaised, Payload: HandPayload{UserID: c.user.ID, Raised: p.Raised}})
	case Mute:
		var p struct {
			Muted bool `json:"muted"`
		}
		if !decode(&p) {
			return
		}
		h.broadcast(c.roomID, c.id, Frame{Type: MuteState, Payload: MutePayload{UserID: c.user.ID, IsMuted: p.Muted}})
	case Mic:
		var p struct {
			Active bool `json:"active"`
		}
		if !decode(&p) {
			return
		}
		// only the host may open the mic
		if !c.isHost {
			h.replyError(c, ErrOnlyHostCanSpeak)
			return
		}
		h.broadcast(c.roomID, c.id, Frame{Type: MicState, Payload: MicPayload{UserID: c.user.ID, Active: p.Active}})
	case Speaking:
		var p struct {
			Speaking bool `json:"speaking"`
		}
		if !decode(&p) {
			return
		}
		if !c.isHost {
			h.replyError(c, ErrOnlyHostCanSpeak)
			return
		}
		h.broadcast(c.roomID, c.id, Frame{Type: Speaking, Payload: SpeakingPayload{UserID: c.user.ID, Speaking: p.Speaking}})
	case Transcript:
		var p struct {
			Text  string `json:"text"`
			Final bool   `json:"final"`
		}
		if !decode(&p) {
			return
		}
		if !c.isHost {
			h.replyError(c, ErrOnlyHostCanSpeak)
			return
		}
		text := sanitize.Line(p.Text, maxTranscriptLength)
		h.broadcast(c.roomID, c.id, Frame{Type: Transcript, Payload: TranscriptPayload{UserID: c.user.ID, Text: text, Final: p.Final}})
	default:
		h.replyError(c, ErrUnknownType)
	}
}
