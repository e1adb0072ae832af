package hub

// client -> server
const (
	Reaction   = "reaction"
	Hand       = "hand"
	Mute       = "mute"
	Mic        = "mic"
	Speaking   = "speaking"
	Transcript = "transcript"
	Ping       = "ping"
)

// server -> client
const (
	UserJoined = "user_joined"
	UserLeft   = "user_left"
	HandRaised = "hand_raised"
	MuteState  = "mute_state"
	MicState   = "mic_state"
	Pong       = "pong"
	Error      = "error"
)

const (
	ErrOnlyHostCanSpeak = "Only the host can speak in this room."
	ErrUnknownReaction  = "Unknown reaction"
	ErrUnknownType      = "Unknown message type"
	ErrBadPayload       = "Malformed payload"
)

var ReactionEmojis = []string{"👏", "😂", "🔥", "😍", "👍", "🎉"}

type Frame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type UserPayload struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName,omitempty"`
	UserImage string `json:"userImage,omitempty"`
}

type ReactionPayload struct {
	UserID string `json:"userId"`
	Emoji  string `json:"emoji"`
}

type HandPayload struct {
	UserID string `json:"userId"`
	Raised bool   `json:"raised"`
}

type MutePayload struct {
	UserID  string `json:"userId"`
	IsMuted bool   `json:"isMuted"`
}

type MicPayload struct {
	UserID string `json:"userId"`
	Active bool   `json:"active"`
}

type SpeakingPayload struct {
	UserID   string `json:"userId"`
	Speaking bool   `json:"speaking"`
}

type TranscriptPayload struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
	Final  bool   `json:"final"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
