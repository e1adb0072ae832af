package models

import "time"

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func (u User) GetID() string { return u.ID }

// Credential holds the password hash of a user, keyed by the user's ID.
// It is kept apart from User so the user table can be handed out as is.
type Credential struct {
	ID       string `json:"id"`
	Password []byte `json:"password"`
}

func (c Credential) GetID() string { return c.ID }

// Session is the currently logged-in user record.
type Session struct {
	User      User   `json:"user"`
	SessionID string `json:"sessionId"`
	IssuedAt  string `json:"issuedAt"`
}

type Participant struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ImageURL      string `json:"imageUrl,omitempty"`
	IsSpeaker     bool   `json:"isSpeaker"`
	IsMuted       bool   `json:"isMuted"`
	IsHost        bool   `json:"isHost"`
	IsSpeaking    bool   `json:"isSpeaking"`
	HasRaisedHand bool   `json:"hasRaisedHand"`
}

type Room struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	HostName         string        `json:"hostName"`
	ParticipantCount int           `json:"participantCount"`
	SpeakerCount     int           `json:"speakerCount"`
	IsLive           bool          `json:"isLive"`
	Description      string        `json:"description,omitempty"`
	Tags             []string      `json:"tags,omitempty"`
	ImageURL         string        `json:"imageUrl,omitempty"`
	CreatorID        string        `json:"creatorId,omitempty"`
	CreatedAt        string        `json:"createdAt"`
	Participants     []Participant `json:"participants,omitempty"`
}

func (r Room) GetID() string { return r.ID }

// RoomDetail is what a viewer gets when opening a room.
type RoomDetail struct {
	Room
	TopicAudio string `json:"topicAudio,omitempty"`
	JoinSound  string `json:"joinSound"`
	LeaveSound string `json:"leaveSound"`
}

const (
	SenderMe     = "me"
	SenderFriend = "friend"
)

type ChatMessage struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func (m ChatMessage) GetID() string { return m.ID }

type Comment struct {
	ID        string `json:"id"`
	AuthorID  string `json:"authorId,omitempty"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type VoicePost struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"authorId,omitempty"`
	Username    string    `json:"username"`
	UserAvatar  string    `json:"userAvatar,omitempty"`
	AudioURL    string    `json:"audioUrl"`
	Caption     string    `json:"caption"`
	Likes       int       `json:"likes"`
	LikedBy     []string  `json:"likedBy,omitempty"`
	Comments    int       `json:"comments"`
	CreatedAt   string    `json:"createdAt"`
	CommentList []Comment `json:"commentList"`
}

func (p VoicePost) GetID() string { return p.ID }

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusInRoom  = "in-room"
)

type Friend struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	RoomID     string `json:"roomId,omitempty"`
	College    string `json:"college,omitempty"`
	University string `json:"university,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Hobby      string `json:"hobby,omitempty"`
}

func (f Friend) GetID() string { return f.ID }

type Suggestion struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MutualFriends int    `json:"mutualFriends"`
	AvatarURL     string `json:"avatarUrl"`
}

const (
	CallCalling  = "calling"
	CallNoAnswer = "no-answer"
	CallEnded    = "ended"
)

type Call struct {
	ID         string     `json:"id"`
	FriendID   string     `json:"friendId"`
	FriendName string     `json:"friendName"`
	StartedAt  time.Time  `json:"startedAt"`
	EndedAt    *time.Time `json:"endedAt,omitempty"`
	Status     string     `json:"status"`
}

type NotificationSettings struct {
	FriendRequests bool `json:"friendRequests"`
	RoomInvites    bool `json:"roomInvites"`
	FriendActivity bool `json:"friendActivity"`
}

type Settings struct {
	DisplayName   string               `json:"displayName"`
	Email         string               `json:"email"`
	InputDevice   string               `json:"inputDevice"`
	OutputDevice  string               `json:"outputDevice"`
	Notifications NotificationSettings `json:"notifications"`
}

type ConfigFile struct {
	Address           string
	Port              string
	TlsCert           string
	TlsKey            string
	Cors              bool
	AllowedOrigins    []string
	PrintHttpRequests bool
	LogToFile         bool
	LogLevel          string
	JwtSecret         string
	SnowflakeWorkerID int64
	Store             string
	RedisAddress      string
	RedisPassword     string
	RedisDB           int
	SqlitePath        string
	PebblePath        string
	DbUser            string
	DbPassword        string
	DbAddress         string
	DbPort            string
	DbDatabase        string
	PublicDir         string
	StaticDir         string
	FfmpegPath        string
}
