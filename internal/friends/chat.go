package friends

import (
	"errors"
	"slices"

	"voicewave-backend/internal/models"
	"voicewave-backend/internal/sanitize"
	"voicewave-backend/internal/snowflake"
)

var (
	ErrEmptyMessage    = errors.New("Message is empty")
	ErrMessageNotFound = errors.New("Message not found")
	ErrNotOwnMessage   = errors.New("You can only delete your own messages")
)

const maxMessageLength = 1000

var chatEmojis = []string{"😀", "😂", "😍", "😎", "👍", "🎉", "❤️", "😭", "😅", "🙏"}

func Emojis() []string {
	return slices.Clone(chatEmojis)
}

// Messages returns the conversation oldest first.
func (s *Service) Messages(userID string, friendID string) ([]models.ChatMessage, error) {
	if _, err := s.Friend(userID, friendID); err != nil {
		return nil, err
	}
	if err := s.store.InitializeConversation(userID, friendID); err != nil {
		return nil, err
	}
	return s.store.Messages(userID, friendID).All()
}

func (s *Service) Send(userID string, friendID string, text string) (models.ChatMessage, error) {
	text = sanitize.Text(text)
	if text == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}
	if runes := []rune(text); len(runes) > maxMessageLength {
		text = string(runes[:maxMessageLength])
	}

	if _, err := s.Friend(userID, friendID); err != nil {
		return models.ChatMessage{}, err
	}
	if err := s.store.InitializeConversation(userID, friendID); err != nil {
		return models.ChatMessage{}, err
	}

	msg := models.ChatMessage{
		ID:        snowflake.GenerateString(),
		Sender:    models.SenderMe,
		Content:   text,
		Timestamp: s.now().Format("15:04"),
	}
	if err := s.store.Messages(userID, friendID).Append(msg); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

func (s *Service) DeleteMessage(userID string, friendID string, messageID string) error {
	return s.store.Messages(userID, friendID).Mutate(func(msgs []models.ChatMessage) ([]models.ChatMessage, error) {
		i := slices.IndexFunc(msgs, func(m models.ChatMessage) bool { return m.ID == messageID })
		if i < 0 {
			return nil, ErrMessageNotFound
		}
		if msgs[i].Sender != models.SenderMe {
			return nil, ErrNotOwnMessage
		}
		return slices.Delete(msgs, i, i+1), nil
	})
}
