// Package feed holds the voice clip posts.
package feed

import (
	"errors"
	"slices"
	"strings"
	"time"

	"voicewave-backend/internal/media"
	"voicewave-backend/internal/models"
	"voicewave-backend/internal/sanitize"
	"voicewave-backend/internal/snowflake"
	"voicewave-backend/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrPostNotFound  = errors.New("Post not found")
	ErrNotPostAuthor = errors.New("Only the author can delete this post")
	ErrEmptyPost     = errors.New("A post needs a caption or an audio clip")
	ErrEmptyComment  = errors.New("Comment is empty")
	ErrUnknownAudio  = errors.New("Unknown audio clip")
)

const (
	maxCaptionLength = 280
	maxCommentLength = 500

	// UploadPrefix is where uploaded clips are served from.
	UploadPrefix = "/cdn/audio/uploads/"
)

type Service struct {
	store *storage.Storage
	sugar *zap.SugaredLogger
	now   func() time.Time
}

func NewService(store *storage.Storage, sugar *zap.SugaredLogger) *Service {
	return &Service{store: store, sugar: sugar, now: time.Now}
}

func (s *Service) List() ([]models.VoicePost, error) {
	return s.store.Posts().All()
}

func avatarFor(user models.User) string {
	if user.AvatarURL != "" {
		return user.AvatarURL
	}
	return "https://i.pravatar.cc/150?u=" + user.ID
}

// Create posts a clip. Without an audio URL the clip is chosen from the
// caption.
func (s *Service) Create(user models.User, caption string, audioURL string) (models.VoicePost, error) {
	caption = sanitize.Line(caption, maxCaptionLength)
	audioURL = strings.TrimSpace(audioURL)

	if caption == "" && audioURL == "" {
		return models.VoicePost{}, ErrEmptyPost
	}

	if audioURL == "" {
		audioURL = media.SelectClipForCaption(caption)
	} else if !media.IsKnownClip(audioURL) && !strings.HasPrefix(audioURL, UploadPrefix) {
		return models.VoicePost{}, ErrUnknownAudio
	}

	post := models.VoicePost{
		ID:          snowflake.GenerateString(),
		AuthorID:    user.ID,
		Username:    user.Username,
		UserAvatar:  avatarFor(user),
		AudioURL:    audioURL,
		Caption:     caption,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
		CommentList: []models.Comment{},
	}

	if err := s.store.Posts().Add(post); err != nil {
		return models.VoicePost{}, err
	}
	return post, nil
}

func (s *Service) mutatePost(postID string, fn func(post *models.VoicePost) error) (models.VoicePost, error) {
	var updated models.VoicePost
	err := s.store.Posts().Mutate(func(posts []models.VoicePost) ([]models.VoicePost, error) {
		i := slices.IndexFunc(posts, func(p models.VoicePost) bool { return p.ID == postID })
		if i < 0 {
			return nil, ErrPostNotFound
		}
		if err := fn(&posts[i]); err != nil {
			return nil, err
		}
		updated = posts[i]
		return posts, nil
	})
	return updated, err
}

// Like toggles the user's like and reports whether the post is now liked.
func (s *Service) Like(postID string, userID string) (models.VoicePost, bool, error) {
	liked := false
	post, err := s.mutatePost(postID, func(post *models.VoicePost) error {
		if i := slices.Index(post.LikedBy, userID); i >= 0 {
			post.LikedBy = slices.Delete(post.LikedBy, i, i+1)
			post.Likes = max(0, post.Likes-1)
			return nil
		}
		post.LikedBy = append(post.LikedBy, userID)
		post.Likes++
		liked = true
		return nil
	})
	return post, liked, err
}

func (s *Service) AddComment(postID string, user models.User, text string) (models.VoicePost, error) {
	text = sanitize.Line(text, maxCommentLength)
	if text == "" {
		return models.VoicePost{}, ErrEmptyComment
	}

	comment := models.Comment{
		ID:        snowflake.GenerateString(),
		AuthorID:  user.ID,
		Author:    user.Username,
		Text:      text,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	return s.mutatePost(postID, func(post *models.VoicePost) error {
		post.CommentList = append(post.CommentList, comment)
		post.Comments++
		return nil
	})
}

// Delete removes a post. Seeded posts have no author and anyone may remove them.
func (s *Service) Delete(postID string, userID string) error {
	return s.store.Posts().Mutate(func(posts []models.VoicePost) ([]models.VoicePost, error) {
		i := slices.IndexFunc(posts, func(p models.VoicePost) bool { return p.ID == postID })
		if i < 0 {
			return nil, ErrPostNotFound
		}
		if posts[i].AuthorID != "" && posts[i].AuthorID != userID {
			return nil, ErrNotPostAuthor
		}
		return slices.Delete(posts, i, i+1), nil
	})
}
