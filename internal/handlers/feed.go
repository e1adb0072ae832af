package handlers

import (
	"errors"
	"mime"
	"net/http"

	"voicewave-backend/internal/fileHandlers"

	"github.com/go-chi/chi/v5"
)

func ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := svc.Feed.List()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// CreatePost takes either json {caption, audioUrl} or a multipart form with a
// caption field and an optional recorded audio file.
func CreatePost(w http.ResponseWriter, r *http.Request) {
	var caption, audioURL string

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, fileHandlers.MaxAudioSize+maxBodySize)
		if err := r.ParseMultipartForm(maxBodySize); err != nil {
			sugar.Debug(err)
			respondError(w, http.StatusBadRequest, "Malformed form")
			return
		}

		caption = r.FormValue("caption")
		audioURL = r.FormValue("audioUrl")

		uploaded, err := fileHandlers.HandleAudioClip(r)
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			respondServiceError(w, err)
			return
		}
		if err == nil {
			audioURL = uploaded
		}
	} else {
		var body struct {
			Caption  string `json:"caption"`
			AudioURL string `json:"audioUrl"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		caption = body.Caption
		audioURL = body.AudioURL
	}

	post, err := svc.Feed.Create(userFrom(r), caption, audioURL)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

func LikePost(w http.ResponseWriter, r *http.Request) {
	post, liked, err := svc.Feed.Like(chi.URLParam(r, "postID"), userFrom(r).ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Post  any  `json:"post"`
		Liked bool `json:"liked"`
	}{post, liked})
}

func CommentPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	post, err := svc.Feed.AddComment(chi.URLParam(r, "postID"), userFrom(r), body.Text)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

func DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := svc.Feed.Delete(chi.URLParam(r, "postID"), userFrom(r).ID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
