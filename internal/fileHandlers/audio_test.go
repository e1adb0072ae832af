package fileHandlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func uploadRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "clip")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/uploads/audio", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func wavBytes() []byte {
	header := []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00\x44\xac\x00\x00\x88\x58\x01\x00\x02\x00\x10\x00data\x00\x00\x00\x00")
	return append(header, make([]byte, 64)...)
}

func TestHandleAudioClip(t *testing.T) {
	dir := t.TempDir()
	Setup(zap.NewNop().Sugar(), "", dir)

	testCases := []struct {
		name        string
		field       string
		content     []byte
		expectedErr error
	}{
		{"wav upload", "audio", wavBytes(), nil},
		{"text upload", "audio", []byte("definitely not audio"), ErrNotAudio},
		{"too large", "audio", append(wavBytes(), make([]byte, MaxAudioSize)...), ErrTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			url, err := HandleAudioClip(uploadRequest(t, tc.field, tc.content))
			if !errors.Is(err, tc.expectedErr) {
				t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
			}
			if tc.expectedErr != nil {
				return
			}

			if !strings.HasPrefix(url, "/cdn/audio/uploads/") || !strings.HasSuffix(url, ".wav") {
				t.Errorf("unexpected url %q", url)
			}
			stored := filepath.Join(dir, "audio", "uploads", strings.TrimPrefix(url, "/cdn/audio/uploads/"))
			if _, err := os.Stat(stored); err != nil {
				t.Errorf("file not stored: %v", err)
			}
		})
	}
}

func TestHandleAudioClipSameContentSameName(t *testing.T) {
	Setup(zap.NewNop().Sugar(), "", t.TempDir())

	first, err := HandleAudioClip(uploadRequest(t, "audio", wavBytes()))
	if err != nil {
		t.Fatal(err)
	}
	second, err := HandleAudioClip(uploadRequest(t, "audio", wavBytes()))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("expected identical names, got %q and %q", first, second)
	}
}

func TestHandleAvatarPictureRejectsNonImage(t *testing.T) {
	Setup(zap.NewNop().Sugar(), "", t.TempDir())

	_, err := HandleAvatarPicture(uploadRequest(t, "picture", []byte("plain text")))
	if !errors.Is(err, ErrNotAnImage) {
		t.Errorf("expected %v, got %v", ErrNotAnImage, err)
	}
}
