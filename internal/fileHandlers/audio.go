package fileHandlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// HandleAudioClip stores the uploaded voice post recording as is and returns
// its public URL under /cdn/audio/uploads/.
func HandleAudioClip(r *http.Request) (string, error) {
	inputBytes, _, err := readFormFile(r, "audio", MaxAudioSize)
	if err != nil {
		return "", err
	}

	// sniff the content
	mtype := mimetype.Detect(inputBytes)
	if !isAudio(mtype) {
		return "", ErrNotAudio
	}

	// store as is
	fileName, err := saveHashed(inputBytes, filepath.Join("audio", "uploads"), mtype.Extension())
	if err != nil {
		return "", err
	}
	return "/cdn/audio/uploads/" + fileName, nil
}

// browsers record webm/ogg, which are detected as video containers
func isAudio(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "audio/") {
			return true
		}
	}
	return mtype.Is("video/webm") || mtype.Is("application/ogg")
}
