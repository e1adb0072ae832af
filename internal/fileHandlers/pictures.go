package fileHandlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const (
	MaxPictureSize = 8 << 20
	MaxAudioSize   = 16 << 20
)

var (
	ErrNotAnImage = errors.New("Uploaded file is not an image")
	ErrNotAudio   = errors.New("Uploaded file is not an audio file")
	ErrTooLarge   = errors.New("Uploaded file is too large")
)

var (
	sugar      *zap.SugaredLogger
	ffmpegPath = "ffmpeg"
	publicDir  = "./public"
)

var mutex sync.Mutex

func Setup(sugarLogger *zap.SugaredLogger, ffmpeg string, public string) {
	sugar = sugarLogger
	if ffmpeg != "" {
		ffmpegPath = ffmpeg
	}
	if public != "" {
		publicDir = public
	}
}

// readFormFile reads a multipart field, refusing anything above limit.
func readFormFile(r *http.Request, field string, limit int64) ([]byte, string, error) {
	// parse formfile
	formFile, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if err := formFile.Close(); err != nil {
			sugar.Debug(err)
		}
	}()

	if header.Size > limit {
		return nil, "", ErrTooLarge
	}

	// read one byte past the limit so oversized bodies are noticed
	inputBytes, err := io.ReadAll(io.LimitReader(formFile, limit+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(inputBytes)) > limit {
		return nil, "", ErrTooLarge
	}
	return inputBytes, header.Filename, nil
}

// HandleAvatarPicture crops the uploaded picture to a 256px square webp and
// returns its public URL.
func HandleAvatarPicture(r *http.Request) (string, error) {
	inputBytes, _, err := readFormFile(r, "picture", MaxPictureSize)
	if err != nil {
		return "", err
	}

	// sniff the content
	if !strings.HasPrefix(mimetype.Detect(inputBytes).String(), "image/") {
		return "", ErrNotAnImage
	}

	cmd := exec.Command(
		ffmpegPath,
		"-i", "pipe:0",
		"-vf", "crop=min(iw\\,ih):min(iw\\,ih):(iw-min(iw\\,ih))/2:(ih-min(iw\\,ih))/2,scale=256:256",
		"-vframes", "1",
		"-c:v", "libwebp",
		"-quality", "50",
		"-preset", "default",
		"-f", "webp",
		"pipe:1",
	)
	// print ffmpeg result
	// cmd.Stderr = os.Stderr

	// this will send the input picture bytes to ffmpeg
	cmd.Stdin = bytes.NewReader(inputBytes)

	// this will store the converted image result
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	// run and wait for it to finish
	if err := cmd.Run(); err != nil {
		return "", err
	}

	fileName, err := saveHashed(stdout.Bytes(), "avatars", ".webp")
	if err != nil {
		return "", err
	}
	return "/cdn/avatars/" + fileName, nil
}

// saveHashed writes content under publicDir/folder named by its sha256, unless
// a file with that name exists already.
func saveHashed(content []byte, folder string, ext string) (string, error) {
	// use the hash for filename
	hash := sha256.Sum256(content)

	// construct the full path for saving
	fileName := hex.EncodeToString(hash[:]) + ext
	folderPath := filepath.Join(publicDir, folder)
	fullPath := filepath.Join(folderPath, fileName)

	mutex.Lock()
	defer mutex.Unlock()

	// make folders if they don't exist yet
	if err := os.MkdirAll(folderPath, os.ModePerm); err != nil {
		return "", err
	}

	// check if a file with same hash exists already
	_, err := os.Stat(fullPath)
	// if it doesn't exist, write it
	if os.IsNotExist(err) {
		if err := os.WriteFile(fullPath, content, 0644); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	return fileName, nil
}
