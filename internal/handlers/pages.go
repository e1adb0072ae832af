package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"voicewave-backend/internal/auth"
)

var publicPages = []string{"/", "/about"}

var protectedPages = []string{"/feed", "/rooms", "/friends", "/settings"}

func isProtectedPage(p string) bool {
	return slices.Contains(protectedPages, p) || strings.HasPrefix(p, "/room/")
}

// ServePage serves built assets from the static dir and the client's index
// page for the app routes. Protected routes need a session, unknown routes
// get the index page with a 404 so the client renders its not-found view.
func ServePage(w http.ResponseWriter, r *http.Request) {
	p := path.Clean("/" + r.URL.Path)

	if p != "/" {
		full := filepath.Join(staticDir, filepath.FromSlash(p))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			http.ServeFile(w, r, full)
			return
		}
	}

	switch {
	case slices.Contains(publicPages, p):
		serveIndex(w, http.StatusOK)
	case isProtectedPage(p):
		if _, _, err := authenticate(r); err != nil {
			if !errors.Is(err, http.ErrNoCookie) && !errors.Is(err, errBadToken) && !errors.Is(err, auth.ErrNoSession) {
				sugar.Error(err)
			}
			http.Redirect(w, r, "/?from="+url.QueryEscape(p), http.StatusSeeOther)
			return
		}
		serveIndex(w, http.StatusOK)
	default:
		serveIndex(w, http.StatusNotFound)
	}
}

func serveIndex(w http.ResponseWriter, status int) {
	content, err := os.ReadFile(filepath.Join(staticDir, "index.html"))
	if err != nil {
		if status == http.StatusNotFound {
			respondError(w, status, "Not found")
			return
		}
		sugar.Error(err)
		respondInternal(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(content)
}
