package handlers

import (
	"net/http"
	"time"

	"voicewave-backend/internal/auth"
	"voicewave-backend/internal/feed"
	"voicewave-backend/internal/friends"
	"voicewave-backend/internal/hub"
	"voicewave-backend/internal/models"
	"voicewave-backend/internal/rooms"
	"voicewave-backend/internal/settings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Services are the domain services the handlers call into.
type Services struct {
	Auth     *auth.Service
	Rooms    *rooms.Service
	Feed     *feed.Service
	Friends  *friends.Service
	Settings *settings.Service
	Hub      *hub.Hub
}

var sugar *zap.SugaredLogger
var svc Services
var staticDir string
var publicDir string

// Setup wires the services into the router. The caller owns the http.Server.
func Setup(cfg *models.ConfigFile, _sugar *zap.SugaredLogger, services Services) http.Handler {
	sugar = _sugar
	svc = services
	staticDir = cfg.StaticDir
	publicDir = cfg.PublicDir

	r := chi.NewRouter()
	if cfg.PrintHttpRequests {
		r.Use(middleware.Logger)
	}

	r.Use(middleware.Recoverer)

	if cfg.Cors {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// websocket connections outlive any request timeout
	r.With(UserVerifier).Get("/ws/rooms/{roomID}", HandleRoomWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Route("/api", func(api chi.Router) {
			api.Get("/healthz", Healthz)
			api.Get("/emojis", GetEmojis)

			api.Route("/auth", func(r chi.Router) {
				r.Post("/signup", Signup)
				r.Post("/login", Login)
				r.With(UserVerifier).Post("/logout", Logout)
				r.With(UserVerifier).Get("/me", Me)
			})

			api.Route("/rooms", func(r chi.Router) {
				r.Use(UserVerifier)
				r.Get("/", ListRooms)
				r.Post("/", CreateRoom)
				r.Get("/{roomID}", GetRoom)
				r.Delete("/{roomID}", DeleteRoom)
				r.Post("/{roomID}/live", SetRoomLive)
			})

			api.Route("/feed", func(r chi.Router) {
				r.Use(UserVerifier)
				r.Get("/", ListPosts)
				r.Post("/", CreatePost)
				r.Post("/{postID}/like", LikePost)
				r.Post("/{postID}/comments", CommentPost)
				r.Delete("/{postID}", DeletePost)
			})

			api.Route("/friends", func(r chi.Router) {
				r.Use(UserVerifier)
				r.Get("/", ListFriends)
				r.Post("/", AddFriend)
				r.Get("/suggestions", GetSuggestions)
				r.Get("/{friendID}", GetFriend)
				r.Delete("/{friendID}", RemoveFriend)
				r.Get("/{friendID}/messages", GetMessages)
				r.Post("/{friendID}/messages", SendMessage)
				r.Delete("/{friendID}/messages/{messageID}", DeleteMessage)
				r.Post("/{friendID}/call", StartCall)
				r.Post("/{friendID}/join", JoinFriendRoom)
			})

			api.Route("/calls", func(r chi.Router) {
				r.Use(UserVerifier)
				r.Get("/{callID}", GetCall)
				r.Delete("/{callID}", EndCall)
			})

			api.Route("/settings", func(r chi.Router) {
				r.Use(UserVerifier)
				r.Get("/", GetSettings)
				r.Put("/", SaveSettings)
				r.Get("/sidebar", GetSidebar)
				r.Put("/sidebar", SetSidebar)
				r.Post("/avatar", UploadAvatar)
			})

			api.NotFound(func(w http.ResponseWriter, r *http.Request) {
				respondError(w, http.StatusNotFound, "Not found")
			})
		})

		r.Handle("/cdn/*", http.StripPrefix("/cdn/", http.FileServer(http.Dir(publicDir))))
		r.Get("/*", ServePage)
	})

	return r
}
