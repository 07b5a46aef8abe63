package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/edagames/arena/internal/api/handler"
	"github.com/edagames/arena/internal/api/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	Issuer          handler.ChallengeIssuer
	Users           handler.UserLister
	Socket          http.Handler
	DefaultGameKind string
}

// NewRouter creates the router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	challengeHandler := handler.NewChallengeHandler(cfg.Issuer, cfg.DefaultGameKind)
	usersHandler := handler.NewUsersHandler(cfg.Users)

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.HandleFunc("/challenge", challengeHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/users", usersHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Persistent duplex channel; the handler authenticates the token
	// query parameter itself
	r.Handle("/ws", cfg.Socket).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
