package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/edagames/arena/internal/model"
)

// Verifier turns a connection credential into an identity or rejects it
type Verifier interface {
	Verify(credential string) (model.ClientID, error)
}

// Dispatcher handles one inbound message from a connected client
type Dispatcher interface {
	Dispatch(ctx context.Context, client model.ClientID, raw []byte)
}

// Handler upgrades authenticated connections and runs their read loop
type Handler struct {
	registry   *Registry
	verifier   Verifier
	dispatcher Dispatcher
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewHandler creates the websocket endpoint handler
func NewHandler(registry *Registry, verifier Verifier, dispatcher Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		registry:   registry,
		verifier:   verifier,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP authenticates the credential carried in the token query
// parameter, upgrades the connection, registers it, and pumps inbound
// messages into the dispatcher until the channel closes. A rejected
// credential closes the channel with no registry mutation and no
// broadcast.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.verifier.Verify(r.URL.Query().Get("token"))
	if err != nil {
		h.logger.Info("connection rejected", slog.String("error", err.Error()))
		http.Error(w, "invalid credential", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := newClient(identity, conn)
	h.registry.register(c)
	go c.writePump()

	defer h.registry.remove(c)

	ctx := context.Background()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.dispatcher.Dispatch(ctx, identity, raw)
	}
}
