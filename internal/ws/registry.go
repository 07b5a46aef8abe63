package ws

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/edagames/arena/internal/model"
)

// Registry maps logical client identities to live channels. At most
// one entry exists per identity; a reconnect evicts the previous
// channel by overwrite. Entries are mutated only by a connection's own
// register/remove, and every membership change is broadcast to all
// connected clients as a full snapshot.
type Registry struct {
	mu      sync.RWMutex
	clients map[model.ClientID]*client
	logger  *slog.Logger
}

// NewRegistry creates an empty connection registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		clients: make(map[model.ClientID]*client),
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// register installs a client under its identity, closing any channel
// the identity previously held, and broadcasts the new membership
func (r *Registry) register(c *client) {
	r.mu.Lock()
	previous := r.clients[c.id]
	r.clients[c.id] = c
	r.mu.Unlock()

	if previous != nil {
		r.logger.Info("connection replaced", slog.String("client", string(c.id)))
		previous.close()
	} else {
		r.logger.Info("client connected", slog.String("client", string(c.id)))
	}

	r.notifyUserListChanged()
}

// remove drops a client's entry. The entry is only deleted if it still
// belongs to this client: a connection replaced by a reconnect must
// not evict its successor. Removal of an absent identity is a logged
// no-op that still broadcasts the (unchanged) membership.
func (r *Registry) remove(c *client) {
	r.mu.Lock()
	current, ok := r.clients[c.id]
	if ok && current == c {
		delete(r.clients, c.id)
	}
	r.mu.Unlock()

	if !ok {
		r.logger.Info("disconnect for unknown client", slog.String("client", string(c.id)))
	} else {
		r.logger.Info("client disconnected", slog.String("client", string(c.id)))
	}
	c.close()

	r.notifyUserListChanged()
}

// Users returns the sorted list of connected identities
func (r *Registry) Users() []model.ClientID {
	r.mu.RLock()
	users := make([]model.ClientID, 0, len(r.clients))
	for id := range r.clients {
		users = append(users, id)
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}

// Send delivers an event to one client, best effort. An unknown
// identity or a full outbound queue is logged and swallowed: a single
// unreachable client must never abort a broadcast or a multi-step
// transition.
func (r *Registry) Send(id model.ClientID, event model.EventType, data any) {
	msg, err := json.Marshal(model.Envelope{Event: event, Data: data})
	if err != nil {
		r.logger.Error("failed to marshal event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()),
		)
		return
	}
	r.deliver(id, event, msg)
}

// BulkSend fans an event out to the given identities. Each delivery is
// independent; one recipient's failure does not affect the others.
func (r *Registry) BulkSend(ids []model.ClientID, event model.EventType, data any) {
	msg, err := json.Marshal(model.Envelope{Event: event, Data: data})
	if err != nil {
		r.logger.Error("failed to marshal event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()),
		)
		return
	}
	for _, id := range ids {
		go r.deliver(id, event, msg)
	}
}

// Broadcast fans an event out to every connected client
func (r *Registry) Broadcast(event model.EventType, data any) {
	r.BulkSend(r.Users(), event, data)
}

// deliver enqueues a marshalled event on one client's channel
func (r *Registry) deliver(id model.ClientID, event model.EventType, msg []byte) {
	r.mu.RLock()
	c, ok := r.clients[id]
	r.mu.RUnlock()

	if !ok {
		r.logger.Info("send to unknown client",
			slog.String("client", string(id)),
			slog.String("event", string(event)),
		)
		return
	}

	defer func() {
		// The send queue may close concurrently with delivery; a lost
		// event to a closing channel is equivalent to a send failure
		if recover() != nil {
			r.logger.Info("send to closing channel dropped",
				slog.String("client", string(id)),
				slog.String("event", string(event)),
			)
		}
	}()

	select {
	case c.send <- msg:
	default:
		r.logger.Warn("event dropped - client buffer full",
			slog.String("client", string(id)),
			slog.String("event", string(event)),
		)
	}
}

// notifyUserListChanged broadcasts the full membership snapshot. This
// is the only state clients can reliably poll passively.
func (r *Registry) notifyUserListChanged() {
	users := r.Users()
	r.logger.Info("membership changed", slog.Int("users", len(users)))
	r.Broadcast(model.EventListUsers, map[string]any{"users": users})
}
