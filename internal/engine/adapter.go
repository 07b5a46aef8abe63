package engine

import (
	"context"
	"sync"

	"github.com/edagames/arena/internal/model"
)

// Adapter is the per-game-kind client for the external rules engine.
// The engine owns actual game rules and board state; this layer only
// relays transitions. Every call returns the same uniform MoveResult
// shape, with an empty current player signalling game over.
type Adapter interface {
	CreateGame(ctx context.Context, players []model.ClientID) (*model.MoveResult, error)
	ExecuteAction(ctx context.Context, gameID model.GameID, payload map[string]any) (*model.MoveResult, error)
	Penalize(ctx context.Context, gameID model.GameID) (*model.MoveResult, error)
	EndGame(ctx context.Context, gameID model.GameID) (*model.MoveResult, error)
}

// Registry resolves game kinds to adapters and caches one adapter per
// kind. Resolution is static per-kind endpoint configuration; real
// service discovery can replace the URL map without touching callers.
type Registry struct {
	mu       sync.Mutex
	urls     map[string]string
	adapters map[string]Adapter
}

// NewRegistry creates a registry over a game kind -> endpoint URL map
func NewRegistry(urls map[string]string) *Registry {
	return &Registry{
		urls:     urls,
		adapters: make(map[string]Adapter),
	}
}

// Adapter returns the cached adapter for a game kind, creating it on
// first use. Unknown kinds fail with model.ErrUnknownGameKind.
func (r *Registry) Adapter(kind string) (Adapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if adapter, ok := r.adapters[kind]; ok {
		return adapter, nil
	}

	url, ok := r.urls[kind]
	if !ok {
		return nil, model.ErrUnknownGameKind
	}

	adapter := NewHTTPAdapter(url)
	r.adapters[kind] = adapter
	return adapter, nil
}

// Register installs an adapter for a game kind, replacing any cached
// one. Used by tests to inject fakes.
func (r *Registry) Register(kind string, adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[kind] = adapter
}
