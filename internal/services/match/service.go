package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edagames/arena/internal/dependencies/random"
	"github.com/edagames/arena/internal/engine"
	"github.com/edagames/arena/internal/model"
	"github.com/edagames/arena/internal/report"
	"github.com/edagames/arena/internal/services/turn"
	"github.com/edagames/arena/internal/storage"
)

// Registry is the view of the connection registry the match layer
// needs: best-effort unicast and the current membership list
type Registry interface {
	Send(client model.ClientID, event model.EventType, data any)
	Users() []model.ClientID
}

// Service is the event dispatcher and match state machine. It
// classifies each inbound message into one of a closed set of actions
// and executes the corresponding transition. Errors stay local to one
// game and one connection; nothing here may crash a channel loop.
type Service struct {
	storage   storage.Storage
	engines   *engine.Registry
	turns     *turn.Service
	scheduler *turn.Scheduler
	registry  Registry
	reporter  report.Reporter
	random    random.Random

	defaultGameKind string
	logger          *slog.Logger
}

// NewService creates the match service
func NewService(
	store storage.Storage,
	engines *engine.Registry,
	turns *turn.Service,
	scheduler *turn.Scheduler,
	registry Registry,
	reporter report.Reporter,
	rnd random.Random,
	defaultGameKind string,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:         store,
		engines:         engines,
		turns:           turns,
		scheduler:       scheduler,
		registry:        registry,
		reporter:        reporter,
		random:          rnd,
		defaultGameKind: defaultGameKind,
		logger:          logger.With(slog.String("component", "match")),
	}
}

// Dispatch routes one inbound message from a connected client to its
// handler. Unrecognized action tags are movements: a bare move
// submission does not need to name itself.
func (s *Service) Dispatch(ctx context.Context, client model.ClientID, raw []byte) {
	msg := model.ParseMessage(raw)

	switch model.ActionFromTag(msg.Action) {
	case model.ActionListUsers:
		s.handleListUsers(client)
	case model.ActionChallenge:
		s.handleChallenge(ctx, client, msg)
	case model.ActionAcceptChallenge:
		s.handleAcceptChallenge(ctx, client, msg)
	case model.ActionAbortGame:
		s.handleAbortGame(ctx, client, msg)
	case model.ActionMovement:
		s.handleMovement(ctx, client, msg)
	}
}

// field reads a required string field from the message data. On a
// missing field the requesting client is sent an error event and the
// caller must abort the transition.
func (s *Service) field(client model.ClientID, msg model.Message, name string) (string, bool) {
	value, ok := msg.Data[name].(string)
	if !ok || value == "" {
		s.sendError(client, fmt.Sprintf("missing required field %q", name))
		return "", false
	}
	return value, true
}

// sendError delivers an error event to one client
func (s *Service) sendError(client model.ClientID, message string) {
	s.registry.Send(client, model.EventError, map[string]any{"Error": message})
}

// storeReadFailed surfaces a failed store read to the requesting
// client: absent records become feedback, anything else an error
// event. Neither is allowed to propagate.
func (s *Service) storeReadFailed(client model.ClientID, what string, err error) {
	switch {
	case errors.Is(err, model.ErrChallengeNotFound),
		errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrTokenNotFound),
		errors.Is(err, model.ErrMoveLogNotFound):
		s.registry.Send(client, model.EventFeedback, fmt.Sprintf("%s not found", what))
	default:
		s.logger.Error("store read failed",
			slog.String("what", what),
			slog.String("error", err.Error()),
		)
		s.sendError(client, fmt.Sprintf("could not read %s", what))
	}
}
