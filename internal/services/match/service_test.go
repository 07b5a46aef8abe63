package match

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/edagames/arena/internal/dependencies/mocks"
	"github.com/edagames/arena/internal/engine"
	"github.com/edagames/arena/internal/model"
	"github.com/edagames/arena/internal/services/turn"
	"github.com/edagames/arena/internal/storage/memory"
	"github.com/edagames/arena/internal/testutil"
)

// sentEvent records one registry delivery
type sentEvent struct {
	Client model.ClientID
	Event  model.EventType
	Data   any
}

// fakeRegistry records deliveries instead of writing to sockets. Safe
// for concurrent use: penalty timers send from their own goroutines.
type fakeRegistry struct {
	mu     sync.Mutex
	sent   []sentEvent
	online []model.ClientID
}

func (r *fakeRegistry) Send(client model.ClientID, event model.EventType, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentEvent{Client: client, Event: event, Data: data})
}

func (r *fakeRegistry) Users() []model.ClientID {
	return r.online
}

func (r *fakeRegistry) events() []sentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentEvent(nil), r.sent...)
}

func (r *fakeRegistry) eventsFor(client model.ClientID, event model.EventType) []sentEvent {
	var out []sentEvent
	for _, e := range r.events() {
		if e.Client == client && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// fakeReporter records outward result notifications
type fakeReporter struct {
	mu    sync.Mutex
	calls []struct {
		GameID model.GameID
		Scores []model.PlayerScore
	}
}

func (r *fakeReporter) GameOver(gameID model.GameID, scores []model.PlayerScore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, struct {
		GameID model.GameID
		Scores []model.PlayerScore
	}{gameID, scores})
}

func (r *fakeReporter) reported() []struct {
	GameID model.GameID
	Scores []model.PlayerScore
} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]struct {
		GameID model.GameID
		Scores []model.PlayerScore
	}(nil), r.calls...)
}

// fakeEngine is a scriptable engine adapter
type fakeEngine struct {
	mu             sync.Mutex
	createResult   *model.MoveResult
	executeResult  *model.MoveResult
	penalizeResult *model.MoveResult
	endResult      *model.MoveResult
	executeCalls   int
	penalizeCalls  int
	endCalls       int
	lastPayload    map[string]any
}

func (e *fakeEngine) CreateGame(ctx context.Context, players []model.ClientID) (*model.MoveResult, error) {
	return e.createResult, nil
}

func (e *fakeEngine) ExecuteAction(ctx context.Context, gameID model.GameID, payload map[string]any) (*model.MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executeCalls++
	e.lastPayload = payload
	return e.executeResult, nil
}

func (e *fakeEngine) Penalize(ctx context.Context, gameID model.GameID) (*model.MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.penalizeCalls++
	return e.penalizeResult, nil
}

func (e *fakeEngine) EndGame(ctx context.Context, gameID model.GameID) (*model.MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endCalls++
	return e.endResult, nil
}

func (e *fakeEngine) executed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.executeCalls
}

func (e *fakeEngine) penalized() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.penalizeCalls
}

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	engine   *fakeEngine
	engines  *engine.Registry
	turns    *turn.Service
	registry *fakeRegistry
	reporter *fakeReporter
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = memory.New(s.clock, 5*time.Minute)
	s.random = mocks.NewMockRandom()
	s.engine = &fakeEngine{}
	s.engines = engine.NewRegistry(nil)
	s.engines.Register("quoridor", s.engine)
	s.registry = &fakeRegistry{online: []model.ClientID{"ana", "pepe"}}
	s.reporter = &fakeReporter{}
	s.turns = turn.New(s.storage, s.random, testutil.NopLogger())

	// A deadline long enough that it never fires during a test; the
	// penalty tests build their own service with a short one
	s.service = s.newService(time.Hour)
	s.ctx = context.Background()
}

func (s *ServiceSuite) newService(deadline time.Duration) *Service {
	scheduler := turn.NewScheduler(s.storage, deadline, testutil.NopLogger())
	return NewService(
		s.storage, s.engines, s.turns, scheduler,
		s.registry, s.reporter, s.random, "quoridor", testutil.NopLogger(),
	)
}

func (s *ServiceSuite) dispatch(client model.ClientID, msg any) {
	raw, err := json.Marshal(msg)
	s.Require().NoError(err)
	s.service.Dispatch(s.ctx, client, raw)
}

// startGame drives a full challenge/accept exchange and returns the
// token from ana's your_turn notification
func (s *ServiceSuite) startGame() model.TurnToken {
	s.engine.createResult = &model.MoveResult{
		GameID:        "game-1",
		CurrentPlayer: "ana",
		TurnData:      map[string]any{"board": "........."},
	}

	s.random.QueueID("ch-1")
	s.dispatch("ana", map[string]any{
		"action": "challenge",
		"data":   map[string]any{"opponent": "pepe"},
	})
	s.dispatch("pepe", map[string]any{
		"action": "accept_challenge",
		"data":   map[string]any{"challenge_id": "ch-1"},
	})

	turns := s.registry.eventsFor("ana", model.EventYourTurn)
	s.Require().Len(turns, 1)

	data, ok := turns[0].Data.(map[string]any)
	s.Require().True(ok)
	token, ok := data["turn_token"].(string)
	s.Require().True(ok)
	return model.TurnToken(token)
}

// Dispatch tests

func (s *ServiceSuite) TestListUsers() {
	s.dispatch("ana", map[string]any{"action": "list_users"})

	events := s.registry.eventsFor("ana", model.EventListUsers)
	s.Require().Len(events, 1)

	data := events[0].Data.(map[string]any)
	s.Equal([]model.ClientID{"ana", "pepe"}, data["users"])
}

func (s *ServiceSuite) TestMalformedFrameDoesNotPanic() {
	s.service.Dispatch(s.ctx, "ana", []byte("{not json"))

	// A malformed frame normalizes to a movement with no fields and
	// fails the required-field check
	events := s.registry.eventsFor("ana", model.EventError)
	s.Require().Len(events, 1)
}

// Challenge tests

func (s *ServiceSuite) TestChallengeNotifiesChallenged() {
	s.random.QueueID("ch-1")

	s.dispatch("ana", map[string]any{
		"action": "challenge",
		"data":   map[string]any{"opponent": "pepe"},
	})

	events := s.registry.eventsFor("pepe", model.EventChallenge)
	s.Require().Len(events, 1)

	data := events[0].Data.(map[string]any)
	s.Equal(model.ClientID("ana"), data["opponent"])
	s.Equal(model.ChallengeID("ch-1"), data["challenge_id"])
}

func (s *ServiceSuite) TestChallengeStoresRecord() {
	s.random.QueueID("ch-1")

	s.dispatch("ana", map[string]any{
		"action": "challenge",
		"data":   map[string]any{"opponent": "pepe"},
	})

	challenge, err := s.storage.GetChallenge(s.ctx, "ch-1")
	s.Require().NoError(err)
	s.Equal(model.ClientID("ana"), challenge.Challenger)
	s.Equal(model.ClientID("pepe"), challenge.Challenged)
	s.Equal("quoridor", challenge.GameKind)
}

func (s *ServiceSuite) TestChallengeIDIsAlwaysGenerated() {
	s.random.QueueID("ch-1")

	// A client-supplied id must never become the stored id
	s.dispatch("ana", map[string]any{
		"action": "challenge",
		"data":   map[string]any{"opponent": "pepe", "challenge_id": "123"},
	})

	_, err := s.storage.GetChallenge(s.ctx, "123")
	s.ErrorIs(err, model.ErrChallengeNotFound)

	challenge, err := s.storage.GetChallenge(s.ctx, "ch-1")
	s.Require().NoError(err)
	s.Equal(model.ClientID("ana"), challenge.Challenger)
}

func (s *ServiceSuite) TestChallengeMissingOpponent() {
	s.dispatch("ana", map[string]any{
		"action": "challenge",
		"data":   map[string]any{},
	})

	events := s.registry.eventsFor("ana", model.EventError)
	s.Require().Len(events, 1)
	s.Empty(s.registry.eventsFor("pepe", model.EventChallenge))
}

// Accept challenge tests

func (s *ServiceSuite) TestAcceptChallengeStartsGame() {
	token := s.startGame()
	s.NotEmpty(token)

	session, err := s.storage.GetSession(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal("quoridor", session.GameKind)
	s.Equal([]model.ClientID{"ana", "pepe"}, session.Players)
}

func (s *ServiceSuite) TestAcceptChallengeTurnDataCarriesTokenAndBoard() {
	s.startGame()

	turns := s.registry.eventsFor("ana", model.EventYourTurn)
	s.Require().Len(turns, 1)

	data := turns[0].Data.(map[string]any)
	s.Equal(".........", data["board"])
	s.Equal("game-1", data["board_id"])
	s.NotEmpty(data["turn_token"])
}

func (s *ServiceSuite) TestAcceptUnknownChallenge() {
	s.dispatch("pepe", map[string]any{
		"action": "accept_challenge",
		"data":   map[string]any{"challenge_id": "nonexistent"},
	})

	events := s.registry.eventsFor("pepe", model.EventFeedback)
	s.Require().Len(events, 1)
}

func (s *ServiceSuite) TestAcceptExpiredChallenge() {
	s.random.QueueID("ch-1")
	s.dispatch("ana", map[string]any{
		"action": "challenge",
		"data":   map[string]any{"opponent": "pepe"},
	})

	s.clock.Advance(6 * time.Minute)

	s.dispatch("pepe", map[string]any{
		"action": "accept_challenge",
		"data":   map[string]any{"challenge_id": "ch-1"},
	})

	events := s.registry.eventsFor("pepe", model.EventFeedback)
	s.Require().Len(events, 1)
	s.Empty(s.registry.eventsFor("ana", model.EventYourTurn))
}

// Movement tests

func (s *ServiceSuite) TestMovementWithValidToken() {
	token := s.startGame()

	s.engine.executeResult = &model.MoveResult{
		GameID:        "game-1",
		CurrentPlayer: "pepe",
		TurnData:      map[string]any{"board": "x........"},
		PlayData:      map[string]any{"from": "a1", "to": "a2"},
	}

	s.dispatch("ana", map[string]any{
		"action": "move",
		"data": map[string]any{
			"turn_token": string(token),
			"board_id":   "game-1",
			"from":       "a1",
			"to":         "a2",
		},
	})

	s.Equal(1, s.engine.executed())

	turns := s.registry.eventsFor("pepe", model.EventYourTurn)
	s.Require().Len(turns, 1)
	data := turns[0].Data.(map[string]any)
	s.Equal("x........", data["board"])
	s.NotEqual(string(token), data["turn_token"], "A fresh token is issued per turn")
}

func (s *ServiceSuite) TestMovementPayloadReachesEngine() {
	token := s.startGame()
	s.engine.executeResult = &model.MoveResult{
		GameID:        "game-1",
		CurrentPlayer: "pepe",
	}

	s.dispatch("ana", map[string]any{
		"action": "move",
		"data": map[string]any{
			"turn_token": string(token),
			"board_id":   "game-1",
			"from":       "a1",
		},
	})

	s.Require().NotNil(s.engine.lastPayload)
	s.Equal("move", s.engine.lastPayload["action"])
	moveData := s.engine.lastPayload["data"].(map[string]any)
	s.Equal("a1", moveData["from"])
}

func (s *ServiceSuite) TestMovementRecordsMoveLog() {
	token := s.startGame()
	s.engine.executeResult = &model.MoveResult{
		GameID:        "game-1",
		CurrentPlayer: "pepe",
		PlayData:      map[string]any{"from": "a1"},
	}

	s.dispatch("ana", map[string]any{
		"action": "move",
		"data":   map[string]any{"turn_token": string(token), "board_id": "game-1"},
	})

	log, err := s.storage.GetMoveLog(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.ClientID("pepe"), log.Turn)
	s.Equal(map[string]any{"from": "a1"}, log.Data)
}

func (s *ServiceSuite) TestMovementWithStaleTokenIsDropped() {
	s.startGame()

	s.dispatch("ana", map[string]any{
		"action": "move",
		"data":   map[string]any{"turn_token": "forged", "board_id": "game-1"},
	})

	s.Equal(0, s.engine.executed())
	s.Empty(s.registry.eventsFor("ana", model.EventError), "A stale token is dropped without a reply")
	s.Empty(s.registry.eventsFor("pepe", model.EventYourTurn))
}

func (s *ServiceSuite) TestMovementReplayIsRejected() {
	token := s.startGame()
	s.engine.executeResult = &model.MoveResult{
		GameID:        "game-1",
		CurrentPlayer: "pepe",
	}

	move := map[string]any{
		"action": "move",
		"data":   map[string]any{"turn_token": string(token), "board_id": "game-1"},
	}
	s.dispatch("ana", move)
	s.dispatch("ana", move)

	s.Equal(1, s.engine.executed(), "A token authorizes exactly one move")
}

func (s *ServiceSuite) TestMovementMissingToken() {
	s.startGame()

	s.dispatch("ana", map[string]any{
		"action": "move",
		"data":   map[string]any{"board_id": "game-1"},
	})

	events := s.registry.eventsFor("ana", model.EventError)
	s.Require().Len(events, 1)
	s.Equal(0, s.engine.executed())
}

func (s *ServiceSuite) TestMovementUnknownGame() {
	s.dispatch("ana", map[string]any{
		"action": "move",
		"data":   map[string]any{"turn_token": "whatever", "board_id": "nonexistent"},
	})

	events := s.registry.eventsFor("ana", model.EventFeedback)
	s.Require().Len(events, 1)
}

// Game over tests

func (s *ServiceSuite) TestGameOverNotifiesAllPlayers() {
	token := s.startGame()

	s.engine.executeResult = &model.MoveResult{
		GameID:        "game-1",
		CurrentPlayer: model.EmptyPlayer,
		TurnData: map[string]any{
			"player_1": "ana", "score_1": float64(10),
			"player_2": "pepe", "score_2": float64(7),
		},
	}

	s.dispatch("ana", map[string]any{
		"action": "move",
		"data":   map[string]any{"turn_token": string(token), "board_id": "game-1"},
	})

	s.Require().Len(s.registry.eventsFor("ana", model.EventGameOver), 1)
	s.Require().Len(s.registry.eventsFor("pepe", model.EventGameOver), 1)
}

func (s *ServiceSuite) TestGameOverReportsScores() {
	token := s.startGame()

	s.engine.executeResult = &model.MoveResult{
		GameID:        "game-1",
		CurrentPlayer: model.EmptyPlayer,
		TurnData: map[string]any{
			"player_1": "pepe", "score_1": float64(7),
			"player_2": "ana", "score_2": float64(10),
		},
	}

	s.dispatch("ana", map[string]any{
		"action": "move",
		"data":   map[string]any{"turn_token": string(token), "board_id": "game-1"},
	})

	reports := s.reporter.reported()
	s.Require().Len(reports, 1)
	s.Equal(model.GameID("game-1"), reports[0].GameID)
	s.Equal([]model.PlayerScore{
		{Player: "ana", Score: float64(10)},
		{Player: "pepe", Score: float64(7)},
	}, reports[0].Scores)
}

func (s *ServiceSuite) TestGameOverInvalidatesFinalToken() {
	token := s.startGame()

	s.engine.executeResult = &model.MoveResult{
		GameID:        "game-1",
		CurrentPlayer: model.EmptyPlayer,
	}

	s.dispatch("ana", map[string]any{
		"action": "move",
		"data":   map[string]any{"turn_token": string(token), "board_id": "game-1"},
	})

	current, err := s.storage.GetTurnToken(s.ctx, "game-1")
	s.Require().NoError(err)
	s.NotEqual(token, current)
}

// Abort tests

func (s *ServiceSuite) TestAbortGameWithCurrentToken() {
	token := s.startGame()

	s.engine.endResult = &model.MoveResult{
		GameID:        "game-1",
		CurrentPlayer: model.EmptyPlayer,
		TurnData:      map[string]any{"player_1": "pepe", "score_1": float64(1)},
	}

	s.dispatch("ana", map[string]any{
		"action": "abort_game",
		"data":   map[string]any{"turn_token": string(token), "board_id": "game-1"},
	})

	s.Equal(1, s.engine.endCalls)
	s.Require().Len(s.registry.eventsFor("ana", model.EventGameOver), 1)
	s.Require().Len(s.registry.eventsFor("pepe", model.EventGameOver), 1)
	s.Require().Len(s.reporter.reported(), 1)
}

func (s *ServiceSuite) TestAbortGameWithStaleTokenIsDropped() {
	s.startGame()

	s.dispatch("ana", map[string]any{
		"action": "abort_game",
		"data":   map[string]any{"turn_token": "forged", "board_id": "game-1"},
	})

	s.Equal(0, s.engine.endCalls)
	s.Empty(s.registry.eventsFor("ana", model.EventGameOver))
}

// Penalty tests

func (s *ServiceSuite) TestPenaltyFiresWhenNoMoveArrives() {
	s.service = s.newService(10 * time.Millisecond)

	s.engine.penalizeResult = &model.MoveResult{
		GameID:        "game-1",
		CurrentPlayer: "pepe",
		TurnData:      map[string]any{"board": "........."},
	}

	s.startGame()

	// The penalized game re-arms its own deadline, so the count only
	// ever grows; at least one forced move must have been played
	s.Eventually(func() bool {
		return s.engine.penalized() >= 1
	}, time.Second, 5*time.Millisecond)

	s.Eventually(func() bool {
		return len(s.registry.eventsFor("pepe", model.EventYourTurn)) >= 1
	}, time.Second, 5*time.Millisecond)
}

func (s *ServiceSuite) TestMoveBeforeDeadlinePreventsPenalty() {
	s.service = s.newService(50 * time.Millisecond)

	token := s.startGame()
	s.engine.executeResult = &model.MoveResult{
		GameID:        "game-1",
		CurrentPlayer: model.EmptyPlayer,
	}

	s.dispatch("ana", map[string]any{
		"action": "move",
		"data":   map[string]any{"turn_token": string(token), "board_id": "game-1"},
	})

	time.Sleep(150 * time.Millisecond)
	s.Equal(0, s.engine.penalized(), "A timely move must supersede the deadline")
}
