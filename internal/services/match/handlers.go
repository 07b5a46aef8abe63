package match

import (
	"context"
	"log/slog"

	"github.com/edagames/arena/internal/model"
)

// handleListUsers replies with the current membership snapshot
func (s *Service) handleListUsers(client model.ClientID) {
	s.registry.Send(client, model.EventListUsers, map[string]any{
		"users": s.registry.Users(),
	})
}

// handleChallenge issues a challenge from the sender to an opponent
func (s *Service) handleChallenge(ctx context.Context, client model.ClientID, msg model.Message) {
	opponent, ok := s.field(client, msg, model.FieldOpponent)
	if !ok {
		return
	}

	if err := s.MakeChallenge(ctx, client, model.ClientID(opponent), s.defaultGameKind); err != nil {
		s.sendError(client, "could not create challenge")
	}
}

// MakeChallenge stores a fresh challenge with a bounded acceptance
// window and notifies the challenged client. The challenge id is
// always generated here; ids supplied by clients are never
// authoritative for the stored record.
func (s *Service) MakeChallenge(ctx context.Context, challenger, challenged model.ClientID, gameKind string) error {
	challenge := &model.Challenge{
		ID:         model.ChallengeID(s.random.ID()),
		Challenger: challenger,
		Challenged: challenged,
		GameKind:   gameKind,
	}

	if err := s.storage.SaveChallenge(ctx, challenge); err != nil {
		s.logger.Error("failed to save challenge",
			slog.String("challenger", string(challenger)),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.registry.Send(challenged, model.EventChallenge, map[string]any{
		"opponent":     challenger,
		"challenge_id": challenge.ID,
	})

	s.logger.Info("challenge issued",
		slog.String("challenge_id", string(challenge.ID)),
		slog.String("challenger", string(challenger)),
		slog.String("challenged", string(challenged)),
	)
	return nil
}

// handleAcceptChallenge starts a game from a pending challenge. An
// expired challenge is simply unreadable; no state is rolled back.
func (s *Service) handleAcceptChallenge(ctx context.Context, client model.ClientID, msg model.Message) {
	challengeID, ok := s.field(client, msg, model.FieldChallengeID)
	if !ok {
		return
	}

	challenge, err := s.storage.GetChallenge(ctx, model.ChallengeID(challengeID))
	if err != nil {
		s.storeReadFailed(client, model.FieldChallengeID, err)
		return
	}

	adapter, err := s.engines.Adapter(challenge.GameKind)
	if err != nil {
		s.sendError(client, "unknown game kind")
		return
	}

	result, err := adapter.CreateGame(ctx, challenge.Players())
	if err != nil {
		s.logger.Error("engine create_game failed",
			slog.String("challenge_id", challengeID),
			slog.String("error", err.Error()),
		)
		s.sendError(client, "could not start game")
		return
	}

	session := &model.GameSession{
		GameID:   result.GameID,
		GameKind: challenge.GameKind,
		Players:  challenge.Players(),
	}
	if err := s.storage.SaveSession(ctx, session); err != nil {
		s.logger.Error("failed to save game session",
			slog.String("game_id", string(result.GameID)),
			slog.String("error", err.Error()),
		)
		s.sendError(client, "could not start game")
		return
	}

	s.logger.Info("game started",
		slog.String("game_id", string(result.GameID)),
		slog.String("game_kind", session.GameKind),
	)
	s.route(ctx, result, session)
}

// handleMovement forwards a move to the engine if, and only if, the
// submitted token equals the current one. A mismatch is dropped
// without a reply: a forged token and a turn superseded by a penalty
// are deliberately indistinguishable here.
func (s *Service) handleMovement(ctx context.Context, client model.ClientID, msg model.Message) {
	token, ok := s.field(client, msg, model.FieldTurnToken)
	if !ok {
		return
	}
	boardID, ok := s.field(client, msg, model.FieldBoardID)
	if !ok {
		return
	}
	gameID := model.GameID(boardID)

	valid, err := s.turns.AcceptMove(ctx, gameID, model.TurnToken(token))
	if err != nil {
		s.storeReadFailed(client, model.FieldTurnToken, err)
		return
	}
	if !valid {
		s.logger.Debug("move with stale token dropped",
			slog.String("game_id", string(gameID)),
			slog.String("client", string(client)),
		)
		return
	}

	session, err := s.storage.GetSession(ctx, gameID)
	if err != nil {
		s.storeReadFailed(client, model.FieldBoardID, err)
		return
	}

	adapter, err := s.engines.Adapter(session.GameKind)
	if err != nil {
		s.sendError(client, "unknown game kind")
		return
	}

	// The engine receives the full inbound message so game-specific
	// move fields pass through untouched
	payload := map[string]any{"action": msg.Action, "data": msg.Data}
	result, err := adapter.ExecuteAction(ctx, gameID, payload)
	if err != nil {
		s.logger.Error("engine execute_action failed",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		s.sendError(client, "could not execute move")
		return
	}

	s.logMove(ctx, result)
	s.route(ctx, result, session)
}

// handleAbortGame ends a game at the request of the player holding the
// current turn token
func (s *Service) handleAbortGame(ctx context.Context, client model.ClientID, msg model.Message) {
	token, ok := s.field(client, msg, model.FieldTurnToken)
	if !ok {
		return
	}
	boardID, ok := s.field(client, msg, model.FieldBoardID)
	if !ok {
		return
	}
	gameID := model.GameID(boardID)

	valid, err := s.turns.AcceptMove(ctx, gameID, model.TurnToken(token))
	if err != nil {
		s.storeReadFailed(client, model.FieldTurnToken, err)
		return
	}
	if !valid {
		return
	}

	session, err := s.storage.GetSession(ctx, gameID)
	if err != nil {
		s.storeReadFailed(client, model.FieldBoardID, err)
		return
	}

	adapter, err := s.engines.Adapter(session.GameKind)
	if err != nil {
		s.sendError(client, "unknown game kind")
		return
	}

	result, err := adapter.EndGame(ctx, gameID)
	if err != nil {
		s.logger.Error("engine end_game failed",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		s.sendError(client, "could not abort game")
		return
	}

	s.logger.Info("game aborted",
		slog.String("game_id", string(gameID)),
		slog.String("client", string(client)),
	)
	s.gameOver(ctx, result, session)
}

// route continues a game after an engine transition: either the next
// turn starts or the game is over
func (s *Service) route(ctx context.Context, result *model.MoveResult, session *model.GameSession) {
	if result.GameOver() {
		s.gameOver(ctx, result, session)
		return
	}
	s.advance(ctx, result)
}

// advance issues the next turn token, notifies the player due to
// move, and arms the penalty deadline for the new token
func (s *Service) advance(ctx context.Context, result *model.MoveResult) {
	token, err := s.turns.IssueNextTurn(ctx, result.GameID)
	if err != nil {
		s.logger.Error("failed to issue turn token",
			slog.String("game_id", string(result.GameID)),
			slog.String("error", err.Error()),
		)
		return
	}

	turnData := make(map[string]any, len(result.TurnData)+2)
	for k, v := range result.TurnData {
		turnData[k] = v
	}
	turnData[model.FieldTurnToken] = string(token)
	turnData[model.FieldBoardID] = string(result.GameID)

	s.registry.Send(result.CurrentPlayer, model.EventYourTurn, turnData)

	gameID := result.GameID
	s.scheduler.Schedule(gameID, token, func(ctx context.Context) {
		s.penalize(ctx, gameID)
	})
}

// penalize runs when a move deadline expired with the token still
// current: the engine plays a forced move on behalf of the stalling
// player and the game continues under the normal rule
func (s *Service) penalize(ctx context.Context, gameID model.GameID) {
	session, err := s.storage.GetSession(ctx, gameID)
	if err != nil {
		s.logger.Error("penalty session lookup failed",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return
	}

	adapter, err := s.engines.Adapter(session.GameKind)
	if err != nil {
		s.logger.Error("penalty adapter lookup failed",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return
	}

	result, err := adapter.Penalize(ctx, gameID)
	if err != nil {
		s.logger.Error("engine penalize failed",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("player penalized", slog.String("game_id", string(gameID)))
	s.route(ctx, result, session)
}

// logMove overwrites the game's last-move snapshot. Best effort: a
// failed write is logged and the transition continues, the engine has
// already advanced the game.
func (s *Service) logMove(ctx context.Context, result *model.MoveResult) {
	log := &model.MoveLog{
		GameID: result.GameID,
		Turn:   result.CurrentPlayer,
		Data:   result.PlayData,
	}
	if err := s.storage.SaveMoveLog(ctx, log); err != nil {
		s.logger.Error("failed to save move log",
			slog.String("game_id", string(result.GameID)),
			slog.String("error", err.Error()),
		)
	}
}

// gameOver finishes a game: the last outstanding token is invalidated
// by issuing one further token, every session player is notified, and
// the outward result notification is fired best-effort
func (s *Service) gameOver(ctx context.Context, result *model.MoveResult, session *model.GameSession) {
	if _, err := s.turns.IssueNextTurn(ctx, result.GameID); err != nil {
		s.logger.Error("failed to invalidate final turn token",
			slog.String("game_id", string(result.GameID)),
			slog.String("error", err.Error()),
		)
	}

	for _, player := range session.Players {
		s.registry.Send(player, model.EventGameOver, result.TurnData)
	}

	s.reporter.GameOver(result.GameID, extractScores(result.TurnData))

	s.logger.Info("game over", slog.String("game_id", string(result.GameID)))
}
