package report

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/edagames/arena/internal/model"
)

// Reporter delivers match results to the outside world. Delivery is
// best effort: the game is already over when this runs and nothing in
// the control plane depends on the notification landing.
type Reporter interface {
	GameOver(gameID model.GameID, scores []model.PlayerScore)
}

// WebReporter posts results to an external reporting endpoint
type WebReporter struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure WebReporter implements Reporter
var _ Reporter = (*WebReporter)(nil)

// NewWebReporter creates a reporter for the given endpoint URL
func NewWebReporter(url string, logger *slog.Logger) *WebReporter {
	return &WebReporter{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With(slog.String("component", "report")),
	}
}

// GameOver fires a notification for a finished game and returns
// immediately. Failures are logged and swallowed.
func (r *WebReporter) GameOver(gameID model.GameID, scores []model.PlayerScore) {
	pairs := make([][2]any, 0, len(scores))
	for _, s := range scores {
		pairs = append(pairs, [2]any{s.Player, s.Score})
	}

	body, err := json.Marshal(map[string]any{
		"game_id": gameID,
		"data":    pairs,
	})
	if err != nil {
		r.logger.Error("failed to marshal game result", slog.String("error", err.Error()))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
		if err != nil {
			r.logger.Error("failed to create result request", slog.String("error", err.Error()))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.httpClient.Do(req)
		if err != nil {
			r.logger.Warn("game result notification failed",
				slog.String("game_id", string(gameID)),
				slog.String("error", err.Error()),
			)
			return
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 400 {
			r.logger.Warn("game result notification rejected",
				slog.String("game_id", string(gameID)),
				slog.Int("status", resp.StatusCode),
			)
		}
	}()
}
