package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/edagames/arena/internal/model"
)

// HTTPAdapter talks JSON over HTTP to a rules engine instance
type HTTPAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure HTTPAdapter implements Adapter
var _ Adapter = (*HTTPAdapter)(nil)

// NewHTTPAdapter creates an adapter for the engine at baseURL
func NewHTTPAdapter(baseURL string) *HTTPAdapter {
	return &HTTPAdapter{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateGame asks the engine to start a game for the given players
func (a *HTTPAdapter) CreateGame(ctx context.Context, players []model.ClientID) (*model.MoveResult, error) {
	return a.post(ctx, "/games", map[string]any{"players": players})
}

// ExecuteAction forwards an accepted move to the engine
func (a *HTTPAdapter) ExecuteAction(ctx context.Context, gameID model.GameID, payload map[string]any) (*model.MoveResult, error) {
	return a.post(ctx, fmt.Sprintf("/games/%s/action", gameID), payload)
}

// Penalize asks the engine to play a forced move on behalf of the
// player who failed to act before the deadline
func (a *HTTPAdapter) Penalize(ctx context.Context, gameID model.GameID) (*model.MoveResult, error) {
	return a.post(ctx, fmt.Sprintf("/games/%s/penalize", gameID), nil)
}

// EndGame asks the engine to terminate a game and report final state
func (a *HTTPAdapter) EndGame(ctx context.Context, gameID model.GameID) (*model.MoveResult, error) {
	return a.post(ctx, fmt.Sprintf("/games/%s/end", gameID), nil)
}

// post performs a JSON POST and decodes the uniform MoveResult shape
func (a *HTTPAdapter) post(ctx context.Context, path string, body any) (*model.MoveResult, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("engine HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var result model.MoveResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse engine response: %w", err)
	}
	return &result, nil
}
