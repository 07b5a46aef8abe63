package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edagames/arena/internal/model"
)

func TestExtractScores(t *testing.T) {
	scores := extractScores(map[string]any{
		"player_1": "pepe",
		"score_1":  float64(7),
		"player_2": "ana",
		"score_2":  float64(10),
		"board":    ".........",
	})

	assert.Equal(t, []model.PlayerScore{
		{Player: "ana", Score: float64(10)},
		{Player: "pepe", Score: float64(7)},
	}, scores)
}

func TestExtractScoresMissingScore(t *testing.T) {
	scores := extractScores(map[string]any{
		"player_1": "ana",
	})

	assert.Equal(t, []model.PlayerScore{
		{Player: "ana", Score: nil},
	}, scores)
}

func TestExtractScoresNonStringPlayerSkipped(t *testing.T) {
	scores := extractScores(map[string]any{
		"player_1": float64(42),
		"player_2": "ana",
		"score_2":  float64(3),
	})

	assert.Equal(t, []model.PlayerScore{
		{Player: "ana", Score: float64(3)},
	}, scores)
}

func TestExtractScoresEmpty(t *testing.T) {
	assert.Empty(t, extractScores(map[string]any{"board": "x"}))
	assert.Empty(t, extractScores(nil))
}
