package match

import (
	"sort"
	"strings"

	"github.com/edagames/arena/internal/model"
)

// extractScores builds the outward result pairs from final turn data:
// one (player, score) pair for every player_N field, paired with the
// matching score_N field. Absent scores pass through as nil.
func extractScores(turnData map[string]any) []model.PlayerScore {
	var scores []model.PlayerScore
	for key, value := range turnData {
		n, ok := strings.CutPrefix(key, "player_")
		if !ok {
			continue
		}
		player, ok := value.(string)
		if !ok {
			continue
		}
		scores = append(scores, model.PlayerScore{
			Player: model.ClientID(player),
			Score:  turnData["score_"+n],
		})
	}

	// Map iteration order is random; keep the notification stable
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Player < scores[j].Player
	})
	return scores
}
