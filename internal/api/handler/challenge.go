package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/edagames/arena/internal/api/response"
	"github.com/edagames/arena/internal/model"
)

// ChallengeIssuer issues challenges through the match layer. The
// stored challenge id is always freshly generated; any id a caller
// supplies is never authoritative.
type ChallengeIssuer interface {
	MakeChallenge(ctx context.Context, challenger, challenged model.ClientID, gameKind string) error
}

// ChallengeRequest is the inbound shape of POST /challenge
type ChallengeRequest struct {
	Challenger  string `json:"challenger"`
	Challenged  string `json:"challenged"`
	ChallengeID string `json:"challenge_id"`
}

// ChallengeHandler exposes challenge issuance outside the socket
type ChallengeHandler struct {
	issuer          ChallengeIssuer
	defaultGameKind string
}

// NewChallengeHandler creates a challenge handler
func NewChallengeHandler(issuer ChallengeIssuer, defaultGameKind string) *ChallengeHandler {
	return &ChallengeHandler{
		issuer:          issuer,
		defaultGameKind: defaultGameKind,
	}
}

// Create handles POST /challenge. The request is echoed back on
// success; the challenged client is notified over their channel.
func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Challenger == "" || req.Challenged == "" {
		response.Error(w, http.StatusBadRequest, "challenger and challenged are required")
		return
	}

	err := h.issuer.MakeChallenge(
		r.Context(),
		model.ClientID(req.Challenger),
		model.ClientID(req.Challenged),
		h.defaultGameKind,
	)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not create challenge")
		return
	}

	response.JSON(w, http.StatusOK, req)
}
