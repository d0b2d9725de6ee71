package leaderboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	httperrors "github.com/aldiyarbek/quizduel/pkg/http/errors"
)

// HTTPHandlers exposes leaderboard queries.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger,
	}
}

// Rankings handles GET /v1/leaderboard?sort=score|quizzes&limit=10
func (h *HTTPHandlers) Rankings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.svc.Rankings(r.Context(), r.URL.Query().Get("sort"), limit)
	if err != nil {
		if errors.Is(err, ErrUnknownSort) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Unknown sort")
			return
		}
		httperrors.RespondInternalError(w, "Failed to load leaderboard")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"entries": entries})
}
