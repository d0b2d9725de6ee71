package subject

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/session"
	httperrors "github.com/aldiyarbek/quizduel/pkg/http/errors"
)

// enrollmentReader resolves enrollment sets for the mutual-subject lookup.
type enrollmentReader interface {
	Enrollments(ctx context.Context, id uuid.UUID) ([]string, error)
}

// HTTPHandlers serves the subject catalog.
type HTTPHandlers struct {
	enrollments enrollmentReader
	logger      zerolog.Logger
}

func NewHTTPHandlers(enrollments enrollmentReader, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{enrollments: enrollments, logger: logger}
}

// List handles GET /v1/subjects
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, All())
}

// MutualWith handles GET /v1/subjects/mutual/{userID}: the subjects both
// the caller and the given user are enrolled in, which is exactly the set
// a duel may be offered on.
func (h *HTTPHandlers) MutualWith(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	otherID, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid user id")
		return
	}

	mine, err := h.enrollments.Enrollments(r.Context(), sess.UserID)
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to load enrollments")
		return
	}
	theirs, err := h.enrollments.Enrollments(r.Context(), otherID)
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to load enrollments")
		return
	}

	mutual := Mutual(mine, theirs)
	if mutual == nil {
		mutual = []Subject{}
	}
	respondJSON(w, http.StatusOK, mutual)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
