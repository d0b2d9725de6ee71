package duel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/profile"
	"github.com/aldiyarbek/quizduel/internal/session"
	httperrors "github.com/aldiyarbek/quizduel/pkg/http/errors"
)

const defaultQuestionCount = 10

// profileReader resolves the participants for invite validation.
type profileReader interface {
	Get(ctx context.Context, id uuid.UUID) (*profile.User, error)
}

// HTTPHandlers provides REST endpoints for duels.
type HTTPHandlers struct {
	duelSvc  *Service
	profiles profileReader
	logger   zerolog.Logger
}

func NewHTTPHandlers(duelSvc *Service, profiles profileReader, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		duelSvc:  duelSvc,
		profiles: profiles,
		logger:   logger,
	}
}

type createRequest struct {
	OpponentID    uuid.UUID `json:"opponent_id"`
	SubjectID     string    `json:"subject_id"`
	QuestionCount int       `json:"question_count"`
}

// Create handles POST /v1/duels. The caller becomes player 1; the invite
// is only valid against a friend with the subject in both enrollment sets.
func (h *HTTPHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.QuestionCount <= 0 {
		req.QuestionCount = defaultQuestionCount
	}

	challenger, err := h.profiles.Get(r.Context(), sess.UserID)
	if err != nil || challenger == nil {
		httperrors.RespondInternalError(w, "Failed to load challenger profile")
		return
	}
	opponent, err := h.profiles.Get(r.Context(), req.OpponentID)
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to load opponent profile")
		return
	}
	if opponent == nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Opponent not found")
		return
	}
	if !challenger.HasFriend(opponent.ID) {
		httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Duels can only be offered to friends")
		return
	}
	if !challenger.Enrolled(req.SubjectID) || !opponent.Enrolled(req.SubjectID) {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeDuelCreationFailed, "Subject must be enrolled by both players")
		return
	}

	created, err := h.duelSvc.Create(r.Context(), sess.UserID, req.OpponentID, req.SubjectID, req.QuestionCount)
	if err != nil {
		h.logger.Error().Err(err).Msg("duel creation failed")
		httperrors.RespondInternalError(w, "Failed to create duel")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Get handles GET /v1/duels/{id}
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	duelID, ok := h.duelID(w, r)
	if !ok {
		return
	}

	found, err := h.duelSvc.Get(r.Context(), duelID)
	if err != nil {
		h.respondDuelError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, found)
}

// Accept handles POST /v1/duels/{id}/accept. Only the challenged player
// may accept.
func (h *HTTPHandlers) Accept(w http.ResponseWriter, r *http.Request) {
	duelID, ok := h.duelID(w, r)
	if !ok {
		return
	}
	sess := session.FromContext(r.Context())

	duel, err := h.duelSvc.Get(r.Context(), duelID)
	if err != nil {
		h.respondDuelError(w, err)
		return
	}
	if duel.Player2ID != sess.UserID {
		httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Only the challenged player may accept")
		return
	}

	if err := h.duelSvc.Accept(r.Context(), duelID); err != nil {
		h.respondDuelError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// Reject handles POST /v1/duels/{id}/reject. The challenged player
// declines, or the challenger cancels their own invite; both land in the
// same terminal state.
func (h *HTTPHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	duelID, ok := h.duelID(w, r)
	if !ok {
		return
	}
	sess := session.FromContext(r.Context())

	duel, err := h.duelSvc.Get(r.Context(), duelID)
	if err != nil {
		h.respondDuelError(w, err)
		return
	}
	if duel.Slot(sess.UserID) == 0 {
		httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Not a duel participant")
		return
	}

	if err := h.duelSvc.Reject(r.Context(), duelID); err != nil {
		h.respondDuelError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

type scoreRequest struct {
	Score int `json:"score"`
}

// ReportScore handles POST /v1/duels/{id}/score. Redundant reports come
// back as conflicts but never alter the stored result.
func (h *HTTPHandlers) ReportScore(w http.ResponseWriter, r *http.Request) {
	duelID, ok := h.duelID(w, r)
	if !ok {
		return
	}
	sess := session.FromContext(r.Context())

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	updated, err := h.duelSvc.ReportScore(r.Context(), duelID, sess.UserID, req.Score)
	if err != nil {
		h.respondDuelError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Incoming handles GET /v1/duels/incoming
func (h *HTTPHandlers) Incoming(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	duels, err := h.duelSvc.GetIncoming(r.Context(), sess.UserID)
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to list incoming duels")
		return
	}
	if duels == nil {
		duels = []Session{}
	}
	respondJSON(w, http.StatusOK, duels)
}

func (h *HTTPHandlers) duelID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidDuelID, "Invalid duel id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *HTTPHandlers) respondDuelError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeDuelNotFound, "Duel not found")
	case errors.Is(err, ErrNotPending):
		httperrors.RespondConflict(w, httperrors.ErrCodeDuelNotPending, "Duel is no longer pending")
	case errors.Is(err, ErrNotParticipant):
		httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Not a duel participant")
	case errors.Is(err, ErrAlreadyReported):
		httperrors.RespondConflict(w, httperrors.ErrCodeScoreAlreadyReported, "Score already reported")
	case errors.Is(err, ErrFinished):
		httperrors.RespondConflict(w, httperrors.ErrCodeDuelFinished, "Duel already finished")
	default:
		h.logger.Error().Err(err).Msg("duel operation failed")
		httperrors.RespondInternalError(w, "Duel operation failed")
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
