package friend

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/profile"
	"github.com/aldiyarbek/quizduel/internal/session"
	httperrors "github.com/aldiyarbek/quizduel/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for the friend graph.
type HTTPHandlers struct {
	friendSvc *Service
	logger    zerolog.Logger
}

func NewHTTPHandlers(friendSvc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{friendSvc: friendSvc, logger: logger}
}

type sendRequest struct {
	ToUserID uuid.UUID `json:"to_user_id"`
}

// Send handles POST /v1/friends/requests
func (h *HTTPHandlers) Send(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.ToUserID == uuid.Nil || req.ToUserID == sess.UserID {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid recipient")
		return
	}

	created, err := h.friendSvc.SendRequest(r.Context(), sess.UserID, req.ToUserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("friend request send failed")
		httperrors.RespondInternalError(w, "Failed to send friend request")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListPending handles GET /v1/friends/requests
func (h *HTTPHandlers) ListPending(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	reqs, err := h.friendSvc.ListPending(r.Context(), sess.UserID)
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to list friend requests")
		return
	}
	if reqs == nil {
		reqs = []Request{}
	}
	respondJSON(w, http.StatusOK, reqs)
}

// Accept handles POST /v1/friends/requests/{id}/accept
func (h *HTTPHandlers) Accept(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.requestID(w, r)
	if !ok {
		return
	}

	if err := h.friendSvc.Accept(r.Context(), requestID); err != nil {
		h.logger.Error().Err(err).Msg("friend request accept failed")
		httperrors.RespondInternalError(w, "Failed to accept friend request")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// Reject handles POST /v1/friends/requests/{id}/reject
func (h *HTTPHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.requestID(w, r)
	if !ok {
		return
	}

	if err := h.friendSvc.Reject(r.Context(), requestID); err != nil {
		h.logger.Error().Err(err).Msg("friend request reject failed")
		httperrors.RespondInternalError(w, "Failed to reject friend request")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// ListFriends handles GET /v1/friends
func (h *HTTPHandlers) ListFriends(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	friends, err := h.friendSvc.ListFriends(r.Context(), sess.UserID)
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to list friends")
		return
	}
	if friends == nil {
		friends = []profile.User{}
	}
	respondJSON(w, http.StatusOK, friends)
}

func (h *HTTPHandlers) requestID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid request id")
		return uuid.Nil, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
