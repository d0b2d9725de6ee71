package profile

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/session"
	"github.com/aldiyarbek/quizduel/internal/subject"
	httperrors "github.com/aldiyarbek/quizduel/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for profiles and enrollment.
type HTTPHandlers struct {
	profileSvc *Service
	presence   *Presence
	logger     zerolog.Logger
}

func NewHTTPHandlers(profileSvc *Service, presence *Presence, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		profileSvc: profileSvc,
		presence:   presence,
		logger:     logger,
	}
}

// Me handles GET /v1/users/me. Every authenticated read refreshes the
// caller's presence, so polling keeps them online.
func (h *HTTPHandlers) Me(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	h.presence.Touch(r.Context(), sess.UserID)

	user, err := h.profileSvc.Get(r.Context(), sess.UserID)
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to load profile")
		return
	}
	if user == nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Profile not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Get handles GET /v1/users/{id}
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid user id")
		return
	}

	user, err := h.profileSvc.Get(r.Context(), id)
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to load profile")
		return
	}
	if user == nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Profile not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Search handles GET /v1/users?q=term
func (h *HTTPHandlers) Search(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	users, err := h.profileSvc.Search(r.Context(), sess.UserID, r.URL.Query().Get("q"))
	if err != nil {
		httperrors.RespondInternalError(w, "Search failed")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

type updateRequest struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Update handles PUT /v1/users/me
func (h *HTTPHandlers) Update(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	user, err := h.profileSvc.Get(r.Context(), sess.UserID)
	if err != nil || user == nil {
		httperrors.RespondInternalError(w, "Failed to load profile")
		return
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := h.profileSvc.Update(r.Context(), user); err != nil {
		httperrors.RespondInternalError(w, "Failed to update profile")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type enrollRequest struct {
	SubjectID string `json:"subject_id"`
}

// Enroll handles POST /v1/users/me/subjects
func (h *HTTPHandlers) Enroll(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if _, ok := subject.ByID(req.SubjectID); !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeSubjectNotFound, "Unknown subject")
		return
	}

	if err := h.profileSvc.Enroll(r.Context(), sess.UserID, req.SubjectID); err != nil {
		httperrors.RespondInternalError(w, "Failed to enroll")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// Unenroll handles DELETE /v1/users/me/subjects/{subjectID}
func (h *HTTPHandlers) Unenroll(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	subjectID := r.PathValue("subjectID")

	if err := h.profileSvc.Unenroll(r.Context(), sess.UserID, subjectID); err != nil {
		httperrors.RespondInternalError(w, "Failed to unenroll")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
