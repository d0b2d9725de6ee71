package quiz

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/question"
	"github.com/aldiyarbek/quizduel/internal/session"
	"github.com/aldiyarbek/quizduel/internal/subject"
	httperrors "github.com/aldiyarbek/quizduel/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for standalone quizzes and result
// history. Answer evaluation happens client-side against the delivered
// set; the server scores nothing here, it hands out questions and stores
// outcomes.
type HTTPHandlers struct {
	questions question.Provider
	recorder  *Recorder
	logger    zerolog.Logger
}

func NewHTTPHandlers(questions question.Provider, recorder *Recorder, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		questions: questions,
		recorder:  recorder,
		logger:    logger,
	}
}

type startRequest struct {
	SubjectID     string `json:"subject_id"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
}

type startResponse struct {
	Questions        []question.Question `json:"questions"`
	TimeLimitSeconds int                 `json:"time_limit_seconds"`
}

// Start handles POST /v1/quizzes. Returns the question set plus the
// derived countdown so every client runs the same timer.
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	if _, ok := subject.ByID(req.SubjectID); !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeSubjectNotFound, "Unknown subject")
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = question.DifficultyMedium
	}
	if req.QuestionCount <= 0 {
		req.QuestionCount = 10
	}

	questions, err := h.questions.Generate(r.Context(), req.SubjectID, req.Difficulty, req.QuestionCount)
	if err != nil {
		h.logger.Error().Err(err).Msg("question generation failed")
		httperrors.RespondInternalError(w, "Failed to start quiz")
		return
	}

	respondJSON(w, http.StatusOK, startResponse{
		Questions:        questions,
		TimeLimitSeconds: TimeLimitSeconds(req.SubjectID, req.Difficulty, req.QuestionCount),
	})
}

// SaveResult handles POST /v1/results
func (h *HTTPHandlers) SaveResult(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var result Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	result.UserID = sess.UserID

	if err := h.recorder.Record(r.Context(), &result); err != nil {
		h.logger.Error().Err(err).Msg("result save failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeResultSaveFailed, "Failed to save result")
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// History handles GET /v1/results
func (h *HTTPHandlers) History(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	results, err := h.recorder.History(r.Context(), sess.UserID)
	if err != nil {
		httperrors.RespondInternalError(w, "Failed to load results")
		return
	}
	if results == nil {
		results = []Result{}
	}
	respondJSON(w, http.StatusOK, results)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
