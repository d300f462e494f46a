package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/abhisek/primemath/internal/curriculum"
	"github.com/abhisek/primemath/internal/grading"
	"github.com/abhisek/primemath/internal/store"
	"github.com/abhisek/primemath/internal/tutor"
)

// Error messages returned to clients. Model output never appears in them.
const (
	msgMissingFields   = "Missing sessionId or userAnswer"
	msgMissingSession  = "Missing sessionId"
	msgInvalidAnswer   = "userAnswer must be a finite number"
	msgInvalidBody     = "Invalid request body"
	msgSessionNotFound = "Session not found"
	msgGenerateFailed  = "Failed to generate problem"
	msgSubmitFailed    = "Failed to submit answer"
	msgHintFailed      = "Failed to generate hint"
	msgInternal        = "Internal server error"
)

// ProblemHandler serves the math problem routes.
type ProblemHandler struct {
	tutor   Tutor
	log     *zap.Logger
	timeout time.Duration
}

// NewProblemHandler creates a ProblemHandler.
func NewProblemHandler(t Tutor, log *zap.Logger, timeout time.Duration) *ProblemHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProblemHandler{tutor: t, log: log, timeout: timeout}
}

// SubmitRequest is the body of POST /api/math-problem/submit.
// UserAnswer may be a JSON number or a numeric string.
type SubmitRequest struct {
	SessionID  string          `json:"sessionId"`
	UserAnswer json.RawMessage `json:"userAnswer"`
}

// HintRequest is the body of POST /api/math-problem/hint.
type HintRequest struct {
	SessionID  string          `json:"sessionId"`
	UserAnswer json.RawMessage `json:"userAnswer,omitempty"`
}

// SessionResponse is a stored session.
type SessionResponse struct {
	ID            string    `json:"id"`
	ProblemText   string    `json:"problem_text"`
	CorrectAnswer float64   `json:"correct_answer"`
	TopicID       string    `json:"topic_id"`
	TopicTitle    string    `json:"topic_title"`
	CreatedAt     time.Time `json:"created_at"`
}

// SubmissionResponse is a stored submission.
type SubmissionResponse struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	UserAnswer   float64   `json:"user_answer"`
	IsCorrect    bool      `json:"is_correct"`
	FeedbackText string    `json:"feedback_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// Generate creates a new problem session.
func (h *ProblemHandler) Generate(c echo.Context) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	p, err := h.tutor.GenerateProblem(ctx)
	if err != nil {
		h.log.Error("generate problem failed", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, msgGenerateFailed)
	}
	return c.JSON(http.StatusOK, p)
}

// Submit grades an answer.
func (h *ProblemHandler) Submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, msgInvalidBody)
	}

	answer, present, err := decodeAnswer(req.UserAnswer)
	if req.SessionID == "" || !present {
		return errorJSON(c, http.StatusBadRequest, msgMissingFields)
	}
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, msgInvalidAnswer)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	res, err := h.tutor.SubmitAnswer(ctx, req.SessionID, answer)
	switch {
	case errors.Is(err, tutor.ErrSessionNotFound):
		return errorJSON(c, http.StatusNotFound, msgSessionNotFound)
	case errors.Is(err, tutor.ErrInvalidAnswer):
		return errorJSON(c, http.StatusBadRequest, msgInvalidAnswer)
	case err != nil:
		h.log.Error("submit answer failed", zap.String("session_id", req.SessionID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, msgSubmitFailed)
	}
	return c.JSON(http.StatusOK, res)
}

// Hint returns a hint for a session.
func (h *ProblemHandler) Hint(c echo.Context) error {
	var req HintRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, msgInvalidBody)
	}
	if req.SessionID == "" {
		return errorJSON(c, http.StatusBadRequest, msgMissingSession)
	}

	var attempt *float64
	answer, present, err := decodeAnswer(req.UserAnswer)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, msgInvalidAnswer)
	}
	if present {
		attempt = &answer
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	hint, err := h.tutor.GetHint(ctx, req.SessionID, attempt)
	switch {
	case errors.Is(err, tutor.ErrSessionNotFound):
		return errorJSON(c, http.StatusNotFound, msgSessionNotFound)
	case errors.Is(err, tutor.ErrInvalidAnswer):
		return errorJSON(c, http.StatusBadRequest, msgInvalidAnswer)
	case err != nil:
		h.log.Error("hint failed", zap.String("session_id", req.SessionID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, msgHintFailed)
	}
	return c.JSON(http.StatusOK, hint)
}

// GetSession returns one session.
func (h *ProblemHandler) GetSession(c echo.Context) error {
	sess, err := h.tutor.GetSession(c.Request().Context(), c.Param("id"))
	if errors.Is(err, tutor.ErrSessionNotFound) {
		return errorJSON(c, http.StatusNotFound, msgSessionNotFound)
	}
	if err != nil {
		h.log.Error("get session failed", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, msgInternal)
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

// ListSubmissions returns a session's submissions, oldest first.
func (h *ProblemHandler) ListSubmissions(c echo.Context) error {
	subs, err := h.tutor.ListSubmissions(c.Request().Context(), c.Param("id"))
	if errors.Is(err, tutor.ErrSessionNotFound) {
		return errorJSON(c, http.StatusNotFound, msgSessionNotFound)
	}
	if err != nil {
		h.log.Error("list submissions failed", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, msgInternal)
	}

	out := make([]SubmissionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, SubmissionResponse{
			ID:           s.ID,
			SessionID:    s.SessionID,
			UserAnswer:   s.UserAnswer,
			IsCorrect:    s.IsCorrect,
			FeedbackText: s.FeedbackText,
			CreatedAt:    s.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"submissions": out,
	})
}

// Topics lists the curriculum topics problems are drawn from.
func (h *ProblemHandler) Topics(c echo.Context) error {
	topics := h.tutor.Topics()
	if topics == nil {
		topics = []curriculum.Topic{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"grade":  h.tutor.Grade(),
		"topics": topics,
	})
}

func (h *ProblemHandler) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	ctx := c.Request().Context()
	if h.timeout > 0 {
		return context.WithTimeout(ctx, h.timeout)
	}
	return context.WithCancel(ctx)
}

// decodeAnswer reads a number or numeric string. present is false when the
// field is absent or null.
func decodeAnswer(raw json.RawMessage) (answer float64, present bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false, nil
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, true, err
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, true, err
		}
		s = n.String()
	}

	f, err := grading.ParseAnswer(s)
	return f, true, err
}

func toSessionResponse(s *store.Session) SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		ProblemText:   s.ProblemText,
		CorrectAnswer: s.CorrectAnswer,
		TopicID:       s.TopicID,
		TopicTitle:    s.TopicTitle,
		CreatedAt:     s.CreatedAt,
	}
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{
		"error": message,
	})
}
