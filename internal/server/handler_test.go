package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/primemath/internal/tutor"
)

const validProblem = `{"problem": "What is 45% of 80?", "answer": 36}`

func (f *fixture) seedSession(t *testing.T) *tutor.GeneratedProblem {
	t.Helper()
	f.mock.AddText(validProblem)
	p, err := f.svc.GenerateProblem(context.Background())
	require.NoError(t, err)
	return p
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestHealth_Unavailable(t *testing.T) {
	f := newFixture(t)
	f.store.Close()
	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decodeBody(t, rec)["status"])
}

func TestGenerate(t *testing.T) {
	f := newFixture(t)
	f.mock.AddText("```json\n" + validProblem + "\n```")

	rec := f.do(http.MethodPost, "/api/math-problem", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got tutor.GeneratedProblem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "What is 45% of 80?", got.ProblemText)
	assert.Equal(t, 36.0, got.CorrectAnswer)
	assert.NotEmpty(t, got.TopicID)
}

func TestGenerate_ModelOutputNotLeaked(t *testing.T) {
	f := newFixture(t)
	f.mock.AddText("Sorry, I cannot help with secret-raw-text")

	rec := f.do(http.MethodPost, "/api/math-problem", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgGenerateFailed, decodeBody(t, rec)["error"])
	assert.NotContains(t, rec.Body.String(), "secret-raw-text")
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		wantCorrect bool
	}{
		{name: "exact number", answer: `36`, wantCorrect: true},
		{name: "numeric string", answer: `"36"`, wantCorrect: true},
		{name: "within tolerance", answer: `36.003`, wantCorrect: true},
		{name: "fraction string", answer: `"72/2"`, wantCorrect: true},
		{name: "wrong", answer: `30`, wantCorrect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.seedSession(t)
			f.mock.AddText("Nice work!")

			body := `{"sessionId": "` + p.ID + `", "userAnswer": ` + tt.answer + `}`
			rec := f.do(http.MethodPost, "/api/math-problem/submit", body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var got tutor.SubmissionResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantCorrect, got.IsCorrect)
			assert.Equal(t, "Nice work!", got.Feedback)
			if tt.wantCorrect {
				assert.Nil(t, got.CorrectAnswer)
			} else {
				require.NotNil(t, got.CorrectAnswer)
				assert.Equal(t, 36.0, *got.CorrectAnswer)
			}
		})
	}
}

func TestSubmit_BadRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "missing session", body: `{"userAnswer": 5}`, wantMsg: msgMissingFields},
		{name: "missing answer", body: `{"sessionId": "abc"}`, wantMsg: msgMissingFields},
		{name: "null answer", body: `{"sessionId": "abc", "userAnswer": null}`, wantMsg: msgMissingFields},
		{name: "non-numeric string", body: `{"sessionId": "abc", "userAnswer": "twelve"}`, wantMsg: msgInvalidAnswer},
		{name: "infinity string", body: `{"sessionId": "abc", "userAnswer": "Infinity"}`, wantMsg: msgInvalidAnswer},
		{name: "boolean", body: `{"sessionId": "abc", "userAnswer": true}`, wantMsg: msgInvalidAnswer},
		{name: "malformed body", body: `{"sessionId": `, wantMsg: msgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(http.MethodPost, "/api/math-problem/submit", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec)["error"])
			assert.Zero(t, f.mock.CallCount())
		})
	}
}

func TestSubmit_UnknownSession(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/api/math-problem/submit",
		`{"sessionId": "00000000-0000-0000-0000-000000000000", "userAnswer": 5}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgSessionNotFound, decodeBody(t, rec)["error"])
}

func TestSubmit_FeedbackFailure(t *testing.T) {
	f := newFixture(t)
	p := f.seedSession(t)

	rec := f.do(http.MethodPost, "/api/math-problem/submit",
		`{"sessionId": "`+p.ID+`", "userAnswer": 36}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgSubmitFailed, decodeBody(t, rec)["error"])

	subs, err := f.svc.ListSubmissions(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestHint(t *testing.T) {
	f := newFixture(t)
	p := f.seedSession(t)
	f.mock.AddText("Think about what 10% of 80 is.")

	rec := f.do(http.MethodPost, "/api/math-problem/hint",
		`{"sessionId": "`+p.ID+`", "userAnswer": "0"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "Think about what 10% of 80 is.", decodeBody(t, rec)["hint"])
	assert.Contains(t, f.mock.Prompt(1), "The student answered: 0")
}

func TestHint_WithoutAnswer(t *testing.T) {
	f := newFixture(t)
	p := f.seedSession(t)
	f.mock.AddText("Start with 10%.")

	rec := f.do(http.MethodPost, "/api/math-problem/hint", `{"sessionId": "`+p.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, f.mock.Prompt(1), "The student answered")
}

func TestHint_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing session",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    msgMissingSession,
		},
		{
			name:       "bad answer",
			body:       `{"sessionId": "abc", "userAnswer": "x"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    msgInvalidAnswer,
		},
		{
			name:       "unknown session",
			body:       `{"sessionId": "abc"}`,
			wantStatus: http.StatusNotFound,
			wantMsg:    msgSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(http.MethodPost, "/api/math-problem/hint", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec)["error"])
		})
	}
}

func TestGetSession(t *testing.T) {
	f := newFixture(t)
	p := f.seedSession(t)

	rec := f.do(http.MethodGet, "/api/math-problem/"+p.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.ProblemText, got.ProblemText)
	assert.Equal(t, p.TopicID, got.TopicID)
}

func TestGetSession_NotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/math-problem/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSubmissions(t *testing.T) {
	f := newFixture(t)
	p := f.seedSession(t)
	f.mock.AddText("Try again.", "Well done.")

	_, err := f.svc.SubmitAnswer(context.Background(), p.ID, 30)
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(context.Background(), p.ID, 36)
	require.NoError(t, err)

	rec := f.do(http.MethodGet, "/api/math-problem/"+p.ID+"/submissions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Submissions []SubmissionResponse `json:"submissions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Submissions, 2)
	assert.False(t, got.Submissions[0].IsCorrect)
	assert.Equal(t, "Try again.", got.Submissions[0].FeedbackText)
	assert.True(t, got.Submissions[1].IsCorrect)
}

func TestTopics(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/topics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "PRIMARY_5", body["grade"])
	topics, ok := body["topics"].([]any)
	require.True(t, ok)
	assert.Len(t, topics, 5)
}

func TestCORS(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/math-problem", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)

	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// Handlers called directly, without routing.
func TestProblemHandler_Direct(t *testing.T) {
	f := newFixture(t)
	h := NewProblemHandler(f.svc, zap.NewNop(), 0)

	tc := newTestContext(http.MethodPost, "/api/math-problem/submit",
		strings.NewReader(`{"sessionId": "x", "userAnswer": ""}`))
	require.NoError(t, h.Submit(tc.Context))
	assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)

	tc = newTestContext(http.MethodGet, "/api/math-problem/missing", nil)
	tc.Context.SetParamNames("id")
	tc.Context.SetParamValues("missing")
	require.NoError(t, h.GetSession(tc.Context))
	assert.Equal(t, http.StatusNotFound, tc.Recorder.Code)
}

func TestDecodeAnswer(t *testing.T) {
	tests := []struct {
		raw         string
		want        float64
		wantPresent bool
		wantErr     bool
	}{
		{raw: ``, wantPresent: false},
		{raw: `null`, wantPresent: false},
		{raw: `12.5`, want: 12.5, wantPresent: true},
		{raw: `-3`, want: -3, wantPresent: true},
		{raw: `" 0.75 "`, want: 0.75, wantPresent: true},
		{raw: `"3/4"`, want: 0.75, wantPresent: true},
		{raw: `""`, wantPresent: true, wantErr: true},
		{raw: `"NaN"`, wantPresent: true, wantErr: true},
		{raw: `[1]`, wantPresent: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, present, err := decodeAnswer(json.RawMessage(tt.raw))
			assert.Equal(t, tt.wantPresent, present)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

var _ Tutor = (*tutor.Service)(nil)
