package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/primemath/internal/llm"
	"github.com/abhisek/primemath/internal/store"
	"github.com/abhisek/primemath/internal/tutor"
)

// testContext wraps an echo context with its recorder.
type testContext struct {
	Echo     *echo.Echo
	Context  echo.Context
	Request  *http.Request
	Recorder *httptest.ResponseRecorder
}

func newTestContext(method, path string, body io.Reader) *testContext {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return &testContext{
		Echo:     e,
		Context:  e.NewContext(req, rec),
		Request:  req,
		Recorder: rec,
	}
}

type fixture struct {
	echo  *echo.Echo
	mock  *llm.MockProvider
	store *store.Store
	svc   *tutor.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mock := llm.NewMockProvider()
	svc := tutor.NewService(mock, st.SessionRepo())
	return &fixture{
		echo:  New(svc, Options{HealthCheck: st.HealthCheck}),
		mock:  mock,
		store: st,
		svc:   svc,
	}
}

// do sends a request through the full middleware chain.
func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
