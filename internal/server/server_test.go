package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/pipeline"
)

type fakeAssessor struct {
	got    pipeline.Request
	report *model.Report
	err    error
}

func (f *fakeAssessor) Assess(_ context.Context, req pipeline.Request) (*model.Report, error) {
	f.got = req
	return f.report, f.err
}

func newTestServer(engine Assessor) *Server {
	cfg := model.DefaultConfig()
	return New(engine, pipeline.Capabilities{SearchEngine: "simulated"}, cfg, nil)
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestAnalyze_Success(t *testing.T) {
	engine := &fakeAssessor{report: &model.Report{
		ID:    "abc",
		Input: "text",
		Fused: model.FusedScore{Score: 0.82, Label: "Very Credible"},
	}}
	s := newTestServer(engine)

	rec, body := do(t, s, http.MethodPost, "/api/analyze", `{"text":"Paris is the capital of France.","find_sources":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc", body["id"])
	analysis := body["analysis"].(map[string]any)
	assert.Equal(t, 0.82, analysis["credibility_score"])
	assert.Equal(t, "simulated", body["api_status"].(map[string]any)["search_engine"])

	assert.Equal(t, "Paris is the capital of France.", engine.got.Text)
	assert.True(t, engine.got.AIAnalysis)
	assert.True(t, engine.got.RealTime)
	assert.False(t, engine.got.FindSources)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		msg    string
	}{
		{"no body", ``, nil, http.StatusBadRequest, "No data provided"},
		{"no input", `{"text":"  "}`, nil, http.StatusBadRequest, "Either text or URL must be provided"},
		{"too short", `{"text":"hi"}`, model.ErrInputTooShort, http.StatusBadRequest, "Text too short for analysis (minimum 10 characters)"},
		{"bad url", `{"url":"http://example.invalid"}`, fmt.Errorf("%w: boom", pipeline.ErrFetchFailed), http.StatusBadRequest, "could not extract text from URL: boom"},
		{"timeout", `{"text":"long enough text"}`, context.DeadlineExceeded, http.StatusGatewayTimeout, "analysis timed out"},
		{"internal", `{"text":"long enough text"}`, fmt.Errorf("unexpected"), http.StatusInternalServerError, "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeAssessor{err: tt.err})
			rec, body := do(t, s, http.MethodPost, "/api/analyze", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

func TestHealth(t *testing.T) {
	s := New(&fakeAssessor{}, pipeline.Capabilities{Reasoner: "gemini", AnySearch: true}, model.DefaultConfig(), nil)

	rec, body := do(t, s, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["ai_available"])
	assert.Equal(t, true, body["api_status"].(map[string]any)["any_search"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&fakeAssessor{})

	rec, _ := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestCORS(t *testing.T) {
	s := newTestServer(&fakeAssessor{})

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
