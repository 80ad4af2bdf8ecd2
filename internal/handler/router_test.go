package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
	interviewService "github.com/zhouzirui/interview-partner/backend/internal/service/interview"
)

func newTestRouter() http.Handler {
	return NewRouter(interviewService.NewService(interview.NewMemoryStore(), nil))
}

func TestHealth(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestPreflightIsAnswered(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/message", nil)
	req.Header.Set("Origin", "https://practice.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Less(t, resp.Code, 300)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPost, resp.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRoutesAreMounted(t *testing.T) {
	r := newTestRouter()

	payload, _ := json.Marshal(map[string]string{"role": "SRE", "level": "Mid", "mode": "technical"})
	req := httptest.NewRequest(http.MethodPost, "/start", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	// 未配置模型时流式与实时通道都返回 503
	req = httptest.NewRequest(http.MethodGet, "/stream/abc?message=hi", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)

	req = httptest.NewRequest(http.MethodGet, "/ws/abc", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
