package interview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
	"github.com/zhouzirui/interview-partner/backend/internal/service/ai"
	interviewService "github.com/zhouzirui/interview-partner/backend/internal/service/interview"
)

type fakeGenerator struct {
	question string
	feedback string
	err      error
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if systemPrompt == ai.EvaluatorSystemPrompt {
		return f.feedback, nil
	}
	return f.question, nil
}

func setupRouter(gen interviewService.Generator) *chi.Mux {
	svc := interviewService.NewService(interview.NewMemoryStore(), gen)
	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r
}

func doPost(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func startSession(t *testing.T, r http.Handler) startResponse {
	t.Helper()
	resp := doPost(r, "/start", map[string]string{"role": "SRE", "level": "Senior", "mode": "technical"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var started startResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	return started
}

func TestStartReturnsOpeningQuestion(t *testing.T) {
	r := setupRouter(&fakeGenerator{})

	started := startSession(t, r)

	if started.SessionID == "" {
		t.Fatal("expected session id")
	}
	if started.BotMessage != interview.OpeningQuestion {
		t.Fatalf("unexpected bot message: %q", started.BotMessage)
	}
}

func TestStartRejectsBadPayloads(t *testing.T) {
	r := setupRouter(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/start", bytes.NewReader([]byte("{not json")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	resp = doPost(r, "/start", map[string]string{"role": "SRE", "level": "Senior"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestMessageReturnsNextQuestion(t *testing.T) {
	r := setupRouter(&fakeGenerator{question: "What is an SLO?"})
	started := startSession(t, r)

	resp := doPost(r, "/message", map[string]string{"sessionId": started.SessionID, "userMessage": "I keep systems up."})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["botMessage"] != "What is an SLO?" {
		t.Fatalf("unexpected botMessage: %v", body["botMessage"])
	}
	if done, ok := body["done"].(bool); !ok || done {
		t.Fatalf("expected done=false, got %v", body["done"])
	}
}

func TestMessageUnknownSession(t *testing.T) {
	r := setupRouter(&fakeGenerator{question: "?"})

	resp := doPost(r, "/message", map[string]string{"sessionId": "missing", "userMessage": "hi"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	if body["detail"] != "Invalid session ID" {
		t.Fatalf("unexpected detail: %q", body["detail"])
	}
}

func TestMessageUpstreamFailure(t *testing.T) {
	gen := &fakeGenerator{}
	r := setupRouter(gen)
	started := startSession(t, r)

	gen.err = fmt.Errorf("%w: %w", ai.ErrUpstreamGeneration, errors.New("quota"))
	resp := doPost(r, "/message", map[string]string{"sessionId": started.SessionID, "userMessage": "hi"})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestMessageWithoutGenerator(t *testing.T) {
	r := setupRouter(nil)
	started := startSession(t, r)

	resp := doPost(r, "/message", map[string]string{"sessionId": started.SessionID, "userMessage": "hi"})
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestFinishReturnsSummary(t *testing.T) {
	r := setupRouter(&fakeGenerator{
		question: "Next?",
		feedback: "Strengths:\n- Clear answers\nAreas to Improve:\n- Rambling\nTips:\n- Breathe\nRating: 3.5",
	})
	started := startSession(t, r)

	resp := doPost(r, "/finish", map[string]string{"sessionId": started.SessionID})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result interview.FeedbackResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.BotMessage != interview.ClosingMessage {
		t.Fatalf("unexpected bot message: %q", result.BotMessage)
	}
	if len(result.Summary.Strengths) != 1 || result.Summary.Strengths[0] != "Clear answers" {
		t.Fatalf("unexpected strengths: %v", result.Summary.Strengths)
	}
	if len(result.Summary.Tips) != 1 || result.Summary.Tips[0] != "Breathe" {
		t.Fatalf("unexpected tips: %v", result.Summary.Tips)
	}
	if result.Summary.OverallRating != 3.5 {
		t.Fatalf("unexpected rating: %v", result.Summary.OverallRating)
	}
}

func TestFinishWireFieldNames(t *testing.T) {
	r := setupRouter(&fakeGenerator{feedback: "nothing useful"})
	started := startSession(t, r)

	resp := doPost(r, "/finish", map[string]string{"sessionId": started.SessionID})

	var body struct {
		BotMessage string                     `json:"botMessage"`
		Summary    map[string]json.RawMessage `json:"summary"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"strengths", "areasToImprove", "tips", "overallRating"} {
		if _, ok := body.Summary[key]; !ok {
			t.Fatalf("summary missing %s: %s", key, resp.Body.String())
		}
	}
}

func TestFinishUnknownSession(t *testing.T) {
	r := setupRouter(&fakeGenerator{})

	resp := doPost(r, "/finish", map[string]string{"sessionId": "missing"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
