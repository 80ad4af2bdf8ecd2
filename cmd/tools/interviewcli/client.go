package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
)

// apiClient 封装面试后端的 HTTP 接口。
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type startResult struct {
	SessionID  string `json:"sessionId"`
	BotMessage string `json:"botMessage"`
}

type messageResult struct {
	BotMessage string `json:"botMessage"`
	Done       bool   `json:"done"`
}

// apiError 对应后端 {"detail": "..."} 错误体。
type apiError struct {
	Status int
	Detail string
}

func (e *apiError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Detail)
}

func (c *apiClient) Start(ctx context.Context, role, level, mode string) (startResult, error) {
	var out startResult
	err := c.post(ctx, "/start", map[string]string{"role": role, "level": level, "mode": mode}, &out)
	return out, err
}

func (c *apiClient) Message(ctx context.Context, sessionID, answer string) (messageResult, error) {
	var out messageResult
	err := c.post(ctx, "/message", map[string]string{"sessionId": sessionID, "userMessage": answer}, &out)
	return out, err
}

func (c *apiClient) Finish(ctx context.Context, sessionID string) (interview.FeedbackResult, error) {
	var out interview.FeedbackResult
	err := c.post(ctx, "/finish", map[string]string{"sessionId": sessionID}, &out)
	return out, err
}

func (c *apiClient) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "", err
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

func (c *apiClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *apiClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &apiError{Status: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &detail) == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
