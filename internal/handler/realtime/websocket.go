package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
	"github.com/zhouzirui/interview-partner/backend/internal/service/ai"
	interviewService "github.com/zhouzirui/interview-partner/backend/internal/service/interview"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// WebSocketHandler WebSocket面试通道处理器
type WebSocketHandler struct {
	interviews *interviewService.Service
	upgrader   websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(interviews *interviewService.Service) *WebSocketHandler {
	return &WebSocketHandler{
		interviews: interviews,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

// AnswerMessage 候选人的回答
type AnswerMessage struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// QuestionMessage 面试官的问题
type QuestionMessage struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	if !h.interviews.Ready() {
		http.Error(w, "interview generation unavailable", http.StatusServiceUnavailable)
		return
	}

	session, err := h.interviews.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, interview.ErrSessionNotFound) {
			http.Error(w, "Invalid session ID", http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go h.pingLoop(ctx, conn)

	pending, _ := session.Pending()
	h.send(conn, sessionID, "connected", map[string]any{
		"question":  pending.Question,
		"exchanges": len(session.Exchanges),
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(conn, sessionID, "session mismatch")
			continue
		}

		h.handleMessage(ctx, conn, sessionID, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *websocket.Conn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "answer":
		h.handleAnswer(ctx, conn, sessionID, msg.Data)
	case "finish":
		h.handleFinish(ctx, conn, sessionID)
	case "ping":
		h.send(conn, sessionID, "pong", nil)
	default:
		h.sendError(conn, sessionID, "unsupported message type: "+msg.Type)
	}
}

func (h *WebSocketHandler) handleAnswer(ctx context.Context, conn *websocket.Conn, sessionID string, raw json.RawMessage) {
	var answer AnswerMessage
	if err := json.Unmarshal(raw, &answer); err != nil {
		h.sendError(conn, sessionID, "invalid answer payload")
		return
	}
	if strings.TrimSpace(answer.Text) == "" {
		h.sendError(conn, sessionID, "answer text is required")
		return
	}

	next, err := h.interviews.Reply(ctx, sessionID, answer.Text)
	if err != nil {
		h.sendServiceError(conn, sessionID, err)
		return
	}

	h.send(conn, sessionID, "question", QuestionMessage{Text: next, Done: false})
}

func (h *WebSocketHandler) handleFinish(ctx context.Context, conn *websocket.Conn, sessionID string) {
	result, err := h.interviews.Finish(ctx, sessionID)
	if err != nil {
		h.sendServiceError(conn, sessionID, err)
		return
	}
	h.send(conn, sessionID, "feedback", result)
}

func (h *WebSocketHandler) sendServiceError(conn *websocket.Conn, sessionID string, err error) {
	log.Printf("[websocket] session=%s: %v", sessionID, err)
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		h.sendError(conn, sessionID, "Invalid session ID")
	case errors.Is(err, ai.ErrUpstreamGeneration):
		h.sendError(conn, sessionID, "interview generation failed")
	default:
		h.sendError(conn, sessionID, "internal server error")
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, sessionID, msgType string, data interface{}) {
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] failed to send %s: %v", msgType, err)
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, sessionID, message string) {
	h.send(conn, sessionID, "error", map[string]string{"message": message})
}

// pingLoop 定期发送心跳；WriteControl 可与数据帧写入并发调用。
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
