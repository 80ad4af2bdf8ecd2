package interview

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
	"github.com/zhouzirui/interview-partner/backend/internal/service/ai"
	interviewService "github.com/zhouzirui/interview-partner/backend/internal/service/interview"
	"github.com/zhouzirui/interview-partner/backend/pkg/utils"
)

// Handler 面试流程的HTTP处理器
type Handler struct {
	interviews *interviewService.Service
}

// New 创建面试处理器
func New(interviews *interviewService.Service) *Handler {
	return &Handler{interviews: interviews}
}

// RegisterRoutes 注册面试相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/start", h.handleStart)
	r.Post("/message", h.handleMessage)
	r.Post("/finish", h.handleFinish)
}

type startRequest struct {
	Role  *string `json:"role"`
	Level *string `json:"level"`
	Mode  *string `json:"mode"`
}

type startResponse struct {
	SessionID  string `json:"sessionId"`
	BotMessage string `json:"botMessage"`
}

type messageRequest struct {
	SessionID   *string `json:"sessionId"`
	UserMessage *string `json:"userMessage"`
}

type messageResponse struct {
	BotMessage string `json:"botMessage"`
	Done       bool   `json:"done"`
}

type finishRequest struct {
	SessionID *string `json:"sessionId"`
}

// handleStart 创建面试会话并返回开场问题
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload startRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch {
	case payload.Role == nil:
		respondMissing(w, "role")
		return
	case payload.Level == nil:
		respondMissing(w, "level")
		return
	case payload.Mode == nil:
		respondMissing(w, "mode")
		return
	}

	session, err := h.interviews.Start(r.Context(), *payload.Role, *payload.Level, *payload.Mode)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	pending, _ := session.Pending()
	utils.RespondJSON(w, http.StatusOK, startResponse{
		SessionID:  session.ID,
		BotMessage: pending.Question,
	})
}

// handleMessage 记录回答并生成下一个问题
func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload messageRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch {
	case payload.SessionID == nil:
		respondMissing(w, "sessionId")
		return
	case payload.UserMessage == nil:
		respondMissing(w, "userMessage")
		return
	}

	next, err := h.interviews.Reply(r.Context(), *payload.SessionID, *payload.UserMessage)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// 面试没有自动结束条件，由客户端决定何时调用 /finish。
	utils.RespondJSON(w, http.StatusOK, messageResponse{BotMessage: next, Done: false})
}

// handleFinish 生成结构化反馈
func (h *Handler) handleFinish(w http.ResponseWriter, r *http.Request) {
	var payload finishRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == nil {
		respondMissing(w, "sessionId")
		return
	}

	result, err := h.interviews.Finish(r.Context(), *payload.SessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

func respondMissing(w http.ResponseWriter, field string) {
	utils.RespondError(w, http.StatusUnprocessableEntity, field+" is required")
}

// respondServiceError 将服务层错误映射为HTTP状态码
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "Invalid session ID")
	case errors.Is(err, interviewService.ErrGeneratorUnavailable):
		utils.RespondError(w, http.StatusServiceUnavailable, "interview generation unavailable")
	case errors.Is(err, ai.ErrUpstreamGeneration):
		utils.RespondError(w, http.StatusBadGateway, "interview generation failed")
	default:
		log.Printf("[interview] unexpected error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
