package stream

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
	interviewService "github.com/zhouzirui/interview-partner/backend/internal/service/interview"
	"github.com/zhouzirui/interview-partner/backend/pkg/utils"
)

// Handler streams the next interview question via Server-Sent Events.
type Handler struct {
	interviews *interviewService.Service
}

// New creates a new stream handler
func New(interviews *interviewService.Service) *Handler {
	return &Handler{interviews: interviews}
}

// RegisterRoutes mounts the streaming endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	SessionID string `json:"sessionId,omitempty"`
	Content   string `json:"content,omitempty"`
	Done      bool   `json:"done"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := r.URL.Query().Get("message")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	if userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}
	if !h.interviews.Ready() {
		utils.RespondError(w, http.StatusServiceUnavailable, "interview generation unavailable")
		return
	}

	ctx := r.Context()
	if _, err := h.interviews.Get(ctx, sessionID); err != nil {
		if errors.Is(err, interview.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Invalid session ID")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "start", StreamResponse{SessionID: sessionID})

	next, err := h.interviews.ReplyStream(ctx, sessionID, userMessage, func(delta string) {
		utils.SendSSEEvent(w, flusher, "delta", StreamResponse{SessionID: sessionID, Content: delta})
	})
	if err != nil {
		log.Printf("[stream] error handling request for session=%s: %v", sessionID, err)
		utils.SendSSEEvent(w, flusher, "error", StreamResponse{SessionID: sessionID, Error: "interview generation failed"})
		return
	}

	utils.SendSSEEvent(w, flusher, "message", StreamResponse{SessionID: sessionID, Content: next})
	utils.SendSSEEvent(w, flusher, "end", StreamResponse{SessionID: sessionID, Done: false})

	log.Printf("[stream] completed response for session=%s", sessionID)
}
