package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/zhouzirui/interview-partner/backend/internal/handler/interview"
	"github.com/zhouzirui/interview-partner/backend/internal/handler/realtime"
	"github.com/zhouzirui/interview-partner/backend/internal/handler/stream"
	interviewService "github.com/zhouzirui/interview-partner/backend/internal/service/interview"
	"github.com/zhouzirui/interview-partner/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(interviews *interviewService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// 问答轮次
	interview.New(interviews).RegisterRoutes(r)

	// 流式输出下一道题
	stream.New(interviews).RegisterRoutes(r)

	// 实时面试通道
	realtime.NewWebSocketHandler(interviews).RegisterRoutes(r)

	return r
}

// 前端可能部署在任意域名下，放开所有来源，不携带凭证。
func corsHandler() func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodHead},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	})
	return c.Handler
}
