package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zhouzirui/interview-partner/backend/internal/config"
	"github.com/zhouzirui/interview-partner/backend/internal/handler"
	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
	"github.com/zhouzirui/interview-partner/backend/internal/service/ai"
	interviewService "github.com/zhouzirui/interview-partner/backend/internal/service/interview"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer closeStore()

	// 未配置模型时 generator 保持 nil，/start 仍可用，出题与评估返回 503
	var generator interviewService.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality - 请检查 Ark 模型相关环境变量")
		} else {
			generator = aiService
			log.Printf("AI service initialized successfully (stream=%t)", aiService.StreamingEnabled())
		}
	} else {
		log.Println("Ark 凭证未配置，跳过 AI 功能初始化")
	}

	interviews := interviewService.NewService(store, generator)
	router := handler.NewRouter(interviews)

	startServer(ctx, cfg.Server, router)
}

func openStore(ctx context.Context, storeCfg config.StoreConfig) (interview.Store, func(), error) {
	switch storeCfg.Driver {
	case config.StoreDriverSQLite:
		store, err := interview.NewSQLiteStore(ctx, storeCfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[store] using sqlite session store")
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("[store] close failed: %v", err)
			}
		}, nil
	default:
		log.Printf("[store] using in-memory session store")
		return interview.NewMemoryStore(), func() {}, nil
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Interview partner backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
