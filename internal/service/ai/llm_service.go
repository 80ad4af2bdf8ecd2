package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/interview-partner/backend/internal/config"
)

// ErrUpstreamGeneration wraps every failure of the text-generation backend.
var ErrUpstreamGeneration = errors.New("upstream generation failed")

// Service runs (system prompt, user prompt) pairs through the configured chat model.
type Service struct {
	cfg   config.AIConfig
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the chat model from cfg and compiles the generation chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, cfg)
}

// NewServiceWithModel compiles the generation chain around an existing chat model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel, cfg config.AIConfig) (*Service, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &Service{
		cfg:   cfg,
		chain: runnable,
	}, nil
}

// StreamingEnabled 指示是否开启流式输出。
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// Generate returns the model's reply to userPrompt under systemPrompt.
func (s *Service) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	response, err := s.chain.Invoke(ctx, chainInput(systemPrompt, userPrompt))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamGeneration, err)
	}
	if response == nil {
		return "", fmt.Errorf("%w: empty response", ErrUpstreamGeneration)
	}

	content := strings.TrimSpace(response.Content)
	log.Printf("[ai] generated completion, length=%d", len(content))
	return content, nil
}

// GenerateStream behaves like Generate but forwards content deltas to onDelta as they
// arrive. When streaming is disabled the full reply is delivered as a single delta.
func (s *Service) GenerateStream(ctx context.Context, systemPrompt, userPrompt string, onDelta func(string)) (string, error) {
	if !s.StreamingEnabled() {
		content, err := s.Generate(ctx, systemPrompt, userPrompt)
		if err != nil {
			return "", err
		}
		if onDelta != nil && content != "" {
			onDelta(content)
		}
		return content, nil
	}

	stream, err := s.chain.Stream(ctx, chainInput(systemPrompt, userPrompt))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamGeneration, err)
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", fmt.Errorf("%w: %w", ErrUpstreamGeneration, recvErr)
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" && onDelta != nil {
			onDelta(chunk.Content)
		}
	}

	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: empty stream", ErrUpstreamGeneration)
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamGeneration, err)
	}

	content := strings.TrimSpace(response.Content)
	log.Printf("[ai] streamed completion, chunks=%d length=%d", len(chunks), len(content))
	return content, nil
}

func chainInput(systemPrompt, userPrompt string) map[string]any {
	return map[string]any{
		"system": systemPrompt,
		"query":  userPrompt,
	}
}
