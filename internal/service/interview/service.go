package interview

import (
	"context"
	"errors"
	"log"

	"github.com/zhouzirui/interview-partner/backend/internal/analysis/feedback"
	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
	"github.com/zhouzirui/interview-partner/backend/internal/service/ai"
)

// ErrGeneratorUnavailable is returned when no text generator has been configured.
var ErrGeneratorUnavailable = errors.New("text generation unavailable")

// Generator produces text for a system/user prompt pair.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// StreamGenerator additionally reports partial output while generating.
type StreamGenerator interface {
	Generator
	GenerateStream(ctx context.Context, systemPrompt, userPrompt string, onDelta func(string)) (string, error)
}

// Service drives the interview lifecycle: start, answer/advance, finish.
type Service struct {
	store     interview.Store
	generator Generator
	locks     *keyedMutex
}

// NewService wires the lifecycle around a session store and an optional generator.
func NewService(store interview.Store, generator Generator) *Service {
	return &Service{
		store:     store,
		generator: generator,
		locks:     newKeyedMutex(),
	}
}

// Ready reports whether question and feedback generation are available.
func (s *Service) Ready() bool {
	return s.generator != nil
}

// Streaming reports whether the configured generator can stream partial output.
func (s *Service) Streaming() bool {
	_, ok := s.generator.(StreamGenerator)
	return ok
}

// Start creates a session whose pending question is the fixed opening question.
func (s *Service) Start(ctx context.Context, role, level, mode string) (interview.Session, error) {
	session, err := s.store.Create(ctx, role, level, mode)
	if err != nil {
		return interview.Session{}, err
	}
	log.Printf("[interview] started session=%s role=%q level=%q mode=%q", session.ID, role, level, mode)
	return session, nil
}

// Get returns a snapshot of the session.
func (s *Service) Get(ctx context.Context, sessionID string) (interview.Session, error) {
	return s.store.Get(ctx, sessionID)
}

// Reply records userMessage as the answer to the pending question and returns the next question.
func (s *Service) Reply(ctx context.Context, sessionID, userMessage string) (string, error) {
	if s.generator == nil {
		return "", ErrGeneratorUnavailable
	}
	return s.advance(ctx, sessionID, userMessage, func(prompt string) (string, error) {
		return s.generator.Generate(ctx, ai.InterviewerSystemPrompt, prompt)
	})
}

// ReplyStream is Reply with partial question text forwarded to onDelta.
// Generators that cannot stream deliver the whole question as one delta.
func (s *Service) ReplyStream(ctx context.Context, sessionID, userMessage string, onDelta func(string)) (string, error) {
	if s.generator == nil {
		return "", ErrGeneratorUnavailable
	}
	streamer, ok := s.generator.(StreamGenerator)
	if !ok {
		next, err := s.Reply(ctx, sessionID, userMessage)
		if err == nil && onDelta != nil {
			onDelta(next)
		}
		return next, err
	}
	return s.advance(ctx, sessionID, userMessage, func(prompt string) (string, error) {
		return streamer.GenerateStream(ctx, ai.InterviewerSystemPrompt, prompt, onDelta)
	})
}

// advance holds the session lock across read, generation and append so that
// concurrent answers to one session are applied one at a time. Nothing is
// written when generation fails.
func (s *Service) advance(ctx context.Context, sessionID, userMessage string, generate func(prompt string) (string, error)) (string, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	prompt := ai.BuildInterviewerPrompt(session.WithAnswer(userMessage), userMessage)
	next, err := generate(prompt)
	if err != nil {
		log.Printf("[interview] question generation failed for session=%s: %v", sessionID, err)
		return "", err
	}

	if err := s.store.RecordAnswerAndAdvance(ctx, sessionID, userMessage, next); err != nil {
		return "", err
	}

	log.Printf("[interview] session=%s advanced to exchange %d", sessionID, len(session.Exchanges)+1)
	return next, nil
}

// Finish asks the evaluator for feedback on the whole transcript and parses it.
// The session itself is left unchanged.
func (s *Service) Finish(ctx context.Context, sessionID string) (interview.FeedbackResult, error) {
	if s.generator == nil {
		return interview.FeedbackResult{}, ErrGeneratorUnavailable
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return interview.FeedbackResult{}, err
	}

	text, err := s.generator.Generate(ctx, ai.EvaluatorSystemPrompt, ai.BuildFeedbackPrompt(session))
	if err != nil {
		log.Printf("[interview] feedback generation failed for session=%s: %v", sessionID, err)
		return interview.FeedbackResult{}, err
	}

	summary := feedback.Parse(text)
	log.Printf("[interview] finished session=%s exchanges=%d rating=%.1f", sessionID, len(session.Exchanges), summary.OverallRating)

	return interview.FeedbackResult{
		BotMessage: interview.ClosingMessage,
		Summary:    summary,
	}, nil
}
