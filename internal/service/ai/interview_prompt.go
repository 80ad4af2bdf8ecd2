package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
)

// InterviewerSystemPrompt frames every question-generation call.
const InterviewerSystemPrompt = "You are an AI interviewer. Ask one question at a time.\nKeep questions natural and conversational."

// EvaluatorSystemPrompt frames the final feedback call.
const EvaluatorSystemPrompt = "You are an expert interview evaluator."

const feedbackPromptTemplate = `You are a senior interview evaluator.

Analyze this interview transcript and generate feedback with this EXACT structure:

Strengths:
- point 1
- point 2
- point 3
- point 4

Areas to Improve:
- point 1
- point 2
- point 3
- point 4

Tips:
- point 1
- point 2
- point 3

Rating:
A number between 0 and 5. Only give the number.

Transcript:
%s`

// BuildInterviewerPrompt renders the interview configuration, the conversation so far
// and the latest answer. session is expected to already carry latestAnswer on its
// pending exchange.
func BuildInterviewerPrompt(session interview.Session, latestAnswer string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Role: %s\nExperience: %s\nMode: %s\n", session.Role, session.Level, session.Mode)
	builder.WriteString("Conversation:\n")
	for _, exchange := range session.Exchanges {
		fmt.Fprintf(&builder, "Q: %s\nA: %s\n", exchange.Question, exchange.Answer)
	}
	fmt.Fprintf(&builder, "\nLatest answer: %s\n", latestAnswer)
	builder.WriteString("Ask the next question.")
	return builder.String()
}

// FormatTranscript lists every exchange, the pending one included with a blank answer.
func FormatTranscript(session interview.Session) string {
	var builder strings.Builder
	for _, exchange := range session.Exchanges {
		fmt.Fprintf(&builder, "Q: %s\nA: %s\n\n", exchange.Question, exchange.Answer)
	}
	return builder.String()
}

// BuildFeedbackPrompt wraps the transcript in the evaluator instructions.
func BuildFeedbackPrompt(session interview.Session) string {
	return fmt.Sprintf(feedbackPromptTemplate, FormatTranscript(session))
}
