package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
)

func sampleSession() interview.Session {
	return interview.Session{
		ID:    "s-1",
		Role:  "Data Engineer",
		Level: "Mid",
		Mode:  "technical",
		Exchanges: []interview.Exchange{
			{Question: interview.OpeningQuestion, Answer: "I build pipelines."},
			{Question: "What is a DAG?", Answer: ""},
		},
	}
}

func TestBuildInterviewerPrompt(t *testing.T) {
	session := sampleSession().WithAnswer("A directed acyclic graph.")

	got := BuildInterviewerPrompt(session, "A directed acyclic graph.")

	want := "Role: Data Engineer\nExperience: Mid\nMode: technical\n" +
		"Conversation:\n" +
		"Q: Hi! Let's begin. Can you introduce yourself?\nA: I build pipelines.\n" +
		"Q: What is a DAG?\nA: A directed acyclic graph.\n" +
		"\nLatest answer: A directed acyclic graph.\n" +
		"Ask the next question."
	assert.Equal(t, want, got)
}

func TestFormatTranscriptKeepsPendingExchange(t *testing.T) {
	got := FormatTranscript(sampleSession())

	want := "Q: Hi! Let's begin. Can you introduce yourself?\nA: I build pipelines.\n\n" +
		"Q: What is a DAG?\nA: \n\n"
	assert.Equal(t, want, got)
}

func TestBuildFeedbackPrompt(t *testing.T) {
	got := BuildFeedbackPrompt(sampleSession())

	assert.True(t, strings.HasPrefix(got, "You are a senior interview evaluator."))
	assert.Contains(t, got, "Areas to Improve:\n- point 1")
	assert.Contains(t, got, "A number between 0 and 5. Only give the number.")
	assert.True(t, strings.HasSuffix(got, "Transcript:\n"+FormatTranscript(sampleSession())))
}
