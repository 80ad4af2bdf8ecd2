package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
)

// transcript 是导出到 YAML 的一次练习记录
type transcript struct {
	SessionID string                     `yaml:"sessionId"`
	Role      string                     `yaml:"role"`
	Level     string                     `yaml:"level"`
	Mode      string                     `yaml:"mode"`
	Exchanges []interview.Exchange       `yaml:"exchanges"`
	Feedback  *interview.FeedbackSummary `yaml:"feedback,omitempty"`
}

// recordAnswer 把回答写入待答问题，并追加下一道题。
func (t *transcript) recordAnswer(answer, nextQuestion string) {
	if n := len(t.Exchanges); n > 0 {
		t.Exchanges[n-1].Answer = answer
	}
	t.Exchanges = append(t.Exchanges, interview.Exchange{Question: nextQuestion})
}

func encodeTranscript(t *transcript, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(t)
}

func writeTranscript(path string, t *transcript) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := encodeTranscript(t, f); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
