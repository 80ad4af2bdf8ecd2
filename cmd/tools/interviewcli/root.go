package main

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://127.0.0.1:8080"

var (
	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type rootOptions struct {
	apiURL  string
	timeout time.Duration
}

func (o *rootOptions) client() *apiClient {
	return newAPIClient(o.apiURL, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "interviewcli",
		Short: "Practice mock interviews against the interview partner API",
		Long: `A terminal client for the interview partner backend.

Quick Start:
  interviewcli health
  interviewcli practice --role "Backend Engineer" --level Senior --mode technical
  interviewcli practice --role PM --level Junior --mode behavioral --export run.yaml

Type /finish during practice to end the interview and see your feedback.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", envOrDefault("INTERVIEW_API_URL", defaultAPIURL), "Base URL of the interview API")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 90*time.Second, "Per-request timeout")

	cmd.AddCommand(newPracticeCmd(opts))
	cmd.AddCommand(newHealthCmd(opts))
	return cmd
}

func envOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
