package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
)

const finishCommand = "/finish"

type practiceOptions struct {
	role       string
	level      string
	mode       string
	exportPath string
}

func newPracticeCmd(root *rootOptions) *cobra.Command {
	opts := &practiceOptions{}

	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Run an interactive mock interview",
		Long: `Start a session, answer each question on one line, and type /finish
to receive structured feedback. End of input also finishes the interview.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPractice(cmd, root.client(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.role, "role", "", "Target role, e.g. \"Backend Engineer\"")
	cmd.Flags().StringVar(&opts.level, "level", "", "Experience level, e.g. Senior")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Interview mode, e.g. technical or behavioral")
	cmd.Flags().StringVar(&opts.exportPath, "export", "", "Write the transcript and feedback to this YAML file")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("level")
	_ = cmd.MarkFlagRequired("mode")

	return cmd
}

func runPractice(cmd *cobra.Command, client *apiClient, opts *practiceOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	started, err := client.Start(ctx, opts.role, opts.level, opts.mode)
	if err != nil {
		return fmt.Errorf("start interview: %w", err)
	}

	record := &transcript{
		SessionID: started.SessionID,
		Role:      opts.role,
		Level:     opts.level,
		Mode:      opts.mode,
		Exchanges: []interview.Exchange{{Question: started.BotMessage}},
	}

	fmt.Fprintln(out, hintStyle.Render(fmt.Sprintf("Session %s started. Type %s when you are done.", started.SessionID, finishCommand)))
	printQuestion(out, started.BotMessage)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			continue
		}
		if answer == finishCommand {
			break
		}

		reply, err := client.Message(ctx, started.SessionID, answer)
		if err != nil {
			return fmt.Errorf("send answer: %w", err)
		}
		record.recordAnswer(answer, reply.BotMessage)
		printQuestion(out, reply.BotMessage)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read answer: %w", err)
	}
	fmt.Fprintln(out)

	result, err := client.Finish(ctx, started.SessionID)
	if err != nil {
		return fmt.Errorf("finish interview: %w", err)
	}
	record.Feedback = &result.Summary

	fmt.Fprintln(out, renderFeedback(result))

	if opts.exportPath != "" {
		if err := writeTranscript(opts.exportPath, record); err != nil {
			return err
		}
		fmt.Fprintln(out, successStyle.Render("✅ Transcript exported to "+opts.exportPath))
	}
	return nil
}

func printQuestion(w io.Writer, question string) {
	fmt.Fprintln(w, questionStyle.Render("Interviewer: ")+question)
}

func renderFeedback(result interview.FeedbackResult) string {
	var b strings.Builder
	b.WriteString(successStyle.Render(result.BotMessage))
	b.WriteString("\n\n")

	writeSection := func(title string, items []string) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, item := range items {
			b.WriteString("  • ")
			b.WriteString(item)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	writeSection("Strengths", result.Summary.Strengths)
	writeSection("Areas to Improve", result.Summary.AreasToImprove)
	writeSection("Tips", result.Summary.Tips)

	rating := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(fmt.Sprintf("Overall rating: %.1f / 5", result.Summary.OverallRating))
	b.WriteString(rating)

	return b.String()
}
