package interview

// ClosingMessage accompanies the feedback summary when an interview finishes.
const ClosingMessage = "Here is your detailed professional interview feedback!"

// FeedbackSummary is the structured evaluation parsed from the model's free text.
// It is rebuilt on every finish request and never stored.
type FeedbackSummary struct {
	Strengths      []string `json:"strengths" yaml:"strengths"`
	AreasToImprove []string `json:"areasToImprove" yaml:"areasToImprove"`
	Tips           []string `json:"tips" yaml:"tips"`
	OverallRating  float64  `json:"overallRating" yaml:"overallRating"`
}

// FeedbackResult is what the finish step returns to the caller.
type FeedbackResult struct {
	BotMessage string          `json:"botMessage" yaml:"botMessage"`
	Summary    FeedbackSummary `json:"summary" yaml:"summary"`
}
