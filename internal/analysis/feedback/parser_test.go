package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormed = `Strengths:
- Clear communication
- Solid grasp of Go concurrency
- Good use of examples
- Calm under pressure

Areas to Improve:
- Rambling on open questions
- Missing metrics

Tips:
- Use the STAR method
- Quantify impact
- Pause before answering

Rating:
3.5`

func TestParseWellFormedFeedback(t *testing.T) {
	summary := Parse(wellFormed)

	assert.Equal(t, []string{
		"Clear communication",
		"Solid grasp of Go concurrency",
		"Good use of examples",
		"Calm under pressure",
	}, summary.Strengths)
	assert.Equal(t, []string{"Rambling on open questions", "Missing metrics"}, summary.AreasToImprove)
	assert.Equal(t, []string{"Use the STAR method", "Quantify impact", "Pause before answering"}, summary.Tips)
	// "Rating:" 与数字分行时，数字行不会被识别。
	assert.Equal(t, DefaultRating, summary.OverallRating)
}

func TestParseBulletAttribution(t *testing.T) {
	summary := Parse("Strengths:\n- Clear answers\nAreas to Improve:\n- Rambling")

	assert.Equal(t, []string{"Clear answers"}, summary.Strengths)
	assert.Equal(t, []string{"Rambling"}, summary.AreasToImprove)
	assert.Equal(t, defaultTips, summary.Tips)
}

func TestParseRatingClamp(t *testing.T) {
	cases := []struct {
		name string
		line string
		want float64
	}{
		{name: "above range", line: "Rating: 9.7", want: 5.0},
		{name: "negative", line: "Rating: -2", want: 0.0},
		{name: "in range", line: "Rating: 3.5", want: 3.5},
		{name: "integer", line: "rating 4", want: 4.0},
		{name: "no digits", line: "Rating: excellent", want: DefaultRating},
		{name: "first number wins", line: "Rating: 2.5 out of 5", want: 2.5},
		{name: "uppercase header", line: "RATING - 1", want: 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary := Parse(tc.line)
			assert.InDelta(t, tc.want, summary.OverallRating, 1e-9)
		})
	}
}

func TestParseRatingWithoutDigitsKeepsEarlierRating(t *testing.T) {
	summary := Parse("Rating: 2\nRating: n/a")
	assert.Equal(t, 2.0, summary.OverallRating)
}

func TestParseIndentedDashIsNotBullet(t *testing.T) {
	summary := Parse("Strengths:\n  - point\n\t- another\n-kept")

	assert.Equal(t, []string{"kept"}, summary.Strengths)
}

func TestParseDropsBulletsOutsideSections(t *testing.T) {
	summary := Parse("- orphan\nRating: 3\n- after rating\nTips:\n- real tip")

	assert.Equal(t, defaultStrengths, summary.Strengths)
	assert.Equal(t, defaultAreas, summary.AreasToImprove)
	assert.Equal(t, []string{"real tip"}, summary.Tips)
	assert.Equal(t, 3.0, summary.OverallRating)
}

func TestParseHeadersAreNeverBullets(t *testing.T) {
	summary := Parse("Strengths: - inline\n- listed\nTips - inline too\n- tip")

	assert.Equal(t, []string{"listed"}, summary.Strengths)
	assert.Equal(t, []string{"tip"}, summary.Tips)
}

func TestParseHandlesCRLF(t *testing.T) {
	summary := Parse("Strengths:\r\n- Crisp answers\r\nRating: 4.5\r\n")

	assert.Equal(t, []string{"Crisp answers"}, summary.Strengths)
	assert.Equal(t, 4.5, summary.OverallRating)
}

func TestParseAlwaysReturnsNonEmptyLists(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"The candidate did fine.",
		"Strengths:\nAreas to Improve:\nTips:",
		"- a\n- b\n- c",
		"**Strengths**\n* bold bullets are ignored",
		"Rating: 12\nRating: 0",
	}

	for _, input := range inputs {
		summary := Parse(input)
		require.NotEmpty(t, summary.Strengths, "input %q", input)
		require.NotEmpty(t, summary.AreasToImprove, "input %q", input)
		require.NotEmpty(t, summary.Tips, "input %q", input)
		require.GreaterOrEqual(t, summary.OverallRating, 0.0)
		require.LessOrEqual(t, summary.OverallRating, 5.0)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	first := Parse(wellFormed)
	second := Parse(wellFormed)
	assert.Equal(t, first, second)
}

func TestParseDefaultsAreNotShared(t *testing.T) {
	summary := Parse("")
	summary.Strengths[0] = "mutated"

	assert.Equal(t, "Good communication", Parse("").Strengths[0])
}

func TestClassify(t *testing.T) {
	assert.Equal(t, lineStrengthsHeader, classify("  STRENGTHS:"))
	assert.Equal(t, lineAreasHeader, classify("Areas to improve"))
	assert.Equal(t, lineTipsHeader, classify("tips:"))
	assert.Equal(t, lineRatingHeader, classify("Rating: 4"))
	assert.Equal(t, lineBullet, classify("- point"))
	assert.Equal(t, lineOther, classify(" - point"))
	assert.Equal(t, lineOther, classify("Areas for growth:"))
}
