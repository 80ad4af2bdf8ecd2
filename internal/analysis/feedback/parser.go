package feedback

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zhouzirui/interview-partner/backend/internal/model/interview"
)

// Section 表示扫描器当前所在的反馈段落。
type Section int

const (
	SectionNone Section = iota
	SectionStrengths
	SectionAreas
	SectionTips
)

// lineKind 是单行文本的分类结果。
type lineKind int

const (
	lineOther lineKind = iota
	lineStrengthsHeader
	lineAreasHeader
	lineTipsHeader
	lineRatingHeader
	lineBullet
)

// DefaultRating is used when the model never states a usable rating.
const DefaultRating = 4.0

const (
	minRating = 0.0
	maxRating = 5.0
)

var (
	defaultStrengths = []string{"Good communication", "Positive attitude"}
	defaultAreas     = []string{"Provide more detailed explanations", "Improve structure of answers"}
	defaultTips      = []string{"Use STAR method", "Give examples from real projects"}
)

// ratingPattern 匹配第一个整数或小数，允许紧贴的负号。
var ratingPattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

// Parse converts free-form evaluator output into a FeedbackSummary.
// It never fails: sections the model omitted fall back to fixed defaults.
func Parse(text string) interview.FeedbackSummary {
	acc := newAccumulator()
	for _, line := range strings.Split(text, "\n") {
		acc.consume(strings.TrimRight(line, "\r"))
	}
	return acc.summary()
}

type accumulator struct {
	section   Section
	strengths []string
	areas     []string
	tips      []string
	rating    float64
}

func newAccumulator() *accumulator {
	return &accumulator{section: SectionNone, rating: DefaultRating}
}

func (a *accumulator) consume(line string) {
	switch classify(line) {
	case lineStrengthsHeader:
		a.section = SectionStrengths
	case lineAreasHeader:
		a.section = SectionAreas
	case lineTipsHeader:
		a.section = SectionTips
	case lineRatingHeader:
		a.section = SectionNone
		if rating, ok := extractRating(line); ok {
			a.rating = rating
		}
	case lineBullet:
		a.appendBullet(strings.TrimSpace(line[1:]))
	}
}

func (a *accumulator) appendBullet(point string) {
	switch a.section {
	case SectionStrengths:
		a.strengths = append(a.strengths, point)
	case SectionAreas:
		a.areas = append(a.areas, point)
	case SectionTips:
		a.tips = append(a.tips, point)
	}
}

func (a *accumulator) summary() interview.FeedbackSummary {
	return interview.FeedbackSummary{
		Strengths:      orDefault(a.strengths, defaultStrengths),
		AreasToImprove: orDefault(a.areas, defaultAreas),
		Tips:           orDefault(a.tips, defaultTips),
		OverallRating:  a.rating,
	}
}

// classify 先按去空白、小写后的前缀识别段落标题，再用原始行首字符识别列表项。
func classify(line string) lineKind {
	normalized := strings.ToLower(strings.TrimSpace(line))
	switch {
	case strings.HasPrefix(normalized, "strengths"):
		return lineStrengthsHeader
	case strings.HasPrefix(normalized, "areas to improve"):
		return lineAreasHeader
	case strings.HasPrefix(normalized, "tips"):
		return lineTipsHeader
	case strings.HasPrefix(normalized, "rating"):
		return lineRatingHeader
	case strings.HasPrefix(line, "-"):
		return lineBullet
	default:
		return lineOther
	}
}

func extractRating(line string) (float64, bool) {
	match := ratingPattern.FindString(strings.ToLower(strings.TrimSpace(line)))
	if match == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return clampRating(val), true
}

func clampRating(val float64) float64 {
	if val > maxRating {
		return maxRating
	}
	if val < minRating {
		return minRating
	}
	return val
}

func orDefault(items, fallback []string) []string {
	if len(items) == 0 {
		return append([]string(nil), fallback...)
	}
	return items
}
