package report

import "time"

// WeeklyReport is the composite reflection report for one Sunday–Saturday
// window. A nil report means no reflected activity fell inside the window.
type WeeklyReport struct {
	WeekStart           time.Time       `json:"weekStart"`
	WeekEnd             time.Time       `json:"weekEnd"`
	FeelingDistribution []FeelingBucket `json:"feelingDistribution"`
	Accomplishments     Accomplishments `json:"accomplishments"`
	LearningSummary     LearningSummary `json:"learningSummary"`
	AIAnalysis          Analysis        `json:"aiAnalysis"`
}

type FeelingBucket struct {
	Feeling    string   `json:"feeling"`
	Emoji      string   `json:"emoji"`
	Count      int      `json:"count"`
	Percentage int      `json:"percentage"`
	Actions    []string `json:"actions"`
}

type Accomplishments struct {
	TotalActions int      `json:"totalActions"`
	TotalXP      int      `json:"totalXP"`
	Achievements []string `json:"achievements"`
	Streak       int      `json:"streak"`
	Story        string   `json:"story"`
}

type LearningSummary struct {
	Insights        []string `json:"insights"`
	Patterns        []string `json:"patterns"`
	Recommendations []string `json:"recommendations"`
}

type Analysis struct {
	PositivePatterns string `json:"positivePatterns"`
	NegativePatterns string `json:"negativePatterns"`
	GrowthAreas      string `json:"growthAreas"`
}

var feelingEmojis = map[string]string{
	"Happy":        "😊",
	"Excited":      "🎉",
	"Relaxed":      "😌",
	"Accomplished": "💪",
	"Relieved":     "😌",
	"Confident":    "😎",
	"Thoughtful":   "🤔",
	"Tired":        "😴",
	"Stressed":     "😅",
	"Frustrated":   "😤",
	"Grateful":     "😇",
	"Proud":        "🤗",
}

// FeelingEmoji maps a feeling name to its display emoji.
func FeelingEmoji(feeling string) string {
	if e, ok := feelingEmojis[feeling]; ok {
		return e
	}
	return "😊"
}

// PositiveFeelings and NegativeFeelings partition the feelings the pattern
// analysis cares about; anything else is treated as neutral.
var (
	PositiveFeelings = []string{"Happy", "Excited", "Accomplished", "Confident", "Proud", "Grateful"}
	NegativeFeelings = []string{"Tired", "Stressed", "Frustrated"}
)
