package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"growthGardenAPI/internal/action"
	"growthGardenAPI/internal/report"
	"growthGardenAPI/storage"
)

// ErrNoWeeklyData is returned when a requested week contains no completed,
// reflected-upon actions. Distinct from a failure: the week simply has
// nothing to report on.
var ErrNoWeeklyData = errors.New("no reflection data for week")

const defaultHistoricalWeeks = 8

// ReportService aggregates a user's reflected actions into weekly reports
// and delegates the narrative pieces to the AI collaborator. The
// deterministic fallback generators are authoritative: the AI path only
// replaces their output when it succeeds and parses.
type ReportService struct {
	store storage.Store
	ai    *AIClient
}

func NewReportService(store storage.Store, ai *AIClient) *ReportService {
	return &ReportService{store: store, ai: ai}
}

// InsightsResponse is the payload of regenerate-insights: the two AI-backed
// sections, refreshed, without the rest of the report.
type InsightsResponse struct {
	Success         bool                   `json:"success"`
	AIAnalysis      report.Analysis        `json:"aiAnalysis"`
	LearningSummary report.LearningSummary `json:"learningSummary"`
}

// weekWindow returns the Sunday 00:00:00 – Saturday 23:59:59 window
// containing t, in t's location.
func weekWindow(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	start := midnight.AddDate(0, 0, -int(t.Weekday()))
	end := start.AddDate(0, 0, 7).Add(-time.Second)
	return start, end
}

// BuildCurrent produces the report for the week containing now, or nil
// when the window holds no reflected activity.
func (s *ReportService) BuildCurrent(ctx context.Context, userID string) (*report.WeeklyReport, error) {
	start, end := weekWindow(time.Now())
	return s.buildWindow(ctx, userID, start, end)
}

// RegenerateInsights recomputes just the AI-backed sections from the
// current week's data.
func (s *ReportService) RegenerateInsights(ctx context.Context, userID string) (*InsightsResponse, error) {
	start, end := weekWindow(time.Now())
	weekly, err := s.weeklyActions(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(weekly) == 0 {
		return nil, ErrNoWeeklyData
	}

	dist := feelingDistribution(weekly)
	return &InsightsResponse{
		Success:         true,
		AIAnalysis:      s.analysis(ctx, weekly, dist),
		LearningSummary: s.learningSummary(ctx, weekly, dist),
	}, nil
}

// Historical returns reports for the last `weeks` calendar weeks,
// newest first, skipping weeks with no reflected activity.
func (s *ReportService) Historical(ctx context.Context, userID string, weeks int) ([]report.WeeklyReport, error) {
	if weeks <= 0 {
		weeks = defaultHistoricalWeeks
	}

	now := time.Now()
	reports := make([]report.WeeklyReport, 0)
	for i := 0; i < weeks; i++ {
		start, end := weekWindow(now.AddDate(0, 0, -7*i))
		r, err := s.buildWindow(ctx, userID, start, end)
		if err != nil {
			return nil, err
		}
		if r != nil {
			reports = append(reports, *r)
		}
	}
	return reports, nil
}

// HistoricalWeek builds the report for the week starting at the given
// YYYY-MM-DD date. ErrNoWeeklyData when nothing was reflected that week.
func (s *ReportService) HistoricalWeek(ctx context.Context, userID, weekStart string) (*report.WeeklyReport, error) {
	start, err := time.ParseInLocation("2006-01-02", weekStart, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid week start %q: %w", weekStart, err)
	}
	end := start.AddDate(0, 0, 7).Add(-time.Second)

	r, err := s.buildWindow(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNoWeeklyData
	}
	return r, nil
}

func (s *ReportService) buildWindow(ctx context.Context, userID string, start, end time.Time) (*report.WeeklyReport, error) {
	weekly, err := s.weeklyActions(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(weekly) == 0 {
		return nil, nil
	}

	dist := feelingDistribution(weekly)

	totalXP := 0
	for _, a := range weekly {
		totalXP += a.XPReward
	}
	streak := reflectionStreak(weekly)

	unlocked, err := s.store.ListAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(unlocked))
	for _, a := range unlocked {
		titles = append(titles, a.Title)
	}

	return &report.WeeklyReport{
		WeekStart:           start,
		WeekEnd:             end,
		FeelingDistribution: dist,
		Accomplishments: report.Accomplishments{
			TotalActions: len(weekly),
			TotalXP:      totalXP,
			Achievements: titles,
			Streak:       streak,
			Story:        s.story(ctx, weekly, titles, totalXP, streak),
		},
		LearningSummary: s.learningSummary(ctx, weekly, dist),
		AIAnalysis:      s.analysis(ctx, weekly, dist),
	}, nil
}

func (s *ReportService) weeklyActions(ctx context.Context, userID string, start, end time.Time) ([]action.Action, error) {
	all, err := s.store.ListActions(ctx, userID)
	if err != nil {
		return nil, err
	}

	weekly := make([]action.Action, 0)
	for _, a := range all {
		if !a.IsCompleted || a.ReflectedAt == nil {
			continue
		}
		if a.ReflectedAt.Before(start) || a.ReflectedAt.After(end) {
			continue
		}
		weekly = append(weekly, a)
	}
	return weekly, nil
}

// feelingDistribution buckets actions by feeling in first-seen order.
func feelingDistribution(weekly []action.Action) []report.FeelingBucket {
	order := make([]string, 0)
	counts := make(map[string]*report.FeelingBucket)
	for _, a := range weekly {
		if a.Feeling == nil || *a.Feeling == "" {
			continue
		}
		b, ok := counts[*a.Feeling]
		if !ok {
			b = &report.FeelingBucket{Feeling: *a.Feeling, Emoji: report.FeelingEmoji(*a.Feeling)}
			counts[*a.Feeling] = b
			order = append(order, *a.Feeling)
		}
		b.Count++
		b.Actions = append(b.Actions, a.Title)
	}

	total := len(weekly)
	dist := make([]report.FeelingBucket, 0, len(order))
	for _, feeling := range order {
		b := counts[feeling]
		b.Percentage = int(math.Round(float64(b.Count) / float64(total) * 100))
		dist = append(dist, *b)
	}
	return dist
}

// reflectionStreak is the longest run of consecutive calendar days with at
// least one reflection, capped at 7.
func reflectionStreak(weekly []action.Action) int {
	seen := make(map[string]bool)
	for _, a := range weekly {
		if a.ReflectedAt != nil {
			seen[a.ReflectedAt.Format("2006-01-02")] = true
		}
	}
	if len(seen) == 0 {
		return 0
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	best, run := 1, 1
	for i := 1; i < len(dates); i++ {
		prev, _ := time.Parse("2006-01-02", dates[i-1])
		cur, _ := time.Parse("2006-01-02", dates[i])
		if cur.Sub(prev) == 24*time.Hour {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
	}
	if best > 7 {
		best = 7
	}
	return best
}

// -----------------------------------------------------------------------
// AI-backed sections. Each tries the collaborator once and falls back to
// the deterministic generator on any failure.
// -----------------------------------------------------------------------

const analysisSystemPrompt = `You are a personal growth coach analyzing weekly reflection data. Provide encouraging, actionable insights in a warm, supportive tone. Focus on patterns, growth opportunities, and celebrating progress. Keep responses concise but meaningful.`

const summarySystemPrompt = `You are a personal development expert analyzing weekly growth data. Provide insights that are encouraging, actionable, and personalized. Focus on patterns, learning opportunities, and celebrating achievements.`

const storySystemPrompt = `You are a motivational storyteller who creates engaging, personal narratives about someone's weekly achievements. Write in a warm, encouraging tone that celebrates their progress and makes them feel proud of their accomplishments. Focus on the journey, the emotions, and the growth.`

type actionDigest struct {
	Title        string  `json:"title"`
	Feeling      *string `json:"feeling,omitempty"`
	Satisfaction *int    `json:"satisfaction,omitempty"`
	Difficulty   *int    `json:"difficulty,omitempty"`
	Reflection   *string `json:"reflection,omitempty"`
	XPReward     int     `json:"xpReward"`
}

func digest(weekly []action.Action) []actionDigest {
	out := make([]actionDigest, 0, len(weekly))
	for _, a := range weekly {
		out = append(out, actionDigest{
			Title:        a.Title,
			Feeling:      a.Feeling,
			Satisfaction: a.Satisfaction,
			Difficulty:   a.Difficulty,
			Reflection:   a.Reflection,
			XPReward:     a.XPReward,
		})
	}
	return out
}

func (s *ReportService) analysis(ctx context.Context, weekly []action.Action, dist []report.FeelingBucket) report.Analysis {
	payload := map[string]any{
		"totalActions":        len(weekly),
		"feelingDistribution": dist,
		"actionDetails":       digest(weekly),
		"averageSatisfaction": average(weekly, func(a action.Action) *int { return a.Satisfaction }),
		"averageDifficulty":   average(weekly, func(a action.Action) *int { return a.Difficulty }),
	}

	prompt := `Analyze this weekly reflection data and provide insights in JSON format with three fields:
1. positivePatterns: A brief analysis of what's working well and what activities lead to positive feelings
2. negativePatterns: Gentle suggestions for improving challenging experiences
3. growthAreas: Specific, actionable recommendations for personal growth

Data: ` + mustJSON(payload) + `

Respond with only valid JSON containing these three fields.`

	var parsed report.Analysis
	if s.generateJSON(ctx, analysisSystemPrompt, prompt, &parsed) &&
		parsed.PositivePatterns != "" && parsed.NegativePatterns != "" && parsed.GrowthAreas != "" {
		return parsed
	}
	return fallbackAnalysis(weekly)
}

func (s *ReportService) learningSummary(ctx context.Context, weekly []action.Action, dist []report.FeelingBucket) report.LearningSummary {
	totalXP := 0
	for _, a := range weekly {
		totalXP += a.XPReward
	}
	payload := map[string]any{
		"weekStats": map[string]any{
			"totalActions":        len(weekly),
			"totalXP":             totalXP,
			"averageSatisfaction": average(weekly, func(a action.Action) *int { return a.Satisfaction }),
			"averageDifficulty":   average(weekly, func(a action.Action) *int { return a.Difficulty }),
		},
		"feelingBreakdown": dist,
		"actionDetails":    digest(weekly),
	}

	prompt := `Analyze this weekly data and provide a learning summary in JSON format with three arrays:
1. insights: 2-3 key observations about patterns, feelings, or achievements
2. patterns: 1-2 recurring themes or behaviors noticed
3. recommendations: 2-3 specific, actionable suggestions for continued growth

Data: ` + mustJSON(payload) + `

Respond with only valid JSON containing these three arrays.`

	var parsed report.LearningSummary
	if s.generateJSON(ctx, summarySystemPrompt, prompt, &parsed) &&
		len(parsed.Insights) > 0 && len(parsed.Patterns) > 0 && len(parsed.Recommendations) > 0 {
		return parsed
	}
	return fallbackSummary(weekly, dist)
}

func (s *ReportService) story(ctx context.Context, weekly []action.Action, achievements []string, totalXP, streak int) string {
	payload := map[string]any{
		"weekStats": map[string]any{
			"totalActions": len(weekly),
			"totalXP":      totalXP,
			"streak":       streak,
			"achievements": achievements,
		},
		"actionHighlights": digest(weekly),
	}

	prompt := `Create an engaging story about this person's weekly achievements in JSON format with one field:
1. story: A compelling 2-3 paragraph narrative that tells the story of their week, highlighting their accomplishments, feelings, and growth. Make it personal, motivational, and story-like.

Data: ` + mustJSON(payload) + `

Respond with only valid JSON containing the story field.`

	var parsed struct {
		Story string `json:"story"`
	}
	if s.generateJSON(ctx, storySystemPrompt, prompt, &parsed) && parsed.Story != "" {
		return parsed.Story
	}
	return FallbackStory(len(weekly), len(achievements), totalXP, streak)
}

// generateJSON runs one AI call and decodes its (possibly fenced) JSON
// response into out. False means "use the fallback".
func (s *ReportService) generateJSON(ctx context.Context, system, prompt string, out any) bool {
	raw, err := s.ai.Generate(ctx, system, prompt)
	if err != nil {
		if s.ai != nil {
			log.Printf("AI generation failed, using fallback: %v", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), out); err != nil {
		log.Printf("AI response did not parse, using fallback: %v", err)
		return false
	}
	return true
}

// stripFences removes a surrounding markdown code fence, which models add
// despite being told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func average(weekly []action.Action, pick func(action.Action) *int) float64 {
	if len(weekly) == 0 {
		return 0
	}
	sum := 0
	for _, a := range weekly {
		if v := pick(a); v != nil {
			sum += *v
		} else {
			sum += 3
		}
	}
	return float64(sum) / float64(len(weekly))
}

// -----------------------------------------------------------------------
// Deterministic fallback generators. Pure functions of the aggregate;
// these are what the tests pin down.
// -----------------------------------------------------------------------

func fallbackAnalysis(weekly []action.Action) report.Analysis {
	positive := filterByFeeling(weekly, report.PositiveFeelings)
	negative := filterByFeeling(weekly, report.NegativeFeelings)

	var out report.Analysis

	if len(positive) > 0 {
		out.PositivePatterns = "You've been feeling great about tasks that involve " +
			strings.Join(lowerTitles(positive, 3), ", ") +
			". These activities seem to energize and motivate you."
	} else {
		out.PositivePatterns = "You've been maintaining a positive outlook on your tasks this week."
	}

	if len(negative) > 0 {
		out.NegativePatterns = "Tasks that made you feel challenged include " +
			strings.Join(lowerTitles(negative, 3), ", ") +
			". Consider breaking these down into smaller steps or adjusting your approach."
	} else {
		out.NegativePatterns = "You've been handling challenges well this week with minimal stress."
	}

	out.GrowthAreas = "Focus on building consistency with activities that make you feel accomplished, and consider what made those experiences particularly rewarding."
	return out
}

func fallbackSummary(weekly []action.Action, dist []report.FeelingBucket) report.LearningSummary {
	var out report.LearningSummary

	if len(dist) > 0 {
		top := dist[0]
		out.Insights = append(out.Insights,
			fmt.Sprintf("You felt %s most often this week (%d%% of the time).", strings.ToLower(top.Feeling), top.Percentage))
		if top.Percentage > 50 {
			out.Insights = append(out.Insights, "You're maintaining a consistent positive emotional state across your tasks.")
		}
	}

	if words := frequentTitleWords(weekly, 3); len(words) > 0 {
		out.Patterns = append(out.Patterns,
			"You've been focusing on activities related to: "+strings.Join(words, ", ")+".")
	}

	avgSatisfaction := average(weekly, func(a action.Action) *int { return a.Satisfaction })
	if avgSatisfaction < 3 {
		out.Recommendations = append(out.Recommendations,
			"Consider adjusting your task difficulty or breaking complex tasks into smaller, more manageable steps.")
	} else if avgSatisfaction > 4 {
		out.Recommendations = append(out.Recommendations,
			"You're finding great satisfaction in your tasks. Consider taking on slightly more challenging goals.")
	}
	if len(weekly) < 5 {
		out.Recommendations = append(out.Recommendations,
			"Try to complete a few more actions this week to build momentum and gather more insights.")
	}
	out.Recommendations = append(out.Recommendations,
		"Continue reflecting on your feelings after each task to build self-awareness.")

	if len(out.Insights) == 0 {
		out.Insights = []string{"You've been making consistent progress on your goals."}
	}
	if len(out.Patterns) == 0 {
		out.Patterns = []string{"You're building good habits through regular reflection."}
	}
	return out
}

// FallbackStory composes the no-AI achievement narrative.
func FallbackStory(actionCount, achievementCount, totalXP, streak int) string {
	var b strings.Builder
	b.WriteString("This week, you've been on an incredible journey of growth and self-discovery. ")

	if actionCount > 0 {
		fmt.Fprintf(&b, "You completed %d meaningful actions, each one a step forward in your personal development. ", actionCount)
	}
	if totalXP > 0 {
		fmt.Fprintf(&b, "With %d XP earned, you've built up significant momentum in your growth garden. ", totalXP)
	}
	if achievementCount > 0 {
		plural := ""
		if achievementCount > 1 {
			plural = "s"
		}
		fmt.Fprintf(&b, "Your dedication has been recognized with %d new achievement%s, marking important milestones in your journey. ", achievementCount, plural)
	}
	if streak > 0 {
		fmt.Fprintf(&b, "You've maintained a %d-day streak, showing remarkable consistency and commitment to your goals. ", streak)
	}

	b.WriteString("Every action you take, every reflection you make, and every feeling you acknowledge is part of your unique story of growth. You're not just completing tasks, you're building a life of intention and purpose.")
	return b.String()
}

func filterByFeeling(weekly []action.Action, feelings []string) []action.Action {
	set := make(map[string]bool, len(feelings))
	for _, f := range feelings {
		set[f] = true
	}
	out := make([]action.Action, 0)
	for _, a := range weekly {
		if a.Feeling != nil && set[*a.Feeling] {
			out = append(out, a)
		}
	}
	return out
}

func lowerTitles(actions []action.Action, limit int) []string {
	titles := make([]string, 0, limit)
	for _, a := range actions {
		if len(titles) == limit {
			break
		}
		titles = append(titles, strings.ToLower(a.Title))
	}
	return titles
}

// frequentTitleWords picks the most common words (longer than 3 chars)
// across action titles, ties broken alphabetically for stable output.
func frequentTitleWords(weekly []action.Action, limit int) []string {
	counts := make(map[string]int)
	for _, a := range weekly {
		for _, word := range strings.Fields(strings.ToLower(a.Title)) {
			if len(word) > 3 {
				counts[word]++
			}
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > limit {
		words = words[:limit]
	}
	return words
}
