package styles

import (
	"regexp"
	"strings"

	"reelforge/models"
)

// AdRisk scores how ad-like a piece of copy reads, 1 (organic) to 10.
type AdRisk struct {
	Score      int    `json:"score"`
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion"`
}

var (
	salesRe       = regexp.MustCompile(`buy now|limited time|order today|shop now|link in bio`)
	promoRe       = regexp.MustCompile(`use my code|discount|promo|% off|deal`)
	superlativeRe = regexp.MustCompile(`best|guaranteed|amazing|perfect|revolutionary`)
)

// ScoreAdRisk runs the keyword heuristic over the given text.
func ScoreAdRisk(text string) AdRisk {
	lower := strings.ToLower(text)
	score := 1
	var reasons []string

	if salesRe.MatchString(lower) {
		score += 2
		reasons = append(reasons, "Direct sales language")
	}
	if promoRe.MatchString(lower) {
		score += 2
		reasons = append(reasons, "Promotional offers")
	}
	if superlativeRe.MatchString(lower) {
		score++
		reasons = append(reasons, "Superlatives")
	}

	if score > 10 {
		score = 10
	}

	reason := strings.Join(reasons, ", ")
	if reason == "" {
		reason = "Low risk"
	}
	suggestion := "Content looks organic."
	if score > 3 {
		suggestion = "Add a personal anecdote and remove direct sales language; use a curiosity CTA."
	}

	return AdRisk{Score: score, Reason: reason, Suggestion: suggestion}
}

var adRewrites = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)buy now`), "check it out"},
	{regexp.MustCompile(`(?i)order today`), "available now"},
	{regexp.MustCompile(`(?i)use my code`), "link in bio"},
}

var adTagRe = regexp.MustCompile(`(?i)#ad`)

// SoftenAdCopy rewrites a copy of the plan so it reads less like an ad.
func SoftenAdCopy(plan models.Plan) models.Plan {
	for _, r := range adRewrites {
		plan.VoiceoverScript = r.re.ReplaceAllString(plan.VoiceoverScript, r.replacement)
	}
	plan.Caption = adTagRe.ReplaceAllString(plan.Caption, "")
	return plan
}
