// Package styles holds the stateless tone rewriters and the ad-risk
// heuristic applied to a plan before generation. These are deliberately
// simple string transforms; nothing downstream depends on them.
package styles

import (
	"strings"

	"reelforge/models"
)

// Variant is a tone/style preset a user can pick for a plan.
type Variant string

const (
	GenZ       Variant = "gen_z"
	Storytime  Variant = "storytime"
	BrandSafe  Variant = "brand_safe"
	HighEnergy Variant = "high_energy"
)

// Variants lists the selectable presets with display labels.
var Variants = []struct {
	ID    Variant
	Label string
}{
	{GenZ, "Chaotic Gen-Z"},
	{Storytime, "Storytime"},
	{BrandSafe, "Brand-safe"},
	{HighEnergy, "High-energy"},
}

// Apply rewrites a copy of the plan in the requested tone. Unknown
// variants return the plan unchanged.
func Apply(plan models.Plan, style Variant) models.Plan {
	switch style {
	case GenZ:
		plan.ChosenHook = strings.ToLower(strings.ReplaceAll(plan.ChosenHook, ".", "")) + " fr fr 💀"
		plan.VoiceoverScript = "Yo check this out. " + strings.ReplaceAll(
			strings.ReplaceAll(plan.VoiceoverScript, "Please", "Pls"), "you", "u")
		plan.Caption += " #fyp #viral"
	case Storytime:
		plan.ChosenHook = "Here's what happened when " + strings.ToLower(plan.ChosenHook)
		plan.VoiceoverScript = "So, story time. " + plan.VoiceoverScript
		plan.Caption = "Wait for the end... " + plan.Caption
	case BrandSafe:
		plan.ChosenHook = replaceFold(plan.ChosenHook, "mind-blowing", "interesting")
		plan.ChosenHook = replaceFold(plan.ChosenHook, "crazy", "notable")
		plan.VoiceoverScript = strings.ReplaceAll(plan.VoiceoverScript, "!", ".")
		plan.Caption = strings.ReplaceAll(plan.Caption, "#", "")
	case HighEnergy:
		plan.ChosenHook = "WAIT! " + strings.ToUpper(plan.ChosenHook)
		plan.VoiceoverScript = strings.ToUpper(plan.VoiceoverScript) + "!!!"
		plan.Caption = "🚨 " + plan.Caption + " 🚨"
	}
	return plan
}

// replaceFold replaces the first case-insensitive occurrence of old.
func replaceFold(s, old, new string) string {
	idx := strings.Index(strings.ToLower(s), strings.ToLower(old))
	if idx < 0 {
		return s
	}
	return s[:idx] + new + s[idx+len(old):]
}
