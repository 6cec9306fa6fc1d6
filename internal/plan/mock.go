// Package plan supplies the offline plan producer. The real language-model
// call lives outside this service; this keeps the whole pipeline demoable
// without any external account.
package plan

import (
	"fmt"

	"reelforge/models"
)

// Demo builds a deterministic plan for the given prompt, with the same
// shape the external plan producer returns: hooks to pick from, timed
// beats, a voiceover script with pause markers, and posting metadata.
func Demo(prompt string) models.Plan {
	if prompt == "" {
		return basePlan
	}
	return models.Plan{
		Format: basePlan.Format,
		Hooks: []string{
			fmt.Sprintf("%s - Part 1", prompt),
			fmt.Sprintf("The truth about %s", prompt),
			fmt.Sprintf("Why %s matters", prompt),
		},
		ChosenHook: fmt.Sprintf("The truth about %s", prompt),
		Beats: []models.Beat{
			{TStart: 0.0, TEnd: 2.0, Text: fmt.Sprintf("Here is the truth about %s", prompt)},
			{TStart: 2.0, TEnd: 4.0, Text: "It is more complex than you think"},
			{TStart: 4.0, TEnd: 6.5, Text: "Stay tuned for more"},
		},
		VoiceoverScript: fmt.Sprintf(
			"Here is the truth about %s. <#0.3#> It is more complex than you think. <#0.3#> Stay tuned for more.",
			prompt),
		Caption:    basePlan.Caption,
		Hashtags:   basePlan.Hashtags,
		RenderSpec: basePlan.RenderSpec,
	}
}

var basePlan = models.Plan{
	Format: "listicle",
	Hooks: []string{
		"3 mind-blowing facts about space",
		"You won't believe this about space",
		"The dark truth about the universe",
	},
	ChosenHook: "3 mind-blowing facts about space",
	Beats: []models.Beat{
		{TStart: 0.0, TEnd: 2.0, Text: "Space is completely silent."},
		{TStart: 2.0, TEnd: 4.0, Text: "A day on Venus is longer than a year."},
		{TStart: 4.0, TEnd: 6.5, Text: "There are more stars than grains of sand."},
	},
	VoiceoverScript: "Space is completely silent. <#0.3#> A day on Venus is longer than a year. <#0.3#> There are more stars than grains of sand.",
	Caption:         "Space facts that will blow your mind 🤯 #space #science #facts",
	Hashtags:        []string{"#space", "#science", "#facts", "#mindblowing"},
	RenderSpec:      "Ken Burns zoom effect with dark overlay",
}
