package styles

import (
	"strings"
	"testing"

	"reelforge/models"
)

func samplePlan() models.Plan {
	return models.Plan{
		ChosenHook:      "3 mind-blowing facts about space.",
		VoiceoverScript: "Space is silent! Please listen closely, you will love this.",
		Caption:         "Space facts #space #science",
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	original := samplePlan()
	_ = Apply(original, HighEnergy)
	if original.ChosenHook != samplePlan().ChosenHook {
		t.Fatal("Apply must operate on a copy")
	}
}

func TestApplyVariants(t *testing.T) {
	if got := Apply(samplePlan(), GenZ); !strings.HasSuffix(got.ChosenHook, "fr fr 💀") {
		t.Errorf("gen_z hook: %q", got.ChosenHook)
	}
	if got := Apply(samplePlan(), Storytime); !strings.HasPrefix(got.VoiceoverScript, "So, story time. ") {
		t.Errorf("storytime script: %q", got.VoiceoverScript)
	}
	if got := Apply(samplePlan(), BrandSafe); strings.Contains(got.VoiceoverScript, "!") || strings.Contains(got.Caption, "#") {
		t.Errorf("brand_safe output still loud: %q %q", got.VoiceoverScript, got.Caption)
	}
	if got := Apply(samplePlan(), HighEnergy); !strings.HasPrefix(got.ChosenHook, "WAIT! ") {
		t.Errorf("high_energy hook: %q", got.ChosenHook)
	}
	if got := Apply(samplePlan(), Variant("unknown")); got.ChosenHook != samplePlan().ChosenHook {
		t.Error("unknown variant must be a no-op")
	}
}

func TestScoreAdRisk(t *testing.T) {
	organic := ScoreAdRisk("Here is a quiet story about my garden.")
	if organic.Score != 1 || organic.Reason != "Low risk" {
		t.Errorf("organic copy scored %+v", organic)
	}

	salesy := ScoreAdRisk("Buy now! Use my code SAVE20 for the best discount, limited time!")
	if salesy.Score < 4 {
		t.Errorf("salesy copy under-scored: %+v", salesy)
	}
	if !strings.Contains(salesy.Reason, "Direct sales language") {
		t.Errorf("missing sales reason: %+v", salesy)
	}
	if salesy.Suggestion == "Content looks organic." {
		t.Error("salesy copy must get a rewrite suggestion")
	}
}

func TestSoftenAdCopy(t *testing.T) {
	plan := models.Plan{
		VoiceoverScript: "Buy now and order today, use my code SAVE20.",
		Caption:         "great stuff #ad #fyp",
	}
	got := SoftenAdCopy(plan)
	for _, banned := range []string{"Buy now", "order today", "use my code"} {
		if strings.Contains(got.VoiceoverScript, banned) {
			t.Errorf("%q survived the rewrite: %q", banned, got.VoiceoverScript)
		}
	}
	if strings.Contains(got.Caption, "#ad") {
		t.Errorf("#ad survived: %q", got.Caption)
	}
}
