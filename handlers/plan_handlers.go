package handlers

import (
	"github.com/gofiber/fiber/v2"

	"reelforge/internal/plan"
	"reelforge/internal/styles"
	"reelforge/utils"
)

// PlanRequest asks the demo plan producer for a creative plan. Style
// optionally applies one of the tone presets; SoftenAd runs the ad-copy
// rewrite on top.
type PlanRequest struct {
	Prompt   string `json:"prompt" validate:"required"`
	Style    string `json:"style"`
	SoftenAd bool   `json:"softenAd"`
}

// CreatePlan returns a structured creative plan for a prompt, with an
// ad-risk report over the voiceover script. The language-model planner is
// an external collaborator; this endpoint serves the offline demo plan.
func (h *ApplicationHandler) CreatePlan(c *fiber.Ctx) error {
	payload := new(PlanRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.FormatValidationErrors(err))
	}

	p := plan.Demo(payload.Prompt)
	if payload.Style != "" {
		p = styles.Apply(p, styles.Variant(payload.Style))
	}
	if payload.SoftenAd {
		p = styles.SoftenAdCopy(p)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"plan":    p,
		"ad_risk": styles.ScoreAdRisk(p.VoiceoverScript + " " + p.Caption),
	})
}
