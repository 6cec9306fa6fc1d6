package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"reelforge/internal/videosource"
	"reelforge/utils"
)

// ResolveVideoRequest is the /video payload. FastMode skips every remote
// provider and animates the source image locally.
type ResolveVideoRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
	Prompt   string `json:"prompt" validate:"required"`
	FastMode bool   `json:"fastMode"`
}

// ResolveVideo produces a vertical clip for an image and prompt via the
// provider fallback chain, disclosing which path produced it.
func (h *ApplicationHandler) ResolveVideo(c *fiber.Ctx) error {
	client := h.minimaxClient(c.Get("X-Minimax-Api-Key"))
	if !client.HasCredential() {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "missing API key")
	}

	payload := new(ResolveVideoRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.FormatValidationErrors(err))
	}

	resolver := videosource.NewResolver(h.Logger,
		videosource.NewMiniMaxStrategy(client, h.Fetcher, h.Store),
		videosource.NewFallbackStrategy(h.Fetcher, h.FFmpeg, h.Store),
	)

	res, err := resolver.Resolve(c.Context(), videosource.Request{
		ImageURL: payload.ImageURL,
		Prompt:   payload.Prompt,
		FastMode: payload.FastMode,
	})
	if err != nil {
		h.Logger.WithError(err).Error("video resolution exhausted")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"videoAssetId": res.AssetID,
		"provider":     res.Provenance,
	})
}

// RunwayVideoRequest is the /video/runway payload.
type RunwayVideoRequest struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

// ResolveVideoRunway is the best-effort premium endpoint. It answers
// HTTP 200 with an embedded success flag so the caller can distinguish
// "try the fallback chain" from a hard transport error; only a malformed
// request gets a 4xx.
func (h *ApplicationHandler) ResolveVideoRunway(c *fiber.Ctx) error {
	client := h.runwayClient(c.Get("X-Runway-Api-Key"))
	if !client.HasCredential() {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"reason":  "missing RUNWAY_API_KEY",
		})
	}

	payload := new(RunwayVideoRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"reason":  "invalid request body: " + err.Error(),
		})
	}
	if payload.ImageURL == "" || payload.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"reason":  "missing image or prompt",
		})
	}

	strategy := videosource.NewRunwayStrategy(client, h.Fetcher, h.Store)
	id, err := strategy.Resolve(c.Context(), videosource.Request{
		ImageURL: payload.ImageURL,
		Prompt:   payload.Prompt,
	})
	if err != nil {
		if !errors.Is(err, videosource.ErrNoCredential) {
			h.Logger.WithError(err).Warn("runway generation failed")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"reason":  err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":      true,
		"videoAssetId": id,
		"provider":     videosource.ProvenanceRunway,
	})
}
