package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"reelforge/internal/tts"
	"reelforge/utils"
)

// SynthesizeRequest is the /tts payload. Mock forces the silent
// placeholder; otherwise real synthesis is attempted and silently demoted
// to mock when no credential is available.
type SynthesizeRequest struct {
	Text string `json:"text"`
	Mock bool   `json:"mock"`
}

// SynthesizeSpeech turns a narration script into an audio asset.
func (h *ApplicationHandler) SynthesizeSpeech(c *fiber.Ctx) error {
	payload := new(SynthesizeRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	adapter := h.TTS
	if headerKey := c.Get("X-Minimax-Api-Key"); headerKey != "" {
		adapter = adapter.WithClient(h.minimaxClient(headerKey))
	}

	mode := tts.ModeReal
	if payload.Mock {
		mode = tts.ModeMock
	} else if payload.Text == "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "missing text")
	}

	id, err := adapter.Synthesize(c.Context(), payload.Text, tts.Options{Mode: mode})
	if err != nil {
		h.Logger.WithError(err).Error("speech synthesis failed")
		if errors.Is(err, tts.ErrMissingCredential) {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, err.Error())
		}
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"audioAssetId": id})
}
