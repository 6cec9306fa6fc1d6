package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"reelforge/internal/assetstore"
	"reelforge/models"
	"reelforge/utils"
)

// RenderRequest is the /render payload: the beats to burn in plus the two
// asset ids produced by the tts and video stages.
type RenderRequest struct {
	Beats        []models.Beat `json:"beats" validate:"required"`
	VideoAssetID string        `json:"videoAssetId" validate:"required"`
	AudioAssetID string        `json:"audioAssetId" validate:"required"`
}

// Render composites video, audio and burned-in subtitles into the final
// vertical MP4 and streams it back as a download.
func (h *ApplicationHandler) Render(c *fiber.Ctx) error {
	payload := new(RenderRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.FormatValidationErrors(err))
	}

	id, outPath, err := h.Coordinator.Render(c.Context(), payload.Beats, payload.VideoAssetID, payload.AudioAssetID)
	if err != nil {
		if errors.Is(err, assetstore.ErrNotFound) {
			return utils.RespondWithError(c, fiber.StatusNotFound, err.Error())
		}
		h.Logger.WithError(err).Error("render failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="tiktok_%s.mp4"`, id))
	return c.SendFile(outPath)
}
