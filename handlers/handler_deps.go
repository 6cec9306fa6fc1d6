package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"reelforge/config"
	"reelforge/internal/assetstore"
	"reelforge/internal/ffmpeg"
	"reelforge/internal/minimax"
	"reelforge/internal/pipeline"
	"reelforge/internal/runway"
	"reelforge/internal/tts"
	"reelforge/internal/videosource"
)

var validate = validator.New()

// ApplicationHandler holds shared dependencies for all route handlers.
type ApplicationHandler struct {
	Logger      *logrus.Logger
	Config      *config.Config
	Store       *assetstore.Store
	FFmpeg      *ffmpeg.FFmpeg
	TTS         *tts.Adapter
	Coordinator *pipeline.Coordinator
	Fetcher     *videosource.Fetcher
}

// NewApplicationHandler wires the handler dependency set.
func NewApplicationHandler(
	logger *logrus.Logger,
	cfg *config.Config,
	store *assetstore.Store,
	ff *ffmpeg.FFmpeg,
	adapter *tts.Adapter,
	coordinator *pipeline.Coordinator,
	fetcher *videosource.Fetcher,
) *ApplicationHandler {
	return &ApplicationHandler{
		Logger:      logger,
		Config:      cfg,
		Store:       store,
		FFmpeg:      ff,
		TTS:         adapter,
		Coordinator: coordinator,
		Fetcher:     fetcher,
	}
}

// minimaxClient builds a MiniMax client for this request, honoring a
// per-request key override from the X-Minimax-Api-Key header.
func (h *ApplicationHandler) minimaxClient(headerKey string) *minimax.Client {
	key := headerKey
	if key == "" {
		key = h.Config.MiniMax.APIKey
	}
	mm := h.Config.MiniMax
	return minimax.NewClient(key,
		minimax.WithBaseURL(mm.BaseURL),
		minimax.WithVoice(mm.VoiceID, mm.Speed),
		minimax.WithModels(mm.SpeechModel, mm.VideoModel),
		minimax.WithTaskBudget(mm.CreateTimeout, mm.PollInterval, mm.PollAttempts),
	)
}

// runwayClient builds a Runway client, honoring the X-Runway-Api-Key
// header override.
func (h *ApplicationHandler) runwayClient(headerKey string) *runway.Client {
	key := headerKey
	if key == "" {
		key = h.Config.Runway.APIKey
	}
	rw := h.Config.Runway
	return runway.NewClient(key,
		runway.WithBaseURL(rw.BaseURL),
		runway.WithModel(rw.Model, rw.Ratio),
		runway.WithTaskBudget(rw.CreateTimeout, rw.PollInterval, rw.PollBudget),
	)
}
