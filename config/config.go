package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything resolved once at process start. The ffmpeg and
// ffprobe paths in particular are looked up here and passed by reference
// into the components that shell out; nothing re-resolves them per call.
type Config struct {
	Port     string        `yaml:"port"`
	LogLevel string        `yaml:"log_level"`
	Scratch  string        `yaml:"scratch_dir"`
	Render   RenderConfig  `yaml:"render"`
	MiniMax  MiniMaxConfig `yaml:"minimax"`
	Runway   RunwayConfig  `yaml:"runway"`

	FFmpegPath  string `yaml:"-"`
	FFprobePath string `yaml:"-"`
}

// RenderConfig controls the output frame and the local fallback animation.
type RenderConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	FPS             int     `yaml:"fps"`
	FallbackSeconds float64 `yaml:"fallback_seconds"`
	ZoomStep        float64 `yaml:"zoom_step"`
	MaxZoom         float64 `yaml:"max_zoom"`
	SilenceSeconds  float64 `yaml:"silence_seconds"`
	SubtitleStyle   string  `yaml:"subtitle_style"`
}

// MiniMaxConfig configures the primary provider (speech + video).
type MiniMaxConfig struct {
	APIKey        string        `yaml:"-"`
	BaseURL       string        `yaml:"base_url"`
	VoiceID       string        `yaml:"voice_id"`
	SpeechModel   string        `yaml:"speech_model"`
	VideoModel    string        `yaml:"video_model"`
	Speed         float64       `yaml:"speed"`
	CreateTimeout time.Duration `yaml:"-"`
	PollInterval  time.Duration `yaml:"-"`
	PollAttempts  int           `yaml:"poll_attempts"`
}

// RunwayConfig configures the optional premium provider.
type RunwayConfig struct {
	APIKey        string        `yaml:"-"`
	BaseURL       string        `yaml:"base_url"`
	Model         string        `yaml:"model"`
	Ratio         string        `yaml:"ratio"`
	Enabled       bool          `yaml:"enabled"`
	CreateTimeout time.Duration `yaml:"-"`
	PollInterval  time.Duration `yaml:"-"`
	PollBudget    time.Duration `yaml:"-"`
}

// DefaultSubtitleStyle matches the burned-in look used across renders:
// white sans-serif with an opaque box, anchored in the lower third.
const DefaultSubtitleStyle = "Fontname=Arial,FontSize=20,PrimaryColour=&H00FFFFFF,BorderStyle=3,Outline=1,Shadow=0,MarginV=60"

// Load reads the optional YAML file, overlays environment variables
// (a local .env is honored if present) and resolves the ffmpeg binaries.
func Load(path string) (*Config, error) {
	// .env is optional; missing file is not an error.
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SCRATCH_DIR"); v != "" {
		cfg.Scratch = v
	}
	cfg.MiniMax.APIKey = os.Getenv("MINIMAX_API_KEY")
	cfg.Runway.APIKey = os.Getenv("RUNWAY_API_KEY")
	if v := os.Getenv("RUNWAY_ENABLED"); v != "" {
		cfg.Runway.Enabled = strings.EqualFold(v, "true") || v == "1"
	}

	if cfg.Scratch == "" {
		cfg.Scratch = filepath.Join(os.TempDir(), "reelforge")
	}
	if err := os.MkdirAll(cfg.Scratch, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir %s: %w", cfg.Scratch, err)
	}

	var err error
	cfg.FFmpegPath, err = ResolveBinary("ffmpeg", os.Getenv("FFMPEG_PATH"))
	if err != nil {
		return nil, err
	}
	cfg.FFprobePath, err = ResolveBinary("ffprobe", os.Getenv("FFPROBE_PATH"))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		Render: RenderConfig{
			Width:           1080,
			Height:          1920,
			FPS:             30,
			FallbackSeconds: 6,
			ZoomStep:        0.0015,
			MaxZoom:         1.5,
			SilenceSeconds:  5,
			SubtitleStyle:   DefaultSubtitleStyle,
		},
		MiniMax: MiniMaxConfig{
			BaseURL:       "https://api.minimax.io/v1",
			VoiceID:       "male-qn-qingse",
			SpeechModel:   "speech-01-turbo",
			VideoModel:    "video-01",
			Speed:         1.2,
			CreateTimeout: 10 * time.Second,
			PollInterval:  2 * time.Second,
			PollAttempts:  45,
		},
		Runway: RunwayConfig{
			BaseURL:       "https://api.dev.runwayml.com/v1",
			Model:         "gen3a_turbo",
			Ratio:         "768:1280",
			CreateTimeout: 10 * time.Second,
			PollInterval:  2 * time.Second,
			PollBudget:    60 * time.Second,
		},
	}
}

// ResolveBinary locates an executable once at startup. An explicit
// override wins; otherwise PATH is consulted, then a couple of common
// install locations.
func ResolveBinary(name, override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override, nil
		}
		return "", fmt.Errorf("%s override %q does not exist", name, override)
	}

	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}

	candidates := []string{
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/opt/homebrew/bin", name),
		filepath.Join("/usr/bin", name),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}

	return "", fmt.Errorf("%s binary not found in PATH or standard locations", name)
}
