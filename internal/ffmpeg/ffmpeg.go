// Package ffmpeg wraps the ffmpeg and ffprobe binaries for the handful of
// media transforms the pipeline needs: silent placeholder audio, the local
// zoom-in fallback clip, the final composite and duration probing.
package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"reelforge/config"
)

// FFmpeg shells out to binaries whose paths were resolved once at startup.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	render      config.RenderConfig
	log         *logrus.Logger
}

// New builds a wrapper around the configured binaries.
func New(cfg *config.Config, log *logrus.Logger) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  cfg.FFmpegPath,
		ffprobePath: cfg.FFprobePath,
		render:      cfg.Render,
		log:         log,
	}
}

// Silence writes a silent audio placeholder of the given duration. This is
// the zero-credential speech path, so it must not touch the network.
func (f *FFmpeg) Silence(ctx context.Context, outPath string, seconds float64) error {
	return f.run(ctx, silenceArgs(outPath, seconds))
}

// KenBurns animates a still image into a vertical clip with a smooth
// center-anchored zoom.
func (f *FFmpeg) KenBurns(ctx context.Context, imagePath, outPath string) error {
	return f.run(ctx, kenBurnsArgs(imagePath, outPath, f.render))
}

// Composite produces the finished vertical MP4: the video stream is looped
// and cover-cropped to the target frame, subtitles are burned into the
// pixels, and the mux stops at the end of the audio track.
func (f *FFmpeg) Composite(ctx context.Context, videoPath, audioPath, srtPath, outPath string) error {
	return f.run(ctx, compositeArgs(videoPath, audioPath, srtPath, outPath, f.render))
}

// Duration probes a media file's container duration.
func (f *FFmpeg) Duration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w: %s", err, stderr.String())
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if probe.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe reported no duration for %s", path)
	}
	secs, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", probe.Format.Duration, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	f.log.WithField("args", strings.Join(args, " ")).Debug("running ffmpeg")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func silenceArgs(outPath string, seconds float64) []string {
	return []string{
		"-y",
		"-f", "lavfi",
		"-i", "anullsrc",
		"-t", fmt.Sprintf("%.3f", seconds),
		outPath,
	}
}

func kenBurnsArgs(imagePath, outPath string, r config.RenderConfig) []string {
	frames := int(r.FallbackSeconds * float64(r.FPS))
	// Scale so the shorter dimension fills the frame height, then zoom in
	// monotonically up to MaxZoom, re-cropping around the center each frame.
	filter := fmt.Sprintf(
		"scale=-2:%d,zoompan=z='min(zoom+%g,%g)':d=%d:x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':s=%dx%d",
		r.Height, r.ZoomStep, r.MaxZoom, frames, r.Width, r.Height,
	)
	return []string{
		"-y",
		"-loop", "1",
		"-t", fmt.Sprintf("%.3f", r.FallbackSeconds),
		"-i", imagePath,
		"-filter_complex", filter,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-t", fmt.Sprintf("%.3f", r.FallbackSeconds),
		"-r", strconv.Itoa(r.FPS),
		outPath,
	}
}

func compositeArgs(videoPath, audioPath, srtPath, outPath string, r config.RenderConfig) []string {
	filter := fmt.Sprintf(
		"[0:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d[vscaled];"+
			"[vscaled]subtitles='%s':force_style='%s'[vfinal]",
		r.Width, r.Height, r.Width, r.Height,
		EscapeFilterPath(srtPath), r.SubtitleStyle,
	)
	return []string{
		"-y",
		"-stream_loop", "-1",
		"-i", videoPath,
		"-i", audioPath,
		"-filter_complex", filter,
		"-map", "[vfinal]",
		"-map", "1:a:0",
		"-c:v", "libx264",
		"-c:a", "aac",
		"-pix_fmt", "yuv420p",
		"-shortest",
		outPath,
	}
}

// EscapeFilterPath makes a filesystem path safe for embedding inside an
// ffmpeg filter expression, where colons separate filter options.
func EscapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.ReplaceAll(p, ":", "\\:")
}
