// Package pipeline drives one generation request: narration synthesis and
// video resolution run concurrently, then the compositor renders the final
// vertical clip once both asset branches have joined.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"reelforge/internal/assetstore"
	"reelforge/internal/subtitle"
	"reelforge/internal/tts"
	"reelforge/internal/videosource"
	"reelforge/models"
)

// State is the lifecycle of one generation request. Planning and hook
// selection happen upstream; the coordinator owns Generating onward.
type State string

const (
	StateIdle              State = "idle"
	StatePlanning          State = "planning"
	StateAwaitingSelection State = "awaiting_selection"
	StateGenerating        State = "generating"
	StateRendered          State = "rendered"
	StateFailed            State = "failed"
)

// Synthesizer is the audio branch boundary.
type Synthesizer interface {
	Synthesize(ctx context.Context, script string, opts tts.Options) (string, error)
}

// VideoResolver is the video branch boundary.
type VideoResolver interface {
	Resolve(ctx context.Context, req videosource.Request) (videosource.Resolution, error)
}

// Compositor is the terminal render boundary.
type Compositor interface {
	Composite(ctx context.Context, videoPath, audioPath, srtPath, outPath string) error
}

// Request describes one full generation run.
type Request struct {
	Script    string
	Beats     []models.Beat
	ImageURL  string
	Prompt    string
	FastMode  bool
	MockAudio bool
}

// Result is a finished generation.
type Result struct {
	State      State
	FinalID    string
	FinalPath  string
	AudioID    string
	VideoID    string
	Provenance videosource.Provenance
}

// Coordinator owns no cross-request state; everything is request-scoped.
type Coordinator struct {
	synth Synthesizer
	video VideoResolver
	comp  Compositor
	store *assetstore.Store
	log   *logrus.Logger
}

// New builds a coordinator.
func New(synth Synthesizer, video VideoResolver, comp Compositor, store *assetstore.Store, log *logrus.Logger) *Coordinator {
	return &Coordinator{synth: synth, video: video, comp: comp, store: store, log: log}
}

// Generate runs the Generating stage: both asset branches concurrently,
// then the strictly sequential render. Provider fallback happens inside
// the video branch and never aborts the run; an unrecovered failure in
// either branch fails the whole request with no partial render, leaving
// the caller free to retry without re-planning.
func (c *Coordinator) Generate(ctx context.Context, req Request) (Result, error) {
	c.log.WithFields(logrus.Fields{"state": StateGenerating, "fast_mode": req.FastMode}).Info("generation started")

	var (
		wg       sync.WaitGroup
		audioID  string
		audioErr error
		res      videosource.Resolution
		videoErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		mode := tts.ModeReal
		if req.MockAudio {
			mode = tts.ModeMock
		}
		audioID, audioErr = c.synth.Synthesize(ctx, req.Script, tts.Options{Mode: mode})
	}()
	go func() {
		defer wg.Done()
		res, videoErr = c.video.Resolve(ctx, videosource.Request{
			ImageURL: req.ImageURL,
			Prompt:   req.Prompt,
			FastMode: req.FastMode,
		})
	}()
	wg.Wait()

	if audioErr != nil {
		c.log.WithField("state", StateFailed).WithError(audioErr).Error("audio branch failed")
		return Result{State: StateFailed}, fmt.Errorf("audio branch: %w", audioErr)
	}
	if videoErr != nil {
		c.log.WithField("state", StateFailed).WithError(videoErr).Error("video branch failed")
		return Result{State: StateFailed}, fmt.Errorf("video branch: %w", videoErr)
	}

	finalID, finalPath, err := c.Render(ctx, req.Beats, res.AssetID, audioID)
	if err != nil {
		c.log.WithField("state", StateFailed).WithError(err).Error("render failed")
		return Result{State: StateFailed}, err
	}

	c.log.WithFields(logrus.Fields{
		"state":      StateRendered,
		"final":      finalID,
		"provenance": res.Provenance,
	}).Info("generation finished")

	return Result{
		State:      StateRendered,
		FinalID:    finalID,
		FinalPath:  finalPath,
		AudioID:    audioID,
		VideoID:    res.AssetID,
		Provenance: res.Provenance,
	}, nil
}

// Render composites existing audio and video assets with subtitles built
// from the beats. Inputs are retained afterwards for debuggability.
func (c *Coordinator) Render(ctx context.Context, beats []models.Beat, videoID, audioID string) (string, string, error) {
	videoPath, err := c.store.Resolve(videoID, assetstore.ExtVideo)
	if err != nil {
		return "", "", err
	}
	audioPath, err := c.store.Resolve(audioID, assetstore.ExtAudio)
	if err != nil {
		return "", "", err
	}

	id := c.store.NewID()
	srtPath := c.store.Path(id, assetstore.ExtSubtitle)
	if err := os.WriteFile(srtPath, []byte(subtitle.Format(beats)), 0o644); err != nil {
		return "", "", fmt.Errorf("write subtitles: %w", err)
	}

	outPath := c.store.FinalPath(id)
	if err := c.comp.Composite(ctx, videoPath, audioPath, srtPath, outPath); err != nil {
		return "", "", fmt.Errorf("render failed: %w", err)
	}
	return id, outPath, nil
}
