package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"reelforge/internal/assetstore"
	"reelforge/internal/tts"
	"reelforge/internal/videosource"
	"reelforge/models"
)

type fakeSynth struct {
	store *assetstore.Store
	err   error
	mode  tts.Mode
	calls int32
}

func (f *fakeSynth) Synthesize(ctx context.Context, script string, opts tts.Options) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mode = opts.Mode
	if f.err != nil {
		return "", f.err
	}
	return f.store.Write(assetstore.ExtAudio, []byte("audio"))
}

type fakeResolver struct {
	store *assetstore.Store
	err   error
	calls int32
}

func (f *fakeResolver) Resolve(ctx context.Context, req videosource.Request) (videosource.Resolution, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return videosource.Resolution{}, f.err
	}
	id, err := f.store.Write(assetstore.ExtVideo, []byte("video"))
	if err != nil {
		return videosource.Resolution{}, err
	}
	return videosource.Resolution{AssetID: id, Provenance: videosource.ProvenanceFallback}, nil
}

type fakeCompositor struct {
	calls   int32
	srtSeen string
	err     error
}

func (f *fakeCompositor) Composite(ctx context.Context, videoPath, audioPath, srtPath, outPath string) error {
	atomic.AddInt32(&f.calls, 1)
	data, err := os.ReadFile(srtPath)
	if err != nil {
		return err
	}
	f.srtSeen = string(data)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outPath, []byte("final"), 0o644)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newCoordinator(t *testing.T, synthErr, videoErr, compErr error) (*Coordinator, *fakeSynth, *fakeResolver, *fakeCompositor, *assetstore.Store) {
	t.Helper()
	store, err := assetstore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	synth := &fakeSynth{store: store, err: synthErr}
	resolver := &fakeResolver{store: store, err: videoErr}
	comp := &fakeCompositor{err: compErr}
	return New(synth, resolver, comp, store, quietLogger()), synth, resolver, comp, store
}

func TestGenerateEndToEnd(t *testing.T) {
	coord, synth, resolver, comp, store := newCoordinator(t, nil, nil, nil)

	beats := []models.Beat{
		{TStart: 0, TEnd: 2, Text: "A"},
		{TStart: 2, TEnd: 4, Text: "B"},
		{TStart: 4, TEnd: 6.5, Text: "C"},
	}
	res, err := coord.Generate(context.Background(), Request{
		Script:    "A <#0.3#> B <#0.3#> C",
		Beats:     beats,
		ImageURL:  "https://img.example/a.jpg",
		Prompt:    "zoom",
		FastMode:  true,
		MockAudio: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != StateRendered {
		t.Fatalf("expected rendered state, got %s", res.State)
	}
	if res.Provenance != videosource.ProvenanceFallback {
		t.Fatalf("provenance must pass through, got %s", res.Provenance)
	}
	if synth.mode != tts.ModeMock {
		t.Fatalf("mock audio request must reach the synthesizer, got %s", synth.mode)
	}
	if synth.calls != 1 || resolver.calls != 1 || comp.calls != 1 {
		t.Fatalf("each stage should run once: %d %d %d", synth.calls, resolver.calls, comp.calls)
	}

	// Subtitle document burned at render time: exactly 3 numbered cues.
	if n := strings.Count(comp.srtSeen, "-->"); n != 3 {
		t.Fatalf("expected 3 cues in subtitle document, got %d:\n%s", n, comp.srtSeen)
	}
	for _, text := range []string{"A", "B", "C"} {
		if !strings.Contains(comp.srtSeen, "\n"+text+"\n") {
			t.Errorf("cue text %q missing from subtitle document", text)
		}
	}

	if _, err := os.Stat(res.FinalPath); err != nil {
		t.Fatalf("final asset missing: %v", err)
	}
	if _, err := store.Resolve(res.AudioID, assetstore.ExtAudio); err != nil {
		t.Fatalf("input audio must be retained after render: %v", err)
	}
	if _, err := store.Resolve(res.VideoID, assetstore.ExtVideo); err != nil {
		t.Fatalf("input video must be retained after render: %v", err)
	}
}

func TestGenerateAudioFailureAbortsWithoutRender(t *testing.T) {
	wantErr := errors.New("synthesis exploded")
	coord, _, resolver, comp, _ := newCoordinator(t, wantErr, nil, nil)

	res, err := coord.Generate(context.Background(), Request{Script: "s", ImageURL: "i", Prompt: "p"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected synthesis error, got %v", err)
	}
	if res.State != StateFailed {
		t.Fatalf("expected failed state, got %s", res.State)
	}
	if comp.calls != 0 {
		t.Fatal("no partial render may be attempted")
	}
	if resolver.calls != 1 {
		t.Fatal("video branch still runs; both branches are joined before deciding")
	}
}

func TestGenerateVideoFailureAbortsWithoutRender(t *testing.T) {
	coord, _, _, comp, _ := newCoordinator(t, nil, videosource.ErrExhausted, nil)

	_, err := coord.Generate(context.Background(), Request{Script: "s", ImageURL: "i", Prompt: "p"})
	if !errors.Is(err, videosource.ErrExhausted) {
		t.Fatalf("expected resolution exhaustion, got %v", err)
	}
	if comp.calls != 0 {
		t.Fatal("no partial render may be attempted")
	}
}

func TestRenderMissingAssets(t *testing.T) {
	coord, _, _, _, store := newCoordinator(t, nil, nil, nil)

	audioID, err := store.Write(assetstore.ExtAudio, []byte("audio"))
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = coord.Render(context.Background(), nil, "missing-video", audioID)
	if !errors.Is(err, assetstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing video, got %v", err)
	}

	videoID, err := store.Write(assetstore.ExtVideo, []byte("video"))
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = coord.Render(context.Background(), nil, videoID, "missing-audio")
	if !errors.Is(err, assetstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing audio, got %v", err)
	}
}

func TestRenderSurfacesCompositorDiagnostics(t *testing.T) {
	compErr := errors.New("Error while filtering: subtitle stream not found")
	coord, _, _, _, store := newCoordinator(t, nil, nil, compErr)

	audioID, _ := store.Write(assetstore.ExtAudio, []byte("a"))
	videoID, _ := store.Write(assetstore.ExtVideo, []byte("v"))

	_, _, err := coord.Render(context.Background(), nil, videoID, audioID)
	if !errors.Is(err, compErr) {
		t.Fatalf("compositor diagnostics must propagate verbatim, got %v", err)
	}
}
