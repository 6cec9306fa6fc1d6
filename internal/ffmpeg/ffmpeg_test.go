package ffmpeg

import (
	"strings"
	"testing"

	"reelforge/config"
)

func testRender() config.RenderConfig {
	return config.RenderConfig{
		Width:           1080,
		Height:          1920,
		FPS:             30,
		FallbackSeconds: 6,
		ZoomStep:        0.0015,
		MaxZoom:         1.5,
		SilenceSeconds:  5,
		SubtitleStyle:   config.DefaultSubtitleStyle,
	}
}

func indexOf(args []string, want string) int {
	for i, a := range args {
		if a == want {
			return i
		}
	}
	return -1
}

func TestSilenceArgs(t *testing.T) {
	args := silenceArgs("/tmp/out.mp3", 5)

	if i := indexOf(args, "anullsrc"); i < 0 {
		t.Fatalf("silence must use the anullsrc source, args: %v", args)
	}
	if i := indexOf(args, "-t"); i < 0 || args[i+1] != "5.000" {
		t.Fatalf("silence must be exactly 5s, args: %v", args)
	}
	if i := indexOf(args, "lavfi"); i < 0 {
		t.Fatalf("anullsrc requires the lavfi input format, args: %v", args)
	}
}

func TestKenBurnsArgsZoomIsBoundedAndSmooth(t *testing.T) {
	args := kenBurnsArgs("/tmp/in.jpg", "/tmp/out.mp4", testRender())

	i := indexOf(args, "-filter_complex")
	if i < 0 {
		t.Fatalf("missing filter, args: %v", args)
	}
	filter := args[i+1]

	if !strings.Contains(filter, "zoompan=z='min(zoom+0.0015,1.5)'") {
		t.Errorf("zoom must step 0.0015/frame and cap at 1.5: %s", filter)
	}
	if !strings.Contains(filter, "d=180") {
		t.Errorf("6s at 30fps is 180 frames: %s", filter)
	}
	if !strings.Contains(filter, "x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)'") {
		t.Errorf("zoom must stay center-anchored: %s", filter)
	}
	if !strings.Contains(filter, "s=1080x1920") {
		t.Errorf("output frame must be 1080x1920: %s", filter)
	}
	if !strings.Contains(filter, "scale=-2:1920") {
		t.Errorf("image must be scaled to fill the frame height first: %s", filter)
	}
}

func TestCompositeArgsAudioGovernsDuration(t *testing.T) {
	args := compositeArgs("/tmp/v.mp4", "/tmp/a.mp3", "/tmp/s.srt", "/tmp/final.mp4", testRender())

	// Video loops forever and the mux stops with the shortest stream, so
	// the audio track always governs the output duration.
	if i := indexOf(args, "-stream_loop"); i < 0 || args[i+1] != "-1" {
		t.Fatalf("video input must loop indefinitely, args: %v", args)
	}
	if indexOf(args, "-shortest") < 0 {
		t.Fatalf("mux must truncate to the shorter stream, args: %v", args)
	}

	i := indexOf(args, "-filter_complex")
	if i < 0 {
		t.Fatalf("missing filter, args: %v", args)
	}
	filter := args[i+1]
	if !strings.Contains(filter, "scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920") {
		t.Errorf("video must cover-crop to the vertical frame: %s", filter)
	}
	if !strings.Contains(filter, "subtitles='/tmp/s.srt'") {
		t.Errorf("subtitles must be burned in via the subtitles filter: %s", filter)
	}
	if !strings.Contains(filter, "force_style='"+config.DefaultSubtitleStyle+"'") {
		t.Errorf("subtitle style missing: %s", filter)
	}

	for _, codec := range []string{"libx264", "aac", "yuv420p"} {
		if indexOf(args, codec) < 0 {
			t.Errorf("missing %s in args: %v", codec, args)
		}
	}
}

func TestEscapeFilterPath(t *testing.T) {
	cases := map[string]string{
		"/tmp/a.srt":      "/tmp/a.srt",
		"C:\\work\\a.srt": "C\\:/work/a.srt",
		"/tmp/we:ird.srt": "/tmp/we\\:ird.srt",
	}
	for in, want := range cases {
		if got := EscapeFilterPath(in); got != want {
			t.Errorf("EscapeFilterPath(%q) = %q, want %q", in, got, want)
		}
	}
}
