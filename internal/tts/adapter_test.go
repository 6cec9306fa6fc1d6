package tts

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"reelforge/internal/assetstore"
)

type fakeSpeech struct {
	audio      []byte
	err        error
	credential bool
	calls      int
}

func (f *fakeSpeech) Speech(ctx context.Context, text string) ([]byte, error) {
	f.calls++
	return f.audio, f.err
}

func (f *fakeSpeech) HasCredential() bool { return f.credential }

type fakeSilencer struct {
	calls   int
	seconds float64
}

func (f *fakeSilencer) Silence(ctx context.Context, outPath string, seconds float64) error {
	f.calls++
	f.seconds = seconds
	return os.WriteFile(outPath, []byte("silence"), 0o644)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAdapter(t *testing.T, client *fakeSpeech, silencer *fakeSilencer) (*Adapter, *assetstore.Store) {
	t.Helper()
	store, err := assetstore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(client, silencer, store, 5, quietLogger()), store
}

func TestMockModeBypassesProvider(t *testing.T) {
	client := &fakeSpeech{credential: true, audio: []byte("real audio")}
	silencer := &fakeSilencer{}
	adapter, store := newAdapter(t, client, silencer)

	id, err := adapter.Synthesize(context.Background(), "any script at all", Options{Mode: ModeMock})
	if err != nil {
		t.Fatal(err)
	}
	if client.calls != 0 {
		t.Fatal("mock mode must not touch the network")
	}
	if silencer.calls != 1 || silencer.seconds != 5 {
		t.Fatalf("expected one 5s silent asset, got %d calls (%.1fs)", silencer.calls, silencer.seconds)
	}
	if _, err := store.Resolve(id, assetstore.ExtAudio); err != nil {
		t.Fatalf("silent asset missing: %v", err)
	}
}

func TestRealModeWithoutCredentialDemotesToMock(t *testing.T) {
	client := &fakeSpeech{credential: false}
	silencer := &fakeSilencer{}
	adapter, _ := newAdapter(t, client, silencer)

	_, err := adapter.Synthesize(context.Background(), "script", Options{Mode: ModeReal})
	if err != nil {
		t.Fatalf("missing credential must demote to mock, got %v", err)
	}
	if client.calls != 0 || silencer.calls != 1 {
		t.Fatalf("expected silent fallback, provider=%d silencer=%d", client.calls, silencer.calls)
	}
}

func TestForcedRealWithoutCredentialFails(t *testing.T) {
	adapter, _ := newAdapter(t, &fakeSpeech{credential: false}, &fakeSilencer{})

	_, err := adapter.Synthesize(context.Background(), "script", Options{Mode: ModeReal, RequireCredential: true})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestRealModeWritesProviderAudio(t *testing.T) {
	client := &fakeSpeech{credential: true, audio: []byte("narrated bytes")}
	adapter, store := newAdapter(t, client, &fakeSilencer{})

	id, err := adapter.Synthesize(context.Background(), "Space is silent. <#0.3#> Really.", Options{Mode: ModeReal})
	if err != nil {
		t.Fatal(err)
	}
	p, err := store.Resolve(id, assetstore.ExtAudio)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(p)
	if string(data) != "narrated bytes" {
		t.Fatalf("provider audio not persisted verbatim: %q", data)
	}
}

func TestProviderErrorPropagates(t *testing.T) {
	wantErr := errors.New("provider exploded")
	adapter, _ := newAdapter(t, &fakeSpeech{credential: true, err: wantErr}, &fakeSilencer{})

	_, err := adapter.Synthesize(context.Background(), "script", Options{Mode: ModeReal})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
