// Package tts turns a narration script into an audio asset, either via the
// remote speech provider or as a silent placeholder so the system stays
// fully demoable with zero external accounts.
package tts

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"reelforge/internal/assetstore"
)

// ErrMissingCredential is returned only when the caller insists on real
// synthesis without a configured key; the default path silently demotes
// to mock instead.
var ErrMissingCredential = errors.New("tts: missing provider credential")

// Mode selects between real synthesis and the silent placeholder.
type Mode string

const (
	ModeReal Mode = "real"
	ModeMock Mode = "mock"
)

// SpeechClient is the remote text-to-speech boundary.
type SpeechClient interface {
	Speech(ctx context.Context, text string) ([]byte, error)
	HasCredential() bool
}

// Silencer produces fixed-duration silent audio locally.
type Silencer interface {
	Silence(ctx context.Context, outPath string, seconds float64) error
}

// Options control one synthesis call. RequireCredential turns the
// missing-key demotion into a hard ErrMissingCredential.
type Options struct {
	Mode              Mode
	RequireCredential bool
}

// Adapter synthesizes narration audio into the scratch store.
type Adapter struct {
	client         SpeechClient
	silencer       Silencer
	store          *assetstore.Store
	silenceSeconds float64
	log            *logrus.Logger
}

// New builds an adapter.
func New(client SpeechClient, silencer Silencer, store *assetstore.Store, silenceSeconds float64, log *logrus.Logger) *Adapter {
	return &Adapter{
		client:         client,
		silencer:       silencer,
		store:          store,
		silenceSeconds: silenceSeconds,
		log:            log,
	}
}

// WithClient returns a copy of the adapter bound to a different speech
// client, used when a request supplies its own provider key.
func (a *Adapter) WithClient(client SpeechClient) *Adapter {
	copied := *a
	copied.client = client
	return &copied
}

// Synthesize produces an audio asset for the script and returns its id.
// Pause markers like <#0.3#> stay in the text; they are a synthesis hint
// for the provider, not something the pipeline strips.
func (a *Adapter) Synthesize(ctx context.Context, script string, opts Options) (string, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeReal
	}

	if mode == ModeReal && !a.client.HasCredential() {
		if opts.RequireCredential {
			return "", ErrMissingCredential
		}
		a.log.Info("no speech credential configured, using silent placeholder")
		mode = ModeMock
	}

	if mode == ModeMock {
		return a.synthesizeSilence(ctx)
	}

	audio, err := a.client.Speech(ctx, script)
	if err != nil {
		return "", fmt.Errorf("speech synthesis: %w", err)
	}

	id, err := a.store.Write(assetstore.ExtAudio, audio)
	if err != nil {
		return "", err
	}
	a.log.WithFields(logrus.Fields{"asset": id, "bytes": len(audio)}).Info("narration synthesized")
	return id, nil
}

func (a *Adapter) synthesizeSilence(ctx context.Context) (string, error) {
	id := a.store.NewID()
	path := a.store.Path(id, assetstore.ExtAudio)
	if err := a.silencer.Silence(ctx, path, a.silenceSeconds); err != nil {
		return "", fmt.Errorf("silent placeholder: %w", err)
	}
	a.log.WithField("asset", id).Info("silent placeholder audio written")
	return id, nil
}
