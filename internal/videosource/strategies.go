package videosource

import (
	"context"
	"fmt"
	"os"

	"reelforge/internal/assetstore"
	"reelforge/internal/minimax"
	"reelforge/internal/runway"
)

// runwayClipSeconds is what Runway's gen3 models accept (5 or 10).
const runwayClipSeconds = 5

// remoteStrategy is one remote provider link: generate a clip via the
// provider's async task pattern, then download it into scratch storage.
type remoteStrategy struct {
	name       string
	provenance Provenance
	credential func() bool
	generate   func(ctx context.Context, imageURL, prompt string) (string, error)
	fetcher    *Fetcher
	store      *assetstore.Store
}

func (s *remoteStrategy) Name() string           { return s.name }
func (s *remoteStrategy) Provenance() Provenance { return s.provenance }
func (s *remoteStrategy) Remote() bool           { return true }

func (s *remoteStrategy) Resolve(ctx context.Context, req Request) (string, error) {
	if !s.credential() {
		return "", ErrNoCredential
	}

	downloadURL, err := s.generate(ctx, req.ImageURL, req.Prompt)
	if err != nil {
		return "", err
	}

	clip, err := s.fetcher.Download(ctx, downloadURL)
	if err != nil {
		return "", fmt.Errorf("%s result: %w", s.name, err)
	}
	return s.store.Write(assetstore.ExtVideo, clip)
}

// NewMiniMaxStrategy wires the primary provider into the chain.
func NewMiniMaxStrategy(client *minimax.Client, fetcher *Fetcher, store *assetstore.Store) Strategy {
	return &remoteStrategy{
		name:       "minimax",
		provenance: ProvenanceMiniMax,
		credential: client.HasCredential,
		generate:   client.GenerateVideo,
		fetcher:    fetcher,
		store:      store,
	}
}

// NewRunwayStrategy wires the premium provider into the chain.
func NewRunwayStrategy(client *runway.Client, fetcher *Fetcher, store *assetstore.Store) Strategy {
	return &remoteStrategy{
		name:       "runway",
		provenance: ProvenanceRunway,
		credential: client.HasCredential,
		generate: func(ctx context.Context, imageURL, prompt string) (string, error) {
			return client.GenerateVideo(ctx, imageURL, prompt, runwayClipSeconds)
		},
		fetcher: fetcher,
		store:   store,
	}
}

// Animator turns a still image into the deterministic zoom-in clip.
type Animator interface {
	KenBurns(ctx context.Context, imagePath, outPath string) error
}

type fallbackStrategy struct {
	fetcher  *Fetcher
	animator Animator
	store    *assetstore.Store
}

// NewFallbackStrategy wires the terminal local link: its only network
// dependency is fetching the source image.
func NewFallbackStrategy(fetcher *Fetcher, animator Animator, store *assetstore.Store) Strategy {
	return &fallbackStrategy{fetcher: fetcher, animator: animator, store: store}
}

func (s *fallbackStrategy) Name() string           { return "fallback" }
func (s *fallbackStrategy) Provenance() Provenance { return ProvenanceFallback }
func (s *fallbackStrategy) Remote() bool           { return false }

func (s *fallbackStrategy) Resolve(ctx context.Context, req Request) (string, error) {
	image, err := s.fetcher.Download(ctx, req.ImageURL)
	if err != nil {
		return "", fmt.Errorf("fallback source image: %w", err)
	}

	id := s.store.NewID()
	imagePath := s.store.SourceImagePath(id)
	if err := os.WriteFile(imagePath, image, 0o644); err != nil {
		return "", fmt.Errorf("write source image: %w", err)
	}

	outPath := s.store.Path(id, assetstore.ExtVideo)
	if err := s.animator.KenBurns(ctx, imagePath, outPath); err != nil {
		return "", fmt.Errorf("fallback animation: %w", err)
	}
	return id, nil
}
