// Package videosource produces a short vertical clip for an image and
// prompt by trying providers in priority order, ending at a deterministic
// local animation so resolution is never the caller's problem to retry.
package videosource

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Provenance names the strategy that produced a video asset, so callers
// can disclose which path a clip came from.
type Provenance string

const (
	ProvenanceRunway   Provenance = "runway"
	ProvenanceMiniMax  Provenance = "minimax"
	ProvenanceFallback Provenance = "fallback"
)

var (
	// ErrNoCredential is a soft skip-to-next-link signal, never a failure
	// on its own.
	ErrNoCredential = errors.New("videosource: provider credential missing")
	// ErrExhausted is returned only when every link, including the local
	// fallback, has failed.
	ErrExhausted = errors.New("videosource: all strategies failed")
)

// Request is one resolution request. FastMode skips every remote link.
type Request struct {
	ImageURL string
	Prompt   string
	FastMode bool
}

// Resolution is a produced video asset tagged with its provenance.
type Resolution struct {
	AssetID    string
	Provenance Provenance
}

// Strategy is one link in the fallback chain.
type Strategy interface {
	Name() string
	Provenance() Provenance
	Remote() bool
	Resolve(ctx context.Context, req Request) (string, error)
}

// Resolver executes an ordered strategy list, stopping at first success.
type Resolver struct {
	strategies []Strategy
	log        *logrus.Logger
}

// NewResolver builds a resolver over the given chain. Order matters: the
// terminal strategy should be the local fallback.
func NewResolver(log *logrus.Logger, strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies, log: log}
}

// Resolve runs the chain. Attempts are sequential, never parallel, so a
// losing provider is not billed for work the next link throws away.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolution, error) {
	var lastErr error

	for _, s := range r.strategies {
		if req.FastMode && s.Remote() {
			r.log.WithField("strategy", s.Name()).Info("fast mode, skipping remote provider")
			continue
		}

		id, err := s.Resolve(ctx, req)
		if err == nil {
			r.log.WithFields(logrus.Fields{"strategy": s.Name(), "asset": id}).Info("video resolved")
			return Resolution{AssetID: id, Provenance: s.Provenance()}, nil
		}

		if errors.Is(err, ErrNoCredential) {
			r.log.WithField("strategy", s.Name()).Info("no credential, trying next link")
		} else {
			r.log.WithFields(logrus.Fields{"strategy": s.Name(), "error": err.Error()}).Warn("strategy failed, trying next link")
			lastErr = err
		}
	}

	if lastErr != nil {
		return Resolution{}, fmt.Errorf("%w: %v", ErrExhausted, lastErr)
	}
	return Resolution{}, ErrExhausted
}
