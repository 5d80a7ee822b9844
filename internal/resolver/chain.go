package resolver

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/musicbot"
)

// ErrNoResolvers is returned by an empty Chain.
var ErrNoResolvers = errors.New("no resolvers configured")

// Chain tries each resolver in order and returns the first success.
type Chain struct {
	resolvers []musicbot.Resolver
	logger    *zap.Logger
}

// NewChain builds a chain. A nil logger disables fallback logging.
func NewChain(logger *zap.Logger, resolvers ...musicbot.Resolver) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{resolvers: resolvers, logger: logger}
}

// Resolve returns the first successful resolution. A link that no resolver can
// parse stops the chain early.
func (c *Chain) Resolve(ctx context.Context, sourceURL string) (*musicbot.TrackInfo, error) {
	if len(c.resolvers) == 0 {
		return nil, ErrNoResolvers
	}

	var errs []error
	for i, r := range c.resolvers {
		info, err := r.Resolve(ctx, sourceURL)
		if err == nil {
			return info, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, ErrNoVideoID) {
			return nil, err
		}

		c.logger.Warn("resolver failed, trying next",
			zap.Int("resolver", i),
			zap.String("url", sourceURL),
			zap.Error(err),
		)
		errs = append(errs, err)
	}

	if allInvalidSource(errs) {
		return nil, &apperrors.InvalidSourceError{URL: sourceURL, Cause: errors.Join(errs...)}
	}
	return nil, &ResolveError{URL: sourceURL, Errs: errs}
}

// ResolveError reports a chain where at least one resolver failed for a reason
// other than a bad source. Unwrap exposes only those failures, so the link is
// not classified as invalid while a backend was unavailable.
type ResolveError struct {
	URL  string
	Errs []error
}

func (e *ResolveError) Error() string {
	return "resolve " + e.URL + ": " + errors.Join(e.Errs...).Error()
}

func (e *ResolveError) Unwrap() []error {
	var out []error
	for _, err := range e.Errs {
		if !apperrors.IsInvalidSource(err) {
			out = append(out, err)
		}
	}
	return out
}

func allInvalidSource(errs []error) bool {
	for _, err := range errs {
		if !apperrors.IsInvalidSource(err) {
			return false
		}
	}
	return len(errs) > 0
}
