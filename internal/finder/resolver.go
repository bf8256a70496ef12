package finder

import (
	"context"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/dsg/pharmacy-finder/library/browser"
	"github.com/dsg/pharmacy-finder/library/log"
	"github.com/dsg/pharmacy-finder/library/pharmacy"
)

// DirectionLookup exchanges a direction id for a map URL.
type DirectionLookup interface {
	ResolveDirectionURL(ctx context.Context, id string) (string, error)
}

// ResolverOption customises a DirectionResolver.
type ResolverOption func(*DirectionResolver)

// WithResolverLogger overrides the resolver logger.
func WithResolverLogger(logger logSDK.Logger) ResolverOption {
	return func(r *DirectionResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// DirectionResolver handles a click on one card's directions action. It
// only talks to the backend for that one card, on demand.
type DirectionResolver struct {
	lookup DirectionLookup
	opener browser.Opener
	logger logSDK.Logger
}

// NewDirectionResolver builds a resolver. opener may be nil when the
// caller only needs Resolve.
func NewDirectionResolver(lookup DirectionLookup, opener browser.Opener, opts ...ResolverOption) *DirectionResolver {
	r := &DirectionResolver{
		lookup: lookup,
		opener: opener,
		logger: log.Logger.Named("direction_resolver"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve returns the URL to open for ref. Ready references are returned
// as-is without a request.
func (r *DirectionResolver) Resolve(ctx context.Context, ref pharmacy.DirectionRef) (string, error) {
	if ref.IsReady() {
		return ref.URL(), nil
	}
	if ref.ID() == "" {
		return "", &pharmacy.ResolutionError{ID: ref.ID(), Err: pharmacy.ErrEmptyDirectionID}
	}
	if r.lookup == nil {
		return "", &pharmacy.ResolutionError{ID: ref.ID(), Err: errors.New("direction lookup is not configured")}
	}

	target, err := r.lookup.ResolveDirectionURL(ctx, ref.ID())
	if err != nil {
		if !pharmacy.IsResolution(err) {
			err = &pharmacy.ResolutionError{ID: ref.ID(), Err: err}
		}
		return "", err
	}
	return target, nil
}

// Open resolves ref and opens the URL in a new browsing context. On any
// failure the detail is logged and nothing is opened; the returned error
// is informational and callers are expected to carry on silently.
func (r *DirectionResolver) Open(ctx context.Context, ref pharmacy.DirectionRef) (string, error) {
	target, err := r.Resolve(ctx, ref)
	if err != nil {
		r.logger.Warn("resolve direction url",
			zap.String("ref", ref.String()),
			zap.Error(err))
		return "", err
	}

	if r.opener == nil {
		err = errors.New("no browser opener configured")
		r.logger.Warn("open direction url", zap.String("url", target), zap.Error(err))
		return "", err
	}
	if err = r.opener.Open(target); err != nil {
		r.logger.Warn("open direction url", zap.String("url", target), zap.Error(err))
		return "", errors.Wrap(err, "open direction url")
	}

	r.logger.Debug("opened direction url",
		zap.String("ref", ref.String()),
		zap.String("url", target))
	return target, nil
}
