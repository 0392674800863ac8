package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/vilaca/profile-card/internal/api"
	"github.com/vilaca/profile-card/internal/domain"
)

// SourcesConfig holds the per-source request deadlines.
// A zero timeout leaves the deadline to the caller's context.
type SourcesConfig struct {
	ExternalTimeout time.Duration
	InternalTimeout time.Duration
}

// Sources fetches both profile records and absorbs every failure.
// Callers only ever see a record or nil.
type Sources struct {
	external api.ExternalProfileClient
	internal api.InternalProfileClient
	cfg      SourcesConfig
	logger   *zap.Logger
}

// NewSources creates the fetch adapters. internal may be nil when the
// platform service is not configured; every handle is then treated as having no account.
func NewSources(external api.ExternalProfileClient, internal api.InternalProfileClient, cfg SourcesConfig, logger *zap.Logger) *Sources {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sources{
		external: external,
		internal: internal,
		cfg:      cfg,
		logger:   logger,
	}
}

// FetchExternalProfile returns the source-control record for handle, or nil
// when it does not exist or could not be fetched.
func (s *Sources) FetchExternalProfile(ctx context.Context, handle string) *domain.ExternalProfile {
	if s.external == nil {
		return nil
	}

	ctx, cancel := withOptionalTimeout(ctx, s.cfg.ExternalTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "Sources.FetchExternalProfile")
	defer span.End()
	span.SetAttributes(attribute.String("profile.handle", handle), attribute.String("profile.source", domain.SourceGitHub))

	profile, err := s.external.GetUser(ctx, handle)
	if err != nil {
		s.absorb(domain.SourceGitHub, handle, err)
		span.SetStatus(codes.Error, "external profile unavailable")
		return nil
	}
	return profile
}

// FetchInternalProfile returns the platform record for handle, or nil when
// the handle has no account or the service could not be reached.
func (s *Sources) FetchInternalProfile(ctx context.Context, handle string) *domain.InternalProfile {
	if s.internal == nil {
		return nil
	}

	ctx, cancel := withOptionalTimeout(ctx, s.cfg.InternalTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "Sources.FetchInternalProfile")
	defer span.End()
	span.SetAttributes(attribute.String("profile.handle", handle), attribute.String("profile.source", domain.SourcePlatform))

	profile, err := s.internal.GetProfileByUsername(ctx, handle)
	if err != nil {
		s.absorb(domain.SourcePlatform, handle, err)
		span.SetStatus(codes.Error, "internal profile unavailable")
		return nil
	}
	return profile
}

// absorb logs a fetch failure. Not-found and degraded upstreams produce the
// same absent result, so the log level is the only place they differ.
func (s *Sources) absorb(source, handle string, err error) {
	fields := []zap.Field{
		zap.String("source", source),
		zap.String("handle", handle),
		zap.Error(err),
	}

	switch {
	case api.IsNotFound(err):
		s.logger.Debug("profile record not found", fields...)
	case errors.Is(err, context.Canceled):
		s.logger.Debug("profile fetch abandoned", fields...)
	default:
		s.logger.Warn("profile source unavailable", fields...)
	}
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
