package service

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vilaca/profile-card/internal/domain"
	"github.com/vilaca/profile-card/internal/format"
)

var tracer = otel.Tracer("github.com/vilaca/profile-card/internal/service")

// ProfileSource fetches both profile records, returning nil for anything unavailable.
type ProfileSource interface {
	FetchExternalProfile(ctx context.Context, handle string) *domain.ExternalProfile
	FetchInternalProfile(ctx context.Context, handle string) *domain.InternalProfile
}

// ProfileService aggregates the external and internal records of a handle
// into a single view model. It holds no state between calls.
type ProfileService struct {
	sources ProfileSource
	logger  *zap.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(sources ProfileSource, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		sources: sources,
		logger:  logger,
	}
}

// Aggregate fetches both records concurrently, waits for both to settle and
// builds the view model. It never fails: a missing external record yields
// domain.NotFound, a missing internal record a Found without platform data.
func (s *ProfileService) Aggregate(ctx context.Context, handle string) domain.ProfileViewModel {
	ctx, span := tracer.Start(ctx, "ProfileService.Aggregate")
	defer span.End()
	span.SetAttributes(attribute.String("profile.handle", handle))

	var (
		external *domain.ExternalProfile
		internal *domain.InternalProfile
		wg       sync.WaitGroup
	)

	// Each branch writes only its own result; neither can cancel the other
	wg.Add(2)
	go func() {
		defer wg.Done()
		external = s.sources.FetchExternalProfile(ctx, handle)
	}()
	go func() {
		defer wg.Done()
		internal = s.sources.FetchInternalProfile(ctx, handle)
	}()
	wg.Wait()

	vm := BuildViewModel(handle, external, internal)

	_, found := vm.(domain.Found)
	span.SetAttributes(
		attribute.Bool("profile.found", found),
		attribute.Bool("profile.member", internal != nil),
	)
	s.logger.Debug("profile aggregated",
		zap.String("handle", handle),
		zap.Bool("found", found),
		zap.Bool("member", internal != nil),
	)

	return vm
}

// BuildViewModel reconciles already-fetched records. The external record is
// the sole existence criterion.
func BuildViewModel(handle string, external *domain.ExternalProfile, internal *domain.InternalProfile) domain.ProfileViewModel {
	if external == nil {
		return domain.NotFound{RequestedHandle: handle}
	}

	return domain.Found{
		RequestedHandle:    handle,
		External:           *external,
		Internal:           internal,
		FormattedViewCount: format.Compact(internal.ViewCount()),
		Badges:             EvaluateBadges(internal),
	}
}
