package service

import "github.com/vilaca/profile-card/internal/domain"

// EvaluateBadges derives the status badges of an internal profile.
// It never looks at the external record. The result is ordered by
// domain.BadgeKind: member, moderator, premium, trending.
func EvaluateBadges(internal *domain.InternalProfile) []domain.Badge {
	if internal == nil {
		return []domain.Badge{}
	}

	// An internal record is itself proof of membership
	badges := []domain.Badge{domain.NewBadge(domain.BadgeMember)}

	if internal.IsModerator {
		badges = append(badges, domain.NewBadge(domain.BadgeModerator))
	}
	if internal.HasPremium() {
		badges = append(badges, domain.NewBadge(domain.BadgePremium))
	}
	if internal.ViewCount() > domain.TrendingViewThreshold {
		badges = append(badges, domain.NewBadge(domain.BadgeTrending))
	}

	return badges
}
