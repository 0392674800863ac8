package domain

// Source identifiers used in logs and traces
const (
	// SourceGitHub is the external source-control platform
	SourceGitHub = "github"
	// SourcePlatform is the internal user-metadata service
	SourcePlatform = "platform"
)

// TrendingViewThreshold is the view count a profile must exceed to be trending.
const TrendingViewThreshold = 1000
