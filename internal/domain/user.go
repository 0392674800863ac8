package domain

import "time"

// ExternalProfile is the public user record published by the source-control
// platform. It is never mutated after it has been fetched.
type ExternalProfile struct {
	Login     string
	Name      string
	AvatarURL string
	HTMLURL   string

	// Optional descriptive fields (empty when the user left them blank)
	Bio      string
	Location string
	Blog     string

	CreatedAt time.Time

	PublicRepos int
	Followers   int
	Following   int
}

// DisplayName returns the name shown on the profile card, falling back to the login.
func (p ExternalProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

// InternalProfile is the platform's own record for a handle.
// Every nested record is optional and may be nil.
type InternalProfile struct {
	Username         string
	Name             string
	AvatarURL        string
	Email            string
	GitHubProfileURL string
	Bio              string

	IsModerator bool
	Premium     *Premium
	Stats       *Stats
}

// Premium holds the premium membership flags of an internal profile.
type Premium struct {
	IsPremium bool
}

// Stats holds counters maintained by the view-tracking service.
type Stats struct {
	ViewCount *int64
}

// ViewCount returns the profile view counter, or 0 when the profile,
// its stats or the counter itself is absent.
func (p *InternalProfile) ViewCount() int64 {
	if p == nil || p.Stats == nil || p.Stats.ViewCount == nil {
		return 0
	}
	return *p.Stats.ViewCount
}

// HasPremium reports whether the premium record is present and active.
func (p *InternalProfile) HasPremium() bool {
	return p != nil && p.Premium != nil && p.Premium.IsPremium
}
