package web

import (
	"fmt"
	"strings"

	"github.com/vilaca/profile-card/internal/domain"
)

const (
	defaultBio     = "No bio provided."
	joinedDateForm = "Jan 2, 2006"
)

// ProfilePage is the fully derived page model handed to renderers.
// Renderers never look at the view model directly.
type ProfilePage struct {
	Title  string
	Found  bool
	Handle string

	// Not-found state
	Message string

	// Found state
	DisplayName string
	Login       string
	AvatarURL   string
	ProfileURL  string
	Bio         string
	Location    string
	Blog        string
	Joined      string

	PublicRepos int
	Followers   int
	Following   int

	// Member is true when the handle has a platform account
	Member    bool
	ViewCount string
	Badges    []domain.Badge
	Email     string
	GitHubURL string
}

// Present derives the page model from a view model.
func Present(vm domain.ProfileViewModel, siteName string) ProfilePage {
	switch v := vm.(type) {
	case domain.Found:
		return presentFound(v, siteName)
	case domain.NotFound:
		return presentNotFound(v, siteName)
	default:
		// Only the two variants exist; treat anything else as a miss
		return ProfilePage{Title: siteName, Message: "User not found."}
	}
}

func presentNotFound(v domain.NotFound, siteName string) ProfilePage {
	return ProfilePage{
		Title:   v.Title(siteName),
		Handle:  v.RequestedHandle,
		Message: fmt.Sprintf(`The GitHub user "%s" could not be found.`, v.RequestedHandle),
	}
}

func presentFound(v domain.Found, siteName string) ProfilePage {
	ext := v.External

	page := ProfilePage{
		Title:       v.Title(siteName),
		Found:       true,
		Handle:      v.RequestedHandle,
		DisplayName: ext.DisplayName(),
		Login:       "@" + ext.Login,
		AvatarURL:   ext.AvatarURL,
		ProfileURL:  ext.HTMLURL,
		Bio:         defaultBio,
		Location:    ext.Location,
		Blog:        ext.Blog,
		PublicRepos: ext.PublicRepos,
		Followers:   ext.Followers,
		Following:   ext.Following,
		Badges:      v.Badges,
		GitHubURL:   ext.HTMLURL,
	}

	if bio := strings.TrimSpace(ext.Bio); bio != "" {
		page.Bio = bio
	}
	if !ext.CreatedAt.IsZero() {
		page.Joined = ext.CreatedAt.UTC().Format(joinedDateForm)
	}
	if page.Badges == nil {
		page.Badges = []domain.Badge{}
	}

	if in := v.Internal; in != nil {
		page.Member = true
		page.ViewCount = v.FormattedViewCount
		page.Email = in.Email
		if isWebURL(in.GitHubProfileURL) {
			page.GitHubURL = in.GitHubProfileURL
		}
	}

	return page
}
