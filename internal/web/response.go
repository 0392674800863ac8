package web

import (
	"encoding/json"
	"net/http"
)

const (
	statusFound    = "found"
	statusNotFound = "not_found"
)

type profileResponse struct {
	Status  string       `json:"status"`
	Handle  string       `json:"handle"`
	Title   string       `json:"title"`
	Message string       `json:"message,omitempty"`
	Profile *profileJSON `json:"profile,omitempty"`
}

type profileJSON struct {
	DisplayName string      `json:"display_name"`
	Login       string      `json:"login"`
	AvatarURL   string      `json:"avatar_url,omitempty"`
	Bio         string      `json:"bio"`
	Location    string      `json:"location,omitempty"`
	Blog        string      `json:"blog,omitempty"`
	Joined      string      `json:"joined,omitempty"`
	PublicRepos int         `json:"public_repos"`
	Followers   int         `json:"followers"`
	Following   int         `json:"following"`
	Member      bool        `json:"member"`
	ViewCount   string      `json:"view_count,omitempty"`
	Badges      []badgeJSON `json:"badges"`
	Email       string      `json:"email,omitempty"`
	GitHubURL   string      `json:"github_url,omitempty"`
}

type badgeJSON struct {
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Tooltip string `json:"tooltip"`
	Icon    string `json:"icon"`
}

func newProfileResponse(page ProfilePage) profileResponse {
	if !page.Found {
		return profileResponse{
			Status:  statusNotFound,
			Handle:  page.Handle,
			Title:   page.Title,
			Message: page.Message,
		}
	}

	badges := make([]badgeJSON, 0, len(page.Badges))
	for _, b := range page.Badges {
		badges = append(badges, badgeJSON{
			Kind:    b.Kind.String(),
			Label:   b.Label,
			Tooltip: b.Tooltip,
			Icon:    b.Icon,
		})
	}

	return profileResponse{
		Status: statusFound,
		Handle: page.Handle,
		Title:  page.Title,
		Profile: &profileJSON{
			DisplayName: page.DisplayName,
			Login:       page.Login,
			AvatarURL:   page.AvatarURL,
			Bio:         page.Bio,
			Location:    page.Location,
			Blog:        page.Blog,
			Joined:      page.Joined,
			PublicRepos: page.PublicRepos,
			Followers:   page.Followers,
			Following:   page.Following,
			Member:      page.Member,
			ViewCount:   page.ViewCount,
			Badges:      badges,
			Email:       page.Email,
			GitHubURL:   page.GitHubURL,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
