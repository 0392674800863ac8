package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/vilaca/profile-card/internal/api"
	"github.com/vilaca/profile-card/internal/domain"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Client implements api.ExternalProfileClient for the GitHub REST API.
type Client struct {
	base  *api.BaseClient
	token string
}

// NewClient creates a new GitHub client.
// Uses dependency injection for HTTPClient. limiter may be nil.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient, limiter *rate.Limiter) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		base:  api.NewBaseClient(baseURL, httpClient, limiter),
		token: config.Token,
	}
}

// GetUser retrieves the public profile of a GitHub user.
// The handle is passed through unvalidated; GitHub rejects invalid logins with 404.
func (c *Client) GetUser(ctx context.Context, handle string) (*domain.ExternalProfile, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.base.BaseURL, url.PathEscape(handle))

	body, err := c.base.Get(ctx, endpoint, c.headers())
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", handle, err)
	}

	var user githubUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user %q: %w: %v", handle, api.ErrMalformedResponse, err)
	}
	if user.Login == "" {
		return nil, fmt.Errorf("user %q has no login: %w", handle, api.ErrMalformedResponse)
	}

	return convertUser(user), nil
}

// headers returns the request headers; unauthenticated requests are allowed.
func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/vnd.github+json")
	h.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		h.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	return h
}

// convertUser converts a GitHub user to the domain model.
func convertUser(u githubUser) *domain.ExternalProfile {
	return &domain.ExternalProfile{
		Login:       u.Login,
		Name:        deref(u.Name),
		AvatarURL:   u.AvatarURL,
		HTMLURL:     u.HTMLURL,
		Bio:         deref(u.Bio),
		Location:    deref(u.Location),
		Blog:        deref(u.Blog),
		CreatedAt:   u.CreatedAt,
		PublicRepos: u.PublicRepos,
		Followers:   u.Followers,
		Following:   u.Following,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GitHub API response types
type githubUser struct {
	Login       string    `json:"login"`
	Name        *string   `json:"name"`
	AvatarURL   string    `json:"avatar_url"`
	HTMLURL     string    `json:"html_url"`
	Bio         *string   `json:"bio"`
	Location    *string   `json:"location"`
	Blog        *string   `json:"blog"`
	CreatedAt   time.Time `json:"created_at"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
}
