package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vilaca/profile-card/internal/api"
	"github.com/vilaca/profile-card/internal/domain"
)

const profileByUsernamePath = "/api/user/getProfileByUsername"

// Client implements api.InternalProfileClient for the platform user service.
type Client struct {
	base  *api.BaseClient
	token string
}

// NewClient creates a new platform client.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	return &Client{
		base:  api.NewBaseClient(config.BaseURL, httpClient, nil),
		token: config.Token,
	}
}

// GetProfileByUsername retrieves the platform profile for a username.
// A 404, an empty body or a null body mean the handle has no account. Any
// other decoded object is an account, whatever fields it carries.
func (c *Client) GetProfileByUsername(ctx context.Context, username string) (*domain.InternalProfile, error) {
	endpoint := fmt.Sprintf("%s%s?%s", c.base.BaseURL, profileByUsernamePath, url.Values{"username": {username}}.Encode())

	header := http.Header{}
	header.Set("Accept", "application/json")
	if c.token != "" {
		header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	body, err := c.base.Get(ctx, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %q: %w", username, err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("profile %q: empty response: %w", username, api.ErrNotFound)
	}

	var profile platformProfile
	if err := json.Unmarshal(trimmed, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile %q: %w: %v", username, api.ErrMalformedResponse, err)
	}
	if profile.Username == "" {
		profile.Username = username
	}

	return convertProfile(profile), nil
}

// convertProfile converts a platform profile to the domain model.
// Nested records stay nil when the service omitted them.
func convertProfile(p platformProfile) *domain.InternalProfile {
	profile := &domain.InternalProfile{
		Username:         p.Username,
		Name:             p.Name,
		AvatarURL:        p.AvatarURL,
		Email:            p.Email,
		GitHubProfileURL: p.GitHubProfileURL,
		Bio:              p.Bio,
		IsModerator:      p.IsModerator != nil && *p.IsModerator,
	}

	if p.Premium != nil {
		profile.Premium = &domain.Premium{
			IsPremium: p.Premium.IsPremium != nil && *p.Premium.IsPremium,
		}
	}
	if p.Stats != nil {
		profile.Stats = &domain.Stats{ViewCount: p.Stats.ViewCount}
	}

	return profile
}

// Platform API response types
type platformProfile struct {
	Username         string           `json:"username"`
	Name             string           `json:"name"`
	AvatarURL        string           `json:"avatar_url"`
	Email            string           `json:"email"`
	GitHubProfileURL string           `json:"github_profile_url"`
	Bio              string           `json:"bio"`
	IsModerator      *bool            `json:"isModerator"`
	Premium          *platformPremium `json:"premium"`
	Stats            *platformStats   `json:"stats"`
}

type platformPremium struct {
	IsPremium *bool `json:"isPremium"`
}

type platformStats struct {
	ViewCount *int64 `json:"view_count"`
}
