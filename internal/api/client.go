package api

import (
	"context"

	"github.com/vilaca/profile-card/internal/domain"
)

// ExternalProfileClient fetches public user records from the source-control platform.
// Consumers depend on this interface, not on the concrete GitHub client.
type ExternalProfileClient interface {
	// GetUser returns the public record for handle, or ErrNotFound.
	GetUser(ctx context.Context, handle string) (*domain.ExternalProfile, error)
}

// InternalProfileClient fetches profile records from the platform's user service.
type InternalProfileClient interface {
	// GetProfileByUsername returns the platform profile for username, or ErrNotFound.
	GetProfileByUsername(ctx context.Context, username string) (*domain.InternalProfile, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
	Token   string
}
