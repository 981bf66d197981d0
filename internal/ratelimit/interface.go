package ratelimit

import "context"

// Service defines the interface for rate limiting. Keys identify callers:
// an HTTP client IP or a bot user ID.
// External packages should use this interface, not the concrete implementations
type Service interface {
	Allow(key string) bool
	Wait(ctx context.Context, key string) error
}
