package whoisCache

import (
	"context"
	"encoding/json"
	"fmt"

	"Domain_Monitor/internal/cache"
)

// whoisCache implements Service using a generic cache
type whoisCache struct {
	cache cache.Service
}

// New creates a new whois organization cache
func New(cache cache.Service) Service {
	return &whoisCache{
		cache: cache,
	}
}

// Get retrieves a cached organization for the given domain
func (w *whoisCache) Get(ctx context.Context, domain string) (string, error) {
	cacheKey := fmt.Sprintf("whois:%s", domain)
	value, err := w.cache.Get(ctx, cacheKey)
	if err != nil {
		return "", err
	}

	// Handle type conversion
	switch v := value.(type) {
	case string:
		// The redis backend returns the JSON-encoded string, the memory
		// backend returns it as stored
		var organization string
		if err := json.Unmarshal([]byte(v), &organization); err == nil {
			return organization, nil
		}
		return v, nil
	default:
		return "", fmt.Errorf("unexpected type in cache: %T", v)
	}
}

// Set stores an organization in the cache without expiration
func (w *whoisCache) Set(ctx context.Context, domain, organization string) error {
	cacheKey := fmt.Sprintf("whois:%s", domain)
	return w.cache.Set(ctx, cacheKey, organization, 0)
}

// Delete removes a domain's organization from the cache
func (w *whoisCache) Delete(ctx context.Context, domain string) error {
	cacheKey := fmt.Sprintf("whois:%s", domain)
	return w.cache.Delete(ctx, cacheKey)
}
