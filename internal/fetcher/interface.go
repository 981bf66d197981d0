package fetcher

import "context"

// Service defines the interface for fetching the candidate domain list
// External packages should use this interface, not the concrete implementations
type Service interface {
	Fetch(ctx context.Context) (map[string]struct{}, error)
}

// SourceEditor defines the interface for mutating a writable domain source.
// Only the local file source supports it; the admin add/remove commands
// depend on this to keep the source list authoritative.
type SourceEditor interface {
	Append(domain string) error
	Remove(domain string) error
}
