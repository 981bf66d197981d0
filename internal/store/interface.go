package store

import (
	"context"
)

// Service defines the read/write contract of the domain snapshot store.
// All operations are best-effort: failures are logged and surface as empty
// or no-op results so that one unreachable backend does not abort a
// monitoring cycle. Callers must not assume an upsert succeeded.
type Service interface {
	// GetAllDomains returns every currently tracked domain key
	GetAllDomains(ctx context.Context) map[string]struct{}

	// UpsertDomain creates or overwrites a domain record and refreshes the
	// whois cache entry for that domain (write-through)
	UpsertDomain(ctx context.Context, domain, organization string)

	// RemoveDomains deletes the given domains from the snapshot and drops
	// their whois cache entries, so a re-added domain resolves fresh
	RemoveDomains(ctx context.Context, domains map[string]struct{})

	// Count returns the number of tracked domains
	Count(ctx context.Context) int

	Close() error
}
