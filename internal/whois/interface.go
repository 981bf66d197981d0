package whois

import "context"

// Service defines the interface for resolving a domain's registrant
// organization. Resolve never fails outward: every failure mode degrades
// to the "Unknown" sentinel.
type Service interface {
	Resolve(ctx context.Context, domain string) string
}
