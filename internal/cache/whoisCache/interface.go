package whoisCache

import (
	"context"
)

// Service defines the interface for whois organization cache operations.
// Entries never expire; they are only removed when a domain is explicitly
// dropped from tracking.
type Service interface {
	Get(ctx context.Context, domain string) (string, error)
	Set(ctx context.Context, domain, organization string) error
	Delete(ctx context.Context, domain string) error
}
