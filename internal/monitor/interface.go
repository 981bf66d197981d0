package monitor

import "context"

// Service defines the interface for the domain change-detection pipeline
// External packages should use this interface, not the concrete implementation
type Service interface {
	// CheckForChanges runs one full cycle: fetch, diff, enrich, report,
	// commit. The returned string is the report sent to admins. Cycles must
	// not overlap; the scheduler enforces that.
	CheckForChanges(ctx context.Context) (string, error)

	// RunTestCycle toggles a synthetic domain through the source, store and
	// notification path to verify the alerting chain end to end
	RunTestCycle(ctx context.Context) (string, error)

	// AddDomain registers a single domain explicitly, bypassing diffing
	AddDomain(ctx context.Context, domain string) error

	// RemoveDomain drops a single domain explicitly, bypassing diffing
	RemoveDomain(ctx context.Context, domain string) error

	// SeedIfEmpty populates an empty snapshot from the current source
	// without notifying anyone
	SeedIfEmpty(ctx context.Context) error
}
