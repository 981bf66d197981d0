package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"Domain_Monitor/internal/fetcher"
	"Domain_Monitor/internal/logger"
	"Domain_Monitor/internal/models"
	"Domain_Monitor/internal/notifier"
	"Domain_Monitor/internal/store"
	"Domain_Monitor/internal/whois"
)

// NoChangesReport is sent when a cycle finds the source and snapshot equal
const NoChangesReport = "No changes detected in the domain list."

// adminAddedOrganization labels domains registered via the admin command,
// which skip whois resolution
const adminAddedOrganization = "Added by administrator"

// testDomain is the synthetic domain toggled by RunTestCycle
const testDomain = "test-domain-123456789.com"

// Monitor implements the Service interface
type Monitor struct {
	fetcher       fetcher.Service
	editor        fetcher.SourceEditor
	store         store.Service
	whois         whois.Service
	notifier      notifier.Service
	logger        logger.Service
	maxConcurrent int
}

// New creates a new domain monitor. editor may be nil when the source is
// remote; the admin add/remove commands then skip the source edit.
func New(
	fetcher fetcher.Service,
	editor fetcher.SourceEditor,
	store store.Service,
	whois whois.Service,
	notifier notifier.Service,
	logger logger.Service,
	maxConcurrent int,
) Service {
	return &Monitor{
		fetcher:       fetcher,
		editor:        editor,
		store:         store,
		whois:         whois,
		notifier:      notifier,
		logger:        logger,
		maxConcurrent: maxConcurrent,
	}
}

// CheckForChanges runs one full cycle. Any error escaping the cycle is
// caught here, logged, and reported to admins as a critical-error message
// so the scheduling loop keeps running.
func (m *Monitor) CheckForChanges(ctx context.Context) (string, error) {
	start := time.Now()
	m.logger.LogInfo(ctx, logger.OpCheckCycle, "Starting domain change check", nil)

	report, err := m.runCycle(ctx)
	if err != nil {
		m.logger.LogError(ctx, logger.OpCheckCycle, "", "Domain change check failed", err, models.LogSeverityHigh, map[string]interface{}{
			"duration_ms": time.Since(start).Milliseconds(),
		})
		m.notifier.SendToAdmins(ctx, fmt.Sprintf("*Critical error during domain check:*\n%v", err))
		return "", err
	}

	m.logger.LogSuccess(ctx, logger.OpCheckCycle, "", "Domain change check completed", map[string]interface{}{
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return report, nil
}

// runCycle is the uncaught body of a cycle: fetch, diff, enrich, report,
// commit. The diff is computed once before any resolution starts, and the
// snapshot is committed only after the report has been assembled and sent.
func (m *Monitor) runCycle(ctx context.Context) (string, error) {
	candidates, err := m.fetcher.Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching domain list: %w", err)
	}

	previous := m.store.GetAllDomains(ctx)
	diff := Diff(candidates, previous)

	if !diff.HasChanges() {
		m.logger.LogInfo(ctx, logger.OpCheckCycle, "No changes detected", map[string]interface{}{
			"domains_count": len(candidates),
		})
		m.notifier.SendToAdmins(ctx, NoChangesReport)
		return NoChangesReport, nil
	}

	m.logger.LogInfo(ctx, logger.OpCheckCycle, "Domain list changed", map[string]interface{}{
		"added_count":   len(diff.Added),
		"removed_count": len(diff.Removed),
	})

	addedRows := m.resolveBatch(ctx, sortedKeys(diff.Added))
	removedRows := m.resolveBatch(ctx, sortedKeys(diff.Removed))

	report := buildReport(addedRows, removedRows)
	m.notifier.SendToAdmins(ctx, report)

	// Commit phase. Resolved organizations are reused rather than looked up
	// again; the report above is the authoritative resolution for this cycle.
	for _, row := range addedRows {
		m.store.UpsertDomain(ctx, row.Domain, row.Organization)
	}
	m.store.RemoveDomains(ctx, diff.Removed)

	return report, nil
}

// resolveBatch resolves organizations for the given domains concurrently,
// bounded by the semaphore. Results are written by index so report order
// stays lexicographic no matter which lookup finishes first. An individual
// failure or timeout degrades that row to "Unknown" inside the resolver and
// never aborts the batch.
func (m *Monitor) resolveBatch(ctx context.Context, domains []string) []models.ReportRow {
	rows := make([]models.ReportRow, len(domains))

	sem := make(chan struct{}, m.maxConcurrent)
	var wg sync.WaitGroup

	for i, domain := range domains {
		wg.Add(1)

		go func(idx int, dom string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			rows[idx] = models.ReportRow{
				Domain:       dom,
				Organization: m.whois.Resolve(ctx, dom),
			}
		}(i, domain)
	}

	wg.Wait()
	return rows
}

// buildReport assembles the two-section change report
func buildReport(added, removed []models.ReportRow) string {
	var b strings.Builder

	if len(added) > 0 {
		b.WriteString("*Added domains:*\n")
		for _, row := range added {
			fmt.Fprintf(&b, "✅ %s (%s)\n", row.Domain, row.Organization)
		}
		b.WriteString("\n")
	}

	if len(removed) > 0 {
		b.WriteString("*Removed domains:*\n")
		for _, row := range removed {
			fmt.Fprintf(&b, "❌ %s (%s)\n", row.Domain, row.Organization)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// AddDomain registers a single domain explicitly: source list, snapshot
// store, and a subscriber broadcast, without running a full diff cycle
func (m *Monitor) AddDomain(ctx context.Context, domain string) error {
	domain = normalizeDomainArg(domain)
	if domain == "" {
		return models.ErrInvalidDomain
	}

	if m.editor != nil {
		if err := m.editor.Append(domain); err != nil {
			return fmt.Errorf("adding %s to source list: %w", domain, err)
		}
	}

	m.store.UpsertDomain(ctx, domain, adminAddedOrganization)

	notification := fmt.Sprintf("*New domain added:*\n✅ %s (%s)", domain, adminAddedOrganization)
	m.notifier.SendToSubscribers(ctx, notification)

	m.logger.LogSuccess(ctx, logger.OpCheckCycle, domain, "Domain added by administrator", nil)
	return nil
}

// RemoveDomain drops a single domain explicitly: source list, snapshot
// store (which also forgets the cached organization), and a broadcast
func (m *Monitor) RemoveDomain(ctx context.Context, domain string) error {
	domain = normalizeDomainArg(domain)
	if domain == "" {
		return models.ErrInvalidDomain
	}

	if m.editor != nil {
		if err := m.editor.Remove(domain); err != nil {
			return fmt.Errorf("removing %s from source list: %w", domain, err)
		}
	}

	m.store.RemoveDomains(ctx, map[string]struct{}{domain: {}})

	notification := fmt.Sprintf("*Domain removed:*\n❌ %s", domain)
	m.notifier.SendToSubscribers(ctx, notification)

	m.logger.LogSuccess(ctx, logger.OpCheckCycle, domain, "Domain removed by administrator", nil)
	return nil
}

// RunTestCycle adds the test domain if absent or removes it if present,
// exercising source, store and notification together
func (m *Monitor) RunTestCycle(ctx context.Context) (string, error) {
	m.logger.LogInfo(ctx, logger.OpTestCycle, "Starting test cycle", nil)

	current, err := m.fetcher.Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching domain list: %w", err)
	}

	var report string
	if _, exists := current[testDomain]; exists {
		m.store.RemoveDomains(ctx, map[string]struct{}{testDomain: {}})
		if m.editor != nil {
			if err := m.editor.Remove(testDomain); err != nil {
				return "", fmt.Errorf("removing test domain from source: %w", err)
			}
		}
		report = fmt.Sprintf("*Test domain removal:*\n❌ %s (Test organization)", testDomain)
	} else {
		m.store.UpsertDomain(ctx, testDomain, "Test organization")
		if m.editor != nil {
			if err := m.editor.Append(testDomain); err != nil {
				return "", fmt.Errorf("appending test domain to source: %w", err)
			}
		}
		report = fmt.Sprintf("*Test domain addition:*\n✅ %s (Test organization)", testDomain)
	}

	m.notifier.SendToAdmins(ctx, report)
	m.logger.LogSuccess(ctx, logger.OpTestCycle, testDomain, "Test cycle completed", nil)
	return report, nil
}

// SeedIfEmpty populates an empty snapshot from the current source so the
// first scheduled cycle does not report the whole list as added
func (m *Monitor) SeedIfEmpty(ctx context.Context) error {
	if len(m.store.GetAllDomains(ctx)) > 0 {
		return nil
	}

	candidates, err := m.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetching initial domain list: %w", err)
	}
	if len(candidates) == 0 {
		return nil
	}

	m.logger.LogInfo(ctx, logger.OpCheckCycle, "Seeding empty snapshot from source", map[string]interface{}{
		"domains_count": len(candidates),
	})

	for _, row := range m.resolveBatch(ctx, sortedKeys(candidates)) {
		m.store.UpsertDomain(ctx, row.Domain, row.Organization)
	}
	return nil
}

// normalizeDomainArg trims and lowercases an operator-supplied domain
func normalizeDomainArg(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if strings.ContainsAny(domain, " \t") {
		return ""
	}
	return domain
}
