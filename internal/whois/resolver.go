package whois

import (
	"context"
	"strings"
	"time"

	"Domain_Monitor/internal/cache/whoisCache"
	"Domain_Monitor/internal/logger"
	"Domain_Monitor/internal/models"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

// LookupFunc performs a whois query for a domain and returns the
// normalized organization. It exists so tests can count and fail lookups
// without hitting whois servers.
type LookupFunc func(domain string) (string, error)

// Resolver implements Service backed by the whois protocol with a
// write-through organization cache
type Resolver struct {
	cache    whoisCache.Service
	logger   logger.Service
	lookup   LookupFunc
	timeout  time.Duration
	attempts int
	backoff  time.Duration
}

// NewResolver creates a new whois organization resolver
func NewResolver(cache whoisCache.Service, logger logger.Service, timeout time.Duration, attempts int, backoff time.Duration) Service {
	return &Resolver{
		cache:    cache,
		logger:   logger,
		lookup:   defaultLookup,
		timeout:  timeout,
		attempts: attempts,
		backoff:  backoff,
	}
}

// defaultLookup queries the responsible whois server and parses the response
func defaultLookup(domain string) (string, error) {
	raw, err := whois.Whois(domain)
	if err != nil {
		return "", err
	}
	return parseOrganization(raw)
}

type lookupResult struct {
	organization string
	err          error
}

// Resolve returns the organization behind a domain. Cached values take
// precedence; otherwise the blocking whois query runs on its own goroutine
// and is abandoned once the timeout elapses, regardless of whether the
// underlying call honors deadlines.
func (r *Resolver) Resolve(ctx context.Context, domain string) string {
	if cached, err := r.cache.Get(ctx, domain); err == nil && cached != "" {
		r.logger.LogSuccess(ctx, logger.OpCacheHit, domain, "Resolved organization from cache", nil)
		return cached
	}

	r.logger.LogInfo(ctx, logger.OpCacheMiss, "No cached organization, querying whois", map[string]interface{}{
		"domain": domain,
	})

	start := time.Now()
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resultChan := make(chan lookupResult, 1)
	go func() {
		organization, err := r.lookupWithRetries(lookupCtx, domain)
		resultChan <- lookupResult{organization: organization, err: err}
	}()

	select {
	case <-lookupCtx.Done():
		r.logger.LogError(ctx, logger.OpWhoisLookup, domain, "Whois lookup timed out", models.ErrLookupTimeout, models.LogSeverityLow, map[string]interface{}{
			"timeout_ms": r.timeout.Milliseconds(),
		})
		return models.UnknownOrganization
	case result := <-resultChan:
		if result.err != nil {
			r.logger.LogError(ctx, logger.OpWhoisLookup, domain, "Whois lookup failed after retries", result.err, models.LogSeverityLow, map[string]interface{}{
				"attempts":    r.attempts,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			return models.UnknownOrganization
		}
		if result.organization == "" {
			return models.UnknownOrganization
		}

		// Only successful resolutions are cached; the sentinel never is, so
		// a later lookup can still recover the real organization
		if err := r.cache.Set(ctx, domain, result.organization); err != nil {
			r.logger.LogError(ctx, logger.OpWhoisLookup, domain, "Failed to cache organization", err, models.LogSeverityLow, nil)
		}

		r.logger.LogSuccess(ctx, logger.OpWhoisLookup, domain, "Resolved organization", map[string]interface{}{
			"organization": result.organization,
			"duration_ms":  time.Since(start).Milliseconds(),
		})
		return result.organization
	}
}

// lookupWithRetries performs the raw lookup up to the attempt budget with a
// fixed delay between failed attempts. A response that parses but carries no
// organization is not retried.
func (r *Resolver) lookupWithRetries(ctx context.Context, domain string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= r.attempts; attempt++ {
		organization, err := r.lookup(domain)
		if err == nil {
			return organization, nil
		}
		lastErr = err

		if attempt < r.attempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(r.backoff):
			}
		}
	}

	return "", lastErr
}

// parseOrganization extracts the organization from a raw whois response.
// Registrant organization is preferred, falling back to registrant name and
// administrative organization.
func parseOrganization(raw string) (string, error) {
	info, err := whoisparser.Parse(raw)
	if err != nil {
		return "", err
	}

	var fields []string
	if info.Registrant != nil {
		fields = append(fields, info.Registrant.Organization, info.Registrant.Name)
	}
	if info.Administrative != nil {
		fields = append(fields, info.Administrative.Organization)
	}

	for _, field := range fields {
		// a field may carry several values on separate lines
		if organization := joinDistinct(strings.Split(field, "\n")); organization != "" {
			return organization, nil
		}
	}

	return "", nil
}

// joinDistinct trims candidates and joins the distinct non-empty ones
func joinDistinct(values []string) string {
	seen := make(map[string]struct{}, len(values))
	var parts []string

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		parts = append(parts, value)
	}

	return strings.Join(parts, ", ")
}
