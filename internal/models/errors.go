package models

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheMiss indicates that no cached value exists for the requested key
	ErrCacheMiss = errors.New("cache entry not found")

	// ErrInvalidDomain indicates that the provided domain is invalid
	ErrInvalidDomain = errors.New("invalid domain format")

	// ErrLookupTimeout indicates that a whois lookup exceeded its deadline
	ErrLookupTimeout = errors.New("timeout during whois lookup")

	// ErrEmptyOrganization indicates that the whois response carried no usable organization field
	ErrEmptyOrganization = errors.New("whois response contains no organization")

	// ErrSourceUnavailable indicates that the domain list source could not be read
	ErrSourceUnavailable = errors.New("domain source unavailable")

	// ErrRateLimitExceeded indicates that rate limit has been exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrCycleInProgress indicates that a check cycle is already running
	ErrCycleInProgress = errors.New("a check cycle is already in progress")
)

// DomainError represents an error specific to a domain operation
type DomainError struct {
	Domain  string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("domain %s: %s: %v", e.Domain, e.Message, e.Err)
	}
	return fmt.Sprintf("domain %s: %s", e.Domain, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain-specific error
func NewDomainError(domain, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Message: message,
		Err:     err,
	}
}
