package models

import (
	"time"
)

// UnknownOrganization is the sentinel returned when a whois lookup fails,
// times out, or yields no organization field.
const UnknownOrganization = "Unknown"

// DomainRecord represents a tracked domain with its resolved organization
type DomainRecord struct {
	Domain       string `json:"domain"`
	Organization string `json:"organization"`
}

// DiffResult holds the outcome of comparing a fetched candidate set against
// the stored snapshot
type DiffResult struct {
	Added   map[string]struct{}
	Removed map[string]struct{}
}

// HasChanges reports whether the diff contains any added or removed domains
func (d DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// ReportRow is a single resolved line of a change report
type ReportRow struct {
	Domain       string
	Organization string
}

// StatusInfo summarizes the monitor state for the status endpoint and the
// /status bot command
type StatusInfo struct {
	TrackedDomains int       `json:"tracked_domains"`
	Subscribers    int       `json:"subscribers"`
	Timestamp      time.Time `json:"timestamp"`
}

// LogSeverity represents the severity level of a log entry
type LogSeverity string

const (
	LogSeverityLow    LogSeverity = "low"
	LogSeverityMedium LogSeverity = "medium"
	LogSeverityHigh   LogSeverity = "high"
)

// ProcessType represents the type of process that created the log
type ProcessType string

const (
	ProcessTypeRequest  ProcessType = "request"
	ProcessTypeCommand  ProcessType = "command"
	ProcessTypeInternal ProcessType = "internal"
)

// LogEvent represents a process-specific logging context
type LogEvent struct {
	ProcessID   string      `json:"process_id"`
	ProcessType ProcessType `json:"process_type"`
	StartTime   time.Time   `json:"start_time"`
	Caller      string      `json:"caller,omitempty"`
}

// LogEntry represents a structured log entry for database storage
type LogEntry struct {
	ID          string                 `json:"id"`
	Timestamp   time.Time              `json:"timestamp"`
	Severity    LogSeverity            `json:"severity,omitempty"`
	Message     string                 `json:"message"`
	Operation   string                 `json:"operation"`
	TargetName  string                 `json:"target_name,omitempty"`
	ProcessID   string                 `json:"process_id"`
	ProcessType ProcessType            `json:"process_type"`
	Caller      string                 `json:"caller,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
