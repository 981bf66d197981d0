package fetcher

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// FileFetcher implements Service and SourceEditor over a local text file
// with one domain per line
type FileFetcher struct {
	path  string
	mutex sync.Mutex
}

// NewFileFetcher creates a new file-based domain list fetcher
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{
		path: path,
	}
}

// Fetch reads the domain list from the local file. A missing file is
// created empty rather than treated as an error, so a fresh deployment
// starts with an empty tracked set.
func (f *FileFetcher) Fetch(ctx context.Context) (map[string]struct{}, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	content, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read source file %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, nil, 0o644); err != nil {
			return nil, fmt.Errorf("failed to create source file %s: %w", f.path, err)
		}
		return map[string]struct{}{}, nil
	}

	return parseDomainLines(string(content)), nil
}

// Append adds a domain to the end of the source file
func (f *FileFetcher) Append(domain string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", f.path, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%s\n", domain); err != nil {
		return fmt.Errorf("failed to append domain to source file: %w", err)
	}
	return nil
}

// Remove rewrites the source file without the given domain
func (f *FileFetcher) Remove(domain string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	content, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read source file %s: %w", f.path, err)
	}

	var kept []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.EqualFold(strings.TrimSpace(line), domain) {
			continue
		}
		kept = append(kept, line)
	}

	if err := os.WriteFile(f.path, []byte(strings.Join(kept, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to rewrite source file %s: %w", f.path, err)
	}
	return nil
}

// parseDomainLines extracts trimmed, non-empty lines as a set
func parseDomainLines(content string) map[string]struct{} {
	domains := make(map[string]struct{})
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		domains[line] = struct{}{}
	}
	return domains
}
