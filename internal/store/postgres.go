package store

import (
	"context"
	"fmt"
	"time"

	"Domain_Monitor/internal/cache/whoisCache"
	"Domain_Monitor/internal/logger"
	"Domain_Monitor/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgPool is the subset of pgxpool.Pool the store uses
type pgPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Service using PostgreSQL
type PostgresStore struct {
	pool       pgPool
	whoisCache whoisCache.Service
	logger     logger.Service
}

// NewPostgresStore creates a snapshot store backed by PostgreSQL
func NewPostgresStore(connectionString string, whoisCache whoisCache.Service, logger logger.Service) (Service, error) {
	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	s := &PostgresStore{
		pool:       pool,
		whoisCache: whoisCache,
		logger:     logger,
	}

	if err := s.createTableIfNotExists(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create domains table: %w", err)
	}

	return s, nil
}

// createTableIfNotExists creates the domains table if it doesn't exist
func (s *PostgresStore) createTableIfNotExists() error {
	query := `
		CREATE TABLE IF NOT EXISTS domains (
			domain TEXT PRIMARY KEY,
			organization TEXT,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`

	_, err := s.pool.Exec(context.Background(), query)
	return err
}

// GetAllDomains returns every tracked domain key, or an empty set on failure
func (s *PostgresStore) GetAllDomains(ctx context.Context) map[string]struct{} {
	domains := make(map[string]struct{})

	rows, err := s.pool.Query(ctx, "SELECT domain FROM domains")
	if err != nil {
		s.logger.LogError(ctx, logger.OpSnapshotRead, "", "Failed to read domain snapshot", err, models.LogSeverityMedium, nil)
		return domains
	}
	defer rows.Close()

	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			s.logger.LogError(ctx, logger.OpSnapshotRead, "", "Failed to scan domain row", err, models.LogSeverityMedium, nil)
			continue
		}
		domains[domain] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		s.logger.LogError(ctx, logger.OpSnapshotRead, "", "Error iterating domain rows", err, models.LogSeverityMedium, nil)
	}

	return domains
}

// UpsertDomain creates or overwrites a domain record; the whois cache entry
// is refreshed as well so both stay in sync
func (s *PostgresStore) UpsertDomain(ctx context.Context, domain, organization string) {
	query := `
		INSERT INTO domains (domain, organization, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (domain) DO UPDATE
		SET organization = EXCLUDED.organization, updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, domain, organization); err != nil {
		s.logger.LogError(ctx, logger.OpSnapshotWrite, domain, "Failed to upsert domain", err, models.LogSeverityMedium, map[string]interface{}{
			"organization": organization,
		})
		return
	}

	if err := s.whoisCache.Set(ctx, domain, organization); err != nil {
		s.logger.LogError(ctx, logger.OpSnapshotWrite, domain, "Failed to refresh whois cache entry", err, models.LogSeverityLow, nil)
	}
}

// RemoveDomains deletes the given domains from the snapshot and forgets
// their cached organizations
func (s *PostgresStore) RemoveDomains(ctx context.Context, domains map[string]struct{}) {
	if len(domains) == 0 {
		return
	}

	list := make([]string, 0, len(domains))
	for domain := range domains {
		list = append(list, domain)
	}

	if _, err := s.pool.Exec(ctx, "DELETE FROM domains WHERE domain = ANY($1)", list); err != nil {
		s.logger.LogError(ctx, logger.OpSnapshotWrite, "", "Failed to remove domains", err, models.LogSeverityMedium, map[string]interface{}{
			"domains_count": len(list),
		})
		return
	}

	for _, domain := range list {
		if err := s.whoisCache.Delete(ctx, domain); err != nil {
			s.logger.LogError(ctx, logger.OpSnapshotWrite, domain, "Failed to drop whois cache entry", err, models.LogSeverityLow, nil)
		}
	}
}

// Count returns the number of tracked domains, or zero on failure
func (s *PostgresStore) Count(ctx context.Context) int {
	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM domains").Scan(&count); err != nil {
		s.logger.LogError(ctx, logger.OpSnapshotRead, "", "Failed to count domains", err, models.LogSeverityLow, nil)
		return 0
	}
	return count
}

// Close releases the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
