package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearMonitorEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"CHECK_INTERVAL", "LOCAL_SOURCE", "SOURCE_URL", "SOURCE_PATH",
		"WHOIS_TIMEOUT", "WHOIS_RETRY_ATTEMPTS", "WHOIS_RETRY_DELAY",
		"MAX_CONCURRENT_LOOKUPS", "DATABASE_URL", "CACHE_TYPE", "REDIS_URL",
		"BOT_TOKEN", "ADMIN_CHAT_IDS", "USERS_FILE", "PORT",
		"GLOBAL_RATE_LIMIT_PER_SEC", "PER_USER_RATE_LIMIT_PER_SEC",
		"COMMAND_COOLDOWN", "FETCH_TIMEOUT_SECONDS",
		"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearMonitorEnv(t)

	cfg := Load()

	assert.Equal(t, 60*time.Minute, cfg.CheckInterval)
	assert.True(t, cfg.LocalSource)
	assert.Equal(t, "domains.lst", cfg.SourcePath)
	assert.Equal(t, 10*time.Second, cfg.WhoisTimeout)
	assert.Equal(t, 3, cfg.WhoisRetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.WhoisRetryDelay)
	assert.Equal(t, 10, cfg.MaxConcurrentLookups)
	assert.Equal(t, "memory", cfg.CacheType)
	assert.Equal(t, "users.json", cfg.UsersFile)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.CommandCooldown)
	assert.Empty(t, cfg.AdminChatIDs)
}

func TestLoad_Overrides(t *testing.T) {
	clearMonitorEnv(t)
	t.Setenv("CHECK_INTERVAL", "5")
	t.Setenv("LOCAL_SOURCE", "false")
	t.Setenv("SOURCE_URL", "https://example.com/list.txt")
	t.Setenv("WHOIS_TIMEOUT", "3")
	t.Setenv("MAX_CONCURRENT_LOOKUPS", "4")
	t.Setenv("ADMIN_CHAT_IDS", "123, 456,789")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.CheckInterval)
	assert.False(t, cfg.LocalSource)
	assert.Equal(t, "https://example.com/list.txt", cfg.SourceURL)
	assert.Equal(t, 3*time.Second, cfg.WhoisTimeout)
	assert.Equal(t, 4, cfg.MaxConcurrentLookups)
	assert.Equal(t, []int64{123, 456, 789}, cfg.AdminChatIDs)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearMonitorEnv(t)
	t.Setenv("CHECK_INTERVAL", "often")
	t.Setenv("LOCAL_SOURCE", "maybe")
	t.Setenv("WHOIS_RETRY_ATTEMPTS", "many")
	t.Setenv("ADMIN_CHAT_IDS", "abc,123")

	cfg := Load()

	assert.Equal(t, 60*time.Minute, cfg.CheckInterval)
	assert.True(t, cfg.LocalSource)
	assert.Equal(t, 3, cfg.WhoisRetryAttempts)
	assert.Equal(t, []int64{123}, cfg.AdminChatIDs)
}
