package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptiq/internal/session"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ADAPTIQ_DB", "ADAPTIQ_REDIS_URL", "ADAPTIQ_SESSION_TTL",
		"ADAPTIQ_LOG_MODE", "ADAPTIQ_SE_AT_CURRENT_THETA",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, "", cfg.RedisURL)
	assert.Equal(t, session.DefaultTTL, cfg.SessionTTL)
	assert.Equal(t, LogDev, cfg.LogMode)
	assert.False(t, cfg.SEAtCurrentTheta)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADAPTIQ_DB", "/tmp/x.db")
	t.Setenv("ADAPTIQ_REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("ADAPTIQ_SESSION_TTL", "90m")
	t.Setenv("ADAPTIQ_LOG_MODE", "Production")
	t.Setenv("ADAPTIQ_SE_AT_CURRENT_THETA", "yes")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "redis://localhost:6379/2", cfg.RedisURL)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, LogProd, cfg.LogMode)
	assert.True(t, cfg.SEAtCurrentTheta)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		key, val string
	}{
		{"ADAPTIQ_SESSION_TTL", "six hours"},
		{"ADAPTIQ_SESSION_TTL", "-1h"},
		{"ADAPTIQ_SE_AT_CURRENT_THETA", "maybe"},
		{"ADAPTIQ_LOG_MODE", "verbose"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.val, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestResolveDBPathCreatesDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "dir", "adaptiq.db")
	got, err := Config{DBPath: p}.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestOpenSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		st, closeFn, err := Config{SessionTTL: time.Hour}.OpenSessions(ctx)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &session.MemoryStore{}, st)
	})

	t.Run("memory janitor evicts idle sessions", func(t *testing.T) {
		st, closeFn, err := Config{SessionTTL: time.Millisecond}.OpenSessions(ctx)
		require.NoError(t, err)
		defer closeFn()

		s := session.New("idle", "user-1", nil, nil, time.Now().Add(-time.Hour))
		require.NoError(t, st.Create(ctx, s))
		assert.Eventually(t, func() bool {
			n, _ := st.Len(ctx)
			return n == 0
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		st, closeFn, err := Config{RedisURL: "redis://" + mr.Addr(), SessionTTL: time.Hour}.OpenSessions(ctx)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &session.RedisStore{}, st)

		n, err := st.Len(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("bad url", func(t *testing.T) {
		_, _, err := Config{RedisURL: "::not-a-url"}.OpenSessions(ctx)
		assert.Error(t, err)
	})
}
