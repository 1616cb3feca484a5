// Package config resolves process configuration from ADAPTIQ_* environment
// variables and opens the stores it names.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/store"
)

type LogMode string

const (
	LogDev  LogMode = "dev"
	LogProd LogMode = "prod"
)

type Config struct {
	// DBPath is the SQLite file for items and events. Empty means the
	// default XDG data location.
	DBPath string

	// RedisURL selects the Redis session store when set; sessions stay in
	// memory otherwise.
	RedisURL string

	SessionTTL time.Duration
	LogMode    LogMode

	// SEAtCurrentTheta evaluates the standard error at the current ability
	// estimate rather than at 0.
	SEAtCurrentTheta bool
}

// FromEnv reads the configuration. Malformed durations and booleans are
// reported rather than silently defaulted.
func FromEnv() (Config, error) {
	ttl, err := envDuration("ADAPTIQ_SESSION_TTL", session.DefaultTTL)
	if err != nil {
		return Config{}, err
	}
	seAtTheta, err := envBool("ADAPTIQ_SE_AT_CURRENT_THETA", false)
	if err != nil {
		return Config{}, err
	}
	mode := LogMode(strings.ToLower(envOr("ADAPTIQ_LOG_MODE", string(LogDev))))
	if mode == "production" {
		mode = LogProd
	}
	if mode != LogDev && mode != LogProd {
		return Config{}, fmt.Errorf("ADAPTIQ_LOG_MODE: unknown mode %q", mode)
	}
	return Config{
		DBPath:           envOr("ADAPTIQ_DB", ""),
		RedisURL:         envOr("ADAPTIQ_REDIS_URL", ""),
		SessionTTL:       ttl,
		LogMode:          mode,
		SEAtCurrentTheta: seAtTheta,
	}, nil
}

// ResolveDBPath returns DBPath, or the default location when empty, and
// makes sure its directory exists.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath == "" {
		return store.DefaultDBPath()
	}
	return c.DBPath, store.EnsureDir(c.DBPath)
}

// janitorInterval bounds how often the in-memory store sweeps idle sessions.
const janitorInterval = time.Minute

// OpenSessions returns the session store the configuration selects and a
// function releasing it. The in-memory store runs its janitor until the
// release function is called.
func (c Config) OpenSessions(ctx context.Context) (session.Store, func() error, error) {
	if c.RedisURL == "" {
		ms := session.NewMemoryStore(c.SessionTTL)
		if c.SessionTTL <= 0 {
			return ms, func() error { return nil }, nil
		}
		jctx, cancel := context.WithCancel(ctx)
		go ms.RunJanitor(jctx, min(c.SessionTTL, janitorInterval))
		return ms, func() error { cancel(); return nil }, nil
	}
	rs, err := session.OpenRedis(ctx, c.RedisURL, c.SessionTTL)
	if err != nil {
		return nil, nil, err
	}
	return rs, rs.Close, nil
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", k, err)
	}
	if d < 0 {
		return def, fmt.Errorf("%s: negative duration %s", k, d)
	}
	return d, nil
}
