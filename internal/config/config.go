// Package config resolves NAAb's runtime configuration from the process
// environment, optionally loaded from a ".env" file first. The pattern —
// a best-effort godotenv.Load() followed by plain os.Getenv reads with
// defaults — mirrors the teacher pack's sqlite integration test setup.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	envMaxStackDepth   = "NAAB_MAX_STACK_DEPTH"
	envMarshalMaxDepth = "NAAB_MARSHAL_MAX_DEPTH"
	envMarshalMaxBytes = "NAAB_MARSHAL_MAX_BYTES"
	envCallTimeout     = "NAAB_CALL_TIMEOUT_MS" // 0 = infinite
	envCacheDir        = "NAAB_CACHE_DIR"
	envCppToolchain    = "NAAB_CPP_TOOLCHAIN"
	envGCThreshold     = "NAAB_GC_ALLOC_THRESHOLD"
	envLogLevel        = "NAAB_LOG_LEVEL"
)

// Config holds every tunable named in §4.4/§4.8/§5/§9.
type Config struct {
	MaxStackDepth      int           // §4.4 recursive call limit, default 10000
	MarshalMaxDepth    int           // §4.8 nesting guard, default 1000
	MarshalMaxBytes    int64         // §4.8 aggregate payload guard, default 100MB
	CallTimeout        time.Duration // §5 per-call boundary timeout, 0 = infinite
	CacheDir           string        // §4.7/§9 compiled-artifact cache root
	CppToolchain       string        // §4.7 compiler binary, default "clang++"
	GCAllocThreshold   int           // §4.5 allocation count before auto-collect
}

// Load reads a ".env" file if present (ignoring its absence, matching the
// teacher's `_ = godotenv.Load()` pattern) then resolves every setting from
// the environment, falling back to documented defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded, using process environment only")
	}

	cfg := &Config{
		MaxStackDepth:    envInt(envMaxStackDepth, 10000),
		MarshalMaxDepth:  envInt(envMarshalMaxDepth, 1000),
		MarshalMaxBytes:  envInt64(envMarshalMaxBytes, 100*1024*1024),
		CallTimeout:      envDurationMillis(envCallTimeout, 0),
		CacheDir:         envString(envCacheDir, defaultCacheDir()),
		CppToolchain:     envString(envCppToolchain, "clang++"),
		GCAllocThreshold: envInt(envGCThreshold, 10000),
	}

	if lvl, err := logrus.ParseLevel(envString(envLogLevel, "info")); err == nil {
		logrus.SetLevel(lvl)
	}
	return cfg
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".naab-cache"
	}
	return dir + "/naab"
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logrus.WithField("key", key).WithField("value", v).Warn("invalid integer config value, using default")
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		logrus.WithField("key", key).WithField("value", v).Warn("invalid integer config value, using default")
	}
	return def
}

func envDurationMillis(key string, defMillis int64) time.Duration {
	ms := envInt64(key, defMillis)
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
