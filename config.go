package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	defaultAddr       = ":5055"
	defaultSessionTTL = 24 * time.Hour
	minSessionTTL     = time.Minute
	maxSessionTTL     = 30 * 24 * time.Hour
)

// serverConfig holds the process options of the action server. Engine
// settings live in slotguide.yml and are loaded by the slots package.
type serverConfig struct {
	Addr          string
	ConfigPath    string
	LogMode       string
	RedactLogs    bool
	Store         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration
}

func defaultServerConfig() serverConfig {
	return serverConfig{
		Addr:       defaultAddr,
		LogMode:    "dev",
		Store:      StoreMemory,
		SessionTTL: defaultSessionTTL,
	}
}

// applyEnv overrides cfg with SLOTGUIDE_* variables. REDIS_ADDR is honoured
// as a fallback for the Redis address.
func applyEnv(cfg serverConfig, getenv func(string) string) serverConfig {
	if getenv == nil {
		getenv = os.Getenv
	}
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str("SLOTGUIDE_ADDR", &cfg.Addr)
	str("SLOTGUIDE_CONFIG", &cfg.ConfigPath)
	str("SLOTGUIDE_LOG_MODE", &cfg.LogMode)
	str("SLOTGUIDE_STORE", &cfg.Store)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("SLOTGUIDE_REDIS_ADDR", &cfg.RedisAddr)
	str("SLOTGUIDE_REDIS_PASSWORD", &cfg.RedisPassword)
	if v, err := strconv.ParseBool(strings.TrimSpace(getenv("SLOTGUIDE_LOG_REDACT"))); err == nil {
		cfg.RedactLogs = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(getenv("SLOTGUIDE_REDIS_DB"))); err == nil {
		cfg.RedisDB = v
	}
	if v, err := time.ParseDuration(strings.TrimSpace(getenv("SLOTGUIDE_SESSION_TTL"))); err == nil {
		cfg.SessionTTL = v
	}
	return cfg
}

func sanitizeServerConfig(cfg serverConfig) serverConfig {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	cfg.ConfigPath = strings.TrimSpace(cfg.ConfigPath)
	switch strings.ToLower(strings.TrimSpace(cfg.LogMode)) {
	case "prod", "production":
		cfg.LogMode = "prod"
	default:
		cfg.LogMode = "dev"
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Store)) {
	case StoreRedis:
		cfg.Store = StoreRedis
	default:
		cfg.Store = StoreMemory
	}
	cfg.RedisAddr = strings.TrimSpace(cfg.RedisAddr)
	if cfg.Store == StoreRedis && cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.RedisDB < 0 {
		cfg.RedisDB = 0
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.SessionTTL < minSessionTTL {
		cfg.SessionTTL = minSessionTTL
	}
	if cfg.SessionTTL > maxSessionTTL {
		cfg.SessionTTL = maxSessionTTL
	}
	return cfg
}
