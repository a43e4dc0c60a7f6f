package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"
)

const devJWTSecret = "dev-secret-change"

type Config struct {
	HostPort             string
	DevMode              bool
	JWTSecret            []byte
	UsingDevSecret       bool
	RedisEndpoint        string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
}

// Load reads the configuration from the environment. JWT_SECRET is base64;
// when unset a fixed development secret is used and UsingDevSecret is set.
func Load() (Config, error) {
	cfg := Config{
		HostPort:      getEnv("HOST_PORT", "8080"),
		RedisEndpoint: os.Getenv("REDIS_ENDPOINT"),
	}

	devMode, err := strconv.ParseBool(getEnv("DEV_MODE", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("DEV_MODE: %w", err)
	}
	cfg.DevMode = devMode

	if raw := os.Getenv("JWT_SECRET"); raw != "" {
		secret, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("JWT_SECRET: failed to decode base64: %w", err)
		}
		if len(secret) == 0 {
			return Config{}, fmt.Errorf("JWT_SECRET: empty secret")
		}
		cfg.JWTSecret = secret
	} else {
		cfg.JWTSecret = []byte(devJWTSecret)
		cfg.UsingDevSecret = true
	}

	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 14*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SessionSweepInterval, err = getDuration("SESSION_SWEEP_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}
