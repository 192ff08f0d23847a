package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort      string
	PanelHost       string
	BackendURL      string
	RedisAddr       string
	JWTSecret       string
	PanelPIN        string
	RefreshInterval time.Duration
}

func Load() *Config {
	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8090"),
		PanelHost:       getEnv("PANEL_HOST", "localhost"),
		BackendURL:      getEnv("BACKEND_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		JWTSecret:       getEnv("JWT_SECRET", "changeme"),
		PanelPIN:        getEnv("PANEL_PIN", ""),
		RefreshInterval: getEnvSeconds("REFRESH_INTERVAL_SECONDS", 30),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvSeconds(key string, def int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(def) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

// AuthRequired reports whether the panel asks for an operator PIN.
func (c *Config) AuthRequired() bool {
	return c.PanelPIN != ""
}
