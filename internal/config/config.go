package config

import (
	"os"
	"strconv"
	"sync/atomic"
	"time"
)

// Config holds server settings, all overridable via environment
// variables. The AI thinking delay can also be changed at runtime
// through the config endpoint, so it lives behind an atomic.
type Config struct {
	HTTPAddr    string
	NATSURL     string
	AllowOrigin string

	aiDelayMS atomic.Int64
}

func getenvStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() *Config {
	c := &Config{
		HTTPAddr:    getenvStr("HTTP_ADDR", ":3000"),
		NATSURL:     getenvStr("NATS_URL", ""),
		AllowOrigin: getenvStr("ALLOW_ORIGIN", "*"),
	}
	c.aiDelayMS.Store(int64(getenvInt("AI_DELAY_MS", 1000)))
	return c
}

// AIDelay is how long the AI "thinks" before committing its card.
func (c *Config) AIDelay() time.Duration {
	return time.Duration(c.aiDelayMS.Load()) * time.Millisecond
}

func (c *Config) AIDelayMS() int {
	return int(c.aiDelayMS.Load())
}

func (c *Config) SetAIDelayMS(ms int) {
	if ms < 0 {
		ms = 0
	}
	c.aiDelayMS.Store(int64(ms))
}
