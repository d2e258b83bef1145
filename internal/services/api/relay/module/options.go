package module

import (
	"time"

	"reqrelay/internal/core/requirements"
	"reqrelay/internal/platform/config"
)

// Options controls the relay and its chat engine client
type Options struct {
	WorkDir    string
	Ledger     bool
	MaxStreams int

	// chat engine
	EngineURL  string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

// FromConfig reads CORE_API_RELAY_* and CHAT_ENGINE_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("CORE_API_RELAY_")
	ec := cfg.Prefix("CHAT_ENGINE_")
	return Options{
		WorkDir:    rc.MayString("WORKDIR", requirements.DefaultWorkDir),
		Ledger:     rc.MayBool("LEDGER", true),
		MaxStreams: rc.MayInt("MAX_STREAMS", 32),
		EngineURL:  ec.MayString("URL", ""),
		UserAgent:  ec.MayString("UA", "reqrelay-relay"),
		Timeout:    ec.MayDuration("TIMEOUT", 30*time.Second),
		MaxRetries: ec.MayInt("MAX_RETRIES", 2),
		RetryBase:  ec.MayDuration("RETRY_BASE", 250*time.Millisecond),
	}
}
