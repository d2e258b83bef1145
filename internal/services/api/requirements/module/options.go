package module

import (
	"strings"
	"time"

	"reqrelay/internal/platform/config"
)

// Backends understood by MAILBOX_BACKEND
const (
	BackendMemory = "memory"
	BackendPG     = "pg"
)

// Options controls mailbox storage
type Options struct {
	Backend string
	Timeout time.Duration
}

// FromConfig reads MAILBOX_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	mc := cfg.Prefix("MAILBOX_")
	return Options{
		Backend: strings.ToLower(mc.MayString("BACKEND", BackendMemory)),
		Timeout: mc.MayDuration("TIMEOUT", 10*time.Second),
	}
}
