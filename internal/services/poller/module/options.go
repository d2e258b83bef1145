package module

import (
	"time"

	"reqrelay/internal/core/route"
	"reqrelay/internal/core/sampler"
	"reqrelay/internal/platform/config"
	"reqrelay/internal/services/poller/service"
)

// Options controls the poller. Values may also be read from env
type Options struct {
	BaseURL      string
	Interval     time.Duration
	SampleWindow time.Duration
	Location     string
	Timeout      time.Duration
}

// FromConfig reads options using the POLLER_ prefix
func FromConfig(cfg config.Conf) Options {
	pc := cfg.Prefix("POLLER_")
	return Options{
		BaseURL:      pc.MayString("BASE_URL", "http://localhost:4000"),
		Interval:     pc.MayDuration("INTERVAL", service.DefaultInterval),
		SampleWindow: pc.MayDuration("SAMPLE_WINDOW", sampler.DefaultWindow),
		Location:     pc.MayString("LOCATION", route.Home),
		Timeout:      pc.MayDuration("TIMEOUT", 10*time.Second),
	}
}
