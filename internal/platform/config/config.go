// Package config reads typed settings from environment variables
// Keys are namespaced by prefix: New().Prefix("CORE_").Prefix("PG_") reads CORE_PG_*
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"reqrelay/internal/platform/logger"
)

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a view whose keys are prefixed by p on top of the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key is the fully qualified variable name for key
func (c Conf) Key(key string) string { return c.prefix + key }

func (c Conf) lookup(key string) string { return strings.TrimSpace(os.Getenv(c.Key(key))) }

// MustString returns the value of key and panics when it is unset or blank
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.Key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value of key or def when it is unset or blank
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns key as an int, or def when unset; unparsable values log a warning and yield def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayBool accepts the strconv.ParseBool spellings
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration accepts time.ParseDuration strings like 250ms or 2s
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blank items
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Interface("default", def).
			Msg("invalid env value; using default")
		return def
	}
	return v
}
