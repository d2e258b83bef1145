// Package logger owns the process wide zerolog logger
// Configure it once with Init, or let the first Get read LOG_* from the environment
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"reqrelay/internal/platform/config/raw"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the logging type handed around the codebase
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level   string // zerolog level name; unknown values mean debug
	Format  string // "console" for human output, anything else is JSON
	Service string
	Writer  io.Writer // default os.Stdout

	WithCaller  bool
	SampleEvery int // keep one of every N events when > 1

	StaticFields map[string]string
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_CALLER and LOG_SAMPLE_EVERY
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       rc.Get("LEVEL", "debug"),
		Format:      strings.ToLower(rc.Get("FORMAT", "console")),
		Service:     rc.Get("SERVICE", ""),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	once sync.Once
	root *Logger
)

// Init builds the root logger; only the first call has any effect
func Init(opt Options) {
	once.Do(func() { root = build(opt) })
}

// Get returns the root logger, initializing it from the environment if needed
func Get() *Logger {
	once.Do(func() { root = build(FromEnv()) })
	return root
}

func build(opt Options) *Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	c := zerolog.New(out).Level(parseLevel(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		c = c.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		c = c.Str("service", opt.Service)
	}
	for k, v := range opt.StaticFields {
		c = c.Str(k, v)
	}
	if opt.WithCaller {
		c = c.Caller()
	}

	l := c.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return &l
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

// C returns a child of the root logger tagged with the request id carried by ctx
func C(ctx context.Context) *Logger {
	l := Get().With().Logger()
	if id := chimw.GetReqID(ctx); id != "" {
		l = l.With().Str("request_id", id).Logger()
	}
	return &l
}

// Named returns a child of the root logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
