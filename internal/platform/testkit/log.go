package testkit

import (
	"bytes"
	"sync"

	"github.com/rs/zerolog"
)

// LogBuffer is a goroutine safe sink for captured log lines
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CaptureLogger returns a debug level JSON logger writing into a LogBuffer
func CaptureLogger() (zerolog.Logger, *LogBuffer) {
	b := &LogBuffer{}
	return zerolog.New(b).Level(zerolog.DebugLevel), b
}
