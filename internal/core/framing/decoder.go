package framing

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"reqrelay/internal/platform/logger"
)

const dataPrefix = "data: "

// MaxLineBytes bounds one stream line; longer lines are dropped whole
const MaxLineBytes = 4 << 20

// Decoder reads "data: <json>" lines and yields recognized frames
// Lines split across reads are reassembled by the underlying buffered reader
type Decoder struct {
	r    *bufio.Reader
	log  logger.Logger
	done error
	max  int

	// Dropped counts data lines that were not valid frame JSON or ran past the line cap
	Dropped int
	// Ignored counts valid frames of unknown kind
	Ignored int
}

// NewDecoder wraps r; malformed lines are reported on log
func NewDecoder(r io.Reader, log logger.Logger) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 32<<10), log: log, max: MaxLineBytes}
}

// Next returns the next recognized frame, or io.EOF once the stream is exhausted
func (d *Decoder) Next() (Frame, error) {
	for d.done == nil {
		line, rerr := d.readLine()
		if rerr != nil {
			d.done = rerr
			if errors.Is(rerr, io.EOF) {
				d.done = io.EOF
			}
		}
		if len(line) > 0 {
			// a trailing line without newline still counts; the read error surfaces next call
			if f, ok := d.parse(line); ok {
				return f, nil
			}
		}
	}
	return Frame{}, d.done
}

// readLine returns the next line including its newline; an oversized line
// is consumed up to its newline and comes back empty
func (d *Decoder) readLine() ([]byte, error) {
	var line []byte
	n := 0
	for {
		frag, err := d.r.ReadSlice('\n')
		n += len(frag)
		if n <= d.max {
			line = append(line, frag...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if n > d.max {
			d.Dropped++
			d.log.Warn().Int("bytes", n).Int("limit", d.max).Msg("dropping oversized stream line")
			return nil, err
		}
		return line, err
	}
}

func (d *Decoder) parse(line []byte) (Frame, bool) {
	line = bytes.TrimRight(line, "\r\n")
	if !bytes.HasPrefix(line, []byte(dataPrefix)) {
		return Frame{}, false
	}
	payload := bytes.TrimSpace(line[len(dataPrefix):])
	if len(payload) == 0 || bytes.Equal(payload, []byte("[DONE]")) {
		return Frame{}, false
	}

	var f Frame
	if err := json.Unmarshal(payload, &f); err != nil {
		d.Dropped++
		d.log.Warn().Err(err).Int("bytes", len(payload)).Msg("dropping malformed stream frame")
		return Frame{}, false
	}
	if !Known(f.Type) {
		d.Ignored++
		d.log.Debug().Str("type", string(f.Type)).Msg("ignoring unknown frame kind")
		return Frame{}, false
	}
	return Project(f), true
}
