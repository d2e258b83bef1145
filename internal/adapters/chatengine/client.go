// Package chatengine is a streaming client for the downstream chat engine
package chatengine

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"reqrelay/internal/core/requirements"
	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/platform/logger"
)

const (
	headerTimeout = 30 * time.Second
	userAgent     = "reqrelay"
	retries       = 2
	retryBase     = 250 * time.Millisecond
	retryCeiling  = 10 * time.Second
)

// Options for NewClient; zero values take the package defaults
type Options struct {
	URL       string
	UserAgent string
	// Timeout covers the wait for response headers; the body may stream for as long as it likes
	Timeout time.Duration
	// MaxRetries counts extra attempts after a transport error or transient status, before any body is read
	// negative disables retrying
	MaxRetries int
	RetryBase  time.Duration
}

// Request is the chat engine payload
type Request struct {
	Messages            []requirements.Message `json:"messages"`
	ContextOptimization bool                   `json:"contextOptimization"`
	Files               map[string]string      `json:"files"`
	PromptID            string                 `json:"promptId"`
	ProjectID           string                 `json:"projectId,omitempty"`
}

// RequestFromSeed builds the engine payload for seed, optionally bound to a project
func RequestFromSeed(seed requirements.Seed, projectID string) Request {
	return Request{
		Messages:            seed.Messages,
		ContextOptimization: seed.ContextOptimization,
		Files:               seed.Files,
		PromptID:            seed.PromptID,
		ProjectID:           projectID,
	}
}

// Client posts seeds to the engine and returns its event stream
type Client struct {
	hc    *http.Client
	opts  Options
	log   logger.Logger
	sleep func(context.Context, time.Duration) error
}

// NewClient fills in defaults and builds a transport with the header timeout applied
func NewClient(o Options) *Client {
	o.UserAgent = cmp.Or(o.UserAgent, userAgent)
	if o.Timeout <= 0 {
		o.Timeout = headerTimeout
	}
	switch {
	case o.MaxRetries < 0:
		o.MaxRetries = 0
	case o.MaxRetries == 0:
		o.MaxRetries = retries
	}
	if o.RetryBase <= 0 {
		o.RetryBase = retryBase
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.ResponseHeaderTimeout = o.Timeout
	return &Client{
		hc:    &http.Client{Transport: tr},
		opts:  o,
		log:   *logger.Named("chatengine"),
		sleep: sleepCtx,
	}
}

// Stream posts req and hands back the body once the engine answers 2xx; the caller closes it
// cookie is forwarded as-is when non-empty
func (c *Client) Stream(ctx context.Context, req Request, cookie string) (io.ReadCloser, error) {
	if c.opts.URL == "" {
		return nil, perr.Upstreamf("chat engine url not configured")
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode chat request")
	}

	for try := 0; ; try++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		body, retry, err := c.once(ctx, payload, cookie, try)
		if err == nil {
			return body, nil
		}
		if !retry || try >= c.opts.MaxRetries {
			return nil, err
		}
		wait := c.backoff(try)
		c.log.Warn().Err(err).Int("attempt", try).Dur("retry_in", wait).Msg("chat engine retrying")
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// sleepCtx waits d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// once makes a single POST; retry is set when the failure is worth another attempt
func (c *Client) once(ctx context.Context, payload []byte, cookie string, try int) (io.ReadCloser, bool, error) {
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, false, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "build chat request")
	}
	h := hreq.Header
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "text/event-stream")
	h.Set("User-Agent", c.opts.UserAgent)
	if cookie != "" {
		h.Set("Cookie", cookie)
	}

	began := time.Now()
	resp, err := c.hc.Do(hreq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, perr.Wrap(err, perr.ErrorCodeUpstream, "chat engine unreachable")
	}
	c.log.Debug().Int("status", resp.StatusCode).Int("attempt", try).Dur("latency", time.Since(began)).Msg("chat engine answered")

	if resp.StatusCode/100 == 2 {
		return resp.Body, false, nil
	}
	return nil, transient(resp.StatusCode), &StatusError{
		Status: resp.StatusCode,
		Body:   drainAndClose(resp.Body),
		Err:    perr.Upstreamf("chat engine status %d on attempt %d", resp.StatusCode, try+1),
	}
}

// backoff doubles from RetryBase per attempt up to retryCeiling
func (c *Client) backoff(try int) time.Duration {
	d := c.opts.RetryBase << uint(try)
	if d <= 0 || d > retryCeiling {
		return retryCeiling
	}
	return d
}
