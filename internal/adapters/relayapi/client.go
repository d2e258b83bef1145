// Package relayapi is the client the poller uses to talk to the reqrelay API
package relayapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reqrelay/internal/core/framing"
	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/platform/logger"

	convdom "reqrelay/internal/services/api/conversations/domain"
	reldom "reqrelay/internal/services/api/relay/domain"
	reqdom "reqrelay/internal/services/api/requirements/domain"
)

const apiPrefix = "/api/v1"

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string

	// Timeout bounds envelope calls; relay streams are bounded by their context only
	Timeout time.Duration
}

// Client calls the requirements, relay and conversations routes
type Client struct {
	base    string
	ua      string
	timeout time.Duration
	http    *http.Client
	log     logger.Logger
}

// New creates a Client; BaseURL is required
func New(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = "reqrelay-poller"
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	return &Client{
		base:    strings.TrimRight(o.BaseURL, "/"),
		ua:      o.UserAgent,
		timeout: o.Timeout,
		http:    &http.Client{},
		log:     *logger.Named("relayapi"),
	}
}

// envelope mirrors the platform response wire
type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       perr.ErrorCode  `json:"code"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

// Status reads the mailbox projection
func (c *Client) Status(ctx context.Context) (reqdom.Status, error) {
	var st reqdom.Status
	err := c.call(ctx, http.MethodGet, "/requirements", nil, &st)
	return st, err
}

// Submit stages content for target; an empty target starts a new conversation
func (c *Client) Submit(ctx context.Context, content, target string) (reqdom.Ack, error) {
	var ack reqdom.Ack
	err := c.call(ctx, http.MethodPost, "/requirements", reqdom.SubmitInput{Content: content, Target: target}, &ack)
	return ack, err
}

// Ack marks the entry processed; entryID guards against acking a replacement
func (c *Client) Ack(ctx context.Context, entryID string) error {
	in := reqdom.SubmitInput{MarkAsProcessed: true, EntryID: entryID}
	return c.call(ctx, http.MethodPost, "/requirements", in, nil)
}

// SaveMessages replaces the stored message list of conversation id
func (c *Client) SaveMessages(ctx context.Context, id string, msgs []convdom.Message) (convdom.SaveOutput, error) {
	var out convdom.SaveOutput
	err := c.call(ctx, http.MethodPut, "/conversations/"+url.PathEscape(id)+"/messages", convdom.SaveInput{Messages: msgs}, &out)
	return out, err
}

// LoadMessages reads the stored message list of conversation id
func (c *Client) LoadMessages(ctx context.Context, id string) (convdom.History, error) {
	var h convdom.History
	err := c.call(ctx, http.MethodGet, "/conversations/"+url.PathEscape(id)+"/messages", nil, &h)
	return h, err
}

// Relay posts in and hands each decoded frame to fn until the stream ends
// Errors before the stream starts arrive as envelopes and are returned as coded errors
func (c *Client) Relay(ctx context.Context, in reldom.RelayInput, fn func(framing.Frame) error) error {
	body, err := json.Marshal(in)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode relay request")
	}
	req, err := c.request(ctx, http.MethodPost, "/relay", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUpstream, "relay unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return decodeError(resp)
	}

	dec := framing.NewDecoder(resp.Body, c.log)
	for {
		f, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return perr.Wrap(err, perr.ErrorCodeUpstream, "relay stream interrupted")
		}
		if err := fn(f); err != nil {
			return err
		}
	}
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "encode request")
		}
		body = bytes.NewReader(b)
	}
	req, err := c.request(ctx, method, path, body)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "%s %s", method, path)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return decodeError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "decode envelope")
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "decode envelope data")
	}
	return nil
}

func (c *Client) request(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if c.base == "" {
		return nil, perr.InvalidArgf("relay api base url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+apiPrefix+path, body)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "build %s %s", method, path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.ua)
	return req, nil
}

// decodeError turns an error envelope into a coded error; unknown bodies map by status
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Code != 0 {
		return perr.New(env.Code, env.Error)
	}
	code := perr.ErrorCodeUpstream
	switch resp.StatusCode {
	case http.StatusBadRequest:
		code = perr.ErrorCodeValidation
	case http.StatusNotFound:
		code = perr.ErrorCodeNotFound
	case http.StatusConflict:
		code = perr.ErrorCodeConflict
	}
	return perr.Newf(code, "status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
