package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"
)

// OutboundSender delivers one SMS part to a recipient. The pipeline calls it
// once per segment, in order.
type OutboundSender interface {
	Send(ctx context.Context, to, part string) error
}

// MockSender appends every part to a rotating outbox file instead of
// contacting a carrier. Lines look like:
//
//	1718000000|MOCK_SEND|to=27821234567|from=27820000000|hello
type MockSender struct {
	From string
	Now  func() time.Time

	mu  sync.Mutex
	out io.Writer
}

// NewMockSender writes to path, rotating at 10 MB and keeping 3 backups.
// The returned closer releases the file.
func NewMockSender(path, from string) (*MockSender, io.Closer) {
	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}
	return NewMockSenderTo(rot, from), rot
}

// NewMockSenderTo writes outbox lines to w.
func NewMockSenderTo(w io.Writer, from string) *MockSender {
	return &MockSender{From: from, Now: time.Now, out: w}
}

// Send implements OutboundSender.
func (m *MockSender) Send(_ context.Context, to, part string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := fmt.Fprintf(m.out, "%d|MOCK_SEND|to=%s|from=%s|%s\n", m.Now().Unix(), to, m.From, part)
	return err
}

// HTTPSenderOptions configures the live SMS gateway client.
type HTTPSenderOptions struct {
	BaseURL string        // e.g. https://sms-gateway.example.com
	APIKey  string        // sent as a bearer token
	From    string        // sender id
	RPS     float64       // outbound parts per second; <= 0 disables pacing
	Burst   int           // pacing burst; values <= 0 are coerced to 1
	Timeout time.Duration // per-request client timeout; defaults to 15s
	Client  *http.Client  // optional; a traced client is built when nil
}

// HTTPSender posts each part to {BaseURL}/messages as JSON. Parts are paced
// by a token bucket shared across all recipients so bursts of long replies
// stay under the gateway's throughput limit.
type HTTPSender struct {
	opts    HTTPSenderOptions
	client  *http.Client
	limiter *rate.Limiter
}

type outboundMessage struct {
	To   string `json:"to"`
	From string `json:"from"`
	Text string `json:"text"`
}

// NewHTTPSender builds a live sender.
func NewHTTPSender(opts HTTPSenderOptions) *HTTPSender {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	lim := rate.NewLimiter(rate.Inf, opts.Burst)
	if opts.RPS > 0 {
		lim = rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst)
	}
	return &HTTPSender{
		opts:    opts,
		client:  client,
		limiter: lim,
	}
}

// Send implements OutboundSender. Any non-2xx response is an error.
func (s *HTTPSender) Send(ctx context.Context, to, part string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(outboundMessage{To: to, From: s.opts.From, Text: part})
	if err != nil {
		return err
	}
	url := strings.TrimRight(s.opts.BaseURL, "/") + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.opts.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway returned %d", resp.StatusCode)
	}
	return nil
}
