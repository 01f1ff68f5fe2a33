/*
	httpfetch package retrieves raw page bodies over HTTP(S). Every failure,
	be it a refused address, a dial error, a timeout or a non-2xx response,
	is reported as an error wrapping ErrTransport so callers can skip the
	URL with a single errors.Is check.
*/

package httpfetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultUserAgent mimics a desktop browser; some sites refuse requests
	// from unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

	// DefaultTimeout bounds a whole request, body included.
	DefaultTimeout = 5 * time.Second
)

var (
	// ErrTransport is wrapped by every error returned from Fetch.
	ErrTransport = errors.New("transport failure")

	// ErrPrivateNetwork is returned when the target host resolves to a
	// private network and a detector is configured.
	ErrPrivateNetwork = fmt.Errorf("%w: host resolves to a private network", ErrTransport)
)

// PrivateNetworkDetector should be implemented by objects that can detect
// whether a host resolves to a private network address.
type PrivateNetworkDetector interface {
	IsNetworkPrivate(host string) (bool, error)
}

// Config configures a Fetcher.
type Config struct {
	// Sent with every request. Defaults to DefaultUserAgent.
	UserAgent string

	// Request timeout. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Optional guard against fetching private network addresses. Nil
	// disables the check.
	NetDetector PrivateNetworkDetector

	// Optional client override, mainly for tests. When set, Timeout is
	// ignored.
	Client *http.Client
}

// Fetcher performs GET requests and returns the response body.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	netDetector PrivateNetworkDetector
}

// New returns a Fetcher configured from cfg.
func New(cfg Config) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   cfg.Timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   cfg.Timeout,
				ExpectContinueTimeout: time.Second,
			},
		}
	}

	return &Fetcher{
		client:      client,
		userAgent:   cfg.UserAgent,
		netDetector: cfg.NetDetector,
	}
}

// Fetch retrieves the body of rawURL. Only 2xx responses are accepted.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.checkNetwork(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %q: %v", ErrTransport, rawURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Connection", "keep-alive")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %q: %v", ErrTransport, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil, fmt.Errorf("%w: get %q: unexpected status %d", ErrTransport, rawURL, resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("%w: read body of %q: %v", ErrTransport, rawURL, err)
	}

	return buf.Bytes(), nil
}

func (f *Fetcher) checkNetwork(rawURL string) error {
	if f.netDetector == nil {
		return nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: parse %q: %v", ErrTransport, rawURL, err)
	}

	isPrivate, err := f.netDetector.IsNetworkPrivate(u.Hostname())
	if err != nil {
		return fmt.Errorf("%w: resolve %q: %v", ErrTransport, u.Hostname(), err)
	}

	if isPrivate {
		return fmt.Errorf("%w: %q", ErrPrivateNetwork, rawURL)
	}

	return nil
}
