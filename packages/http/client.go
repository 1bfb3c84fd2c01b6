package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 50
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// credentialHeaders are not sent once a redirect leaves the original host.
var credentialHeaders = []string{"Authorization", "Cookie", "Proxy-Authorization"}

// Exchange is one request sent and the response received for it.
type Exchange struct {
	Request  *Request
	Response *Response
}

type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	compressed     bool
	proxyURL       string
	defaultHeaders HeaderList
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:      DefaultTimeout,
		maxRedirects: DefaultMaxRedirects,
		validateSSL:  true,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Bodies are kept as received; decoding happens when they are rendered.
	transport := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
		DisableCompression:  true,
		ForceAttemptHTTP2:   true,
	}

	if !c.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if c.proxyURL != "" {
		if proxyURL, err := ParseProxyURL(c.proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
		// Redirects are followed by Do so that every hop is recorded.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders.Add(key, value)
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests. A URL rejected by
// ParseProxyURL leaves the client without a proxy.
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithCompressed asks servers for a compressed body. The body is stored
// still encoded and the response keeps its Content-Encoding header.
func WithCompressed(compressed bool) ClientOption {
	return func(c *Client) {
		c.compressed = compressed
	}
}

// Compressed reports whether the client requests compressed bodies.
func (c *Client) Compressed() bool {
	return c.compressed
}

// Do sends req and, when redirects are followed, every follow-up request.
// Exchanges are returned in the order they happened; the last one holds the
// final response.
//
// Authorization, Cookie and Proxy-Authorization headers are dropped from any
// hop whose host differs from the host of req.
func (c *Client) Do(ctx context.Context, req *Request) ([]*Exchange, error) {
	origin := hostOf(req.URL)

	var exchanges []*Exchange
	current := req
	for {
		resp, err := c.doRequest(ctx, current, hostOf(current.URL) != origin)
		if err != nil {
			return exchanges, err
		}
		exchanges = append(exchanges, &Exchange{Request: current, Response: resp})

		if !c.followRedirect || !resp.IsRedirect() {
			return exchanges, nil
		}
		location := resp.Header("Location")
		if location == "" {
			return exchanges, nil
		}
		if len(exchanges) > c.maxRedirects {
			return exchanges, fmt.Errorf("too many redirects: limit is %d", c.maxRedirects)
		}

		next, err := redirectRequest(current, resp.StatusCode, location, origin)
		if err != nil {
			return exchanges, err
		}
		current = next
	}
}

func redirectRequest(prev *Request, status int, location, origin string) (*Request, error) {
	base, err := neturl.Parse(prev.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}
	target, err := base.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect location %q: %v", location, err)
	}

	next := NewRequest(prev.Method, target.String())
	next.Headers = prev.Headers
	if target.Host != origin {
		next.Headers = prev.Headers.Without(credentialHeaders...)
	}
	next.Body = prev.Body
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther:
		if prev.Method != http.MethodHead {
			next.Method = http.MethodGet
		}
		next.Body = nil
	}
	return next, nil
}

func hostOf(rawURL string) string {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func (c *Client) doRequest(ctx context.Context, req *Request, crossHost bool) (*Response, error) {
	if err := ValidateURL(req.URL); err != nil {
		return nil, err
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}

	defaults := c.defaultHeaders
	if crossHost {
		defaults = defaults.Without(credentialHeaders...)
	}
	defaults.Apply(httpReq.Header)

	// A request header replaces a default of the same name; repeated request
	// headers are all sent.
	overridden := make(map[string]bool)
	for _, h := range req.Headers {
		key := http.CanonicalHeaderKey(h.Name)
		if !overridden[key] {
			httpReq.Header.Del(key)
			overridden[key] = true
		}
		httpReq.Header.Add(key, h.Value)
	}
	if c.compressed && httpReq.Header.Get("Accept-Encoding") == "" {
		httpReq.Header.Set("Accept-Encoding", AcceptEncoding)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Version:     VersionFromProto(httpResp.ProtoMajor, httpResp.ProtoMinor),
		StatusCode:  httpResp.StatusCode,
		Headers:     HeaderListFromWire(httpResp.Header),
		Body:        respBody,
		Duration:    duration,
		URL:         httpReq.URL.String(),
		Certificate: certificateFromTLS(httpResp.TLS),
	}, nil
}

func certificateFromTLS(state *tls.ConnectionState) *Certificate {
	if state == nil || len(state.PeerCertificates) == 0 {
		return nil
	}
	cert := state.PeerCertificates[0]
	return &Certificate{
		Subject:      cert.Subject.String(),
		Issuer:       cert.Issuer.String(),
		StartDate:    cert.NotBefore,
		ExpireDate:   cert.NotAfter,
		SerialNumber: cert.SerialNumber.String(),
	}
}

// ParseProxyURL parses a proxy URL. Only http, https and socks5 proxies with
// a host are accepted.
func ParseProxyURL(rawURL string) (*neturl.URL, error) {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %v", err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy URL must have a host")
	}
	return u, nil
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
