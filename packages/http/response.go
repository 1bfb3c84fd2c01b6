package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Certificate describes the server certificate of a TLS response.
type Certificate struct {
	Subject      string    `json:"subject"`
	Issuer       string    `json:"issuer"`
	StartDate    time.Time `json:"startDate"`
	ExpireDate   time.Time `json:"expireDate"`
	SerialNumber string    `json:"serialNumber"`
}

type Response struct {
	Version     Version       `json:"version"`
	StatusCode  int           `json:"status"`
	Headers     HeaderList    `json:"headers"`
	Body        []byte        `json:"body"`
	Duration    time.Duration `json:"duration"`
	URL         string        `json:"url"`
	Certificate *Certificate  `json:"certificate,omitempty"`
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// ContentEncodings returns the codings listed by every Content-Encoding header.
func (r *Response) ContentEncodings() []ContentEncoding {
	return ParseContentEncodings(r.Headers.Values("Content-Encoding"))
}

// UncompressBody decodes Body with the response's Content-Encoding headers.
// A response without Content-Encoding is returned unchanged.
func (r *Response) UncompressBody() ([]byte, error) {
	return Decode(r.Body, r.ContentEncodings())
}

// StatusLine returns "<version> <status>", as curl prints it.
func (r *Response) StatusLine() string {
	return r.Version.String() + " " + strconv.Itoa(r.StatusCode)
}

// StatusLineHeaders renders the status line followed by one line per header,
// in received order. Repeated names are written once per occurrence.
func (r *Response) StatusLineHeaders(styled bool) string {
	status := r.StatusLine()
	name := func(s string) string { return s }
	if styled {
		status = forcedColor(color.FgGreen, color.Bold)(status)
		name = func(s string) string { return forcedColor(color.FgCyan, color.Bold)(s) }
	}

	var sb strings.Builder
	sb.WriteString(status)
	sb.WriteByte('\n')
	for _, h := range r.Headers {
		sb.WriteString(name(h.Name))
		sb.WriteString(": ")
		sb.WriteString(h.Value)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// forcedColor ignores color.NoColor: the caller has already decided to style.
func forcedColor(attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.SprintFunc()
}
