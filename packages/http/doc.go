// Package http provides the HTTP exchange model and client used by hitbody.
//
// It wraps the standard library's http package with additional features:
//   - Ordered, repeatable response headers
//   - Protocol version tracking (HTTP/1.0 to HTTP/3)
//   - Content-Encoding decoding (gzip, deflate, br, zstd)
//   - Redirect hops recorded one exchange at a time
//   - curl-style status line and header rendering
package http
