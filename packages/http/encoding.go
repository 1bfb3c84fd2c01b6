package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// ContentEncoding is one coding listed in a Content-Encoding header.
type ContentEncoding string

const (
	EncodingGzip     ContentEncoding = "gzip"
	EncodingDeflate  ContentEncoding = "deflate"
	EncodingBrotli   ContentEncoding = "br"
	EncodingZstd     ContentEncoding = "zstd"
	EncodingIdentity ContentEncoding = "identity"
)

// AcceptEncoding is the Accept-Encoding value sent when a compressed body is requested.
const AcceptEncoding = "gzip, deflate, br, zstd"

// MaxDecodedSize caps the size of a body once decoded.
const MaxDecodedSize = 256 << 20

// ErrBodyTooLarge is wrapped by a DecompressionError when a decoded body
// would exceed MaxDecodedSize.
var ErrBodyTooLarge = errors.New("decoded body too large")

// DecompressionError is returned when a body cannot be decoded with its
// recorded content encodings.
type DecompressionError struct {
	Encoding ContentEncoding
	Err      error
}

func (e *DecompressionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("could not uncompress response with content encoding <%s>", e.Encoding)
	}
	return fmt.Sprintf("could not uncompress response with content encoding <%s>: %v", e.Encoding, e.Err)
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}

// ParseContentEncodings splits every Content-Encoding value into its codings,
// in the order they were applied by the server.
func ParseContentEncodings(values []string) []ContentEncoding {
	var encodings []ContentEncoding
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			encodings = append(encodings, ContentEncoding(part))
		}
	}
	return encodings
}

// Decode reverses a list of encodings. Codings are undone last-applied first.
func Decode(data []byte, encodings []ContentEncoding) ([]byte, error) {
	return decodeLimited(data, encodings, MaxDecodedSize)
}

func decodeLimited(data []byte, encodings []ContentEncoding, limit int64) ([]byte, error) {
	out := data
	for i := len(encodings) - 1; i >= 0; i-- {
		decoded, err := decodeOne(out, encodings[i], limit)
		if err != nil {
			return nil, err
		}
		out = decoded
	}
	return out, nil
}

func decodeOne(data []byte, encoding ContentEncoding, limit int64) ([]byte, error) {
	switch encoding {
	case EncodingIdentity:
		return data, nil
	case EncodingGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, &DecompressionError{Encoding: encoding, Err: err}
		}
		defer r.Close()
		return readAll(r, encoding, limit)
	case EncodingDeflate:
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, &DecompressionError{Encoding: encoding, Err: err}
		}
		defer r.Close()
		return readAll(r, encoding, limit)
	case EncodingBrotli:
		return readAll(brotli.NewReader(bytes.NewReader(data)), encoding, limit)
	case EncodingZstd:
		d, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderMaxMemory(uint64(limit)))
		if err != nil {
			return nil, &DecompressionError{Encoding: encoding, Err: err}
		}
		defer d.Close()
		return readAll(d, encoding, limit)
	}
	return nil, &DecompressionError{Encoding: encoding}
}

func readAll(r io.Reader, encoding ContentEncoding, limit int64) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, &DecompressionError{Encoding: encoding, Err: err}
	}
	if int64(len(out)) > limit {
		return nil, &DecompressionError{Encoding: encoding, Err: ErrBodyTooLarge}
	}
	return out, nil
}
