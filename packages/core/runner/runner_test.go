package runner

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hhttp "github.com/abdul-hamid-achik/hitbody/packages/http"
)

func getStep(url string) *Step {
	return &Step{Request: hhttp.NewRequest("GET", url)}
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil config", func(t *testing.T) {
		r := NewRunner(nil)
		assert.NotNil(t, r)
		assert.NotNil(t, r.client)
		assert.NotNil(t, r.logger)
	})

	t.Run("with custom config", func(t *testing.T) {
		cfg := &Config{
			Timeout:    time.Second,
			Compressed: true,
			Bail:       true,
		}
		r := NewRunner(cfg)
		assert.True(t, r.config.Bail)
		assert.True(t, r.client.Compressed())
	})
}

func TestRunner_Run(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"path": "` + r.URL.Path + `"}`))
	}))
	defer server.Close()

	r := NewRunner(nil)
	result, err := r.Run(context.Background(), "", []*Step{
		getStep(server.URL + "/one"),
		getStep(server.URL + "/two"),
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.ID)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, 1, result.Steps[0].Index)
	assert.Equal(t, 2, result.Steps[1].Index)

	step, call, ok := result.LastCall()
	require.True(t, ok)
	assert.Same(t, result.Steps[1], step)
	assert.Equal(t, `{"path": "/two"}`, call.Response.BodyString())
	assert.False(t, step.Compressed)
}

func TestRunner_Run_RedirectsBecomeCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("moved"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	r := NewRunner(&Config{FollowRedirect: true})
	result, err := r.Run(context.Background(), "", []*Step{getStep(server.URL + "/old")})

	require.NoError(t, err)
	require.Len(t, result.Steps[0].Calls, 2)
	_, call, ok := result.LastCall()
	require.True(t, ok)
	assert.Equal(t, "moved", call.Response.BodyString())
}

func TestRunner_Run_CompressedFlag(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte("zipped"))
	require.NoError(t, gz.Close())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") == "" {
			_, _ = w.Write([]byte("zipped"))
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	t.Run("compressed requested", func(t *testing.T) {
		result, err := NewRunner(&Config{Compressed: true}).Run(context.Background(), "", []*Step{getStep(server.URL)})
		require.NoError(t, err)
		assert.True(t, result.Steps[0].Compressed)
		assert.Equal(t, buf.Bytes(), result.Steps[0].Calls[0].Response.Body)
	})

	t.Run("compressed not requested", func(t *testing.T) {
		result, err := NewRunner(nil).Run(context.Background(), "", []*Step{getStep(server.URL)})
		require.NoError(t, err)
		assert.False(t, result.Steps[0].Compressed)
		assert.Equal(t, "zipped", result.Steps[0].Calls[0].Response.BodyString())
	})
}

func TestRunner_Run_ErrorKeepsSource(t *testing.T) {
	source := SourceInfo{Start: Position{Line: 3, Column: 1}, End: Position{Line: 3, Column: 20}}
	step := &Step{Source: source, Request: hhttp.NewRequest("GET", "ftp://example.com")}

	result, err := NewRunner(nil).Run(context.Background(), "", []*Step{step})

	require.NoError(t, err)
	assert.False(t, result.Success)
	require.Len(t, result.Errors(), 1)
	runErr := result.Errors()[0]
	assert.Equal(t, ErrorKindHTTP, runErr.Kind)
	assert.Equal(t, source, runErr.Source)
	assert.Empty(t, result.Steps[0].Calls)

	_, _, ok := result.LastCall()
	assert.False(t, ok)
}

func TestRunner_Run_Bail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	steps := []*Step{getStep("ftp://bad"), getStep(server.URL)}

	result, err := NewRunner(&Config{Bail: true}).Run(context.Background(), "", steps)
	require.NoError(t, err)
	assert.Len(t, result.Steps, 1)

	result, err = NewRunner(&Config{Bail: false}).Run(context.Background(), "", steps)
	require.NoError(t, err)
	assert.Len(t, result.Steps, 2)
	assert.False(t, result.Success)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewRunner(nil).Run(ctx, "", []*Step{getStep("http://example.com")})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Steps)
}

func TestRunner_Run_MaxRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("moved"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	zero := 0
	result, err := NewRunner(&Config{FollowRedirect: true, MaxRedirects: &zero}).
		Run(context.Background(), "", []*Step{getStep(server.URL + "/old")})

	require.NoError(t, err)
	assert.False(t, result.Success)
	require.Len(t, result.Steps[0].Calls, 1)
	assert.Equal(t, 302, result.Steps[0].Calls[0].Response.StatusCode)
	require.Len(t, result.Errors(), 1)
	assert.Contains(t, result.Errors()[0].Error(), "too many redirects: limit is 0")
}

func TestRunner_Run_Proxy(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("proxied " + r.Host))
	}))
	defer proxy.Close()

	result, err := NewRunner(&Config{Proxy: proxy.URL}).
		Run(context.Background(), "", []*Step{getStep("http://origin.invalid/")})

	require.NoError(t, err)
	_, call, ok := result.LastCall()
	require.True(t, ok)
	assert.Equal(t, "proxied origin.invalid", call.Response.BodyString())
}
