package challenge_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/certkit/core/challenge"
)

func TestValidationPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		domain string
		want   string
	}{
		{"http", "http://example.com/.well-known/pki-validation/abc.txt", "example.com", "/.well-known/pki-validation/abc.txt"},
		{"https", "https://example.com/.well-known/pki-validation/abc.txt", "example.com", "/.well-known/pki-validation/abc.txt"},
		{"short", "http://foo.example.com/abc", "foo.example.com", "/abc"},
		{"already a path", "/abc", "example.com", "/abc"},
		{"no leading slash", "abc", "example.com", "/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, challenge.ValidationPath(tt.url, tt.domain))
		})
	}
}

func TestHandler(t *testing.T) {
	t.Parallel()

	h := challenge.New(":0", "/abc", []string{"line1", "line2", "line3"}).Handler()

	t.Run("serves content", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/abc", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
		assert.Equal(t, "line1\nline2\nline3", rec.Body.String())
	})

	t.Run("head", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/abc", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "17", rec.Header().Get("Content-Length"))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("other path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("post", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/abc", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServerLifecycle(t *testing.T) {
	t.Parallel()

	srv := challenge.New("127.0.0.1:0", "/abc", []string{"line1"})
	require.NoError(t, srv.Start(context.Background()))

	addr := srv.Addr()
	resp, err := http.Get("http://" + addr + "/abc")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "line1", string(body))

	resp, err = http.Get("http://" + addr + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())

	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err, "port must be released")
	_ = ln.Close()
}
