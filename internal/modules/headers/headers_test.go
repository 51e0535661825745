package headers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tldr-it-stepankutaj/reconx/internal/modules"
)

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "testserver/1.0")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		_, _ = w.Write([]byte("<html><head><title>Login Portal</title></head><body>hi</body></html>"))
	}))
	defer srv.Close()

	out, err := New().Run(context.Background(), srv.URL, modules.Options{Timeout: 2 * time.Second})
	require.NoError(t, err)

	result, ok := out.(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "200 OK", result["status"])
	assert.Equal(t, "testserver/1.0", result["server"])
	assert.Equal(t, "Login Portal", result["title"])

	missing, ok := result["missing_security_headers"].([]string)
	require.True(t, ok)
	assert.Contains(t, missing, "Content-Security-Policy")
	assert.NotContains(t, missing, "X-Content-Type-Options")

	hdrs, ok := result["headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "testserver/1.0", hdrs["Server"])
}

func TestRun_SchemeAddedWhenMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	// Strip the scheme; the module should add http:// itself.
	host := srv.Listener.Addr().String()
	out, err := New().Run(context.Background(), host, modules.Options{Timeout: 2 * time.Second})
	require.NoError(t, err)

	result := out.(map[string]any)
	assert.Equal(t, "204 No Content", result["status"])
	assert.Equal(t, "http://"+host, result["url"])
}

func TestRun_ConnectionRefused(t *testing.T) {
	// Bind and close so nothing is listening there.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New().Run(context.Background(), url, modules.Options{Timeout: 500 * time.Millisecond})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP request failed")
}
