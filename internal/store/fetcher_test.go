package store_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/store"
)

// TestHTTPFetcher_Fetch_Success checks headers (User-Agent, Accept, Basic Auth) and body integrity.
func TestHTTPFetcher_Fetch_Success(t *testing.T) {
	expectedBody := "BEGIN:VCARD\nVERSION:3.0\nFN:Test\nEND:VCARD"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "Basic auth header should be present")
		assert.Equal(t, "testuser", user)
		assert.Equal(t, "securepass", pass)
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))
		assert.Equal(t, config.MimeTextVCard, r.Header.Get(config.HeaderAccept))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(expectedBody))
	}))
	defer ts.Close()

	rc, err := store.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "testuser", "securepass")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, expectedBody, string(body))
}

func TestHTTPFetcher_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"NotFound", http.StatusNotFound, "404"},
		{"ServerError", http.StatusInternalServerError, "500"},
		{"Unauthorized", http.StatusUnauthorized, "401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			rc, err := store.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
			assert.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), tt.wantErr)

			var statusErr *store.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.statusCode, statusErr.Code)
			assert.Equal(t, tt.statusCode == http.StatusUnauthorized, statusErr.Unauthorized())
		})
	}
}

func TestHTTPFetcher_Fetch_TooLarge(t *testing.T) {
	body := strings.Repeat("x", 64)

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"DeclaredLength", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}},
		{"Streamed", func(w http.ResponseWriter, r *http.Request) {
			for i := 0; i < len(body); i += 8 {
				_, _ = w.Write([]byte(body[i : i+8]))
				w.(http.Flusher).Flush()
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			f := store.NewHTTPFetcher()
			f.MaxBytes = 16
			rc, err := f.Fetch(context.Background(), ts.URL, "", "")
			if err == nil {
				defer func() { _ = rc.Close() }()
				_, err = io.ReadAll(rc)
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, store.ErrTooLarge)
		})
	}
}

func TestHTTPFetcher_Fetch_ExactLimit(t *testing.T) {
	body := strings.Repeat("x", 16)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer ts.Close()

	f := store.NewHTTPFetcher()
	f.MaxBytes = 16
	rc, err := f.Fetch(context.Background(), ts.URL, "", "")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestHTTPFetcher_Fetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := store.NewHTTPFetcher().Fetch(ctx, ts.URL, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPFetcher_Fetch_InvalidURL(t *testing.T) {
	_, err := store.NewHTTPFetcher().Fetch(context.Background(), string([]byte{0x7f}), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInvalidURL)
}

func TestHTTPFetcher_Fetch_ProtocolSecurity(t *testing.T) {
	_, err := store.NewHTTPFetcher().Fetch(context.Background(), "ftp://example.com/file.vcf", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrProtocol)
}
