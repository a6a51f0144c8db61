package store_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/store"
)

// MockFetcher simulates the network layer using testify/mock.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements store.Fetcher.
func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book"+config.ExtVCF)
	require.NoError(t, os.WriteFile(path, []byte(addressBook), config.FilePermUserRW))

	contacts, err := (&store.FileSource{Path: path}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "john-1"}, contacts.IDs())

	_, err = (&store.FileSource{Path: filepath.Join(t.TempDir(), "missing.vcf")}).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrVCardParse)
}

func TestWebSource_Load(t *testing.T) {
	ctx := context.Background()
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", ctx, "https://dav.test/book.vcf", "me", "pw").
		Return(io.NopCloser(strings.NewReader(addressBook)), nil).Once()

	src := &store.WebSource{URL: "https://dav.test/book.vcf", User: "me", Pass: "pw", Fetcher: fetcher}
	contacts, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
	fetcher.AssertExpectations(t)
}

func TestWebSource_NetworkError(t *testing.T) {
	ctx := context.Background()
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	_, err := (&store.WebSource{URL: "https://dav.test", Fetcher: fetcher}).Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrWebFetch)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWebSource_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		wantErr string
	}{
		{"Unauthorized", http.StatusUnauthorized, config.ErrWebAuth},
		{"Forbidden", http.StatusForbidden, config.ErrWebAuth},
		{"NotFound", http.StatusNotFound, config.ErrWebFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			fetcher := new(MockFetcher)
			fetcher.On("Fetch", ctx, mock.Anything, mock.Anything, mock.Anything).
				Return(nil, &store.StatusError{Code: tt.code, Status: http.StatusText(tt.code)})

			_, err := (&store.WebSource{URL: "https://dav.test", User: "me", Fetcher: fetcher}).Load(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var statusErr *store.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.code, statusErr.Code)
		})
	}
}

func TestWebSource_TooLarge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for range 4 {
			_, _ = w.Write([]byte(addressBook))
			w.(http.Flusher).Flush()
		}
	}))
	defer ts.Close()

	fetcher := store.NewHTTPFetcher()
	fetcher.MaxBytes = int64(len(addressBook))
	_, err := (&store.WebSource{URL: ts.URL, Fetcher: fetcher}).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrTooLarge)
	assert.Contains(t, err.Error(), config.ErrVCardRead)
}

func TestNewSource(t *testing.T) {
	fetcher := new(MockFetcher)

	tests := []struct {
		name    string
		opts    config.Options
		fetcher store.Fetcher
		wantErr string
		want    any
	}{
		{"Local", config.Options{Source: config.SourceModeLocal, LocalPath: "book.vcf"}, nil, "", &store.FileSource{}},
		{"LocalNoPath", config.Options{Source: config.SourceModeLocal}, nil, config.ErrLocalPathEmpty, nil},
		{"Web", config.Options{Source: config.SourceModeWeb, WebURL: "https://dav.test"}, fetcher, "", &store.WebSource{}},
		{"WebNoURL", config.Options{Source: config.SourceModeWeb}, fetcher, config.ErrWebURLEmpty, nil},
		{"WebNoFetcher", config.Options{Source: config.SourceModeWeb, WebURL: "https://dav.test"}, nil, config.ErrFetcherMissing, nil},
		{"SQL", config.Options{Source: config.SourceModeSQL, MySQLDSN: "u:p@tcp(127.0.0.1:3306)/db"}, nil, "", &store.SQLSource{}},
		{"SQLNoDSN", config.Options{Source: config.SourceModeSQL}, nil, config.ErrDSNEmpty, nil},
		{"Unknown", config.Options{Source: "ldap"}, nil, config.ErrModeUnsupport, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := store.NewSource(tt.opts, tt.fetcher)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
			if closer, ok := src.(io.Closer); ok {
				assert.NoError(t, closer.Close())
			}
		})
	}
}
