package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-contact-sync/internal/config"
)

// ErrTooLarge is returned when an address book exceeds the fetcher's size limit.
var ErrTooLarge = errors.New(config.ErrFetchTooLarge)

// Fetcher retrieves a vCard stream from a remote address book.
type Fetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// StatusError is a non-200 answer from the address book server.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", config.ErrFetchStatus, e.Status)
}

// Unauthorized reports whether the server refused the credentials.
func (e *StatusError) Unauthorized() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}

// HTTPFetcher implements Fetcher for CardDAV/WebDAV export URLs.
type HTTPFetcher struct {
	Client *http.Client
	// MaxBytes caps the body size. Zero means config.MaxHTTPResponseSize.
	MaxBytes int64
}

// NewHTTPFetcher creates a fetcher with the configured timeout and size limit.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:   &http.Client{Timeout: config.HTTPTimeout},
		MaxBytes: config.MaxHTTPResponseSize,
	}
}

// Fetch downloads the address book at targetURL. Reading past MaxBytes
// fails with ErrTooLarge instead of truncating the stream.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = config.MaxHTTPResponseSize
	}
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, sanitizeURL(u)),
	)
	log.Debug(config.MsgFetchStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeTextVCard)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	if resp.ContentLength > limit {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	log.Info(config.MsgFetchBody,
		slog.Int64(config.LogKeySizeBytes, resp.ContentLength),
		slog.Int64(config.LogKeyLimit, limit),
	)
	return &cappedBody{body: resp.Body, left: limit}, nil
}

// cappedBody reads at most left bytes and reports ErrTooLarge when the
// body continues past them.
type cappedBody struct {
	body io.ReadCloser
	left int64
}

func (b *cappedBody) Read(p []byte) (int, error) {
	if b.left <= 0 {
		var extra [1]byte
		n, err := io.ReadFull(b.body, extra[:])
		if n > 0 {
			return 0, ErrTooLarge
		}
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, err
	}
	if int64(len(p)) > b.left {
		p = p[:b.left]
	}
	n, err := b.body.Read(p)
	b.left -= int64(n)
	return n, err
}

func (b *cappedBody) Close() error { return b.body.Close() }

// sanitizeURL drops user info and query parameters, which may carry secrets.
func sanitizeURL(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}
