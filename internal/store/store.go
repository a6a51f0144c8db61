// Package store adapts local address books to the contact model: vCard files,
// vCard exports served over HTTP(S) and a MySQL contacts table. It also writes
// contacts back out as vCards.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
)

// Source loads the local contacts to transfer to the device.
type Source interface {
	Load(ctx context.Context) (contact.Map, error)
}

// FileSource reads a .vcf file.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) (contact.Map, error) {
	if s.Path == "" {
		return nil, errors.New(config.ErrLocalPathEmpty)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = f.Close() }()
	return DecodeVCards(ctx, f)
}

// WebSource downloads a vCard export from a CardDAV or WebDAV server.
type WebSource struct {
	URL     string
	User    string
	Pass    string
	Fetcher Fetcher
}

// Load implements Source.
func (s *WebSource) Load(ctx context.Context) (contact.Map, error) {
	if s.URL == "" {
		return nil, errors.New(config.ErrWebURLEmpty)
	}
	if s.Fetcher == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}
	rc, err := s.Fetcher.Fetch(ctx, s.URL, s.User, s.Pass)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var status *StatusError
		if errors.As(err, &status) && status.Unauthorized() {
			return nil, fmt.Errorf("%s (%s): %w", config.ErrWebAuth, s.User, err)
		}
		return nil, fmt.Errorf("%s: %w", config.ErrWebFetch, err)
	}
	defer func() { _ = rc.Close() }()
	return DecodeVCards(ctx, rc)
}

// NewSource builds the source selected by opts.Source. The web source
// downloads through fetcher; the SQL source opens a connection pool the
// caller releases with Close when it implements io.Closer.
func NewSource(opts config.Options, fetcher Fetcher) (Source, error) {
	switch opts.Source {
	case config.SourceModeLocal:
		if opts.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return &FileSource{Path: opts.LocalPath}, nil
	case config.SourceModeWeb:
		if opts.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return &WebSource{URL: opts.WebURL, User: opts.WebUser, Pass: opts.WebPass, Fetcher: fetcher}, nil
	case config.SourceModeSQL:
		src, err := OpenSQLSource(opts.MySQLDSN)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, opts.Source)
	}
}
