package calendar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tartampluch/go-contact-sync/internal/config"
)

// feedItem is a rendered calendar with its HTTP validators.
type feedItem struct {
	data         []byte
	etag         string
	lastModified time.Time
}

// Feed serves the latest generated calendar over HTTP with ETag and
// Last-Modified validation. Update may be called while requests are served.
type Feed struct {
	Port string

	cache atomic.Pointer[feedItem]
}

// NewFeed creates an empty feed. It answers 503 until the first Update.
func NewFeed(port string) *Feed {
	return &Feed{Port: port}
}

// Update atomically replaces the served calendar.
func (f *Feed) Update(data []byte) {
	hash := sha256.Sum256(data)
	item := &feedItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: time.Now().UTC().Truncate(time.Second),
	}
	f.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, item.etag,
	)
}

// Handler builds the router serving the calendar at the root route.
func (f *Feed) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.Header(config.HeaderAllow, config.AllowedMethods)
		c.String(http.StatusMethodNotAllowed, config.HTTPMsgMethodNotAll)
	})

	router.GET(config.RouteRoot, f.handleCalendar)
	router.HEAD(config.RouteRoot, f.handleCalendar)
	return router
}

// Start listens on Port and blocks until ctx is cancelled.
func (f *Feed) Start(ctx context.Context) error {
	if f.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + f.Port,
		Handler:      f.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, f.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

func (f *Feed) handleCalendar(c *gin.Context) {
	item := f.cache.Load()
	if item == nil {
		c.Header(config.HeaderRetryAfter, config.RetryAfterSeconds)
		c.String(http.StatusServiceUnavailable, config.HTTPMsgInitializing)
		return
	}

	c.Header(config.HeaderXContentType, config.MimeNoSniff)
	c.Header(config.HeaderCacheControl, config.CacheControlPrivate)
	c.Header(config.HeaderETag, item.etag)
	c.Header(config.HeaderLastModified, item.lastModified.Format(http.TimeFormat))

	if notModified(c.Request, item) {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header(config.HeaderContentType, config.MimeTextCalendar)
	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.Status(http.StatusOK)
	if _, err := c.Writer.Write(item.data); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// notModified evaluates If-None-Match, then If-Modified-Since.
func notModified(r *http.Request, item *feedItem) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == item.etag
	}
	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := http.ParseTime(since); err == nil {
			return !item.lastModified.After(clientTime)
		}
	}
	return false
}
