package calendar_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-contact-sync/internal/calendar"
	"github.com/tartampluch/go-contact-sync/internal/config"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.ReleaseMode)
	os.Exit(m.Run())
}

func serve(h http.Handler, method string, headers map[string]string) *http.Response {
	req := httptest.NewRequest(method, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

func TestFeed_ServingContent(t *testing.T) {
	feed := calendar.NewFeed("0")
	ics := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR")
	feed.Update(ics)

	resp := serve(feed.Handler(), http.MethodGet, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))
	assert.NotEmpty(t, resp.Header.Get(config.HeaderLastModified))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, ics, body)
}

func TestFeed_Head(t *testing.T) {
	feed := calendar.NewFeed("0")
	feed.Update([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR"))

	resp := serve(feed.Handler(), http.MethodHead, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestFeed_ConditionalRequests(t *testing.T) {
	feed := calendar.NewFeed("0")
	feed.Update([]byte("DATA_VERSION_1"))
	h := feed.Handler()

	first := serve(h, http.MethodGet, nil)
	_ = first.Body.Close()
	etag := first.Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"MatchingETag", map[string]string{config.HeaderIfNoneMatch: etag}, http.StatusNotModified},
		{"StaleETag", map[string]string{config.HeaderIfNoneMatch: `"stale"`}, http.StatusOK},
		{"ETagWinsOverDate", map[string]string{
			config.HeaderIfNoneMatch:     `"stale"`,
			config.HeaderIfModifiedSince: time.Now().UTC().Add(time.Hour).Format(http.TimeFormat),
		}, http.StatusOK},
		{"NotModifiedSince", map[string]string{config.HeaderIfModifiedSince: time.Now().UTC().Add(time.Hour).Format(http.TimeFormat)}, http.StatusNotModified},
		{"ModifiedSince", map[string]string{config.HeaderIfModifiedSince: time.Now().UTC().Add(-time.Hour).Format(http.TimeFormat)}, http.StatusOK},
		{"MalformedDate", map[string]string{config.HeaderIfModifiedSince: "yesterday"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(h, http.MethodGet, tt.headers)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == http.StatusNotModified {
				body, _ := io.ReadAll(resp.Body)
				assert.Empty(t, body, "no body on 304")
			}
		})
	}
}

func TestFeed_UpdateChangesETag(t *testing.T) {
	feed := calendar.NewFeed("0")
	h := feed.Handler()

	feed.Update([]byte("v1"))
	r1 := serve(h, http.MethodGet, nil)
	_ = r1.Body.Close()

	feed.Update([]byte("v2"))
	r2 := serve(h, http.MethodGet, map[string]string{config.HeaderIfNoneMatch: r1.Header.Get(config.HeaderETag)})
	defer func() { _ = r2.Body.Close() }()

	assert.Equal(t, http.StatusOK, r2.StatusCode)
	body, _ := io.ReadAll(r2.Body)
	assert.Equal(t, "v2", string(body))
}

func TestFeed_MethodNotAllowed(t *testing.T) {
	feed := calendar.NewFeed("0")

	resp := serve(feed.Handler(), http.MethodPost, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
}

func TestFeed_Initializing(t *testing.T) {
	feed := calendar.NewFeed("0")

	resp := serve(feed.Handler(), http.MethodGet, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

// TestFeed_ConcurrentUpdates is meant for go test -race.
func TestFeed_ConcurrentUpdates(t *testing.T) {
	feed := calendar.NewFeed("0")
	h := feed.Handler()
	end := time.Now().Add(200 * time.Millisecond)
	var wg sync.WaitGroup

	for w := range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				feed.Update(fmt.Appendf(nil, "VERSION:%d-%d", w, i))
			}
		}()
	}
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				resp := serve(h, http.MethodGet, nil)
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
					t.Errorf("unexpected status %d", resp.StatusCode)
				}
			}
		}()
	}
	wg.Wait()
}

func TestFeed_StartRequiresPort(t *testing.T) {
	assert.EqualError(t, calendar.NewFeed("").Start(context.Background()), config.ErrPortRequired)
}

func TestFeed_Lifecycle(t *testing.T) {
	const port = "18099"

	feed := calendar.NewFeed(port)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- feed.Start(ctx) }()

	url := "http://127.0.0.1:" + port + "/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "feed failed to listen in time")

	feed.Update([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR"))
	resp, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("feed shutdown timed out")
	}
}
