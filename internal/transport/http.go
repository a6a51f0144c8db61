package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/record"
)

// HTTPTransport talks to a device bridge over HTTP, carrying payloads as
// XML property lists.
type HTTPTransport struct {
	Client *http.Client

	base *url.URL
	user string
	pass string
	log  *slog.Logger
}

// NewHTTPTransport validates the bridge URL and returns a transport with
// configured timeouts. Credentials are sent with Basic Auth when non-empty.
func NewHTTPTransport(baseURL, user, pass string) (*HTTPTransport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	// Strip the query so tokens never reach the logs.
	safeURL := u.Scheme + "://" + u.Host + u.Path

	return &HTTPTransport{
		Client: &http.Client{Timeout: config.HTTPTimeout},
		base:   u,
		user:   user,
		pass:   pass,
		log: slog.With(
			slog.String(config.LogKeyComponent, config.CompBridge),
			slog.String(config.LogKeyURL, safeURL),
		),
	}, nil
}

// NegotiateAnchors implements Transport.
func (t *HTTPTransport) NegotiateAnchors(ctx context.Context, anchors Anchors) (SyncKind, error) {
	req := map[string]any{
		config.BridgeKeyDataClass: config.DataClass,
		config.BridgeKeyVersion:   config.ClassStorageVersion,
		config.BridgeKeyLocal:     anchors.Local,
	}
	if anchors.Remote != "" {
		req[config.BridgeKeyRemote] = anchors.Remote
	}
	resp, err := t.call(ctx, http.MethodPost, config.RouteStart, nil, req)
	if err != nil {
		return 0, err
	}
	kind, _ := resp[config.BridgeKeySyncKind].(string)
	return ParseSyncKind(kind)
}

// RequestAllRecords implements Transport.
func (t *HTTPTransport) RequestAllRecords(ctx context.Context) error {
	_, err := t.call(ctx, http.MethodPost, config.RouteRequest, nil, nil)
	return err
}

// ReceiveChanges implements Transport.
func (t *HTTPTransport) ReceiveChanges(ctx context.Context) (any, bool, error) {
	resp, err := t.call(ctx, http.MethodGet, config.RouteChanges, nil, nil)
	if err != nil {
		return nil, false, err
	}
	last, _ := resp[config.BridgeKeyLast].(bool)
	return resp[config.BridgeKeyRecords], last, nil
}

// AcknowledgeChanges implements Transport.
func (t *HTTPTransport) AcknowledgeChanges(ctx context.Context) error {
	_, err := t.call(ctx, http.MethodPost, config.RouteAck, nil, nil)
	return err
}

// ReadyToSend implements Transport.
func (t *HTTPTransport) ReadyToSend(ctx context.Context) (bool, error) {
	resp, err := t.call(ctx, http.MethodGet, config.RouteReady, nil, nil)
	if err != nil {
		return false, err
	}
	ready, _ := resp[config.BridgeKeyReady].(bool)
	return ready, nil
}

// SendChanges implements Transport.
func (t *HTTPTransport) SendChanges(ctx context.Context, set record.Set, final bool) error {
	query := url.Values{config.QueryFinal: {strconv.FormatBool(final)}}
	_, err := t.call(ctx, http.MethodPost, config.RouteChanges, query, set)
	return err
}

// RemapIdentifiers implements Transport.
func (t *HTTPTransport) RemapIdentifiers(ctx context.Context) (record.RemapTable, error) {
	resp, err := t.call(ctx, http.MethodGet, config.RouteRemap, nil, nil)
	if err != nil {
		return nil, err
	}
	raw, _ := resp[config.BridgeKeyRemap].(map[string]any)
	remap := make(record.RemapTable, len(raw))
	for from, to := range raw {
		if s, ok := to.(string); ok {
			remap[from] = s
		}
	}
	return remap, nil
}

// ClearAllRecords implements Transport.
func (t *HTTPTransport) ClearAllRecords(ctx context.Context) error {
	_, err := t.call(ctx, http.MethodPost, config.RouteClear, nil, nil)
	return err
}

// Finish implements Transport.
func (t *HTTPTransport) Finish(ctx context.Context) error {
	_, err := t.call(ctx, http.MethodPost, config.RouteFinish, nil, nil)
	return err
}

// call performs one bridge request. A nil body sends no payload; an empty
// response decodes to an empty dictionary.
func (t *HTTPTransport) call(ctx context.Context, method, route string, query url.Values, body any) (map[string]any, error) {
	u := *t.base
	u.Path += route
	u.RawQuery = query.Encode()

	var payload io.Reader
	if body != nil {
		data, err := record.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBridgeRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimePlist)
	if body != nil {
		req.Header.Set(config.HeaderContentType, config.MimePlist)
	}
	if t.user != "" || t.pass != "" {
		req.SetBasicAuth(t.user, t.pass)
	}

	log := t.log.With(slog.String(config.LogKeyMethod, method), slog.String(config.LogKeyRoute, route))
	log.Debug(config.MsgBridgeRequest)

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBridgeRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxHTTPResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBridgeRequest, err)
	}

	decoded, decodeErr := decodeBody(data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := decoded[config.BridgeKeyMessage].(string)
		log.Warn(config.MsgBridgeError, slog.Int(config.LogKeyStatus, resp.StatusCode), slog.String(config.LogKeyError, msg))
		return nil, &StatusError{Code: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return decoded, nil
}

func decodeBody(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	v, err := record.Unmarshal(data)
	if err != nil {
		return map[string]any{}, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}, fmt.Errorf("%s: unexpected %T payload", config.ErrPlistDecode, v)
	}
	return m, nil
}

// StatusError is returned when the bridge answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %d %s", config.ErrBridgeStatus, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s: %d %s", config.ErrBridgeStatus, e.Code, e.Message)
}
