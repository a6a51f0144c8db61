package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/record"
	"github.com/tartampluch/go-contact-sync/internal/transport"
)

// Server exposes a device over HTTP using the bridge protocol understood
// by transport.HTTPTransport. Payloads are XML property lists.
type Server struct {
	Port string

	device transport.Transport
	user   string
	pass   string
}

// NewServer creates a bridge for dev. When user is non-empty every
// request must carry matching Basic Auth credentials.
func NewServer(dev transport.Transport, port, user, pass string) *Server {
	return &Server{Port: port, device: dev, user: user, pass: pass}
}

// Handler builds the gin router serving the bridge routes.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	if s.user != "" {
		router.Use(gin.BasicAuth(gin.Accounts{s.user: s.pass}))
	}

	router.POST(config.RouteStart, s.handleStart)
	router.POST(config.RouteRequest, s.empty(s.device.RequestAllRecords))
	router.GET(config.RouteChanges, s.handleReceive)
	router.POST(config.RouteAck, s.empty(s.device.AcknowledgeChanges))
	router.GET(config.RouteReady, s.handleReady)
	router.POST(config.RouteChanges, s.handleSend)
	router.GET(config.RouteRemap, s.handleRemap)
	router.POST(config.RouteClear, s.empty(s.device.ClearAllRecords))
	router.POST(config.RouteFinish, s.empty(s.device.Finish))
	return router
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
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

func (s *Server) handleStart(c *gin.Context) {
	body, ok := s.readDict(c)
	if !ok {
		return
	}
	if class, _ := body[config.BridgeKeyDataClass].(string); class != config.DataClass {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrDataClass, class))
		return
	}
	local, _ := body[config.BridgeKeyLocal].(string)
	remote, _ := body[config.BridgeKeyRemote].(string)

	kind, err := s.device.NegotiateAnchors(c.Request.Context(), transport.Anchors{Local: local, Remote: remote})
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	s.reply(c, map[string]any{config.BridgeKeySyncKind: kind.String()})
}

func (s *Server) handleReceive(c *gin.Context) {
	set, last, err := s.device.ReceiveChanges(c.Request.Context())
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	s.reply(c, map[string]any{
		config.BridgeKeyRecords: set,
		config.BridgeKeyLast:    last,
	})
}

func (s *Server) handleReady(c *gin.Context) {
	ready, err := s.device.ReadyToSend(c.Request.Context())
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	s.reply(c, map[string]any{config.BridgeKeyReady: ready})
}

func (s *Server) handleSend(c *gin.Context) {
	final, err := strconv.ParseBool(c.DefaultQuery(config.QueryFinal, "false"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	body, ok := s.readDict(c)
	if !ok {
		return
	}
	set, err := record.ToSet(body)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.device.SendChanges(c.Request.Context(), set, final); err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRemap(c *gin.Context) {
	remap, err := s.device.RemapIdentifiers(c.Request.Context())
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	out := make(map[string]any, len(remap))
	for k, v := range remap {
		out[k] = v
	}
	s.reply(c, map[string]any{config.BridgeKeyRemap: out})
}

// empty adapts a device call without payload in either direction.
func (s *Server) empty(call func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := call(c.Request.Context()); err != nil {
			s.fail(c, statusOf(err), err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) readDict(c *gin.Context) (map[string]any, bool) {
	data, err := c.GetRawData()
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return nil, false
	}
	if len(data) == 0 {
		return map[string]any{}, true
	}
	v, err := record.Unmarshal(data)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return nil, false
	}
	dict, ok := v.(map[string]any)
	if !ok {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("%s (%T)", config.ErrRecordSetInvalid, v))
		return nil, false
	}
	return dict, true
}

func (s *Server) reply(c *gin.Context, payload map[string]any) {
	data, err := record.Marshal(payload)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, config.MimePlist, data)
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	slog.Warn(config.MsgBridgeError,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoute, c.FullPath(),
		config.LogKeyStatus, status,
		config.LogKeyError, err,
	)
	data, mErr := record.Marshal(map[string]any{config.BridgeKeyMessage: err.Error()})
	if mErr != nil {
		c.AbortWithStatus(status)
		return
	}
	c.Data(status, config.MimePlist, data)
	c.Abort()
}

// statusOf maps device errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrNotStarted), errors.Is(err, ErrUnackedChanges), errors.Is(err, ErrNothingToAck):
		return http.StatusConflict
	case errors.Is(err, record.ErrValidation), errors.Is(err, ErrDataClass):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
