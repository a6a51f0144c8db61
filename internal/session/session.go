// Package session drives a contacts sync session over a Transport:
// anchor negotiation, the chunked receive loop, the batched send cycle,
// wipe and stop.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tartampluch/go-contact-sync/internal/clock"
	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
	"github.com/tartampluch/go-contact-sync/internal/record"
	"github.com/tartampluch/go-contact-sync/internal/transport"
)

// State is the position of a session in its lifecycle.
type State int

const (
	Idle State = iota
	Started
	ReceivingChanges
	ReadyToSend
	SendingMain
	SendingCategory
	Finished
	Stopped
)

var stateNames = [...]string{
	"idle", "started", "receiving-changes", "ready-to-send",
	"sending-main", "sending-category", "finished", "stopped",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Options configures a Session.
type Options struct {
	Clock      clock.Clock  // Stamps the local anchor. Defaults to the real clock.
	Logger     *slog.Logger // Defaults to slog.Default().
	DumpWriter io.Writer    // Receives every record set sent or received, when set.
}

// Session is a single synchronization with the device.
// It is not safe for concurrent use.
type Session struct {
	t     transport.Transport
	clock clock.Clock
	log   *slog.Logger
	codec record.Options

	id      string
	state   State
	anchors transport.Anchors
}

// New creates an idle session over t.
func New(t transport.Transport, opts Options) *Session {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return &Session{
		t:     t,
		clock: clk,
		log: logger.With(
			slog.String(config.LogKeyComponent, config.CompSession),
			slog.String(config.LogKeySession, id.String()),
		),
		codec: record.Options{Logger: logger, DumpWriter: opts.DumpWriter},
		id:    id.String(),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Anchors returns the anchors negotiated by Start.
func (s *Session) Anchors() transport.Anchors { return s.anchors }

// Start negotiates anchors for the contacts data class. The local anchor
// is generated from the clock; no prior remote anchor is sent.
func (s *Session) Start(ctx context.Context) (transport.SyncKind, error) {
	if s.state != Idle {
		return 0, s.invalidState("start")
	}

	anchors := transport.Anchors{
		Local: config.AnchorPrefix + s.clock.Now().UTC().Format(config.AnchorLayout),
	}
	kind, err := s.t.NegotiateAnchors(ctx, anchors)
	if err != nil {
		return 0, protocolError(config.ErrStartSync, err)
	}

	s.anchors = anchors
	s.state = Started
	s.log.Info(config.MsgSyncStarted,
		slog.String(config.LogKeyAnchor, anchors.Local),
		slog.String(config.LogKeySyncKind, kind.String()),
	)
	return kind, nil
}

// ReceiveContacts asks the device for all its records and decodes the
// chunks it streams back, acknowledging each one before decoding it.
//
// A transport failure aborts the loop. Contacts decoded so far are always
// returned. When every chunk was read, the returned error is the most
// recent per-record decode failure, if any.
func (s *Session) ReceiveContacts(ctx context.Context) (contact.Map, error) {
	if !s.canExchange() {
		return nil, s.invalidState("receive")
	}

	if err := s.t.RequestAllRecords(ctx); err != nil {
		return nil, protocolError(config.ErrRequestRecords, err)
	}

	s.state = ReceivingChanges
	s.log.Info(config.MsgReceiveStarted)
	dec := record.NewDecoder(s.codec)

	for chunk := 0; ; chunk++ {
		if err := ctx.Err(); err != nil {
			return dec.Contacts(), protocolError(config.ErrReceiveChanges, err)
		}

		set, last, err := s.t.ReceiveChanges(ctx)
		if err != nil {
			return dec.Contacts(), protocolError(config.ErrReceiveChanges, err)
		}
		if err := s.t.AcknowledgeChanges(ctx); err != nil {
			return dec.Contacts(), protocolError(config.ErrAckChanges, err)
		}
		if err := dec.Decode(set); err != nil {
			return dec.Contacts(), err
		}

		s.log.Debug(config.MsgChunkReceived,
			slog.Int(config.LogKeyChunk, chunk),
			slog.Bool(config.LogKeyFinal, last),
		)
		if last {
			break
		}
	}

	s.state = ReadyToSend
	contacts := dec.Contacts()
	s.log.Info(config.MsgReceiveDone,
		slog.Int(config.LogKeyContacts, len(contacts)),
		slog.Int(config.LogKeyFailures, len(dec.Failures())),
	)
	return contacts, dec.Err()
}

// SendContacts uploads contacts: the main record set first, then the six
// category sets built with the identifiers the device assigned to the
// main records. Only the last category set is marked final.
func (s *Session) SendContacts(ctx context.Context, contacts contact.Map) error {
	if !s.canExchange() {
		return s.invalidState("send")
	}

	ready, err := s.t.ReadyToSend(ctx)
	if err != nil {
		return protocolError(config.ErrSendChanges, err)
	}
	if !ready {
		return protocolError(config.ErrSendChanges, ErrNotReady)
	}
	s.state = ReadyToSend

	start := time.Now()
	s.log.Info(config.MsgSendStarted, slog.Int(config.LogKeyContacts, len(contacts)))
	enc := record.NewEncoder(s.codec)

	s.state = SendingMain
	main := enc.EncodeMain(contacts)
	if err := s.t.SendChanges(ctx, main, false); err != nil {
		return protocolError(config.ErrSendChanges, err)
	}
	remap, err := s.t.RemapIdentifiers(ctx)
	if err != nil {
		return protocolError(config.ErrRemapFetch, err)
	}
	s.log.Debug(config.MsgRecordSetSent,
		slog.String(config.LogKeyEntity, config.EntityContact),
		slog.Int(config.LogKeyRecords, len(main)),
		slog.Int(config.LogKeyRemapped, len(remap)),
	)

	s.state = SendingCategory
	categories := contact.Categories()
	for i, cat := range categories {
		if err := ctx.Err(); err != nil {
			return protocolError(config.ErrSendChanges, err)
		}

		set := enc.EncodeCategory(contacts, cat, remap)
		final := i == len(categories)-1
		if err := s.t.SendChanges(ctx, set, final); err != nil {
			return protocolError(config.ErrSendChanges, err)
		}
		// Only the table following the main set matters.
		if _, err := s.t.RemapIdentifiers(ctx); err != nil {
			return protocolError(config.ErrRemapFetch, err)
		}
		s.log.Debug(config.MsgRecordSetSent,
			slog.String(config.LogKeyEntity, cat.Entity()),
			slog.Int(config.LogKeyRecords, len(set)),
			slog.Bool(config.LogKeyFinal, final),
		)
	}

	s.state = Finished
	s.log.Info(config.MsgSendDone,
		slog.Int(config.LogKeyContacts, len(main)),
		slog.Int64(config.LogKeyDuration, time.Since(start).Milliseconds()),
	)
	return nil
}

// WipeAll removes every contact from the device. It does not change the state.
func (s *Session) WipeAll(ctx context.Context) error {
	if !s.canExchange() {
		return s.invalidState("wipe")
	}
	if err := s.t.ClearAllRecords(ctx); err != nil {
		return protocolError(config.ErrClearRecords, err)
	}
	s.log.Info(config.MsgWipeDone)
	return nil
}

// Stop finishes the session. It can be called from any state; calling it
// on a session that was never started or is already stopped does nothing.
func (s *Session) Stop(ctx context.Context) error {
	if s.state == Idle || s.state == Stopped {
		return nil
	}
	prev := s.state
	s.state = Stopped
	if err := s.t.Finish(ctx); err != nil {
		return protocolError(config.ErrFinish, err)
	}
	s.log.Info(config.MsgSessionStopped, slog.String(config.LogKeyState, prev.String()))
	return nil
}

// canExchange reports whether a receive, send or wipe may begin.
// A phase that failed leaves the session in its in-progress state, so
// only Stop remains possible.
func (s *Session) canExchange() bool {
	switch s.state {
	case Started, ReadyToSend, Finished:
		return true
	default:
		return false
	}
}

func (s *Session) invalidState(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidState, op, s.state)
}
