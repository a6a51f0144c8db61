// Package device emulates the device side of the contacts sync service.
//
// Memory keeps records in memory and behaves like the remote end of a
// Transport: it assigns its own identifiers to uploaded records, streams
// its content in acknowledged chunks and refuses uploads while a stream
// is in progress. Server exposes it over HTTP for the bridge client.
package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/record"
	"github.com/tartampluch/go-contact-sync/internal/transport"
)

var (
	ErrNotStarted     = errors.New(config.ErrNotStarted)
	ErrUnackedChanges = errors.New(config.ErrUnackedChanges)
	ErrNothingToAck   = errors.New(config.ErrNothingToAck)
	ErrDataClass      = errors.New(config.ErrDataClass)
)

// Memory is an in-memory device. It is safe for concurrent use, which the
// HTTP bridge requires, although a session drives it sequentially.
type Memory struct {
	// ChunkSize bounds the number of records per streamed chunk.
	ChunkSize int

	mu      sync.Mutex
	log     *slog.Logger
	nextID  int
	anchor  string
	started bool
	main    map[string]record.Record
	fields  map[string]record.Record
	pending []record.Set
	unacked bool
	remap   record.RemapTable
}

var _ transport.Transport = (*Memory)(nil)

// NewMemory returns an empty device streaming chunkSize records per chunk.
// A non-positive chunk size selects the default.
func NewMemory(chunkSize int) *Memory {
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkSize
	}
	return &Memory{
		ChunkSize: chunkSize,
		log:       slog.With(slog.String(config.LogKeyComponent, config.CompDevice)),
		nextID:    config.ContactIDBaseline,
		main:      make(map[string]record.Record),
		fields:    make(map[string]record.Record),
	}
}

// Len returns the number of main and field records stored.
func (m *Memory) Len() (contacts, fields int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.main), len(m.fields)
}

// NegotiateAnchors implements transport.Transport. The sync is fast only
// when the host presents the anchor the device stored last time.
func (m *Memory) NegotiateAnchors(_ context.Context, anchors transport.Anchors) (transport.SyncKind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kind := transport.SyncSlow
	if anchors.Remote != "" && anchors.Remote == m.anchor {
		kind = transport.SyncFast
	}
	m.anchor = anchors.Local
	m.started = true
	m.pending = nil
	m.unacked = false
	m.remap = nil

	m.log.Debug(config.MsgSyncKind, slog.String(config.LogKeyAnchor, anchors.Local), slog.String(config.LogKeySyncKind, kind.String()))
	return kind, nil
}

// RequestAllRecords implements transport.Transport. Main records are
// queued before field records, each group in identifier order.
func (m *Memory) RequestAllRecords(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}

	all := make([]string, 0, len(m.main)+len(m.fields))
	all = append(all, sortedKeys(m.main)...)
	all = append(all, sortedKeys(m.fields)...)

	size := m.ChunkSize
	if size <= 0 {
		size = config.DefaultChunkSize
	}
	m.pending = nil
	for chunk := range slices.Chunk(all, size) {
		set := make(record.Set, len(chunk))
		for _, id := range chunk {
			if rec, ok := m.main[id]; ok {
				set[id] = cloneRecord(rec)
			} else {
				set[id] = cloneRecord(m.fields[id])
			}
		}
		m.pending = append(m.pending, set)
	}
	if len(m.pending) == 0 {
		m.pending = []record.Set{{}}
	}
	m.unacked = false
	return nil
}

// ReceiveChanges implements transport.Transport.
func (m *Memory) ReceiveChanges(context.Context) (any, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil, false, ErrNotStarted
	}
	if m.unacked {
		return nil, false, ErrUnackedChanges
	}
	if len(m.pending) == 0 {
		return record.Set{}, true, nil
	}

	set := m.pending[0]
	m.pending = m.pending[1:]
	m.unacked = true
	return set, len(m.pending) == 0, nil
}

// AcknowledgeChanges implements transport.Transport.
func (m *Memory) AcknowledgeChanges(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.unacked {
		return ErrNothingToAck
	}
	m.unacked = false
	return nil
}

// ReadyToSend implements transport.Transport. The device is not ready
// while a change stream is still in progress.
func (m *Memory) ReadyToSend(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return false, ErrNotStarted
	}
	return !m.unacked && len(m.pending) == 0, nil
}

// SendChanges implements transport.Transport. Every uploaded record gets
// a device identifier unless it already names a stored record; the
// mapping is available from RemapIdentifiers until the next upload.
func (m *Memory) SendChanges(_ context.Context, set record.Set, final bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if m.unacked || len(m.pending) > 0 {
		return ErrUnackedChanges
	}

	for _, id := range sortedKeys(set) {
		if err := validate(id, set[id]); err != nil {
			return err
		}
	}

	remap := make(record.RemapTable)
	for _, id := range sortedKeys(set) {
		rec := cloneRecord(set[id])
		if rec[config.KeyEntityName] == record.MainEntityName {
			if _, known := m.main[id]; known {
				m.main[id] = rec
				continue
			}
			newID := m.allocate()
			remap[id] = newID
			m.main[newID] = rec
			continue
		}
		if _, known := m.fields[id]; known {
			m.fields[id] = rec
			continue
		}
		newID := m.allocate()
		remap[id] = newID
		m.fields[newID] = rec
	}
	m.remap = remap

	m.log.Debug(config.MsgRecordSetSent,
		slog.Int(config.LogKeyRecords, len(set)),
		slog.Int(config.LogKeyRemapped, len(remap)),
		slog.Bool(config.LogKeyFinal, final),
	)
	return nil
}

// RemapIdentifiers implements transport.Transport.
func (m *Memory) RemapIdentifiers(context.Context) (record.RemapTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil, ErrNotStarted
	}
	remap := make(record.RemapTable, len(m.remap))
	for k, v := range m.remap {
		remap[k] = v
	}
	return remap, nil
}

// ClearAllRecords implements transport.Transport.
func (m *Memory) ClearAllRecords(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	clear(m.main)
	clear(m.fields)
	m.pending = nil
	m.unacked = false
	return nil
}

// Finish implements transport.Transport.
func (m *Memory) Finish(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.started = false
	m.pending = nil
	m.unacked = false
	m.remap = nil
	return nil
}

func (m *Memory) allocate() string {
	id := strconv.Itoa(m.nextID)
	m.nextID++
	return id
}

// validate rejects records that carry no namespaced entity name.
func validate(id string, rec record.Record) error {
	if rec == nil {
		return &record.ValidationError{ID: id, Reason: config.ErrRecordInvalid}
	}
	name, _ := rec[config.KeyEntityName].(string)
	if !strings.HasPrefix(name, config.EntityPrefix) {
		return &record.ValidationError{ID: id, Reason: fmt.Sprintf("%s (%s)", config.ErrEntityPrefix, name)}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, record.CompareIDs)
	return keys
}

func cloneRecord(rec record.Record) record.Record {
	out := make(record.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
