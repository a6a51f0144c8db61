// Package transport defines the request/response channel to the device's
// contacts sync service and an HTTP implementation of it.
package transport

import (
	"context"
	"fmt"

	"github.com/tartampluch/go-contact-sync/internal/record"
)

// SyncKind is the outcome of anchor negotiation.
type SyncKind int

const (
	// SyncFast exchanges only the changes since the last anchors.
	SyncFast SyncKind = iota
	// SyncSlow exchanges every record.
	SyncSlow
	// SyncReset asks the host to replace the device data.
	SyncReset
)

var syncKindNames = [...]string{"fast", "slow", "reset"}

func (k SyncKind) String() string {
	if k < 0 || int(k) >= len(syncKindNames) {
		return fmt.Sprintf("SyncKind(%d)", int(k))
	}
	return syncKindNames[k]
}

// ParseSyncKind is the inverse of SyncKind.String.
func ParseSyncKind(s string) (SyncKind, error) {
	for i, name := range syncKindNames {
		if name == s {
			return SyncKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sync kind %q", s)
}

// Anchors is the token pair negotiated when a session starts.
// An empty Remote means no prior sync is known.
type Anchors struct {
	Local  string
	Remote string
}

// Transport is the blocking request/response channel to the device.
// Implementations are not required to be safe for concurrent use.
type Transport interface {
	// NegotiateAnchors opens the session for the contacts data class.
	NegotiateAnchors(ctx context.Context, anchors Anchors) (SyncKind, error)

	// RequestAllRecords asks the device to stream every record it holds.
	RequestAllRecords(ctx context.Context) error

	// ReceiveChanges returns the next chunk of records and whether it is the last one.
	// The chunk is returned undecoded, as the transport delivered it.
	ReceiveChanges(ctx context.Context) (chunk any, last bool, err error)

	// AcknowledgeChanges confirms the chunk last returned by ReceiveChanges.
	AcknowledgeChanges(ctx context.Context) error

	// ReadyToSend reports whether the device accepts changes from the host.
	ReadyToSend(ctx context.Context) (bool, error)

	// SendChanges uploads one record set. final marks the last set of the cycle.
	SendChanges(ctx context.Context, set record.Set, final bool) error

	// RemapIdentifiers returns the identifiers the device assigned to the last sent set.
	RemapIdentifiers(ctx context.Context) (record.RemapTable, error)

	// ClearAllRecords removes every contact from the device.
	ClearAllRecords(ctx context.Context) error

	// Finish closes the session.
	Finish(ctx context.Context) error
}
