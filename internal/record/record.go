// Package record converts contacts to and from the category-partitioned
// record sets exchanged with the device.
//
// A main record set holds one record per contact, keyed by the contact
// identifier. Each of the six category record sets holds one record per
// multi-value field, keyed by a composite identifier
// "<categoryId>/<ownerUid>/<sequence>" and linked back to its owner.
package record

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
)

// Record is one entity of a record set: a dictionary of wire keys.
type Record map[string]any

// Set maps record identifiers to records.
type Set map[string]Record

// RemapTable maps identifiers sent to the device to the ones it assigned.
type RemapTable map[string]string

// Resolve returns the remapped identifier, or id itself when it has no entry.
func (t RemapTable) Resolve(id string) string {
	if mapped, ok := t[id]; ok && mapped != "" {
		return mapped
	}
	return id
}

// Options configures encoders and decoders.
type Options struct {
	// Logger receives warnings about skipped contacts and records.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// DumpWriter, when set, receives every record set as an XML property list.
	DumpWriter io.Writer
}

func (o Options) logger() *slog.Logger {
	l := o.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With(config.LogKeyComponent, config.CompCodec)
}

// CompositeID builds the identifier of the seq-th field of owner in a category.
func CompositeID(cat contact.Category, owner string, seq int) string {
	return fmt.Sprintf(config.CompositeIDForm, cat.ID(), owner, seq)
}

// ParseCompositeID splits a composite identifier.
// Owner identifiers may themselves contain slashes; the sequence is the last segment.
func ParseCompositeID(id string) (categoryID int, owner string, seq int, err error) {
	first := strings.IndexByte(id, '/')
	last := strings.LastIndexByte(id, '/')
	if first < 0 || last <= first {
		return 0, "", 0, fmt.Errorf("malformed composite identifier %q", id)
	}
	if categoryID, err = strconv.Atoi(id[:first]); err != nil {
		return 0, "", 0, fmt.Errorf("malformed composite identifier %q: %w", id, err)
	}
	if seq, err = strconv.Atoi(id[last+1:]); err != nil {
		return 0, "", 0, fmt.Errorf("malformed composite identifier %q: %w", id, err)
	}
	return categoryID, id[first+1 : last], seq, nil
}

// CompareIDs orders numeric identifiers numerically, before any other
// identifier, and the rest lexically.
func CompareIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// EntityName returns the namespaced entity name of a category.
func EntityName(cat contact.Category) string {
	return config.EntityPrefix + cat.Entity()
}

// MainEntityName is the namespaced entity name of main records.
const MainEntityName = config.EntityPrefix + config.EntityContact

// Epoch is the reference instant of device dates.
var Epoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// EncodeDate normalizes t to whole seconds in UTC, the resolution the device stores.
func EncodeDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// Offset returns t as whole seconds since Epoch. Unix seconds are used
// because a time.Duration cannot span dates such as the 1604 placeholder.
func Offset(t time.Time) int64 {
	return t.Unix() - Epoch.Unix()
}

// FromOffset converts whole seconds since Epoch to a UTC time.
func FromOffset(seconds int64) time.Time {
	return time.Unix(Epoch.Unix()+seconds, 0).UTC()
}

// decodeDate accepts a date value as produced by EncodeDate or as a raw
// epoch offset, whichever the transport delivered.
func decodeDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return EncodeDate(d), !d.IsZero()
	case int64:
		return FromOffset(d), true
	case uint64:
		return FromOffset(int64(d)), true
	case int:
		return FromOffset(int64(d)), true
	case float64:
		return FromOffset(int64(d)), true
	default:
		return time.Time{}, false
	}
}
