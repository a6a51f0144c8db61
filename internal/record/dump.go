package record

import (
	"fmt"
	"io"
	"log/slog"

	"howett.net/plist"

	"github.com/tartampluch/go-contact-sync/internal/config"
)

// Marshal encodes a record set, or any plist-compatible value, as an XML property list.
func Marshal(v any) ([]byte, error) {
	data, err := plist.MarshalIndent(v, plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPlistEncode, err)
	}
	return data, nil
}

// Unmarshal decodes a property list (XML or binary) into a generic value.
// Dictionaries come back as map[string]any, ready for Decoder.Decode.
func Unmarshal(data []byte) (any, error) {
	var v any
	if _, err := plist.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPlistDecode, err)
	}
	return v, nil
}

// dumper writes record sets to an optional writer. A nil dumper is a no-op.
type dumper struct {
	w      io.Writer
	logger *slog.Logger
}

func newDumper(w io.Writer, logger *slog.Logger) *dumper {
	if w == nil {
		return nil
	}
	return &dumper{w: w, logger: logger}
}

func (d *dumper) write(entity string, set Set) {
	if d == nil {
		return
	}
	data, err := Marshal(set)
	if err != nil {
		d.logger.Warn(config.MsgRecordSetDumped, config.LogKeyEntity, entity, config.LogKeyError, err)
		return
	}
	if entity != "" {
		fmt.Fprintf(d.w, "<!-- %s: %d records -->\n", entity, len(set))
	}
	if _, err := d.w.Write(append(data, '\n')); err != nil {
		d.logger.Warn(config.MsgRecordSetDumped, config.LogKeyEntity, entity, config.LogKeyError, err)
	}
}
