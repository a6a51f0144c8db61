package record

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
)

// Decoder accumulates contacts from successive record sets.
//
// Within one record set, main records are decoded before field records so
// that a field never depends on the iteration order of the set. A field
// record whose owner is still unknown is reported as a failure.
// Per-record failures never stop the decoding of the remaining records.
type Decoder struct {
	logger   *slog.Logger
	dump     *dumper
	contacts contact.Map
	failures []error
}

// NewDecoder returns a Decoder with an empty contact map.
func NewDecoder(opts Options) *Decoder {
	logger := opts.logger()
	return &Decoder{
		logger:   logger,
		dump:     newDumper(opts.DumpWriter, logger),
		contacts: make(contact.Map),
	}
}

// Contacts returns the contacts decoded so far.
func (d *Decoder) Contacts() contact.Map { return d.contacts }

// Failures lists every per-record failure, in the order they occurred.
func (d *Decoder) Failures() []error { return slices.Clone(d.failures) }

// Err returns the most recent per-record failure, or nil.
func (d *Decoder) Err() error {
	if len(d.failures) == 0 {
		return nil
	}
	return d.failures[len(d.failures)-1]
}

// Decode applies one record set to the contact map.
//
// It accepts a Set or the generic dictionary produced by a property-list
// decoder. The returned error is non-nil only when the container itself
// has the wrong shape; record-level problems are available through Err
// and Failures. An empty set is a no-op.
func (d *Decoder) Decode(raw any) error {
	set, err := ToSet(raw)
	if err != nil {
		return err
	}
	if len(set) == 0 {
		d.logger.Debug(config.MsgRecordSetEmpty)
		return nil
	}
	d.dump.write("", set)

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, CompareIDs)

	var fields []string
	for _, id := range ids {
		rec := set[id]
		entity, err := entityOf(id, rec)
		if err != nil {
			d.fail(err)
			continue
		}
		if entity != config.EntityContact {
			fields = append(fields, id)
			continue
		}
		if err := d.decodeMain(id, rec); err != nil {
			d.fail(err)
		}
	}
	for _, id := range fields {
		if err := d.decodeField(id, set[id]); err != nil {
			d.fail(err)
		}
	}
	return nil
}

func (d *Decoder) fail(err error) {
	d.logger.Warn(config.MsgRecordSkipped, config.LogKeyError, err)
	d.failures = append(d.failures, err)
}

// ToSet normalizes the container shapes accepted by Decode. Non-dictionary entries
// are kept as nil records so that they fail individually.
func ToSet(raw any) (Set, error) {
	switch s := raw.(type) {
	case Set:
		return s, nil
	case map[string]Record:
		return Set(s), nil
	case map[string]any:
		set := make(Set, len(s))
		for id, v := range s {
			set[id], _ = asRecord(v)
		}
		return set, nil
	case nil:
		return nil, invalid("", "", "empty record set")
	default:
		return nil, invalid("", "", fmt.Sprintf("%s (%T)", config.ErrRecordSetInvalid, raw))
	}
}

func asRecord(v any) (Record, bool) {
	switch r := v.(type) {
	case Record:
		return r, true
	case map[string]any:
		return Record(r), true
	default:
		return nil, false
	}
}

func entityOf(id string, rec Record) (string, error) {
	if rec == nil {
		return "", invalid(id, "", config.ErrRecordInvalid)
	}
	name, ok := rec[config.KeyEntityName].(string)
	if !ok {
		return "", invalid(id, "", config.ErrEntityMissing)
	}
	entity, found := strings.CutPrefix(name, config.EntityPrefix)
	if !found {
		return "", invalid(id, "", fmt.Sprintf("%s (%s)", config.ErrEntityPrefix, name))
	}
	if entity == config.EntityContact {
		return entity, nil
	}
	if _, known := contact.CategoryByEntity(entity); !known {
		return "", invalid(id, "", fmt.Sprintf("%s: %s", config.ErrEntityUnknown, entity))
	}
	return entity, nil
}

func (d *Decoder) decodeMain(id string, rec Record) error {
	var c *contact.Contact
	switch display, _ := rec[config.KeyDisplayAs].(string); display {
	case config.DisplayPerson:
		c = contact.NewPerson()
	case config.DisplayCompany:
		c = contact.NewCompany()
	case "":
		return invalid(id, config.EntityContact, config.ErrDisplayMissing)
	default:
		return invalid(id, config.EntityContact, fmt.Sprintf("%s: %s", config.ErrDisplayInvalid, display))
	}

	for attr, key := range attrKeys {
		v, present := rec[key]
		if !present {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return invalid(id, config.EntityContact, fmt.Sprintf("invalid type for '%s' (%T)", key, v))
		}
		c.Set(attr, s)
	}
	if v, present := rec[config.KeyBirthday]; present {
		bd, ok := decodeDate(v)
		if !ok {
			return invalid(id, config.EntityContact, fmt.Sprintf("invalid '%s' value (%T)", config.KeyBirthday, v))
		}
		c.SetBirthday(bd)
	}
	if v, present := rec[config.KeyImage]; present {
		photo, ok := v.([]byte)
		if !ok {
			return invalid(id, config.EntityContact, fmt.Sprintf("invalid '%s' value (%T)", config.KeyImage, v))
		}
		c.SetPhoto(photo)
	}

	d.contacts[id] = c
	return nil
}

func (d *Decoder) decodeField(id string, rec Record) error {
	name, _ := rec[config.KeyEntityName].(string)
	cat, _ := contact.CategoryByEntity(strings.TrimPrefix(name, config.EntityPrefix))
	entity := cat.Entity()

	owner, err := linkOf(rec)
	if err != nil {
		return invalid(id, entity, err.Error())
	}
	c := d.contacts[owner]
	if c == nil {
		return invalid(id, entity, fmt.Sprintf("%s %q", config.ErrLinkUnresolved, owner))
	}

	f, err := parseField(cat, rec)
	if err != nil {
		return invalid(id, entity, err.Error())
	}
	c.AddField(f)
	return nil
}

// linkOf extracts the owner identifier from the single-element link list.
func linkOf(rec Record) (string, error) {
	v, present := rec[config.KeyLink]
	if !present {
		return "", errors.New(config.ErrLinkMissing)
	}
	var items []any
	switch l := v.(type) {
	case []any:
		items = l
	case []string:
		items = make([]any, len(l))
		for i, s := range l {
			items[i] = s
		}
	default:
		return "", fmt.Errorf("%s (%T)", config.ErrLinkType, v)
	}
	if len(items) != 1 {
		return "", fmt.Errorf("%s: %d", config.ErrLinkLength, len(items))
	}
	owner, ok := items[0].(string)
	if !ok {
		return "", fmt.Errorf("%s (%T)", config.ErrLinkElement, items[0])
	}
	return owner, nil
}

// parseField extracts the category payload. The type is always required;
// the value is required for phone, email, URL and date records.
func parseField(cat contact.Category, rec Record) (contact.Field, error) {
	typ, ok := rec[config.KeyType].(string)
	if !ok {
		return contact.Field{}, errors.New(config.ErrTypeMissing)
	}
	label, _ := rec[config.KeyLabel].(string)
	f := contact.Field{Category: cat, Type: typ, Label: label}

	switch cat {
	case contact.CategoryAddress:
		f.Address = contact.Address{
			Street:      stringOf(rec, config.KeyStreet),
			PostalCode:  stringOf(rec, config.KeyPostalCode),
			City:        stringOf(rec, config.KeyCity),
			Country:     stringOf(rec, config.KeyCountry),
			CountryCode: stringOf(rec, config.KeyCountryCode),
		}
	case contact.CategoryIM:
		f.IM = contact.IM{
			Service: stringOf(rec, config.KeyService),
			User:    stringOf(rec, config.KeyUser),
		}
	case contact.CategoryDate:
		date, ok := decodeDate(rec[config.KeyValue])
		if !ok {
			return contact.Field{}, errors.New(config.ErrValueMissing)
		}
		f.Date = date
	default:
		value, ok := rec[config.KeyValue].(string)
		if !ok {
			return contact.Field{}, errors.New(config.ErrValueMissing)
		}
		f.Value = value
	}
	return f, nil
}

func stringOf(rec Record, key string) string {
	s, _ := rec[key].(string)
	return s
}
