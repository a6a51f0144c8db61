package record

import (
	"log/slog"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
)

// attrKeys maps scalar contact attributes to main-record keys.
var attrKeys = map[contact.Attr]string{
	contact.FirstName:         config.KeyFirstName,
	contact.FirstNamePhonetic: config.KeyFirstPhon,
	contact.MiddleName:        config.KeyMiddleName,
	contact.LastName:          config.KeyLastName,
	contact.LastNamePhonetic:  config.KeyLastPhon,
	contact.Nickname:          config.KeyNickname,
	contact.Title:             config.KeyTitle,
	contact.Suffix:            config.KeySuffix,
	contact.Notes:             config.KeyNotes,
	contact.CompanyName:       config.KeyCompanyName,
	contact.Department:        config.KeyDepartment,
	contact.JobTitle:          config.KeyJobTitle,
}

// Encoder builds record sets from a contact map.
// It holds no per-call state and can be reused.
type Encoder struct {
	logger *slog.Logger
	dump   *dumper
}

// NewEncoder returns an Encoder configured by opts.
func NewEncoder(opts Options) *Encoder {
	logger := opts.logger()
	return &Encoder{logger: logger, dump: newDumper(opts.DumpWriter, logger)}
}

// EncodeMain builds the main record set: one record per contact keyed by
// its identifier, carrying the scalar fields, the birthday and the photo.
func (e *Encoder) EncodeMain(contacts contact.Map) Set {
	set := make(Set, len(contacts))
	for id, c := range contacts {
		if c == nil {
			e.logger.Warn(config.MsgNilContact, config.LogKeyRecordID, id)
			continue
		}
		set[id] = mainRecord(c)
	}
	e.dump.write(config.EntityContact, set)
	return set
}

func mainRecord(c *contact.Contact) Record {
	display := config.DisplayPerson
	if c.Kind() == contact.Company {
		display = config.DisplayCompany
	}
	rec := Record{
		config.KeyEntityName: MainEntityName,
		config.KeyDisplayAs:  display,
	}
	for attr, key := range attrKeys {
		if v := c.Get(attr); v != "" {
			rec[key] = v
		}
	}
	if bd, ok := c.Birthday(); ok {
		rec[config.KeyBirthday] = EncodeDate(bd)
	}
	if photo := c.Photo(); len(photo) > 0 {
		rec[config.KeyImage] = photo
	}
	return rec
}

// EncodeCategory builds the record set of one category. Owner identifiers
// are resolved through remap, both in composite identifiers and in links;
// a nil table leaves them unchanged. Sequences restart at zero for every
// contact.
//
// Contacts are visited in identifier order. When remap resolves two
// contacts to the same owner, the fields of the later one are dropped
// with a warning so that composite identifiers stay unique.
func (e *Encoder) EncodeCategory(contacts contact.Map, cat contact.Category, remap RemapTable) Set {
	set := make(Set)
	owners := make(map[string]string, len(contacts))
	for _, id := range contacts.IDs() {
		c := contacts[id]
		if c == nil {
			e.logger.Warn(config.MsgNilContact, config.LogKeyRecordID, id)
			continue
		}
		owner := remap.Resolve(id)
		if claimed, taken := owners[owner]; taken {
			if c.Count(cat) > 0 {
				e.logger.Warn(config.MsgOwnerCollision,
					config.LogKeyRecordID, id,
					config.LogKeyOwner, owner,
					config.LogKeyClaimedBy, claimed,
					config.LogKeyEntity, cat.Entity(),
				)
			}
			continue
		}
		owners[owner] = id
		seq := 0
		for f := range c.Fields(cat) {
			set[CompositeID(cat, owner, seq)] = fieldRecord(cat, owner, f)
			seq++
		}
	}
	e.dump.write(cat.Entity(), set)
	return set
}

func fieldRecord(cat contact.Category, owner string, f contact.Field) Record {
	typ := f.Type
	if typ == "" {
		typ = config.TypeOther
	}
	rec := Record{
		config.KeyEntityName: EntityName(cat),
		config.KeyType:       typ,
		config.KeyLink:       []any{owner},
	}
	if f.Label != "" {
		rec[config.KeyLabel] = f.Label
	}

	switch cat {
	case contact.CategoryAddress:
		putString(rec, config.KeyStreet, f.Address.Street)
		putString(rec, config.KeyPostalCode, f.Address.PostalCode)
		putString(rec, config.KeyCity, f.Address.City)
		putString(rec, config.KeyCountry, f.Address.Country)
		putString(rec, config.KeyCountryCode, f.Address.CountryCode)
	case contact.CategoryIM:
		putString(rec, config.KeyService, f.IM.Service)
		putString(rec, config.KeyUser, f.IM.User)
	case contact.CategoryDate:
		rec[config.KeyValue] = EncodeDate(f.Date)
	default:
		rec[config.KeyValue] = f.Value
	}
	return rec
}

func putString(rec Record, key, value string) {
	if value != "" {
		rec[key] = value
	}
}
