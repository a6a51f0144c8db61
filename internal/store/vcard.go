package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
)

// DecodeVCards reads every card of r into a contact map keyed by UID.
// Malformed cards are logged and skipped so one bad entry does not lose the whole address book.
func DecodeVCards(ctx context.Context, r io.Reader) (contact.Map, error) {
	log := slog.With(slog.String(config.LogKeyComponent, config.CompStore))
	src := &readTracker{r: r}
	decoder := vcard.NewDecoder(src)
	contacts := make(contact.Map)
	processed := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if src.err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrVCardRead, src.err)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			continue
		}
		processed++

		id := card.Value(vcard.FieldUID)
		if id == "" {
			id = derivedUID(card)
			log.Warn(config.MsgMissingUID,
				config.LogKeyName, card.Value(vcard.FieldFormattedName),
				config.LogKeyRecordID, id)
		}
		contacts[id] = FromVCard(card)
	}

	log.Info(config.MsgSourceLoaded,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, processed),
			slog.Int(config.LogKeyContacts, len(contacts)),
		),
	)
	return contacts, nil
}

// readTracker remembers the first read failure of the underlying stream,
// which the vCard decoder does not tell apart from a malformed card.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}
	return n, err
}

// derivedUID builds a stable identifier from the formatted name and the
// first email address or phone number.
func derivedUID(card vcard.Card) string {
	key := card.Value(vcard.FieldEmail)
	if key == "" {
		key = card.Value(vcard.FieldTelephone)
	}
	input := fmt.Sprintf(config.FormatHashInput, card.Value(vcard.FieldFormattedName), key, config.UIDSalt)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(input)).String()
}

// FromVCard maps one vCard onto a contact.
func FromVCard(card vcard.Card) *contact.Contact {
	kind := contact.Person
	if isCompany(card) {
		kind = contact.Company
	}
	c := contact.New(kind)

	if n := card.Name(); n != nil {
		c.Set(contact.FirstName, n.GivenName)
		c.Set(contact.LastName, n.FamilyName)
		c.Set(contact.MiddleName, n.AdditionalName)
		c.Set(contact.Title, n.HonorificPrefix)
		c.Set(contact.Suffix, n.HonorificSuffix)
	}
	c.Set(contact.FirstNamePhonetic, card.Value(config.VCardPhoneticFirst))
	c.Set(contact.LastNamePhonetic, card.Value(config.VCardPhoneticLast))
	c.Set(contact.Nickname, card.Value(vcard.FieldNickname))
	c.Set(contact.JobTitle, card.Value(vcard.FieldTitle))
	c.Set(contact.Notes, card.Value(vcard.FieldNote))

	if org := card.Value(vcard.FieldOrganization); org != "" {
		company, department, _ := strings.Cut(org, config.OrgSeparator)
		c.Set(contact.CompanyName, company)
		c.Set(contact.Department, department)
	}

	if bday := card.Value(vcard.FieldBirthday); bday != "" {
		if t, err := parseDate(bday); err == nil {
			c.SetBirthday(t)
		} else {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompStore,
				config.LogKeyValue, bday)
		}
	}

	for _, f := range card[vcard.FieldAnniversary] {
		if t, err := parseDate(f.Value); err == nil {
			c.AddDate(t, config.TypeAnniversary, "")
		}
	}
	for _, f := range card[config.VCardABDate] {
		if t, err := parseDate(f.Value); err == nil {
			c.AddDate(t, config.TypeOther, labelOf(f))
		}
	}

	addPhoto(c, card)

	for _, addr := range card.Addresses() {
		street := joinNonEmpty(config.AddressLineJoin, addr.StreetAddress, addr.ExtendedAddress)
		c.AddAddress(contact.Address{
			Street:     street,
			PostalCode: addr.PostalCode,
			City:       addr.Locality,
			Country:    addr.Country,
		}, placeOf(addr.Field), "")
	}

	for _, f := range card[vcard.FieldTelephone] {
		typ, label := phoneKind(f)
		c.AddPhone(f.Value, typ, label)
	}
	for _, f := range card[vcard.FieldEmail] {
		c.AddEmail(f.Value, placeOf(f), "")
	}
	for _, f := range card[vcard.FieldURL] {
		c.AddURL(f.Value, config.TypeHomePage, "")
	}
	for _, f := range card[vcard.FieldIMPP] {
		service, user, ok := strings.Cut(f.Value, config.IMSeparator)
		if !ok {
			service, user = "", f.Value
		}
		c.AddIM(contact.IM{Service: service, User: user}, placeOf(f), "")
	}

	return c
}

// isCompany recognizes organization cards: an explicit KIND or Apple's
// show-as flag, or an organization name without any personal name.
func isCompany(card vcard.Card) bool {
	if strings.EqualFold(card.Value(vcard.FieldKind), string(vcard.KindOrganization)) {
		return true
	}
	if strings.EqualFold(card.Value(config.VCardShowAs), config.VCardShowAsCompany) {
		return true
	}
	if card.Value(vcard.FieldOrganization) == "" {
		return false
	}
	n := card.Name()
	return n == nil || (n.GivenName == "" && n.FamilyName == "")
}

func addPhoto(c *contact.Contact, card vcard.Card) {
	for _, key := range []string{vcard.FieldPhoto, vcard.FieldLogo} {
		f := card.Get(key)
		if f == nil || f.Value == "" {
			continue
		}
		data, err := decodePhoto(f)
		if err != nil {
			slog.Warn(config.MsgSkippedPhoto,
				config.LogKeyComponent, config.CompStore,
				config.LogKeyError, err)
			continue
		}
		if data != nil {
			c.SetPhoto(data)
			return
		}
	}
}

// decodePhoto returns inline image data, or nil for photos given by reference.
func decodePhoto(f *vcard.Field) ([]byte, error) {
	value := f.Value
	if rest, ok := strings.CutPrefix(value, config.VCardDataScheme); ok {
		_, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, errors.New(config.ErrPhotoDecode)
		}
		value = payload
	} else {
		enc := strings.ToLower(f.Params.Get(config.VCardParamEncoding))
		if enc != config.VCardEncodingB && enc != config.VCardEncodingB64 {
			return nil, nil
		}
	}

	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(value), ""))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPhotoDecode, err)
	}
	return data, nil
}

// typesOf returns the lower-cased TYPE values of a property, splitting
// comma-separated lists.
func typesOf(f *vcard.Field) []string {
	var out []string
	for _, v := range f.Params[vcard.ParamType] {
		for _, t := range strings.Split(v, ",") {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// placeOf maps home and work TYPE values, everything else is "other".
func placeOf(f *vcard.Field) string {
	if f == nil {
		return config.TypeOther
	}
	types := typesOf(f)
	switch {
	case slices.Contains(types, vcard.TypeHome):
		return config.TypeHome
	case slices.Contains(types, vcard.TypeWork):
		return config.TypeWork
	default:
		return config.TypeOther
	}
}

func phoneKind(f *vcard.Field) (typ, label string) {
	types := typesOf(f)
	switch {
	case slices.Contains(types, config.VCardTypeFax):
		return config.TypeOther, placeOf(f) + config.LabelFaxSuffix
	case slices.Contains(types, config.VCardTypePager):
		return config.TypeOther, config.LabelPager
	case slices.Contains(types, config.VCardTypeCell):
		return config.TypeMobile, ""
	default:
		return placeOf(f), ""
	}
}

func labelOf(f *vcard.Field) string {
	types := typesOf(f)
	if len(types) == 0 {
		return ""
	}
	return types[0]
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// parseDate handles the vCard date forms. Dates without a year land on a leap year
// so that February 29th survives.
func parseDate(value string) (time.Time, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t.UTC(), nil
		}
	}

	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, errors.New(config.ErrDateParse)
}
