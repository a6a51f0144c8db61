package record_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
	"github.com/tartampluch/go-contact-sync/internal/record"
)

func mainRec(display, first, last string) record.Record {
	return record.Record{
		config.KeyEntityName: "com.apple.contacts.Contact",
		config.KeyDisplayAs:  display,
		config.KeyFirstName:  first,
		config.KeyLastName:   last,
	}
}

func phoneRec(typ, value string, link any) record.Record {
	rec := record.Record{
		config.KeyEntityName: "com.apple.contacts.Phone Number",
		config.KeyValue:      value,
		config.KeyLink:       link,
	}
	if typ != "" {
		rec[config.KeyType] = typ
	}
	return rec
}

func TestDecode_JohnDoe(t *testing.T) {
	dec := record.NewDecoder(record.Options{})

	require.NoError(t, dec.Decode(record.Set{"1": mainRec("person", "John", "Doe")}))
	require.NoError(t, dec.Decode(record.Set{"3/1/0": phoneRec("mobile", "+1234", []any{"1"})}))
	require.NoError(t, dec.Err())

	contacts := dec.Contacts()
	require.Len(t, contacts, 1)
	john := contacts["1"]
	require.NotNil(t, john)
	assert.Equal(t, contact.Person, john.Kind())
	assert.Equal(t, "John Doe", john.DisplayName())

	phones := slices.Collect(john.Fields(contact.CategoryPhone))
	require.Len(t, phones, 1)
	assert.Equal(t, "mobile", phones[0].Type)
	assert.Equal(t, "+1234", phones[0].Value)
	assert.Empty(t, phones[0].Label)
}

func TestDecode_BirthdayOffset(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
	}{
		{"NoYearPlaceholder", time.Date(config.DefaultLeapYear, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"BeforeEpoch", time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)},
		{"AfterEpoch", time.Date(2012, 2, 29, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := mainRec("person", "Ada", "Lovelace")
			rec[config.KeyBirthday] = tt.day.Unix() - record.Epoch.Unix()

			dec := record.NewDecoder(record.Options{})
			require.NoError(t, dec.Decode(record.Set{"1": rec}))
			require.NoError(t, dec.Err())

			bday, ok := dec.Contacts()["1"].Birthday()
			require.True(t, ok)
			assert.Equal(t, tt.day, bday)
		})
	}
}

func TestDecode_EmptySet(t *testing.T) {
	dec := record.NewDecoder(record.Options{})

	assert.NoError(t, dec.Decode(record.Set{}))
	assert.NoError(t, dec.Decode(map[string]any{}))
	assert.Empty(t, dec.Contacts())
	assert.NoError(t, dec.Err())
}

func TestDecode_OuterShape(t *testing.T) {
	dec := record.NewDecoder(record.Options{})

	for _, raw := range []any{nil, []any{"x"}, "dict", 42} {
		err := dec.Decode(raw)
		require.Error(t, err, "%T should be rejected", raw)
		assert.ErrorIs(t, err, record.ErrValidation)
	}
	assert.Empty(t, dec.Failures(), "shape failures are returned, not collected")
}

func TestDecode_MissingTypeRejected(t *testing.T) {
	dec := record.NewDecoder(record.Options{})
	require.NoError(t, dec.Decode(record.Set{"1": mainRec("person", "John", "Doe")}))

	require.NoError(t, dec.Decode(record.Set{
		"3/1/0": phoneRec("", "+1111", []any{"1"}),
		"3/1/1": phoneRec("home", "+2222", []any{"1"}),
	}))

	err := dec.Err()
	require.Error(t, err)
	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "3/1/0", verr.ID)
	assert.Equal(t, config.EntityPhone, verr.Entity)
	assert.Contains(t, verr.Reason, "type")

	phones := slices.Collect(dec.Contacts()["1"].Fields(contact.CategoryPhone))
	require.Len(t, phones, 1, "the following record must still be decoded")
	assert.Equal(t, "+2222", phones[0].Value)
}

func TestDecode_BadLinks(t *testing.T) {
	tests := []struct {
		name   string
		link   any
		reason string
	}{
		{"missing", nil, config.ErrLinkMissing},
		{"not a list", "1", config.ErrLinkType},
		{"empty list", []any{}, config.ErrLinkLength},
		{"two elements", []any{"1", "2"}, config.ErrLinkLength},
		{"non string element", []any{int64(1)}, config.ErrLinkElement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := record.NewDecoder(record.Options{})
			require.NoError(t, dec.Decode(record.Set{"1": mainRec("person", "John", "Doe")}))

			rec := phoneRec("home", "+1", tt.link)
			if tt.link == nil {
				delete(rec, config.KeyLink)
			}
			require.NoError(t, dec.Decode(record.Set{"3/1/0": rec}))

			require.Error(t, dec.Err())
			assert.ErrorIs(t, dec.Err(), record.ErrValidation)
			assert.Contains(t, dec.Err().Error(), tt.reason)
			assert.Zero(t, dec.Contacts()["1"].Count(contact.CategoryPhone), "target contact must be untouched")
		})
	}
}

func TestDecode_MainRecordFailures(t *testing.T) {
	dec := record.NewDecoder(record.Options{})

	set := record.Set{
		"1": mainRec("robot", "R2", "D2"),
		"2": {config.KeyEntityName: "com.apple.contacts.Contact", config.KeyFirstName: "NoDisplay"},
		"3": {config.KeyFirstName: "NoEntity"},
		"4": {config.KeyEntityName: "org.example.Contact", config.KeyDisplayAs: "person"},
		"5": {config.KeyEntityName: "com.apple.contacts.Fax", config.KeyDisplayAs: "person"},
		"6": mainRec("company", "", ""),
	}
	set["6"][config.KeyCompanyName] = "ACME"

	require.NoError(t, dec.Decode(set))

	assert.Len(t, dec.Failures(), 5)
	require.Len(t, dec.Contacts(), 1)
	assert.Equal(t, contact.Company, dec.Contacts()["6"].Kind())
	assert.Equal(t, "ACME", dec.Contacts()["6"].DisplayName())

	// Failures are reported in identifier order; the last one wins.
	var verr *record.ValidationError
	require.ErrorAs(t, dec.Err(), &verr)
	assert.Equal(t, "5", verr.ID)
	assert.Contains(t, verr.Reason, config.ErrEntityUnknown)
}

func TestDecode_FieldsBeforeOwnerInSameSet(t *testing.T) {
	dec := record.NewDecoder(record.Options{})

	// "0..." sorts before "9", yet the owner must be created first.
	require.NoError(t, dec.Decode(record.Set{
		"0/9/0": phoneRec("home", "+1", []any{"9"}),
		"9":     mainRec("person", "Ann", "Lee"),
	}))
	require.NoError(t, dec.Err())
	assert.Equal(t, 1, dec.Contacts()["9"].Count(contact.CategoryPhone))
}

func TestDecode_UnknownOwner(t *testing.T) {
	dec := record.NewDecoder(record.Options{})

	require.NoError(t, dec.Decode(record.Set{"3/42/0": phoneRec("home", "+1", []any{"42"})}))

	require.Error(t, dec.Err())
	assert.Contains(t, dec.Err().Error(), config.ErrLinkUnresolved)
	assert.Empty(t, dec.Contacts())
}

func TestDecode_CategoryPayloads(t *testing.T) {
	dec := record.NewDecoder(record.Options{})
	require.NoError(t, dec.Decode(record.Set{"1": mainRec("person", "John", "Doe")}))

	day := time.Date(2005, 6, 11, 0, 0, 0, 0, time.UTC)
	link := []string{"1"}
	require.NoError(t, dec.Decode(record.Set{
		"5/1/0": {
			config.KeyEntityName: "com.apple.contacts.Street Address",
			config.KeyType:       "home",
			config.KeyCity:       "Springfield",
			config.KeyLink:       link,
		},
		"13/1/0": {
			config.KeyEntityName: "com.apple.contacts.IM",
			config.KeyType:       "other",
			config.KeyService:    "jabber",
			config.KeyUser:       "jd",
			config.KeyLink:       link,
		},
		"12/1/0": {
			config.KeyEntityName: "com.apple.contacts.Date",
			config.KeyType:       "anniversary",
			config.KeyValue:      record.Offset(day),
			config.KeyLink:       link,
		},
		"12/1/1": {
			config.KeyEntityName: "com.apple.contacts.Date",
			config.KeyType:       "other",
			config.KeyLink:       link,
		},
		"4/1/0": {
			config.KeyEntityName: "com.apple.contacts.Email Address",
			config.KeyType:       "other",
			config.KeyLabel:      "school",
			config.KeyValue:      "jd@school.test",
			config.KeyLink:       link,
		},
	}))

	require.Len(t, dec.Failures(), 1, "a date without value is rejected")

	john := dec.Contacts()["1"]
	addrs := slices.Collect(john.Fields(contact.CategoryAddress))
	require.Len(t, addrs, 1)
	assert.Equal(t, contact.Address{City: "Springfield"}, addrs[0].Address)

	ims := slices.Collect(john.Fields(contact.CategoryIM))
	require.Len(t, ims, 1)
	assert.Equal(t, contact.IM{Service: "jabber", User: "jd"}, ims[0].IM)

	dates := slices.Collect(john.Fields(contact.CategoryDate))
	require.Len(t, dates, 1)
	assert.Equal(t, day, dates[0].Date)

	emails := slices.Collect(john.Fields(contact.CategoryEmail))
	require.Len(t, emails, 1)
	assert.Equal(t, "school", emails[0].Tag())
}

func TestRoundTrip_MainFields(t *testing.T) {
	john := newJohn()
	enc := record.NewEncoder(record.Options{})
	dec := record.NewDecoder(record.Options{})

	require.NoError(t, dec.Decode(enc.EncodeMain(contact.Map{"1": john})))
	require.NoError(t, dec.Err())

	got := dec.Contacts()["1"]
	require.NotNil(t, got)
	for _, attr := range contact.Attrs() {
		assert.Equal(t, john.Get(attr), got.Get(attr), "attribute %d", attr)
	}
	want, _ := john.Birthday()
	bd, ok := got.Birthday()
	require.True(t, ok)
	assert.Equal(t, want.Truncate(time.Second), bd, "birthday survives to the second")
	assert.Equal(t, john.Photo(), got.Photo())
}

func TestRoundTrip_ThroughPlist(t *testing.T) {
	john := newJohn()
	john.AddPhone("+1234", "mobile", "")
	john.AddAddress(contact.Address{Street: "1 Main St\nApt 2", CountryCode: "us"}, "home", "")
	john.AddDate(time.Date(2005, 6, 11, 0, 0, 0, 0, time.UTC), "anniversary", "")
	m := contact.Map{"1": john}

	enc := record.NewEncoder(record.Options{})
	dec := record.NewDecoder(record.Options{})

	sets := []record.Set{enc.EncodeMain(m)}
	for _, cat := range contact.Categories() {
		sets = append(sets, enc.EncodeCategory(m, cat, nil))
	}
	for _, set := range sets {
		data, err := record.Marshal(set)
		require.NoError(t, err)
		raw, err := record.Unmarshal(data)
		require.NoError(t, err)
		require.NoError(t, dec.Decode(raw))
	}
	require.NoError(t, dec.Err())

	got := dec.Contacts()["1"]
	require.NotNil(t, got)
	assert.Equal(t, "John Doe", got.DisplayName())
	assert.Equal(t, john.Photo(), got.Photo())
	for _, cat := range contact.Categories() {
		assert.Equal(t, slices.Collect(john.Fields(cat)), slices.Collect(got.Fields(cat)), "category %s", cat)
	}
}

func TestValidationError_Is(t *testing.T) {
	err := &record.ValidationError{ID: "1", Reason: "boom"}
	assert.True(t, errors.Is(err, record.ErrValidation))
	assert.Contains(t, err.Error(), `"1"`)
}
