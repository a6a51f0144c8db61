package record_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
	"github.com/tartampluch/go-contact-sync/internal/record"
)

func newJohn() *contact.Contact {
	c := contact.NewPerson()
	c.Set(contact.FirstName, "John")
	c.Set(contact.LastName, "Doe")
	c.Set(contact.Nickname, "JD")
	c.Set(contact.CompanyName, "ACME")
	c.Set(contact.Notes, "line one\nline two")
	c.SetBirthday(time.Date(1980, 5, 17, 13, 45, 12, 987654321, time.UTC))
	c.SetPhoto([]byte{0xff, 0xd8, 0xff, 0xe0})
	return c
}

func TestEncodeMain_Fields(t *testing.T) {
	acme := contact.NewCompany()
	acme.Set(contact.CompanyName, "ACME")

	enc := record.NewEncoder(record.Options{})
	set := enc.EncodeMain(contact.Map{"1": newJohn(), "2": acme, "3": nil})

	require.Len(t, set, 2, "nil contacts are skipped")

	john := set["1"]
	assert.Equal(t, record.MainEntityName, john[config.KeyEntityName])
	assert.Equal(t, config.DisplayPerson, john[config.KeyDisplayAs])
	assert.Equal(t, "John", john[config.KeyFirstName])
	assert.Equal(t, "Doe", john[config.KeyLastName])
	assert.NotContains(t, john, config.KeyMiddleName, "unset attributes are omitted")
	assert.Equal(t, time.Date(1980, 5, 17, 13, 45, 12, 0, time.UTC), john[config.KeyBirthday])
	assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0xe0}, john[config.KeyImage])

	assert.Equal(t, config.DisplayCompany, set["2"][config.KeyDisplayAs])
	assert.NotContains(t, set["2"], config.KeyBirthday)
	assert.NotContains(t, set["2"], config.KeyImage)
}

func TestEncodeCategory_CompositeIDsUnique(t *testing.T) {
	const contacts, perContact = 7, 5

	m := contact.Map{}
	for i := range contacts {
		c := contact.NewPerson()
		for j := range perContact {
			c.AddEmail(fmt.Sprintf("user%d.%d@example.test", i, j), config.TypeWork, "")
		}
		m[fmt.Sprint(i+1)] = c
	}

	set := record.NewEncoder(record.Options{}).EncodeCategory(m, contact.CategoryEmail, nil)
	assert.Len(t, set, contacts*perContact)

	for id, rec := range set {
		catID, owner, seq, err := record.ParseCompositeID(id)
		require.NoError(t, err)
		assert.Equal(t, config.CategoryIDEmail, catID)
		assert.Less(t, seq, perContact, "sequences restart per contact")
		assert.Equal(t, []any{owner}, rec[config.KeyLink])
	}
}

func TestEncodeCategory_RemapPropagation(t *testing.T) {
	c := contact.NewPerson()
	c.AddPhone("+1", "home", "")
	c.AddPhone("+2", "work", "")
	other := contact.NewPerson()
	other.AddPhone("+3", "mobile", "")

	m := contact.Map{"5": c, "6": other}
	remap := record.RemapTable{"5": "205"}

	set := record.NewEncoder(record.Options{}).EncodeCategory(m, contact.CategoryPhone, remap)

	require.Contains(t, set, "3/205/0")
	require.Contains(t, set, "3/205/1")
	assert.Equal(t, []any{"205"}, set["3/205/0"][config.KeyLink])
	assert.Equal(t, "+1", set["3/205/0"][config.KeyValue], "field order follows insertion order")
	assert.Equal(t, "+2", set["3/205/1"][config.KeyValue])

	for id, rec := range set {
		assert.NotContains(t, id, "/5/")
		assert.NotEqual(t, []any{"5"}, rec[config.KeyLink])
	}

	// No entry in the table: the original identifier is kept.
	require.Contains(t, set, "3/6/0")
	assert.Equal(t, []any{"6"}, set["3/6/0"][config.KeyLink])
}

func TestEncodeCategory_OwnerCollision(t *testing.T) {
	first := contact.NewPerson()
	first.AddEmail("first@example.test", config.TypeHome, "")
	second := contact.NewPerson()
	second.AddEmail("second@example.test", config.TypeWork, "")
	second.AddEmail("second.bis@example.test", config.TypeWork, "")

	// "1" is remapped onto the identifier "2" still uses.
	m := contact.Map{"1": first, "2": second}
	set := record.NewEncoder(record.Options{}).EncodeCategory(m, contact.CategoryEmail, record.RemapTable{"1": "2"})

	require.Len(t, set, 1, "the later contact is dropped, not merged")
	assert.Equal(t, "first@example.test", set["4/2/0"][config.KeyValue])
	assert.NotContains(t, set, "4/2/1")
}

func TestEncodeCategory_Payloads(t *testing.T) {
	anniversary := time.Date(2005, 6, 11, 0, 0, 0, 0, time.UTC)
	c := contact.NewPerson()
	c.AddAddress(contact.Address{Street: "1 Main St", City: "Springfield"}, config.TypeHome, "")
	c.AddIM(contact.IM{Service: "jabber", User: "jd@jabber.test"}, "", "")
	c.AddDate(anniversary, config.TypeAnniversary, "")
	c.AddURL("https://blog.test", config.TypeOther, "blog")
	m := contact.Map{"1": c}

	enc := record.NewEncoder(record.Options{})

	addr := enc.EncodeCategory(m, contact.CategoryAddress, nil)["5/1/0"]
	assert.Equal(t, "com.apple.contacts.Street Address", addr[config.KeyEntityName])
	assert.Equal(t, "1 Main St", addr[config.KeyStreet])
	assert.Equal(t, "Springfield", addr[config.KeyCity])
	assert.NotContains(t, addr, config.KeyCountry)
	assert.NotContains(t, addr, config.KeyLabel)

	im := enc.EncodeCategory(m, contact.CategoryIM, nil)["13/1/0"]
	assert.Equal(t, "jabber", im[config.KeyService])
	assert.Equal(t, "jd@jabber.test", im[config.KeyUser])
	assert.Equal(t, config.TypeOther, im[config.KeyType], "an empty type falls back to other")

	date := enc.EncodeCategory(m, contact.CategoryDate, nil)["12/1/0"]
	assert.Equal(t, anniversary, date[config.KeyValue])

	url := enc.EncodeCategory(m, contact.CategoryURL, nil)["22/1/0"]
	assert.Equal(t, "blog", url[config.KeyLabel])
}

func TestEncodeCategory_Empty(t *testing.T) {
	set := record.NewEncoder(record.Options{}).EncodeCategory(contact.Map{"1": newJohn()}, contact.CategoryDate, nil)
	assert.NotNil(t, set)
	assert.Empty(t, set)
}

func TestEncoder_DumpWriter(t *testing.T) {
	var buf bytes.Buffer
	enc := record.NewEncoder(record.Options{DumpWriter: &buf})
	enc.EncodeMain(contact.Map{"1": newJohn()})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!-- Contact: 1 records -->"))
	assert.Contains(t, out, "<key>first name</key>")
	assert.Contains(t, out, "<string>John</string>")
	assert.Contains(t, out, "<date>1980-05-17T13:45:12Z</date>")
}

func TestCompositeID(t *testing.T) {
	assert.Equal(t, "3/205/0", record.CompositeID(contact.CategoryPhone, "205", 0))
	assert.Equal(t, "22/abc/4", record.CompositeID(contact.CategoryURL, "abc", 4))

	cat, owner, seq, err := record.ParseCompositeID("5/a/b/2")
	require.NoError(t, err)
	assert.Equal(t, 5, cat)
	assert.Equal(t, "a/b", owner)
	assert.Equal(t, 2, seq)

	_, _, _, err = record.ParseCompositeID("nope")
	assert.Error(t, err)
}

func TestDates(t *testing.T) {
	assert.Equal(t, int64(0), record.Offset(record.Epoch))
	assert.Equal(t, int64(86400), record.Offset(time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC), record.FromOffset(-86400))

	placeholder := time.Date(config.DefaultLeapYear, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(-12521779200), record.Offset(placeholder))
	assert.Equal(t, placeholder, record.FromOffset(record.Offset(placeholder)))

	paris := time.FixedZone("CEST", 2*3600)
	got := record.EncodeDate(time.Date(2020, 1, 1, 2, 0, 0, 500, paris))
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), got)
}
