// Package contact holds the in-memory contact model exchanged with the device.
package contact

import (
	"iter"
	"slices"
	"strings"
	"time"
)

// Kind tells whether a contact is a person or a company.
type Kind int

const (
	Person Kind = iota
	Company
)

func (k Kind) String() string {
	if k == Company {
		return "company"
	}
	return "person"
}

// Attr names a scalar text attribute of a contact.
type Attr int

const (
	FirstName Attr = iota
	FirstNamePhonetic
	MiddleName
	LastName
	LastNamePhonetic
	Nickname
	Title
	Suffix
	CompanyName
	Department
	JobTitle
	Notes

	attrCount
)

// Attrs returns every scalar attribute in declaration order.
func Attrs() []Attr {
	attrs := make([]Attr, 0, attrCount)
	for a := range attrCount {
		attrs = append(attrs, a)
	}
	return attrs
}

// Contact is one person or company.
// Scalar setters never clear an existing value with an empty input.
type Contact struct {
	kind     Kind
	attrs    [attrCount]string
	birthday time.Time
	photo    []byte
	fields   [categoryCount][]Field
}

// New creates an empty contact of the given kind.
func New(kind Kind) *Contact {
	return &Contact{kind: kind}
}

// NewPerson creates an empty person.
func NewPerson() *Contact { return New(Person) }

// NewCompany creates an empty company.
func NewCompany() *Contact { return New(Company) }

// Kind returns whether the contact is a person or a company.
func (c *Contact) Kind() Kind { return c.kind }

// Set stores a scalar attribute. Empty values are ignored.
func (c *Contact) Set(a Attr, value string) {
	if value == "" || a < 0 || a >= attrCount {
		return
	}
	c.attrs[a] = value
}

// Get returns a scalar attribute, or "" when unset.
func (c *Contact) Get(a Attr) string {
	if a < 0 || a >= attrCount {
		return ""
	}
	return c.attrs[a]
}

// SetBirthday stores the birthday. A zero time is ignored.
func (c *Contact) SetBirthday(t time.Time) {
	if t.IsZero() {
		return
	}
	c.birthday = t
}

// Birthday returns the birthday and whether one is set.
func (c *Contact) Birthday() (time.Time, bool) {
	return c.birthday, !c.birthday.IsZero()
}

// SetPhoto replaces the photo. An empty blob is ignored.
// The contact keeps its own copy.
func (c *Contact) SetPhoto(data []byte) {
	if len(data) == 0 {
		return
	}
	c.photo = slices.Clone(data)
}

// Photo returns the raw photo bytes, nil when the contact has none.
func (c *Contact) Photo() []byte { return c.photo }

// AddAddress appends a postal address unless every part of it is empty.
func (c *Contact) AddAddress(addr Address, typ, label string) bool {
	if addr.IsEmpty() {
		return false
	}
	return c.add(Field{Category: CategoryAddress, Type: typ, Label: label, Address: addr})
}

// AddPhone appends a phone number. An empty number is dropped.
func (c *Contact) AddPhone(number, typ, label string) bool {
	return c.addValue(CategoryPhone, number, typ, label)
}

// AddEmail appends an email address. An empty address is dropped.
func (c *Contact) AddEmail(email, typ, label string) bool {
	return c.addValue(CategoryEmail, email, typ, label)
}

// AddURL appends a URL. An empty URL is dropped.
func (c *Contact) AddURL(url, typ, label string) bool {
	return c.addValue(CategoryURL, url, typ, label)
}

// AddIM appends an instant-messaging handle. A handle without user is dropped.
func (c *Contact) AddIM(im IM, typ, label string) bool {
	if im.User == "" {
		return false
	}
	return c.add(Field{Category: CategoryIM, Type: typ, Label: label, IM: im})
}

// AddDate appends a dated event (e.g. an anniversary). A zero date is dropped.
func (c *Contact) AddDate(date time.Time, typ, label string) bool {
	if date.IsZero() {
		return false
	}
	return c.add(Field{Category: CategoryDate, Type: typ, Label: label, Date: date})
}

// AddField appends a field to the collection of its category,
// applying the same drop rules as the typed adders.
func (c *Contact) AddField(f Field) bool {
	switch f.Category {
	case CategoryAddress:
		return c.AddAddress(f.Address, f.Type, f.Label)
	case CategoryIM:
		return c.AddIM(f.IM, f.Type, f.Label)
	case CategoryDate:
		return c.AddDate(f.Date, f.Type, f.Label)
	default:
		return c.addValue(f.Category, f.Value, f.Type, f.Label)
	}
}

func (c *Contact) addValue(cat Category, value, typ, label string) bool {
	if value == "" {
		return false
	}
	return c.add(Field{Category: cat, Type: typ, Label: label, Value: value})
}

func (c *Contact) add(f Field) bool {
	if !f.Category.valid() {
		return false
	}
	c.fields[f.Category] = append(c.fields[f.Category], f)
	return true
}

// Fields returns a lazy traversal of one category's fields in insertion order.
// The sequence can be ranged over any number of times.
func (c *Contact) Fields(cat Category) iter.Seq[Field] {
	return func(yield func(Field) bool) {
		if !cat.valid() {
			return
		}
		for _, f := range c.fields[cat] {
			if !yield(f) {
				return
			}
		}
	}
}

// Count returns how many fields the contact holds in a category.
func (c *Contact) Count(cat Category) int {
	if !cat.valid() {
		return 0
	}
	return len(c.fields[cat])
}

// DisplayName builds a human-readable name: "First Last" for persons,
// the company name for companies, falling back on whatever is set.
func (c *Contact) DisplayName() string {
	if c.kind == Company && c.attrs[CompanyName] != "" {
		return c.attrs[CompanyName]
	}
	parts := make([]string, 0, 2)
	for _, a := range []Attr{FirstName, LastName} {
		if v := c.attrs[a]; v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	for _, a := range []Attr{Nickname, CompanyName} {
		if v := c.attrs[a]; v != "" {
			return v
		}
	}
	return ""
}

// Map holds contacts keyed by their exchange identifier.
type Map map[string]*Contact

// IDs returns the identifiers in lexical order, for stable output.
func (m Map) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
