package contact

import (
	"time"

	"github.com/tartampluch/go-contact-sync/internal/config"
)

// Category is one of the six multi-value field kinds.
type Category int

// Categories in the order their record sets are sent to the device.
const (
	CategoryAddress Category = iota
	CategoryPhone
	CategoryEmail
	CategoryIM
	CategoryURL
	CategoryDate

	categoryCount
)

var categoryInfo = [categoryCount]struct {
	id     int
	entity string
}{
	CategoryAddress: {config.CategoryIDAddress, config.EntityAddress},
	CategoryPhone:   {config.CategoryIDPhone, config.EntityPhone},
	CategoryEmail:   {config.CategoryIDEmail, config.EntityEmail},
	CategoryIM:      {config.CategoryIDIM, config.EntityIM},
	CategoryURL:     {config.CategoryIDURL, config.EntityURL},
	CategoryDate:    {config.CategoryIDDate, config.EntityDate},
}

// Categories returns all categories in send order.
func Categories() []Category {
	return []Category{CategoryAddress, CategoryPhone, CategoryEmail, CategoryIM, CategoryURL, CategoryDate}
}

// CategoryByEntity resolves an entity name (without namespace prefix).
func CategoryByEntity(entity string) (Category, bool) {
	for c, info := range categoryInfo {
		if info.entity == entity {
			return Category(c), true
		}
	}
	return 0, false
}

func (c Category) valid() bool { return c >= 0 && c < categoryCount }

// ID is the fixed numeric identifier used in composite identifiers.
func (c Category) ID() int {
	if !c.valid() {
		return 0
	}
	return categoryInfo[c].id
}

// Entity is the entity name of the category, without namespace prefix.
func (c Category) Entity() string {
	if !c.valid() {
		return ""
	}
	return categoryInfo[c].entity
}

func (c Category) String() string { return c.Entity() }

// Address is a structured postal address. Every part is optional.
type Address struct {
	Street      string
	PostalCode  string
	City        string
	Country     string
	CountryCode string
}

// IsEmpty reports whether no part of the address is set.
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// IM is an instant-messaging handle.
type IM struct {
	Service string
	User    string
}

// Field is one entry of a multi-value collection.
// Only the payload matching Category is meaningful: Value for phone, email
// and URL, Address, IM or Date for the others.
type Field struct {
	Category Category
	Type     string
	Label    string // Set only for caller-defined kinds

	Value   string
	Address Address
	IM      IM
	Date    time.Time
}

// Tag returns the label when present, else the type.
func (f Field) Tag() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Type
}
