package contact

import (
	"fmt"
	"io"
	"strings"
)

const dumpDateLayout = "2006-01-02"

// Dump writes a human-readable listing of the contact.
// Collections are printed in insertion order; labels are preferred over types.
func (c *Contact) Dump(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Contact Type: %s\n", c.kind)
	if v := c.Get(Title); v != "" {
		fmt.Fprintf(&b, "Title: %s\n", v)
	}
	writeName(&b, "First Name", c.Get(FirstName), c.Get(FirstNamePhonetic))
	if v := c.Get(MiddleName); v != "" {
		fmt.Fprintf(&b, "Middle Name: %s\n", v)
	}
	writeName(&b, "Last Name", c.Get(LastName), c.Get(LastNamePhonetic))

	for _, line := range []struct {
		label string
		attr  Attr
	}{
		{"Nickname", Nickname},
		{"Name Suffix", Suffix},
	} {
		if v := c.Get(line.attr); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", line.label, v)
		}
	}
	if len(c.photo) > 0 {
		fmt.Fprintf(&b, "Photo: %d bytes\n", len(c.photo))
	}
	if bd, ok := c.Birthday(); ok {
		fmt.Fprintf(&b, "Birthday: %s\n", bd.Format(dumpDateLayout))
	}
	for _, line := range []struct {
		label string
		attr  Attr
	}{
		{"Company Name", CompanyName},
		{"Department", Department},
		{"Job Title", JobTitle},
		{"Notes", Notes},
	} {
		if v := c.Get(line.attr); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", line.label, v)
		}
	}

	sections := []struct {
		title string
		cat   Category
	}{
		{"Addresses", CategoryAddress},
		{"Phone Numbers", CategoryPhone},
		{"Emails", CategoryEmail},
		{"IM User IDs", CategoryIM},
		{"URLs", CategoryURL},
		{"Dates", CategoryDate},
	}
	for _, s := range sections {
		if c.Count(s.cat) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", s.title)
		for f := range c.Fields(s.cat) {
			writeField(&b, f)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeName(b *strings.Builder, label, name, phonetic string) {
	if name == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s", label, name)
	if phonetic != "" {
		fmt.Fprintf(b, " (%s)", phonetic)
	}
	b.WriteString("\n")
}

func writeField(b *strings.Builder, f Field) {
	switch f.Category {
	case CategoryAddress:
		fmt.Fprintf(b, "\t%s:\n", f.Tag())
		for _, part := range []struct{ label, value string }{
			{"Street", f.Address.Street},
			{"Postal Code", f.Address.PostalCode},
			{"City", f.Address.City},
			{"Country", f.Address.Country},
			{"Country Code", f.Address.CountryCode},
		} {
			if part.value != "" {
				fmt.Fprintf(b, "\t\t%s: %s\n", part.label, strings.ReplaceAll(part.value, "\n", ", "))
			}
		}
	case CategoryIM:
		fmt.Fprintf(b, "\t%s:\n", f.Tag())
		if f.IM.Service != "" {
			fmt.Fprintf(b, "\t\tService: %s\n", f.IM.Service)
		}
		fmt.Fprintf(b, "\t\tUser ID: %s\n", f.IM.User)
	case CategoryDate:
		fmt.Fprintf(b, "\t%s: %s\n", f.Tag(), f.Date.Format(dumpDateLayout))
	default:
		fmt.Fprintf(b, "\t%s: %s\n", f.Tag(), f.Value)
	}
}

// Dump writes every contact of the map, ordered by identifier and separated by a blank line.
func (m Map) Dump(w io.Writer) error {
	for i, id := range m.IDs() {
		c := m[id]
		if c == nil {
			continue
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "ID: %s\n", id); err != nil {
			return err
		}
		if err := c.Dump(w); err != nil {
			return err
		}
	}
	return nil
}
