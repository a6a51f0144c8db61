package store

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
)

// WriteVCards encodes contacts as vCard 3.0, in identifier order.
func WriteVCards(w io.Writer, contacts contact.Map) error {
	enc := vcard.NewEncoder(w)
	for _, id := range contacts.IDs() {
		c := contacts[id]
		if c == nil {
			continue
		}
		if err := enc.Encode(ToVCard(id, c)); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}
	return nil
}

// ToVCard is the inverse of FromVCard for the properties a contact carries.
func ToVCard(id string, c *contact.Contact) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, config.VCardVersion)
	card.SetValue(vcard.FieldUID, id)

	name := c.DisplayName()
	if name == "" {
		name = config.FallbackName
	}
	card.SetValue(vcard.FieldFormattedName, name)
	card.SetName(&vcard.Name{
		GivenName:       c.Get(contact.FirstName),
		FamilyName:      c.Get(contact.LastName),
		AdditionalName:  c.Get(contact.MiddleName),
		HonorificPrefix: c.Get(contact.Title),
		HonorificSuffix: c.Get(contact.Suffix),
	})

	setIf(card, config.VCardPhoneticFirst, c.Get(contact.FirstNamePhonetic))
	setIf(card, config.VCardPhoneticLast, c.Get(contact.LastNamePhonetic))
	setIf(card, vcard.FieldNickname, c.Get(contact.Nickname))
	setIf(card, vcard.FieldTitle, c.Get(contact.JobTitle))
	setIf(card, vcard.FieldNote, c.Get(contact.Notes))

	if company := c.Get(contact.CompanyName); company != "" {
		org := company
		if dept := c.Get(contact.Department); dept != "" {
			org += config.OrgSeparator + dept
		}
		card.SetValue(vcard.FieldOrganization, org)
	}
	if c.Kind() == contact.Company {
		card.SetValue(config.VCardShowAs, config.VCardShowAsCompany)
	}

	if bday, ok := c.Birthday(); ok {
		card.SetValue(vcard.FieldBirthday, bday.Format(config.DateFormatFullDash))
	}
	if photo := c.Photo(); len(photo) > 0 {
		card.Set(vcard.FieldPhoto, &vcard.Field{
			Value: base64.StdEncoding.EncodeToString(photo),
			Params: vcard.Params{
				config.VCardParamEncoding: {config.VCardEncodingB},
				vcard.ParamType:           {config.VCardPhotoTypeJPEG},
			},
		})
	}

	for f := range c.Fields(contact.CategoryAddress) {
		card.AddAddress(&vcard.Address{
			Field:         &vcard.Field{Params: placeParams(f.Type)},
			StreetAddress: f.Address.Street,
			PostalCode:    f.Address.PostalCode,
			Locality:      f.Address.City,
			Country:       f.Address.Country,
		})
	}
	for f := range c.Fields(contact.CategoryPhone) {
		card.Add(vcard.FieldTelephone, &vcard.Field{Value: f.Value, Params: phoneParams(f)})
	}
	for f := range c.Fields(contact.CategoryEmail) {
		card.Add(vcard.FieldEmail, &vcard.Field{Value: f.Value, Params: placeParams(f.Type)})
	}
	for f := range c.Fields(contact.CategoryURL) {
		card.Add(vcard.FieldURL, &vcard.Field{Value: f.Value, Params: vcard.Params{}})
	}
	for f := range c.Fields(contact.CategoryIM) {
		value := f.IM.User
		if f.IM.Service != "" {
			value = f.IM.Service + config.IMSeparator + f.IM.User
		}
		card.Add(vcard.FieldIMPP, &vcard.Field{Value: value, Params: placeParams(f.Type)})
	}
	for f := range c.Fields(contact.CategoryDate) {
		date := f.Date.Format(config.DateFormatFullDash)
		if f.Type == config.TypeAnniversary {
			card.Add(vcard.FieldAnniversary, &vcard.Field{Value: date, Params: vcard.Params{}})
			continue
		}
		params := vcard.Params{}
		if tag := f.Tag(); tag != "" && tag != config.TypeOther {
			params[vcard.ParamType] = []string{tag}
		}
		card.Add(config.VCardABDate, &vcard.Field{Value: date, Params: params})
	}

	return card
}

func setIf(card vcard.Card, key, value string) {
	if value != "" {
		card.SetValue(key, value)
	}
}

func placeParams(typ string) vcard.Params {
	switch typ {
	case config.TypeHome:
		return vcard.Params{vcard.ParamType: {vcard.TypeHome}}
	case config.TypeWork:
		return vcard.Params{vcard.ParamType: {vcard.TypeWork}}
	default:
		return vcard.Params{}
	}
}

func phoneParams(f contact.Field) vcard.Params {
	switch {
	case f.Type == config.TypeMobile:
		return vcard.Params{vcard.ParamType: {config.VCardTypeCell}}
	case f.Label == config.LabelPager:
		return vcard.Params{vcard.ParamType: {config.VCardTypePager}}
	case strings.HasSuffix(f.Label, config.LabelFaxSuffix):
		place := strings.TrimSuffix(f.Label, config.LabelFaxSuffix)
		params := placeParams(place)
		params[vcard.ParamType] = append(params[vcard.ParamType], config.VCardTypeFax)
		return params
	default:
		return placeParams(f.Type)
	}
}
