// Package calendar projects the birthdays and anniversaries of an address
// book onto an iCalendar feed.
package calendar

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/emersion/go-ical"

	"github.com/tartampluch/go-contact-sync/internal/clock"
	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
)

// Generator builds calendars from contacts.
type Generator struct {
	Clock clock.Clock

	// FormatSummary and FormatAnniversary let the caller inject localized event titles.
	FormatSummary     func(name string, age int, yearKnown bool) string
	FormatAnniversary func(name string, years int, yearKnown bool) string
}

// Generate returns the ICS data, the birthday entries sorted by next occurrence
// and the number of birthdays falling today. reminderTrigger, when non-empty,
// is an ISO 8601 duration such as "-P1D" attached as a display alarm.
func (g *Generator) Generate(ctx context.Context, contacts contact.Map, reminderTrigger string) ([]byte, []Entry, int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Birthdays follow the local calendar date; only DTSTAMP is UTC.
	now := g.clock().Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	stats := struct{ processed, withBday, today int }{}
	var entries []Entry

	for _, id := range contacts.IDs() {
		if err := ctx.Err(); err != nil {
			return nil, nil, 0, err
		}
		c := contacts[id]
		if c == nil {
			continue
		}
		stats.processed++

		name := c.DisplayName()
		if name == "" {
			name = config.FallbackName
		}

		if bday, ok := c.Birthday(); ok {
			stats.withBday++
			yearKnown := bday.Year() != config.DefaultLeapYear
			uidBase := uidFor(id, name, bday)

			next, ageNext := nextOccurrence(now, bday, yearKnown)
			entries = append(entries, Entry{
				ID:             id,
				UID:            uidBase,
				Name:           name,
				DateOfBirth:    bday,
				YearKnown:      yearKnown,
				NextOccurrence: next,
				AgeNext:        ageNext,
			})

			events, isToday := g.createEvents(bday, yearKnown, now, uidBase, reminderTrigger, func(age int) string {
				return g.birthdaySummary(name, age, yearKnown)
			})
			if isToday {
				stats.today++
				slog.Info(config.MsgBdayToday,
					config.LogKeyComponent, config.CompCalendar,
					config.LogKeyName, name)
			}
			for _, e := range events {
				e.Props.Set(dtStampProp)
				cal.Children = append(cal.Children, e.Component)
			}
		}

		for f := range c.Fields(contact.CategoryDate) {
			if f.Type != config.TypeAnniversary {
				continue
			}
			yearKnown := f.Date.Year() != config.DefaultLeapYear
			events, _ := g.createEvents(f.Date, yearKnown, now, uidFor(id, name+config.TypeAnniversary, f.Date), reminderTrigger, func(years int) string {
				return g.anniversarySummary(name, years, yearKnown)
			})
			for _, e := range events {
				e.Props.Set(dtStampProp)
				cal.Children = append(cal.Children, e.Component)
			}
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.NextOccurrence.Compare(b.NextOccurrence)
	})

	if len(cal.Children) == 0 {
		g.logSuccess(stats)
		return []byte(config.StubVCalendar), entries, 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(stats)
	return buf.Bytes(), entries, stats.today, nil
}

func (g *Generator) clock() clock.Clock {
	if g.Clock == nil {
		return clock.Real{}
	}
	return g.Clock
}

func (g *Generator) logSuccess(stats struct{ processed, withBday, today int }) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompCalendar,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyContacts, stats.processed),
			slog.Int(config.LogKeyFound, stats.withBday),
			slog.Int(config.LogKeyToday, stats.today),
		),
	)
}

func (g *Generator) birthdaySummary(name string, age int, yearKnown bool) string {
	if g.FormatSummary != nil {
		return g.FormatSummary(name, age, yearKnown && age >= 0)
	}
	switch {
	case !yearKnown:
		return fmt.Sprintf(config.FallbackSummary, name)
	case age == 0:
		return fmt.Sprintf(config.FallbackSummaryBirth, name)
	default:
		return fmt.Sprintf(config.FallbackSummaryAge, name, age)
	}
}

func (g *Generator) anniversarySummary(name string, years int, yearKnown bool) string {
	if g.FormatAnniversary != nil {
		return g.FormatAnniversary(name, years, yearKnown)
	}
	return fmt.Sprintf(config.FallbackAnniversary, name)
}

// uidFor derives a stable event UID base so that refreshed feeds update
// events in place instead of duplicating them.
func uidFor(id, name string, date time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput, id+name, date.Format(time.RFC3339), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// createEvents generates all-day events for the previous, current and next
// year, never before the original date when its year is known.
func (g *Generator) createEvents(date time.Time, yearKnown bool, now time.Time, uidBase, reminderTrigger string, summaryFor func(years int) string) ([]*ical.Event, bool) {
	currentYear := now.Year()
	loc := now.Location()
	todayYear, todayMonth, todayDay := now.Date()

	var events []*ical.Event
	isToday := false

	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		if yearKnown && y < date.Year() {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))

		years := 0
		if yearKnown {
			years = y - date.Year()
		}
		summary := summaryFor(years)
		event.Props.SetText(config.PropSummary, summary)

		eventDate := time.Date(y, date.Month(), date.Day(), 0, 0, 0, 0, loc)
		if y == todayYear && eventDate.Month() == todayMonth && eventDate.Day() == todayDay {
			isToday = true
		}

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}
		events = append(events, event)
	}
	return events, isToday
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set the value directly to avoid a VALUE=TEXT parameter.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
