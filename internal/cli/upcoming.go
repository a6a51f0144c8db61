package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tartampluch/go-contact-sync/internal/calendar"
	"github.com/tartampluch/go-contact-sync/internal/config"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// upcomingTable renders the birthday entries, soonest first.
func (o *RootOptions) upcomingTable(entries []calendar.Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(o.tr.Msg(config.TKeyColName), o.tr.Msg(config.TKeyColDate), o.tr.Msg(config.TKeyColAge)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, e := range entries {
		t.Row(e.Name, e.NextOccurrence.Format(config.DateFormatDisplay), o.ageTransition(e))
	}
	return t.String()
}

// ageTransition shows the age change at the next birthday, "25 → 26".
func (o *RootOptions) ageTransition(e calendar.Entry) string {
	switch {
	case !e.YearKnown:
		return config.AgeUnknown
	case e.AgeNext == 0:
		return o.tr.Msg(config.TKeyAgeBirth)
	case e.AgeNext == 1:
		return fmt.Sprintf(config.FormatAgeTransition, o.tr.Msg(config.TKeyAgeBirth), e.AgeNext)
	default:
		return fmt.Sprintf(config.FormatAgeTransition, strconv.Itoa(e.AgeNext-1), e.AgeNext)
	}
}
