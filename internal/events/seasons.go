package events

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cloudeng.io/datetime"
	"github.com/mooncaker816/learnmeeus/v3/julian"
	"github.com/mooncaker816/learnmeeus/v3/solstice"
)

// SeasonEvent is a computed equinox or solstice.
type SeasonEvent struct {
	Type Type                  `json:"type"`
	Name string                `json:"name"`
	Time time.Time             `json:"time"`
	Date datetime.CalendarDate `json:"-"`
}

// jdeToCalendar converts a dynamical-time Julian date to a calendar date.
func jdeToCalendar(jde float64) datetime.CalendarDate {
	y, m, d := julian.JDToCalendar(jde)
	return datetime.NewCalendarDate(y, datetime.Month(m), int(d))
}

// SeasonalEvents returns the equinox and solstice instants for a year,
// northern-hemisphere naming.
func SeasonalEvents(year int) []SeasonEvent {
	mk := func(t Type, name string, jde float64) SeasonEvent {
		return SeasonEvent{
			Type: t,
			Name: name,
			Time: julian.JDToTime(jde).UTC(),
			Date: jdeToCalendar(jde),
		}
	}
	return []SeasonEvent{
		mk(TypeEquinox, "Vernal Equinox", solstice.March(year)),
		mk(TypeSolstice, "Summer Solstice", solstice.June(year)),
		mk(TypeEquinox, "Autumnal Equinox", solstice.September(year)),
		mk(TypeSolstice, "Winter Solstice", solstice.December(year)),
	}
}

// EventsBetween assembles the combined calendar for a date range: seasonal
// events, shower peaks, and principal moon phases, in chronological order.
func (c *Calendar) EventsBetween(start, end time.Time) []Event {
	var out []Event

	inRange := func(t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}

	for year := start.Year(); year <= end.Year(); year++ {
		for _, se := range SeasonalEvents(year) {
			if inRange(se.Time) {
				out = append(out, Event{
					ID:   fmt.Sprintf("%s-%d", slug(se.Name), year),
					Type: se.Type,
					Name: se.Name,
					Time: se.Time,
				})
			}
		}

		for _, shower := range MeteorShowers(year) {
			if inRange(shower.Peak) {
				out = append(out, Event{
					ID:      fmt.Sprintf("meteor-%s-%d", slug(shower.Name), year),
					Type:    TypeMeteorShower,
					Name:    shower.Name,
					Time:    shower.Peak,
					Details: shower,
				})
			}
		}

		for month := time.January; month <= time.December; month++ {
			for _, phase := range c.MoonPhasesForMonth(year, month) {
				if !inRange(phase.Date) {
					continue
				}
				typ, name := phaseType(phase)
				out = append(out, Event{
					ID:      fmt.Sprintf("%s-%s", slug(name), phase.Date.Format("2006-01-02")),
					Type:    typ,
					Name:    name,
					Time:    phase.Date,
					Details: phase,
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func phaseType(p MoonPhaseEvent) (Type, string) {
	switch p.Phase {
	case "New Moon":
		return TypeNewMoon, p.Phase
	case "First Quarter":
		return TypeFirstQuarter, p.Phase
	case "Last Quarter":
		return TypeLastQuarter, p.Phase
	default:
		if p.Supermoon {
			return TypeSupermoon, "Supermoon"
		}
		return TypeFullMoon, p.Phase
	}
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

