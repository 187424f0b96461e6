package events

import (
	"time"

	"github.com/sky/skyplan/internal/ephemeris"
	"github.com/sky/skyplan/internal/timescale"
)

// supermoonMaxKm is the geocentric distance below which a full moon counts
// as a supermoon, roughly perigee plus ten percent.
const supermoonMaxKm = 360000.0

// Calendar computes dated astronomical events. It needs a time-scale builder
// for the Moon's position (distance for the supermoon check).
type Calendar struct {
	times *timescale.Builder
}

// NewCalendar creates a Calendar over the given time-scale builder.
func NewCalendar(times *timescale.Builder) *Calendar {
	return &Calendar{times: times}
}

// MoonPhasesForMonth returns the principal moon phases falling inside the
// given month, detected by sampling the phase fraction at noon UTC each day
// and watching for it to cross 0, 0.25, 0.5, and 0.75. Day resolution is
// enough for a calendar display.
func (c *Calendar) MoonPhasesForMonth(year int, month time.Month) []MoonPhaseEvent {
	var out []MoonPhaseEvent

	first := time.Date(year, month, 1, 12, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	prev := -1.0
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		phase := ephemeris.Phase(timescale.JulianDate(day))

		if prev >= 0 {
			switch {
			case prev > 0.9 && phase < 0.1: // wrapped through new
				out = append(out, c.phaseEvent("New Moon", day, phase, false))
			case prev < 0.25 && phase >= 0.25:
				out = append(out, c.phaseEvent("First Quarter", day, phase, false))
			case prev < 0.5 && phase >= 0.5:
				out = append(out, c.phaseEvent("Full Moon", day, phase, c.isSupermoon(day)))
			case prev < 0.75 && phase >= 0.75:
				out = append(out, c.phaseEvent("Last Quarter", day, phase, false))
			}
		}
		prev = phase
	}

	return out
}

func (c *Calendar) phaseEvent(name string, day time.Time, phase float64, supermoon bool) MoonPhaseEvent {
	return MoonPhaseEvent{
		Phase:               name,
		Date:                day,
		IlluminationPercent: ephemeris.Illumination(phase),
		Supermoon:           supermoon,
	}
}

// isSupermoon reports whether the Moon is near perigee at the given instant.
func (c *Calendar) isSupermoon(at time.Time) bool {
	pos := ephemeris.MoonEquatorial(c.times.Context(at))
	return pos.DistanceKm < supermoonMaxKm
}
