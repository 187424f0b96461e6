// Package events computes the astronomical calendar: moon phase events per
// month, supermoon flags, the major annual meteor showers, and the equinox
// and solstice instants.
package events

import "time"

// Type labels a calendar event.
type Type string

const (
	TypeNewMoon      Type = "new_moon"
	TypeFirstQuarter Type = "first_quarter"
	TypeFullMoon     Type = "full_moon"
	TypeLastQuarter  Type = "last_quarter"
	TypeSupermoon    Type = "supermoon"
	TypeMeteorShower Type = "meteor_shower"
	TypeEquinox      Type = "equinox"
	TypeSolstice     Type = "solstice"
)

// Event is one entry in the combined astronomical calendar.
type Event struct {
	ID      string    `json:"id"`
	Type    Type      `json:"type"`
	Name    string    `json:"name"`
	Time    time.Time `json:"time"`
	Details any       `json:"details,omitempty"`
}

// MoonPhaseEvent is a principal moon phase detected within a month.
type MoonPhaseEvent struct {
	Phase               string    `json:"phase"`
	Date                time.Time `json:"date"`
	IlluminationPercent int       `json:"illumination_percent"`
	Supermoon           bool      `json:"supermoon"`
}

// MeteorShower describes one annual shower for a specific year.
type MeteorShower struct {
	Name        string    `json:"name"`
	Peak        time.Time `json:"peak"`
	ActiveStart time.Time `json:"active_start"`
	ActiveEnd   time.Time `json:"active_end"`
	ZHR         int       `json:"zhr"`
	RadiantRA   float64   `json:"radiant_ra_deg"`
	RadiantDec  float64   `json:"radiant_dec_deg"`
	ParentBody  string    `json:"parent_body,omitempty"`
	Description string    `json:"description"`
}
