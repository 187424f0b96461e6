// Package twilight supplies the dusk/dawn collaborator consumed by the
// window search. The default implementation delegates the solar-elevation
// crossings to the go-sunrise library rather than reproducing them.
package twilight

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Solar altitude thresholds, degrees. Sunrise/sunset includes refraction and
// the solar disk radius.
const (
	sunriseAltDeg      = -0.8333
	civilAltDeg        = -6.0
	nauticalAltDeg     = -12.0
	astronomicalAltDeg = -18.0
)

// Times holds the solar event instants for one civil date. Events that do
// not occur (polar day or night, or twilight that never completes) are nil.
type Times struct {
	Date             time.Time  `json:"date"`
	Sunrise          *time.Time `json:"sunrise,omitempty"`
	Sunset           *time.Time `json:"sunset,omitempty"`
	CivilDawn        *time.Time `json:"civil_dawn,omitempty"`
	CivilDusk        *time.Time `json:"civil_dusk,omitempty"`
	NauticalDawn     *time.Time `json:"nautical_dawn,omitempty"`
	NauticalDusk     *time.Time `json:"nautical_dusk,omitempty"`
	AstronomicalDawn *time.Time `json:"astronomical_dawn,omitempty"`
	AstronomicalDusk *time.Time `json:"astronomical_dusk,omitempty"`
	SolarNoon        time.Time  `json:"solar_noon"`
	PolarDay         bool       `json:"polar_day"`
	PolarNight       bool       `json:"polar_night"`
}

// Calculator computes twilight times for an observer and date. Longitude is
// east-positive.
type Calculator interface {
	TwilightTimes(latDeg, lonDeg float64, date time.Time) Times
}

// SolarCalculator is the default Calculator, backed by go-sunrise.
type SolarCalculator struct{}

// TwilightTimes returns the solar events for the UTC calendar date of the
// given instant.
func (SolarCalculator) TwilightTimes(latDeg, lonDeg float64, date time.Time) Times {
	d := date.UTC()
	year, month, day := d.Date()

	t := Times{Date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}

	rise, set := sunrise.SunriseSunset(latDeg, lonDeg, year, month, day)
	t.Sunrise, t.Sunset = optional(rise), optional(set)

	cd, ck := sunrise.TimeOfElevation(latDeg, lonDeg, civilAltDeg, year, month, day)
	t.CivilDawn, t.CivilDusk = optional(cd), optional(ck)

	nd, nk := sunrise.TimeOfElevation(latDeg, lonDeg, nauticalAltDeg, year, month, day)
	t.NauticalDawn, t.NauticalDusk = optional(nd), optional(nk)

	ad, ak := sunrise.TimeOfElevation(latDeg, lonDeg, astronomicalAltDeg, year, month, day)
	t.AstronomicalDawn, t.AstronomicalDusk = optional(ad), optional(ak)

	// Approximate local solar noon: midpoint of the day arc when the Sun
	// rises and sets, otherwise mean noon shifted by longitude.
	if t.Sunrise != nil && t.Sunset != nil {
		t.SolarNoon = t.Sunrise.Add(t.Sunset.Sub(*t.Sunrise) / 2)
	} else {
		t.SolarNoon = t.Date.Add(12*time.Hour - time.Duration(lonDeg/15.0*float64(time.Hour)))
	}

	if t.Sunrise == nil {
		if sunrise.Elevation(latDeg, lonDeg, t.SolarNoon) > sunriseAltDeg {
			t.PolarDay = true
		} else {
			t.PolarNight = true
		}
	}

	return t
}

func optional(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
