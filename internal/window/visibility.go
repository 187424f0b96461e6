package window

import (
	"math"
	"time"

	"github.com/sky/skyplan/internal/coords"
	"github.com/sky/skyplan/internal/sidereal"
)

// siderealDaySeconds is the length of one sidereal day.
const siderealDaySeconds = 86164.0905

// horizonRefractionDeg is the standard rise/set refraction correction,
// about 34 arcminutes.
const horizonRefractionDeg = 0.5667

// VisibilityInfo is the coarse rise/set/transit summary for a target. It
// predates the full window search and survives because it answers a cheaper
// question: does this target clear the horizon tonight at all, and when.
type VisibilityInfo struct {
	IsVisible          bool       `json:"is_visible"`
	CurrentAltitudeDeg float64    `json:"current_altitude_deg"`
	CurrentAzimuthDeg  float64    `json:"current_azimuth_deg"`
	RiseTime           *time.Time `json:"rise_time,omitempty"`
	SetTime            *time.Time `json:"set_time,omitempty"`
	TransitTime        *time.Time `json:"transit_time,omitempty"`
	TransitAltitudeDeg float64    `json:"transit_altitude_deg"`
	Circumpolar        bool       `json:"circumpolar"`
	NeverRises         bool       `json:"never_rises"`
	HoursVisible       float64    `json:"hours_visible"`
}

// riseSetEvents holds the horizon crossings of one equatorial position near a
// reference instant, from the hour-angle geometry alone.
type riseSetEvents struct {
	Rise        *time.Time
	Set         *time.Time
	Transit     *time.Time
	Circumpolar bool
	NeverRises  bool
	Hours       float64
}

// Visibility computes the coarse rise/set/transit summary for a target at an
// instant. Unlike BestWindow it ignores the Moon and twilight entirely.
func (p *Planner) Visibility(target coords.Equatorial, latDeg, lonDeg float64, at time.Time, minAltitudeDeg float64) VisibilityInfo {
	ctx := p.times.Context(at)
	lst := sidereal.LocalApparent(ctx.JDUT1, ctx.JDTT, lonDeg)
	current := coords.EquatorialToHorizontal(target, latDeg, lst)

	ev := p.riseSet(target, latDeg, lonDeg, at)

	return VisibilityInfo{
		IsVisible:          current.AltitudeDeg >= minAltitudeDeg,
		CurrentAltitudeDeg: current.AltitudeDeg,
		CurrentAzimuthDeg:  current.AzimuthDeg,
		RiseTime:           ev.Rise,
		SetTime:            ev.Set,
		TransitTime:        ev.Transit,
		TransitAltitudeDeg: 90.0 - math.Abs(latDeg-target.DecDeg),
		Circumpolar:        ev.Circumpolar,
		NeverRises:         ev.NeverRises,
		HoursVisible:       ev.Hours,
	}
}

// riseSet derives horizon crossings from the rise/set hour angle
// cos(H0) = (sin(-r) - sin(lat)sin(dec)) / (cos(lat)cos(dec)),
// with r the standard refraction correction, around the transit nearest to
// the midnight of at's UTC date.
func (p *Planner) riseSet(target coords.Equatorial, latDeg, lonDeg float64, at time.Time) riseSetEvents {
	latRad := latDeg * math.Pi / 180
	decRad := coords.ClampDeclination(target.DecDeg) * math.Pi / 180
	refRad := horizonRefractionDeg * math.Pi / 180

	cosH0 := (math.Sin(-refRad) - math.Sin(latRad)*math.Sin(decRad)) /
		(math.Cos(latRad) * math.Cos(decRad))

	switch {
	case cosH0 <= -1:
		t := p.transitNear(target.RADeg, lonDeg, at)
		return riseSetEvents{Transit: &t, Circumpolar: true, Hours: 24}
	case cosH0 >= 1:
		return riseSetEvents{NeverRises: true}
	}

	h0 := math.Acos(cosH0) * 180 / math.Pi // degrees of hour angle
	transit := p.transitNear(target.RADeg, lonDeg, at)

	offset := time.Duration(h0 / 15.0 * float64(time.Hour))
	rise := transit.Add(-offset)
	set := transit.Add(offset)

	return riseSetEvents{
		Rise:    &rise,
		Set:     &set,
		Transit: &transit,
		Hours:   2 * h0 / 15.0,
	}
}

// transitNear returns the meridian crossing following the midnight of at's
// UTC date, corrected for the sidereal/solar day-length difference.
func (p *Planner) transitNear(raDeg, lonDeg float64, at time.Time) time.Time {
	d := at.UTC()
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	ctx := p.times.Context(midnight)
	lst := coords.NormalizeDegrees(sidereal.GMST(ctx.JDUT1, ctx.JDTT) + lonDeg)
	ha := coords.NormalizeDegrees(lst - raDeg)

	// Degrees of hour angle until HA returns to zero.
	haToTransit := -ha
	if ha > 180 {
		haToTransit = 360 - ha
	}

	// Convert at the sidereal rate: the hour angle advances a full turn per
	// sidereal day, not per solar day.
	seconds := haToTransit / 15.0 * 3600.0 * (siderealDaySeconds / 86400.0)

	return midnight.Add(time.Duration(seconds * float64(time.Second)))
}
