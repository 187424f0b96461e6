// Package ephemeris provides low-precision analytic Sun and Moon positions,
// Moon phase and illumination, and the equation of time. Accuracy targets
// are observation-planning class: arcminutes for the Sun, about two degrees
// for the Moon.
package ephemeris

import (
	"math"

	"github.com/sky/skyplan/internal/coords"
	"github.com/sky/skyplan/internal/timescale"
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// sunLongitudes returns the Sun's geometric mean longitude and the apparent
// (nutation- and aberration-corrected) true longitude, both in degrees, plus
// the corrected obliquity in degrees, for the given context.
func sunLongitudes(ctx timescale.Context) (meanLon, apparentLon, obliquity float64) {
	t := ctx.JulianCenturiesTT()
	t2 := t * t

	l0 := coords.NormalizeDegrees(280.46646 + 36000.76983*t + 0.0003032*t2)
	m := coords.NormalizeDegrees(357.52911 + 35999.05029*t - 0.0001537*t2)
	mRad := m * degToRad

	// Equation of center.
	c := (1.914602-0.004817*t-0.000014*t2)*math.Sin(mRad) +
		(0.019993-0.000101*t)*math.Sin(2*mRad) +
		0.000289*math.Sin(3*mRad)

	trueLon := l0 + c

	// Apparent longitude: aberration plus the dominant nutation term.
	omega := (125.04 - 1934.136*t) * degToRad
	apparent := trueLon - 0.00569 - 0.00478*math.Sin(omega)

	eps := coords.ObliquityOfDate(ctx.JDTT) + 0.00256*math.Cos(omega)

	return l0, apparent, eps
}

// SunEquatorial returns the Sun's apparent RA/Dec for the given context.
func SunEquatorial(ctx timescale.Context) coords.Equatorial {
	_, lon, eps := sunLongitudes(ctx)

	lonRad := lon * degToRad
	epsRad := eps * degToRad

	ra := math.Atan2(math.Cos(epsRad)*math.Sin(lonRad), math.Cos(lonRad))
	dec := math.Asin(math.Sin(epsRad) * math.Sin(lonRad))

	return coords.Equatorial{
		RADeg:  coords.NormalizeDegrees(ra * radToDeg),
		DecDeg: dec * radToDeg,
	}
}

// SunDeclination returns the Sun's apparent declination in degrees.
func SunDeclination(ctx timescale.Context) float64 {
	return SunEquatorial(ctx).DecDeg
}

// EquationOfTime returns apparent-minus-mean solar time in minutes, from the
// difference between the Sun's mean longitude and apparent right ascension.
// The physical range is about [-16.5,+14.5] minutes, inside the documented
// [-20,+20] envelope.
func EquationOfTime(ctx timescale.Context) float64 {
	meanLon, _, _ := sunLongitudes(ctx)
	ra := SunEquatorial(ctx).RADeg

	diff := coords.NormalizeDegrees(meanLon - ra)
	if diff > 180 {
		diff -= 360
	}
	return diff * 4.0 // 4 minutes of time per degree
}
