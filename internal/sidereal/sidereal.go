// Package sidereal derives Earth rotation measures (ERA, GMST, GAST, LST)
// from UT1 and TT Julian Dates. All angles returned are degrees in [0,360).
package sidereal

import (
	"math"

	"github.com/sky/skyplan/internal/coords"
)

const j2000 = 2451545.0

// ERA returns the Earth Rotation Angle in degrees for a UT1 Julian Date
// (IAU 2000 linear model).
func ERA(jdUT1 float64) float64 {
	frac := jdUT1 - math.Floor(jdUT1)
	du := jdUT1 - j2000
	era := 360.0*frac + 360.0*(0.7790572732640+0.00273781191135448*du)
	return coords.NormalizeDegrees(era)
}

// GMST returns Greenwich Mean Sidereal Time in degrees using the IAU-2006
// expression: ERA(UT1) plus the accumulated precession of the equinoxes
// evaluated in TT.
func GMST(jdUT1, jdTT float64) float64 {
	t := (jdTT - j2000) / 36525.0
	// Precession polynomial, arcseconds.
	p := 0.014506 +
		t*(4612.156534+
			t*(1.3915817+
				t*(-0.00000044+
					t*(-0.000029956+
						t*(-0.0000000368)))))
	return coords.NormalizeDegrees(ERA(jdUT1) + p/3600.0)
}

// EquationOfEquinoxes returns the difference GAST-GMST in degrees, using a
// compact nutation-in-longitude approximation (the four largest terms).
func EquationOfEquinoxes(jdTT float64) float64 {
	t := (jdTT - j2000) / 36525.0

	omega := (125.04452 - 1934.136261*t) * math.Pi / 180.0   // lunar ascending node
	lSun := (280.4665 + 36000.7698*t) * math.Pi / 180.0      // mean solar longitude
	lMoon := (218.3165 + 481267.8813*t) * math.Pi / 180.0    // mean lunar longitude
	epsilon := (23.439291 - 0.0130042*t) * math.Pi / 180.0   // mean obliquity

	// Nutation in longitude, arcseconds.
	dPsi := -17.20*math.Sin(omega) -
		1.32*math.Sin(2*lSun) -
		0.23*math.Sin(2*lMoon) +
		0.21*math.Sin(2*omega)

	return dPsi * math.Cos(epsilon) / 3600.0
}

// GAST returns Greenwich Apparent Sidereal Time in degrees.
func GAST(jdUT1, jdTT float64) float64 {
	return coords.NormalizeDegrees(GMST(jdUT1, jdTT) + EquationOfEquinoxes(jdTT))
}

// LocalMean returns Local Mean Sidereal Time in degrees for an east-positive
// longitude.
func LocalMean(jdUT1, jdTT, eastLonDeg float64) float64 {
	return coords.NormalizeDegrees(GMST(jdUT1, jdTT) + eastLonDeg)
}

// LocalApparent returns Local Apparent Sidereal Time in degrees for an
// east-positive longitude.
func LocalApparent(jdUT1, jdTT, eastLonDeg float64) float64 {
	return coords.NormalizeDegrees(GAST(jdUT1, jdTT) + eastLonDeg)
}
