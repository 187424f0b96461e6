package coords

import "math"

// j2000 is the Julian Date of the J2000.0 epoch.
const j2000 = 2451545.0

// ObliquityJ2000Deg is the mean obliquity of the ecliptic at J2000.0, degrees.
const ObliquityJ2000Deg = 23.439291

// ObliquityOfDate returns the mean obliquity of the ecliptic in degrees for
// the given Julian Date (TT).
func ObliquityOfDate(jdTT float64) float64 {
	t := (jdTT - j2000) / 36525.0
	return 23.439291 - 0.0130042*t - 0.00000016*t*t + 0.000000504*t*t*t
}

// EquatorialToEcliptic rotates an equatorial position into the ecliptic frame
// using the supplied obliquity in degrees (ObliquityJ2000Deg for a
// date-independent transform, ObliquityOfDate for an of-date one).
func EquatorialToEcliptic(eq Equatorial, obliquityDeg float64) Ecliptic {
	ra := eq.RADeg * degToRad
	dec := ClampDeclination(eq.DecDeg) * degToRad
	eps := obliquityDeg * degToRad

	sinLat := math.Sin(dec)*math.Cos(eps) - math.Cos(dec)*math.Sin(eps)*math.Sin(ra)
	lat := math.Asin(clampUnit(sinLat))

	y := math.Sin(ra)*math.Cos(eps) + math.Tan(dec)*math.Sin(eps)
	x := math.Cos(ra)
	lon := math.Atan2(y, x)

	return Ecliptic{
		LonDeg: NormalizeDegrees(lon * radToDeg),
		LatDeg: lat * radToDeg,
	}
}

// EclipticToEquatorial rotates an ecliptic position back to the equatorial
// frame using the supplied obliquity in degrees.
func EclipticToEquatorial(ecl Ecliptic, obliquityDeg float64) Equatorial {
	lon := ecl.LonDeg * degToRad
	lat := ecl.LatDeg * degToRad
	eps := obliquityDeg * degToRad

	sinDec := math.Sin(lat)*math.Cos(eps) + math.Cos(lat)*math.Sin(eps)*math.Sin(lon)
	dec := math.Asin(clampUnit(sinDec))

	y := math.Sin(lon)*math.Cos(eps) - math.Tan(lat)*math.Sin(eps)
	x := math.Cos(lon)
	ra := math.Atan2(y, x)

	return Equatorial{
		RADeg:  NormalizeDegrees(ra * radToDeg),
		DecDeg: dec * radToDeg,
	}
}

// J2000ToOfDate rotates a J2000 equatorial position to the equatorial frame
// of date jdTT, going through the ecliptic frame. The residual against a full
// precession model is small enough for observation planning.
func J2000ToOfDate(eq Equatorial, jdTT float64) Equatorial {
	ecl := EquatorialToEcliptic(eq, ObliquityJ2000Deg)
	// General precession in ecliptic longitude, degrees per Julian century.
	t := (jdTT - j2000) / 36525.0
	ecl.LonDeg = NormalizeDegrees(ecl.LonDeg + 1.3971*t)
	return EclipticToEquatorial(ecl, ObliquityOfDate(jdTT))
}
