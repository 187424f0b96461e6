package coords

import "math"

// EquatorialToHorizontal converts an equatorial position to the local
// horizontal frame for an observer at latDeg, given the local sidereal time
// in degrees. Azimuth is measured from North through East.
//
// The azimuth is computed with a two-argument arctangent of the horizontal
// north/east components, which stays well-conditioned at all hour angles.
func EquatorialToHorizontal(eq Equatorial, latDeg, lstDeg float64) Horizontal {
	ha := NormalizeDegrees(lstDeg-eq.RADeg) * degToRad
	dec := ClampDeclination(eq.DecDeg) * degToRad
	lat := latDeg * degToRad

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clampUnit(sinAlt))

	// North and East components of the direction vector on the horizon plane.
	north := math.Sin(dec)*math.Cos(lat) - math.Cos(dec)*math.Sin(lat)*math.Cos(ha)
	east := -math.Cos(dec) * math.Sin(ha)
	az := math.Atan2(east, north)

	return Horizontal{
		AltitudeDeg: alt * radToDeg,
		AzimuthDeg:  NormalizeDegrees(az * radToDeg),
	}
}

// HorizontalToEquatorial is the inverse of EquatorialToHorizontal: it recovers
// RA/Dec from altitude/azimuth for an observer at latDeg and local sidereal
// time lstDeg (degrees).
func HorizontalToEquatorial(hz Horizontal, latDeg, lstDeg float64) Equatorial {
	alt := hz.AltitudeDeg * degToRad
	az := hz.AzimuthDeg * degToRad
	lat := latDeg * degToRad

	sinDec := math.Sin(alt)*math.Sin(lat) + math.Cos(alt)*math.Cos(lat)*math.Cos(az)
	dec := math.Asin(clampUnit(sinDec))

	// Hour angle from the same component decomposition, mirrored.
	x := math.Sin(alt)*math.Cos(lat) - math.Cos(alt)*math.Sin(lat)*math.Cos(az)
	y := -math.Cos(alt) * math.Sin(az)
	ha := math.Atan2(y, x)

	return Equatorial{
		RADeg:  NormalizeDegrees(lstDeg - ha*radToDeg),
		DecDeg: dec * radToDeg,
	}
}
