package coords

import "math"

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// NormalizeDegrees wraps an angle into [0,360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// ClampDeclination limits a declination to the valid [-90,90] range.
func ClampDeclination(decDeg float64) float64 {
	if decDeg > 90 {
		return 90
	}
	if decDeg < -90 {
		return -90
	}
	return decDeg
}

// clampUnit limits a value to [-1,1] before it is fed to Asin/Acos, so that
// floating-point overshoot near the poles cannot produce NaN.
func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// AngularSeparation returns the great-circle angle between two equatorial
// positions, in degrees.
func AngularSeparation(a, b Equatorial) float64 {
	ra1 := a.RADeg * degToRad
	dec1 := ClampDeclination(a.DecDeg) * degToRad
	ra2 := b.RADeg * degToRad
	dec2 := ClampDeclination(b.DecDeg) * degToRad

	cosSep := math.Sin(dec1)*math.Sin(dec2) +
		math.Cos(dec1)*math.Cos(dec2)*math.Cos(ra1-ra2)
	return math.Acos(clampUnit(cosSep)) * radToDeg
}

// Refraction returns the atmospheric refraction correction in degrees to add
// to a geometric altitude, using Bennett's formula. Valid above -1 degrees;
// deeper altitudes return 0.
func Refraction(altDeg float64) float64 {
	if altDeg < -1 {
		return 0
	}
	alt := math.Max(altDeg, 0)
	// Bennett: R (arcminutes) = 1 / tan(h + 7.31/(h + 4.4))
	r := 1.0 / math.Tan((alt+7.31/(alt+4.4))*degToRad)
	return r / 60.0
}
