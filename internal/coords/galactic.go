package coords

import "math"

// eqToGal is the J2000 equatorial → galactic rotation matrix (IAU 1958 galactic
// frame referred to J2000). Its transpose is the exact inverse, so the round
// trip is exact to floating precision.
var eqToGal = [3][3]float64{
	{-0.0548755604162154, -0.873437090234885, -0.4838350155487132},
	{0.4941094278755837, -0.4448296299600112, 0.7469822444972189},
	{-0.8676661490190047, -0.1980763734312015, 0.4559837761750669},
}

func toCartesian(lonDeg, latDeg float64) [3]float64 {
	lon := lonDeg * degToRad
	lat := latDeg * degToRad
	cosLat := math.Cos(lat)
	return [3]float64{
		cosLat * math.Cos(lon),
		cosLat * math.Sin(lon),
		math.Sin(lat),
	}
}

func toSpherical(v [3]float64) (lonDeg, latDeg float64) {
	lonDeg = NormalizeDegrees(math.Atan2(v[1], v[0]) * radToDeg)
	latDeg = math.Asin(clampUnit(v[2])) * radToDeg
	return
}

// EquatorialToGalactic rotates a J2000 equatorial position into galactic l/b.
func EquatorialToGalactic(eq Equatorial) Galactic {
	v := toCartesian(eq.RADeg, ClampDeclination(eq.DecDeg))
	var g [3]float64
	for i := 0; i < 3; i++ {
		g[i] = eqToGal[i][0]*v[0] + eqToGal[i][1]*v[1] + eqToGal[i][2]*v[2]
	}
	l, b := toSpherical(g)
	return Galactic{LDeg: l, BDeg: b}
}

// GalacticToEquatorial rotates galactic l/b back to J2000 equatorial RA/Dec
// using the transposed matrix.
func GalacticToEquatorial(gal Galactic) Equatorial {
	v := toCartesian(gal.LDeg, gal.BDeg)
	var e [3]float64
	for i := 0; i < 3; i++ {
		e[i] = eqToGal[0][i]*v[0] + eqToGal[1][i]*v[1] + eqToGal[2][i]*v[2]
	}
	ra, dec := toSpherical(e)
	return Equatorial{RADeg: ra, DecDeg: dec}
}
