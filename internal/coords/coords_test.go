package coords

import (
	"math"
	"testing"
)

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{361, 1},
		{-1, 359},
		{-721, 359},
		{720.5, 0.5},
	}
	for _, tt := range tests {
		if got := NormalizeDegrees(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClampDeclination(t *testing.T) {
	if got := ClampDeclination(95); got != 90 {
		t.Errorf("ClampDeclination(95) = %v, want 90", got)
	}
	if got := ClampDeclination(-95); got != -90 {
		t.Errorf("ClampDeclination(-95) = %v, want -90", got)
	}
	if got := ClampDeclination(45.5); got != 45.5 {
		t.Errorf("ClampDeclination(45.5) = %v, want 45.5", got)
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name string
		a, b Equatorial
		want float64
	}{
		{"coincident", Equatorial{RADeg: 10, DecDeg: 20}, Equatorial{RADeg: 10, DecDeg: 20}, 0},
		{"quarter turn on equator", Equatorial{RADeg: 0, DecDeg: 0}, Equatorial{RADeg: 90, DecDeg: 0}, 90},
		{"pole to pole", Equatorial{RADeg: 0, DecDeg: 90}, Equatorial{RADeg: 180, DecDeg: -90}, 180},
		{"pole to equator", Equatorial{RADeg: 123, DecDeg: 90}, Equatorial{RADeg: 7, DecDeg: 0}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AngularSeparation(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AngularSeparation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHorizontalRoundTrip(t *testing.T) {
	// Generic latitudes only; at the poles azimuth degenerates.
	lats := []float64{-60.5, -33.0, 0.0, 39.9, 71.2}
	lsts := []float64{0, 87.3, 180, 271.6}

	for _, lat := range lats {
		for _, lst := range lsts {
			for ra := 0.0; ra < 360; ra += 45 {
				for dec := -80.0; dec <= 80; dec += 20 {
					eq := Equatorial{RADeg: ra, DecDeg: dec}
					hz := EquatorialToHorizontal(eq, lat, lst)
					back := HorizontalToEquatorial(hz, lat, lst)

					dRA := math.Abs(NormalizeDegrees(back.RADeg-eq.RADeg+180) - 180)
					dDec := math.Abs(back.DecDeg - eq.DecDeg)
					if dRA > 0.01 || dDec > 0.01 {
						t.Fatalf("round trip at lat=%v lst=%v: (%v,%v) -> (%v,%v), ΔRA=%v ΔDec=%v",
							lat, lst, ra, dec, back.RADeg, back.DecDeg, dRA, dDec)
					}
				}
			}
		}
	}
}

func TestAzimuthConvention(t *testing.T) {
	// An object on the meridian south of a northern observer bears 180°.
	eq := Equatorial{RADeg: 100, DecDeg: 0}
	hz := EquatorialToHorizontal(eq, 45, 100) // hour angle zero
	if math.Abs(hz.AzimuthDeg-180) > 1e-6 {
		t.Errorf("transit azimuth = %v, want 180", hz.AzimuthDeg)
	}
	if math.Abs(hz.AltitudeDeg-45) > 1e-6 {
		t.Errorf("transit altitude = %v, want 45", hz.AltitudeDeg)
	}

	// Just past transit the object is west of the meridian: azimuth > 180.
	hzWest := EquatorialToHorizontal(eq, 45, 110)
	if hzWest.AzimuthDeg <= 180 || hzWest.AzimuthDeg >= 360 {
		t.Errorf("west-of-meridian azimuth = %v, want in (180,360)", hzWest.AzimuthDeg)
	}
}

func TestGalacticRoundTrip(t *testing.T) {
	for ra := 0.0; ra < 360; ra += 30 {
		for dec := -85.0; dec <= 85; dec += 17 {
			eq := Equatorial{RADeg: ra, DecDeg: dec}
			back := GalacticToEquatorial(EquatorialToGalactic(eq))

			dRA := math.Abs(NormalizeDegrees(back.RADeg-eq.RADeg+180) - 180)
			dDec := math.Abs(back.DecDeg - eq.DecDeg)
			if dRA > 1.0/3600 || dDec > 1.0/3600 {
				t.Fatalf("galactic round trip (%v,%v) -> (%v,%v)", ra, dec, back.RADeg, back.DecDeg)
			}
		}
	}
}

func TestGalacticCenter(t *testing.T) {
	// Sgr A* (J2000): RA 266.417°, Dec -29.008° should land near l=359.94, b=-0.05.
	gal := EquatorialToGalactic(Equatorial{RADeg: 266.41683, DecDeg: -29.00781})
	dl := math.Abs(NormalizeDegrees(gal.LDeg-359.944+180) - 180)
	if dl > 0.1 || math.Abs(gal.BDeg-(-0.046)) > 0.1 {
		t.Errorf("galactic center mapped to l=%v b=%v", gal.LDeg, gal.BDeg)
	}
}

func TestEclipticRoundTrip(t *testing.T) {
	for ra := 0.0; ra < 360; ra += 30 {
		for dec := -85.0; dec <= 85; dec += 17 {
			eq := Equatorial{RADeg: ra, DecDeg: dec}
			back := EclipticToEquatorial(EquatorialToEcliptic(eq, ObliquityJ2000Deg), ObliquityJ2000Deg)

			dRA := math.Abs(NormalizeDegrees(back.RADeg-eq.RADeg+180) - 180)
			dDec := math.Abs(back.DecDeg - eq.DecDeg)
			if dRA > 1.0/3600 || dDec > 1.0/3600 {
				t.Fatalf("ecliptic round trip (%v,%v) -> (%v,%v)", ra, dec, back.RADeg, back.DecDeg)
			}
		}
	}
}

func TestObliquityOfDate(t *testing.T) {
	// J2000 gives back the mean obliquity constant.
	if got := ObliquityOfDate(2451545.0); math.Abs(got-ObliquityJ2000Deg) > 1e-9 {
		t.Errorf("ObliquityOfDate(J2000) = %v, want %v", got, ObliquityJ2000Deg)
	}
	// Obliquity decreases slowly: about 47 arcsec per century.
	later := ObliquityOfDate(2451545.0 + 36525)
	if later >= ObliquityJ2000Deg {
		t.Errorf("obliquity did not decrease: %v", later)
	}
	if math.Abs((ObliquityJ2000Deg-later)*3600-46.8) > 1 {
		t.Errorf("obliquity rate off: Δ=%v arcsec/century", (ObliquityJ2000Deg-later)*3600)
	}
}

func TestJ2000ToOfDate(t *testing.T) {
	// A quarter century of precession moves points by roughly 0.35° or less
	// along the ecliptic, and never flips hemispheres.
	jdTT := 2451545.0 + 0.25*36525
	eq := Equatorial{RADeg: 83.82, DecDeg: -5.39}
	rotated := J2000ToOfDate(eq, jdTT)

	sep := AngularSeparation(eq, rotated)
	if sep <= 0 || sep > 0.5 {
		t.Errorf("precession moved target %v°, want (0, 0.5]", sep)
	}
}

func TestRefraction(t *testing.T) {
	// Bennett at the horizon is about 0.48°, at the zenith essentially zero.
	atHorizon := Refraction(0)
	if atHorizon < 0.4 || atHorizon > 0.6 {
		t.Errorf("Refraction(0) = %v, want about 0.48", atHorizon)
	}
	atZenith := Refraction(90)
	if atZenith < 0 || atZenith > 0.001 {
		t.Errorf("Refraction(90) = %v, want about 0", atZenith)
	}
	// Monotone decreasing with altitude.
	prev := atHorizon
	for alt := 5.0; alt <= 90; alt += 5 {
		r := Refraction(alt)
		if r > prev {
			t.Fatalf("refraction increased at alt=%v", alt)
		}
		prev = r
	}
}
