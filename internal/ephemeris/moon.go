package ephemeris

import (
	"math"

	"github.com/sky/skyplan/internal/coords"
	"github.com/sky/skyplan/internal/timescale"
)

// SynodicMonth is the mean period between successive new moons, days.
const SynodicMonth = 29.53058867

// newMoonEpochJD is a reference new moon (2000-01-06 18:14 UTC).
const newMoonEpochJD = 2451550.1

// MoonPhase describes the Moon's phase at an instant.
type MoonPhase struct {
	Phase               float64 `json:"phase"` // [0,1): 0 new, 0.5 full
	IlluminationPercent int     `json:"illumination_percent"`
	AgeDays             float64 `json:"age_days"`
	Name                string  `json:"name"`
	Waxing              bool    `json:"waxing"`
}

// Phase returns the Moon's phase fraction in [0,1) for a UTC Julian Date.
func Phase(jdUTC float64) float64 {
	lunations := (jdUTC - newMoonEpochJD) / SynodicMonth
	phase := lunations - math.Floor(lunations)
	if phase < 0 {
		phase += 1
	}
	return phase
}

// Illumination returns the illuminated percentage of the Moon's disk for a
// phase fraction, rounded to the nearest percent.
func Illumination(phase float64) int {
	return int(math.Round(100.0 * (1.0 - math.Cos(2*math.Pi*phase)) / 2.0))
}

// PhaseName maps a phase fraction to one of the eight named phases.
func PhaseName(phase float64) string {
	switch {
	case phase < 0.03:
		return "New Moon"
	case phase < 0.22:
		return "Waxing Crescent"
	case phase < 0.28:
		return "First Quarter"
	case phase < 0.47:
		return "Waxing Gibbous"
	case phase < 0.53:
		return "Full Moon"
	case phase < 0.72:
		return "Waning Gibbous"
	case phase < 0.78:
		return "Last Quarter"
	case phase < 0.97:
		return "Waning Crescent"
	default:
		return "New Moon"
	}
}

// PhaseAt bundles phase, illumination, age, and name for a UTC Julian Date.
func PhaseAt(jdUTC float64) MoonPhase {
	p := Phase(jdUTC)
	return MoonPhase{
		Phase:               p,
		IlluminationPercent: Illumination(p),
		AgeDays:             p * SynodicMonth,
		Name:                PhaseName(p),
		Waxing:              p < 0.5,
	}
}

// MoonPosition is the Moon's geocentric position.
type MoonPosition struct {
	Equatorial coords.Equatorial `json:"equatorial"`
	DistanceKm float64           `json:"distance_km"`
}

// MoonEquatorial returns the Moon's geocentric RA/Dec and distance for the
// given context, from a truncated periodic-term series over the fundamental
// lunar arguments. Documented accuracy is about two degrees, which is ample
// for moonlight-separation checks.
func MoonEquatorial(ctx timescale.Context) MoonPosition {
	t := ctx.JulianCenturiesTT()
	t2 := t * t
	t3 := t2 * t

	// Fundamental arguments, degrees.
	lp := coords.NormalizeDegrees(218.3164477 + 481267.88123421*t - 0.0015786*t2 + t3/538841.0) // mean longitude
	mp := coords.NormalizeDegrees(134.9633964 + 477198.8675055*t + 0.0087414*t2 + t3/69699.0)   // mean anomaly
	m := coords.NormalizeDegrees(357.5291092 + 35999.0502909*t - 0.0001536*t2)                  // solar mean anomaly
	d := coords.NormalizeDegrees(297.8501921 + 445267.1114034*t - 0.0018819*t2 + t3/545868.0)   // mean elongation
	f := coords.NormalizeDegrees(93.2720950 + 483202.0175233*t - 0.0036539*t2)                  // argument of latitude

	mpR := mp * degToRad
	mR := m * degToRad
	dR := d * degToRad
	fR := f * degToRad

	// Longitude perturbations, 1e-6 degrees.
	var sigmaL float64
	sigmaL += 6288774 * math.Sin(mpR)
	sigmaL += 1274027 * math.Sin(2*dR-mpR)
	sigmaL += 658314 * math.Sin(2*dR)
	sigmaL += 213618 * math.Sin(2*mpR)
	sigmaL -= 185116 * math.Sin(mR)
	sigmaL -= 114332 * math.Sin(2*fR)
	sigmaL += 58793 * math.Sin(2*dR-2*mpR)
	sigmaL += 57066 * math.Sin(2*dR-mR-mpR)
	sigmaL += 53322 * math.Sin(2*dR+mpR)
	sigmaL += 45758 * math.Sin(2*dR-mR)
	sigmaL -= 40923 * math.Sin(mR-mpR)
	sigmaL -= 34720 * math.Sin(dR)
	sigmaL -= 30383 * math.Sin(mR+mpR)
	sigmaL += 15327 * math.Sin(2*dR-2*fR)

	// Latitude perturbations, 1e-6 degrees.
	var sigmaB float64
	sigmaB += 5128122 * math.Sin(fR)
	sigmaB += 280602 * math.Sin(mpR+fR)
	sigmaB += 277693 * math.Sin(mpR-fR)
	sigmaB += 173237 * math.Sin(2*dR-fR)
	sigmaB += 55413 * math.Sin(2*dR-mpR+fR)
	sigmaB += 46271 * math.Sin(2*dR-mpR-fR)
	sigmaB += 32573 * math.Sin(2*dR+fR)
	sigmaB += 17198 * math.Sin(2*mpR+fR)

	// Distance perturbations, meters.
	var sigmaR float64
	sigmaR -= 20905355 * math.Cos(mpR)
	sigmaR -= 3699111 * math.Cos(2*dR-mpR)
	sigmaR -= 2955968 * math.Cos(2*dR)
	sigmaR -= 569925 * math.Cos(2*mpR)
	sigmaR += 48888 * math.Cos(mR)
	sigmaR -= 3149 * math.Cos(2*fR)
	sigmaR += 246158 * math.Cos(2*dR-2*mpR)
	sigmaR -= 152138 * math.Cos(2*dR-mR-mpR)

	ecl := coords.Ecliptic{
		LonDeg: coords.NormalizeDegrees(lp + sigmaL/1e6),
		LatDeg: sigmaB / 1e6,
	}

	return MoonPosition{
		Equatorial: coords.EclipticToEquatorial(ecl, coords.ObliquityJ2000Deg),
		DistanceKm: 385000.56 + sigmaR/1000.0,
	}
}
