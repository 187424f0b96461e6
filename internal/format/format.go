// Package format converts right ascension and declination between decimal
// degrees and the sexagesimal strings observers actually type.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	raHMSPattern  = regexp.MustCompile(`(\d+)[h:\s]+(\d+)[m:\s]+(\d+\.?\d*)s?`)
	decDMSPattern = regexp.MustCompile(`([+-]?\d+)[°d:\s]+(\d+)['m:\s]+(\d+\.?\d*)["s]?`)
)

// RAToHMS formats a right ascension in degrees as "HHh MMm SS.SSs".
func RAToHMS(raDeg float64) string {
	hours := raDeg / 15.0
	h := math.Floor(hours)
	mf := (hours - h) * 60.0
	m := math.Floor(mf)
	s := (mf - m) * 60.0
	return fmt.Sprintf("%02dh %02dm %05.2fs", int(h), int(m), s)
}

// DecToDMS formats a declination in degrees as `±DD° MM' SS.SS"`.
func DecToDMS(decDeg float64) string {
	sign := "+"
	if decDeg < 0 {
		sign = "-"
	}
	abs := math.Abs(decDeg)
	d := math.Floor(abs)
	mf := (abs - d) * 60.0
	m := math.Floor(mf)
	s := (mf - m) * 60.0
	return fmt.Sprintf("%s%d° %02d' %05.2f\"", sign, int(d), int(m), s)
}

// ParseRA parses a right ascension given either as an HMS string ("05h 34m
// 31.94s", "5:34:31.94") or as decimal degrees, returning degrees in
// [0, 360).
func ParseRA(s string) (float64, error) {
	if caps := raHMSPattern.FindStringSubmatch(s); caps != nil {
		h, err1 := strconv.ParseFloat(caps[1], 64)
		m, err2 := strconv.ParseFloat(caps[2], 64)
		sec, err3 := strconv.ParseFloat(caps[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, fmt.Errorf("unparseable RA %q", s)
		}
		if h >= 24 || m >= 60 || sec >= 60 {
			return 0, fmt.Errorf("invalid HMS components: %gh %gm %gs", h, m, sec)
		}
		return (h + m/60.0 + sec/3600.0) * 15.0, nil
	}

	deg, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable RA %q: %w", s, err)
	}
	if deg < 0 || deg >= 360 {
		return 0, fmt.Errorf("RA out of range [0, 360): %g", deg)
	}
	return deg, nil
}

// ParseDec parses a declination given either as a DMS string (`-05° 27'
// 10"`, "-5:27:10") or as decimal degrees, returning degrees in [-90, 90].
// The sign is taken from the string so that "-0° 30' 00"" keeps its minus.
func ParseDec(s string) (float64, error) {
	if caps := decDMSPattern.FindStringSubmatch(s); caps != nil {
		d, err1 := strconv.ParseFloat(caps[1], 64)
		m, err2 := strconv.ParseFloat(caps[2], 64)
		sec, err3 := strconv.ParseFloat(caps[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, fmt.Errorf("unparseable Dec %q", s)
		}
		if m >= 60 || sec >= 60 {
			return 0, fmt.Errorf("invalid DMS components: %g %g' %g\"", d, m, sec)
		}
		sign := 1.0
		if strings.HasPrefix(caps[1], "-") {
			sign = -1.0
		}
		result := sign * (math.Abs(d) + m/60.0 + sec/3600.0)
		if result < -90 || result > 90 {
			return 0, fmt.Errorf("Dec out of range [-90, 90]: %g", result)
		}
		return result, nil
	}

	deg, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable Dec %q: %w", s, err)
	}
	if deg < -90 || deg > 90 {
		return 0, fmt.Errorf("Dec out of range [-90, 90]: %g", deg)
	}
	return deg, nil
}
