package eop

import "time"

// Freshness classifies how trustworthy a snapshot's DUT1 value is, based on
// the distance between the requested date and the nearest dataset sample.
type Freshness string

const (
	FreshnessFresh    Freshness = "fresh"    // nearest sample within 30 days
	FreshnessStale    Freshness = "stale"    // nearest sample within 90 days
	FreshnessFallback Freshness = "fallback" // no usable sample
)

// Source identifies where the active dataset came from.
type Source string

const (
	SourceBaseline Source = "baseline" // compiled-in dataset
	SourceRemote   Source = "remote"   // fetched from an IERS mirror
	SourceFallback Source = "fallback" // hard-coded zero snapshot
)

// Sample is one Earth-orientation record.
type Sample struct {
	MJD  float64 `json:"mjd"`
	DUT1 float64 `json:"dut1"` // UT1-UTC, seconds
	Xp   float64 `json:"xp"`   // polar motion x, arcseconds
	Yp   float64 `json:"yp"`   // polar motion y, arcseconds
}

// Dataset is a complete set of EOP samples from one source.
type Dataset struct {
	Source    Source    `json:"source"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	Samples   []Sample  `json:"samples"`
}

// Snapshot is the answer to "what is DUT1 near date X, and how stale is it".
// It is always constructible: with no usable sample it degrades to
// dut1=0 / freshness=fallback rather than failing.
type Snapshot struct {
	DUT1      float64   `json:"dut1"`
	Xp        float64   `json:"xp"`
	Yp        float64   `json:"yp"`
	Freshness Freshness `json:"freshness"`
	Source    Source    `json:"source"`
	SampleMJD float64   `json:"sample_mjd,omitempty"`
	Version   string    `json:"version,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// MJDFromTime converts a time to a Modified Julian Date.
func MJDFromTime(t time.Time) float64 {
	jd := float64(t.UnixNano())/1e9/86400.0 + 2440587.5
	return jd - 2400000.5
}
