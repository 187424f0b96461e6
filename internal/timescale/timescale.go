// Package timescale converts calendar instants into the Julian Date triple
// (UTC, UT1, TT) used by the sidereal and ephemeris layers. UT1 is derived
// from the EOP store's DUT1 value; TT from the configured TAI-UTC offset.
package timescale

import (
	"math"
	"time"

	"github.com/sky/skyplan/internal/eop"
)

// J2000 is the Julian Date of the J2000.0 epoch (2000-01-01 12:00 TT).
const J2000 = 2451545.0

// DefaultTAIMinusUTC is the leap-second count in force since 2017, seconds.
const DefaultTAIMinusUTC = 37.0

// ttMinusTAI is the fixed offset TT-TAI, seconds.
const ttMinusTAI = 32.184

// Context is an immutable Julian Date triple plus the EOP snapshot it was
// derived from. JDTT > JDUTC always holds (TT leads UTC by at least 32 s).
type Context struct {
	JDUTC    float64      `json:"jd_utc"`
	JDUT1    float64      `json:"jd_ut1"`
	JDTT     float64      `json:"jd_tt"`
	Snapshot eop.Snapshot `json:"eop"`
}

// JulianCenturiesTT returns Julian centuries of TT since J2000.0.
func (c Context) JulianCenturiesTT() float64 {
	return (c.JDTT - J2000) / 36525.0
}

// Builder derives time-scale contexts from an owned EOP store.
type Builder struct {
	store       *eop.Store
	taiMinusUTC float64
	now         func() time.Time
}

// NewBuilder creates a Builder over the given EOP store with the default
// leap-second constant.
func NewBuilder(store *eop.Store) *Builder {
	return &Builder{store: store, taiMinusUTC: DefaultTAIMinusUTC, now: time.Now}
}

// SetTAIMinusUTC overrides the TAI-UTC leap-second constant, seconds.
func (b *Builder) SetTAIMinusUTC(seconds float64) {
	b.taiMinusUTC = seconds
}

// Store exposes the underlying EOP store.
func (b *Builder) Store() *eop.Store { return b.store }

// Context builds the time-scale context for a calendar instant. It never
// fails: EOP degradation surfaces only through the embedded snapshot.
func (b *Builder) Context(date time.Time) Context {
	return b.ContextAtJD(JulianDate(date.UTC()))
}

// ContextAtJD builds the context from an explicit UTC Julian Date. A
// non-finite input is replaced by "now".
func (b *Builder) ContextAtJD(jdUTC float64) Context {
	if math.IsNaN(jdUTC) || math.IsInf(jdUTC, 0) {
		jdUTC = JulianDate(b.now().UTC())
	}

	snap := b.store.SnapshotAtMJD(jdUTC - 2400000.5)

	return Context{
		JDUTC:    jdUTC,
		JDUT1:    jdUTC + snap.DUT1/86400.0,
		JDTT:     jdUTC + (b.taiMinusUTC+ttMinusTAI)/86400.0,
		Snapshot: snap,
	}
}

// JulianDate converts a time.Time (UTC) to a Julian Date using the standard
// astronomical algorithm, valid for all dates of interest here.
func JulianDate(t time.Time) float64 {
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())
	h := float64(t.Hour())
	min := float64(t.Minute())
	s := float64(t.Second()) + float64(t.Nanosecond())/1e9

	// Jan/Feb count as months 13/14 of the previous year.
	if m <= 2 {
		y -= 1
		m += 12
	}

	a := math.Floor(y / 100)
	bb := 2 - a + math.Floor(a/4)

	jd := math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + bb - 1524.5
	jd += (h + min/60.0 + s/3600.0) / 24.0

	return jd
}

// TimeFromJD converts a Julian Date back to a time.Time (UTC), to the
// nearest millisecond.
func TimeFromJD(jd float64) time.Time {
	unixSec := (jd - 2440587.5) * 86400.0
	return time.UnixMilli(int64(math.Round(unixSec * 1000))).UTC()
}
