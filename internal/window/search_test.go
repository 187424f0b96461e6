package window

import (
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/sky/skyplan/internal/coords"
	"github.com/sky/skyplan/internal/ephemeris"
	"github.com/sky/skyplan/internal/eop"
	"github.com/sky/skyplan/internal/timescale"
	"github.com/sky/skyplan/internal/twilight"
)

func newTestPlanner() (*Planner, *timescale.Builder) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := timescale.NewBuilder(eop.NewStore(nil, logger))
	return NewPlanner(b, twilight.SolarCalculator{}), b
}

// twilightCounter wraps a Calculator and counts calls, so tests can assert
// that rejected requests never reach the twilight collaborator.
type twilightCounter struct {
	inner twilight.Calculator
	calls int
}

func (c *twilightCounter) TwilightTimes(latDeg, lonDeg float64, date time.Time) twilight.Times {
	c.calls++
	return c.inner.TwilightTimes(latDeg, lonDeg, date)
}

// A near-polar target is above the horizon all night from mid-northern
// latitudes, and the mid-January crescent Moon spoils nothing with a small
// base distance, so the search must find a window spanning most of the
// dark interval.
func TestBestWindowPermissiveNight(t *testing.T) {
	p, _ := newTestPlanner()

	res := p.BestWindow(Request{
		Target:       coords.Equatorial{RADeg: 37.95, DecDeg: 89.26}, // Polaris
		LatitudeDeg:  39.9042,
		LongitudeDeg: 116.4074,
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Options: Options{
			MinAltitudeDeg:         0,
			BaseMinMoonDistanceDeg: 1,
		},
	})

	if !res.HasWindow {
		t.Fatalf("no window: reason=%q diag=%+v", res.Reason, res.Diagnostics)
	}
	if res.Diagnostics.Dusk == nil || res.Diagnostics.Dawn == nil {
		t.Fatal("dark interval missing from diagnostics")
	}
	dusk, dawn := *res.Diagnostics.Dusk, *res.Diagnostics.Dawn

	if res.Start.Before(dusk) {
		t.Errorf("window start %v precedes dusk %v", res.Start, dusk)
	}
	if res.End.After(dawn) {
		t.Errorf("window end %v follows dawn %v", res.End, dawn)
	}
	if res.DurationMinutes < 300 {
		t.Errorf("circumpolar target should hold most of the night, got %.0f min", res.DurationMinutes)
	}
	if ill := res.Diagnostics.MoonIlluminationPercent; ill < 0 || ill > 100 {
		t.Errorf("illumination %d out of range", ill)
	}
	if !res.Diagnostics.AnyTargetAboveMin {
		t.Error("target was above the minimum altitude yet the flag is unset")
	}
}

// Pointing straight at the full Moon leaves every adequate-altitude sample
// inside the scaled exclusion radius.
func TestBestWindowMoonAlwaysBad(t *testing.T) {
	p, b := newTestPlanner()

	// Full moon night of 2024-04-23; take the Moon's own position in the
	// middle of the Beijing night as the target.
	mid := time.Date(2024, 4, 23, 18, 0, 0, 0, time.UTC)
	moon := ephemeris.MoonEquatorial(b.Context(mid))

	res := p.BestWindow(Request{
		Target:       moon.Equatorial,
		Frame:        FrameOfDate,
		LatitudeDeg:  39.9042,
		LongitudeDeg: 116.4074,
		Date:         time.Date(2024, 4, 23, 0, 0, 0, 0, time.UTC),
		Options: Options{
			MinAltitudeDeg: 10,
		},
	})

	if res.HasWindow {
		t.Fatalf("found a window on top of the full Moon: %+v", res)
	}
	if res.Reason != ReasonMoonAlwaysBad {
		t.Errorf("reason = %q, want %q (diag %+v)", res.Reason, ReasonMoonAlwaysBad, res.Diagnostics)
	}
	if res.Diagnostics.MoonIlluminationPercent < 90 {
		t.Errorf("illumination %d, expected a nearly full moon", res.Diagnostics.MoonIlluminationPercent)
	}
	// The exclusion radius scales with illumination above the base.
	if res.Diagnostics.MinMoonDistanceDeg <= 30 {
		t.Errorf("scaled moon distance %v should exceed the base", res.Diagnostics.MinMoonDistanceDeg)
	}
}

func TestBestWindowPolarDay(t *testing.T) {
	p, _ := newTestPlanner()

	res := p.BestWindow(Request{
		Target:       coords.Equatorial{RADeg: 83.82, DecDeg: -5.39},
		LatitudeDeg:  69.6492,
		LongitudeDeg: 18.9553,
		Date:         time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
	})

	if res.HasWindow {
		t.Fatal("found a window during polar day")
	}
	if res.Reason != ReasonNoDarkness {
		t.Errorf("reason = %q, want %q", res.Reason, ReasonNoDarkness)
	}
	if res.Start != nil || res.End != nil {
		t.Error("start/end must be nil without a window")
	}
}

func TestBestWindowTargetNeverRises(t *testing.T) {
	p, _ := newTestPlanner()

	// Dec -80 from latitude 39.9N peaks about 30 degrees below the horizon.
	res := p.BestWindow(Request{
		Target:       coords.Equatorial{RADeg: 120, DecDeg: -80},
		LatitudeDeg:  39.9042,
		LongitudeDeg: 116.4074,
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})

	if res.HasWindow {
		t.Fatal("found a window for a target that never rises")
	}
	if res.Reason != ReasonTargetNeverAboveMin {
		t.Errorf("reason = %q, want %q", res.Reason, ReasonTargetNeverAboveMin)
	}
	if res.Diagnostics.AnyTargetAboveMin {
		t.Error("AnyTargetAboveMin set for a target that never rises")
	}
}

// Rejected requests must be diagnosed before any astronomy runs: no twilight
// lookups, no ephemeris evaluation.
func TestBestWindowInvalidInput(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tw := &twilightCounter{inner: twilight.SolarCalculator{}}
	p := NewPlanner(timescale.NewBuilder(eop.NewStore(nil, logger)), tw)
	base := Request{
		Target:       coords.Equatorial{RADeg: 83.82, DecDeg: -5.39},
		LatitudeDeg:  39.9,
		LongitudeDeg: 116.4,
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"NaN latitude", func(r *Request) { r.LatitudeDeg = math.NaN() }},
		{"latitude beyond pole", func(r *Request) { r.LatitudeDeg = 95 }},
		{"declination out of range", func(r *Request) { r.Target.DecDeg = -100 }},
		{"infinite RA", func(r *Request) { r.Target.RADeg = math.Inf(1) }},
		{"negative min altitude", func(r *Request) { r.Options.MinAltitudeDeg = -5 }},
		{"min altitude at zenith", func(r *Request) { r.Options.MinAltitudeDeg = 90 }},
		{"negative moon distance", func(r *Request) { r.Options.BaseMinMoonDistanceDeg = -1 }},
		{"negative sample cadence", func(r *Request) { r.Options.SampleMinutes = -10 }},
		{"NaN refine precision", func(r *Request) { r.Options.RefineToSeconds = math.NaN() }},
		{"ancient date", func(r *Request) { r.Date = time.Date(1850, 6, 1, 0, 0, 0, 0, time.UTC) }},
		{"far future date", func(r *Request) { r.Date = time.Date(2300, 6, 1, 0, 0, 0, 0, time.UTC) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			res := p.BestWindow(req)
			if res.HasWindow || res.Reason != ReasonInvalidInput {
				t.Errorf("got %+v, want invalid_input", res)
			}
			if tw.calls != 0 {
				t.Errorf("rejected request reached the twilight calculator (%d calls)", tw.calls)
			}
		})
	}
}

func TestBestWindowDeterministic(t *testing.T) {
	p, _ := newTestPlanner()
	req := Request{
		Target:       coords.Equatorial{RADeg: 83.82, DecDeg: -5.39},
		LatitudeDeg:  39.9042,
		LongitudeDeg: 116.4074,
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	first := p.BestWindow(req)
	for i := 0; i < 3; i++ {
		if again := p.BestWindow(req); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d diverged:\n%+v\nvs\n%+v", i, first, again)
		}
	}
}

func TestBestWindowDefaultsApplied(t *testing.T) {
	p, _ := newTestPlanner()
	res := p.BestWindow(Request{
		Target:       coords.Equatorial{RADeg: 37.95, DecDeg: 89.26},
		LatitudeDeg:  39.9042,
		LongitudeDeg: 116.4074,
		Date:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		// Zero Options: every tunable but min altitude gets a default.
	})
	// Base 30 scaled by the night's illumination.
	if res.Diagnostics.MinMoonDistanceDeg < 30 {
		t.Errorf("scaled moon distance %v below the default base", res.Diagnostics.MinMoonDistanceDeg)
	}
	if res.Diagnostics.SamplesEvaluated == 0 {
		t.Error("no samples evaluated")
	}
}

func TestSampleTicks(t *testing.T) {
	dusk := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	step := 10 * time.Minute

	check := func(t *testing.T, ticks []time.Time, dawn time.Time, want int) {
		t.Helper()
		if len(ticks) != want {
			t.Fatalf("len(ticks) = %d, want %d", len(ticks), want)
		}
		if !ticks[0].Equal(dusk) || !ticks[len(ticks)-1].Equal(dawn) {
			t.Errorf("grid must span dusk..dawn, got %v..%v", ticks[0], ticks[len(ticks)-1])
		}
		for i := 1; i < len(ticks); i++ {
			if !ticks[i].After(ticks[i-1]) {
				t.Errorf("ticks[%d]=%v not after ticks[%d]=%v", i, ticks[i], i-1, ticks[i-1])
			}
		}
	}

	t.Run("dawn off the cadence", func(t *testing.T) {
		dawn := dusk.Add(95 * time.Minute)
		check(t, sampleTicks(dusk, dawn, step), dawn, 11)
	})

	t.Run("dawn on the cadence", func(t *testing.T) {
		dawn := dusk.Add(60 * time.Minute)
		check(t, sampleTicks(dusk, dawn, step), dawn, 7)
	})

	// Same instant in a different location must not yield a duplicate dawn
	// sample: instants are compared, not representations.
	t.Run("dawn in another zone", func(t *testing.T) {
		dawn := dusk.Add(60 * time.Minute).In(time.FixedZone("CST", 8*3600))
		check(t, sampleTicks(dusk, dawn, step), dawn, 7)
	})
}

func TestRefineBoundary(t *testing.T) {
	origin := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	threshold := origin.Add(37*time.Minute + 13*time.Second)
	after := func(t time.Time) bool { return !t.Before(threshold) }
	before := func(t time.Time) bool { return t.Before(threshold) }

	// Bad precedes good: refine a window start.
	got := refineBoundary(origin, origin.Add(60*time.Minute), time.Second, after)
	if d := got.Sub(threshold); d < 0 || d > time.Second {
		t.Errorf("start boundary off by %v", d)
	}

	// Bad follows good: refine a window end.
	got = refineBoundary(origin.Add(60*time.Minute), origin, time.Second, before)
	if d := threshold.Sub(got); d < 0 || d > time.Second {
		t.Errorf("end boundary off by %v", d)
	}
}

func TestNormalizeOptionsKeepsZeroMinAltitude(t *testing.T) {
	o := normalizeOptions(Options{})
	if o.MinAltitudeDeg != 0 {
		t.Errorf("zero min altitude must survive normalization, got %v", o.MinAltitudeDeg)
	}
	d := DefaultOptions()
	if o.BaseMinMoonDistanceDeg != d.BaseMinMoonDistanceDeg ||
		o.MinWindowMinutes != d.MinWindowMinutes ||
		o.SampleMinutes != d.SampleMinutes ||
		o.RefineToSeconds != d.RefineToSeconds {
		t.Errorf("defaults not applied: %+v", o)
	}
}
