// Package window finds the best observing window for a fixed sky target
// during one night: the longest stretch inside astronomical darkness where
// the target is high enough and far enough from a bright Moon. The search is
// a coarse scan over the dark interval followed by binary refinement of the
// chosen run's boundaries, and it always returns a diagnosed result rather
// than an error.
package window

import (
	"math"
	"time"

	"github.com/sky/skyplan/internal/coords"
	"github.com/sky/skyplan/internal/ephemeris"
	"github.com/sky/skyplan/internal/sidereal"
	"github.com/sky/skyplan/internal/timescale"
	"github.com/sky/skyplan/internal/twilight"
)

// Reason classifies why no window was found.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonInvalidInput        Reason = "invalid_input"
	ReasonNoDarkness          Reason = "no_darkness"
	ReasonMoonAlwaysBad       Reason = "moon_always_bad"
	ReasonTargetNeverAboveMin Reason = "target_never_above_min_alt"
)

// Frame names the reference frame of the request's target coordinates.
type Frame string

const (
	FrameJ2000  Frame = "j2000"
	FrameOfDate Frame = "of-date"
)

// Options are the search tunables. All must be positive except
// MinAltitudeDeg, which may be zero (horizon).
type Options struct {
	MinAltitudeDeg         float64 `json:"min_altitude_deg"`
	BaseMinMoonDistanceDeg float64 `json:"base_min_moon_distance_deg"`
	MinWindowMinutes       float64 `json:"min_window_minutes"`
	SampleMinutes          float64 `json:"sample_minutes"`
	RefineToSeconds        float64 `json:"refine_to_seconds"`
}

// DefaultOptions returns the standard search tunables.
func DefaultOptions() Options {
	return Options{
		MinAltitudeDeg:         30,
		BaseMinMoonDistanceDeg: 30,
		MinWindowMinutes:       30,
		SampleMinutes:          10,
		RefineToSeconds:        60,
	}
}

// Request is one window search: a target, an observer, and a night.
// A zero Frame means J2000; zero Options fields fall back to defaults,
// except MinAltitudeDeg, where zero is meaningful and means the horizon.
// Callers wanting the stock 30° floor start from DefaultOptions.
type Request struct {
	Target       coords.Equatorial `json:"target"`
	Frame        Frame             `json:"frame,omitempty"`
	LatitudeDeg  float64           `json:"latitude_deg"`
	LongitudeDeg float64           `json:"longitude_deg"`
	Date         time.Time         `json:"date"`
	Options      Options           `json:"options"`
}

// Diagnostics carries the intermediate quantities the search computed,
// populated as far as the search got before succeeding or failing.
type Diagnostics struct {
	Dusk                    *time.Time        `json:"dusk,omitempty"`
	Dawn                    *time.Time        `json:"dawn,omitempty"`
	MoonIlluminationPercent int               `json:"moon_illumination_percent"`
	MoonPhaseName           string            `json:"moon_phase_name,omitempty"`
	MinMoonDistanceDeg      float64           `json:"min_moon_distance_deg"`
	MoonRise                *time.Time        `json:"moon_rise,omitempty"`
	MoonSet                 *time.Time        `json:"moon_set,omitempty"`
	TargetOfDate            coords.Equatorial `json:"target_of_date"`
	SamplesEvaluated        int               `json:"samples_evaluated"`
	AnyTargetAboveMin       bool              `json:"any_target_above_min"`
}

// Result is the outcome of one search. When HasWindow is false, Reason says
// why and Start/End are nil.
type Result struct {
	HasWindow       bool        `json:"has_window"`
	Start           *time.Time  `json:"start,omitempty"`
	End             *time.Time  `json:"end,omitempty"`
	DurationMinutes float64     `json:"duration_minutes"`
	Reason          Reason      `json:"reason_if_none,omitempty"`
	Diagnostics     Diagnostics `json:"diagnostics"`
}

// Planner runs window searches against a time-scale builder and a twilight
// calculator. It holds no per-search state: concurrent searches never
// interact, and identical inputs against the same EOP dataset produce
// identical results.
type Planner struct {
	times    *timescale.Builder
	twilight twilight.Calculator
}

// NewPlanner creates a Planner over the given collaborators.
func NewPlanner(times *timescale.Builder, tw twilight.Calculator) *Planner {
	return &Planner{times: times, twilight: tw}
}

// BestWindow runs the full search for one request.
func (p *Planner) BestWindow(req Request) Result {
	opts := normalizeOptions(req.Options)

	if !validRequest(req, opts) {
		return Result{Reason: ReasonInvalidInput}
	}

	var diag Diagnostics

	// Dark interval: this evening's astronomical dusk through tomorrow
	// morning's astronomical dawn. Either side missing, or a degenerate
	// ordering, means the night never gets properly dark.
	tonight := p.twilight.TwilightTimes(req.LatitudeDeg, req.LongitudeDeg, req.Date)
	tomorrow := p.twilight.TwilightTimes(req.LatitudeDeg, req.LongitudeDeg, req.Date.Add(24*time.Hour))
	diag.Dusk = tonight.AstronomicalDusk
	diag.Dawn = tomorrow.AstronomicalDawn

	if diag.Dusk == nil || diag.Dawn == nil || !diag.Dawn.After(*diag.Dusk) {
		return Result{Reason: ReasonNoDarkness, Diagnostics: diag}
	}
	dusk, dawn := *diag.Dusk, *diag.Dawn

	// Night-level diagnostics at the midpoint of the dark interval.
	mid := dusk.Add(dawn.Sub(dusk) / 2)
	midCtx := p.times.Context(mid)

	phase := ephemeris.PhaseAt(midCtx.JDUTC)
	diag.MoonIlluminationPercent = phase.IlluminationPercent
	diag.MoonPhaseName = phase.Name

	moonMid := ephemeris.MoonEquatorial(midCtx)
	moonEvents := p.riseSet(moonMid.Equatorial, req.LatitudeDeg, req.LongitudeDeg, mid)
	diag.MoonRise = moonEvents.Rise
	diag.MoonSet = moonEvents.Set

	// A brighter Moon has to stay further away.
	minMoonDist := opts.BaseMinMoonDistanceDeg * (1 + float64(diag.MoonIlluminationPercent)/200.0)
	diag.MinMoonDistanceDeg = minMoonDist

	// Rotate the target to of-date coordinates once, at the midpoint, so the
	// per-sample predicate is frame-conversion free.
	target := req.Target
	if req.Frame != FrameOfDate {
		target = coords.J2000ToOfDate(target, midCtx.JDTT)
	}
	diag.TargetOfDate = target

	observable := func(t time.Time) (ok, altOK bool) {
		ctx := p.times.Context(t)
		lst := sidereal.LocalApparent(ctx.JDUT1, ctx.JDTT, req.LongitudeDeg)

		hz := coords.EquatorialToHorizontal(target, req.LatitudeDeg, lst)
		if hz.AltitudeDeg < opts.MinAltitudeDeg {
			return false, false
		}

		moon := ephemeris.MoonEquatorial(ctx)
		moonHz := coords.EquatorialToHorizontal(moon.Equatorial, req.LatitudeDeg, lst)
		if moonHz.AltitudeDeg < 0 {
			return true, true
		}
		return coords.AngularSeparation(target, moon.Equatorial) >= minMoonDist, true
	}

	// Coarse scan.
	ticks := sampleTicks(dusk, dawn, time.Duration(opts.SampleMinutes*float64(time.Minute)))
	var oks []bool
	for _, t := range ticks {
		ok, altOK := observable(t)
		oks = append(oks, ok)
		if altOK {
			diag.AnyTargetAboveMin = true
		}
	}
	diag.SamplesEvaluated = len(ticks)

	// Longest run of ok samples; the first run wins ties.
	bestStart, bestLen := -1, 0
	runStart, runLen := -1, 0
	for i, ok := range oks {
		if ok {
			if runLen == 0 {
				runStart = i
			}
			runLen++
			if runLen > bestLen {
				bestStart, bestLen = runStart, runLen
			}
		} else {
			runLen = 0
		}
	}

	if bestLen == 0 {
		return Result{Reason: noWindowReason(diag), Diagnostics: diag}
	}
	first, last := bestStart, bestStart+bestLen-1

	// Refine the boundaries. Edges touching dusk or dawn are pinned there.
	refine := time.Duration(opts.RefineToSeconds * float64(time.Second))
	start := ticks[first]
	if first > 0 {
		start = refineBoundary(ticks[first-1], ticks[first], refine, func(t time.Time) bool {
			ok, _ := observable(t)
			return ok
		})
	}
	end := ticks[last]
	if last < len(ticks)-1 {
		end = refineBoundary(ticks[last+1], ticks[last], refine, func(t time.Time) bool {
			ok, _ := observable(t)
			return ok
		})
	}

	duration := end.Sub(start)
	if duration < time.Duration(opts.MinWindowMinutes*float64(time.Minute)) {
		return Result{Reason: noWindowReason(diag), Diagnostics: diag}
	}

	return Result{
		HasWindow:       true,
		Start:           &start,
		End:             &end,
		DurationMinutes: duration.Minutes(),
		Diagnostics:     diag,
	}
}

// sampleTicks lays the coarse grid over the dark interval: every step from
// dusk, plus dawn itself when it falls off the cadence. Dawn appears exactly
// once regardless of how the interval divides.
func sampleTicks(dusk, dawn time.Time, step time.Duration) []time.Time {
	var ticks []time.Time
	for t := dusk; t.Before(dawn); t = t.Add(step) {
		ticks = append(ticks, t)
	}
	if !ticks[len(ticks)-1].Equal(dawn) {
		ticks = append(ticks, dawn)
	}
	return ticks
}

// refineBoundary binary-searches the ok/not-ok transition between a known-bad
// and a known-good instant, stopping once the bracket shrinks to the
// requested precision. It returns the good side of the final bracket.
func refineBoundary(bad, good time.Time, precision time.Duration, ok func(time.Time) bool) time.Time {
	for absDuration(good.Sub(bad)) > precision {
		mid := bad.Add(good.Sub(bad) / 2)
		if ok(mid) {
			good = mid
		} else {
			bad = mid
		}
	}
	return good
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// noWindowReason distinguishes "the Moon spoiled every adequate-altitude
// sample" from "the target never got high enough at all".
func noWindowReason(diag Diagnostics) Reason {
	if diag.AnyTargetAboveMin {
		return ReasonMoonAlwaysBad
	}
	return ReasonTargetNeverAboveMin
}

// normalizeOptions fills zero-valued tunables with defaults so callers can
// specify only what they care about. Negative values pass through and are
// rejected by validation.
func normalizeOptions(o Options) Options {
	d := DefaultOptions()
	if o.BaseMinMoonDistanceDeg == 0 {
		o.BaseMinMoonDistanceDeg = d.BaseMinMoonDistanceDeg
	}
	if o.MinWindowMinutes == 0 {
		o.MinWindowMinutes = d.MinWindowMinutes
	}
	if o.SampleMinutes == 0 {
		o.SampleMinutes = d.SampleMinutes
	}
	if o.RefineToSeconds == 0 {
		o.RefineToSeconds = d.RefineToSeconds
	}
	return o
}

func validRequest(req Request, opts Options) bool {
	for _, v := range []float64{
		req.Target.RADeg, req.Target.DecDeg,
		req.LatitudeDeg, req.LongitudeDeg,
		opts.MinAltitudeDeg,
	} {
		if !finite(v) {
			return false
		}
	}
	if req.LatitudeDeg < -90 || req.LatitudeDeg > 90 {
		return false
	}
	if req.Target.DecDeg < -90 || req.Target.DecDeg > 90 {
		return false
	}
	if opts.MinAltitudeDeg < 0 || opts.MinAltitudeDeg >= 90 {
		return false
	}
	for _, v := range []float64{
		opts.BaseMinMoonDistanceDeg,
		opts.MinWindowMinutes,
		opts.SampleMinutes,
		opts.RefineToSeconds,
	} {
		if !finite(v) || v <= 0 {
			return false
		}
	}
	return req.Date.Year() > 1900 && req.Date.Year() < 2200
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
