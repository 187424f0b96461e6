package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sky/skyplan/internal/coords"
	"github.com/sky/skyplan/internal/ephemeris"
	"github.com/sky/skyplan/internal/events"
	"github.com/sky/skyplan/internal/format"
	"github.com/sky/skyplan/internal/metrics"
	"github.com/sky/skyplan/internal/sidereal"
	"github.com/sky/skyplan/internal/window"
)

const maxRequestBody = 1 << 20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// timeParam parses an RFC3339 "t" query parameter, defaulting to now.
func timeParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		// Date-only is accepted for per-night queries.
		t, err = time.Parse("2006-01-02", v)
	}
	return t.UTC(), err
}

func floatParam(r *http.Request, name string) (float64, bool) {
	f, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	return f, err == nil
}

// targetParam parses ra/dec query parameters, accepting decimal degrees or
// sexagesimal strings ("05h 34m 31.94s", "+22° 00' 52.2\"").
func targetParam(r *http.Request) (coords.Equatorial, error) {
	ra, err := format.ParseRA(r.URL.Query().Get("ra"))
	if err != nil {
		return coords.Equatorial{}, err
	}
	dec, err := format.ParseDec(r.URL.Query().Get("dec"))
	if err != nil {
		return coords.Equatorial{}, err
	}
	return coords.Equatorial{RADeg: ra, DecDeg: dec}, nil
}

// handleWindow runs the observing-window search.
// POST /api/v1/window with a window.Request body.
func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	var req window.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now().UTC()
	}

	// Opportunistic: a search is a good moment to notice stale EOP data.
	s.store().TriggerBackgroundRefresh(s.deps.EOPURLs)

	start := time.Now()
	result := s.deps.Planner.BestWindow(req)
	elapsed := time.Since(start)

	outcome := "found"
	if !result.HasWindow {
		outcome = string(result.Reason)
	}
	metrics.RecordWindowSearch(outcome, elapsed)
	metrics.SetEOPFreshness(string(s.store().Snapshot(req.Date).Freshness))

	writeJSON(w, http.StatusOK, result)
}

// handleVisibility returns the coarse rise/set/transit summary.
// GET /api/v1/visibility?ra=&dec=&lat=&lon=&t=&min_alt=
func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	target, err := targetParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lat, ok1 := floatParam(r, "lat")
	lon, ok2 := floatParam(r, "lon")
	if !ok1 || !ok2 || lat < -90 || lat > 90 {
		writeError(w, http.StatusBadRequest, "lat and lon are required; lat in [-90,90]")
		return
	}
	at, err := timeParam(r, "t")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid t: "+err.Error())
		return
	}
	minAlt := 0.0
	if v, ok := floatParam(r, "min_alt"); ok {
		minAlt = v
	}

	writeJSON(w, http.StatusOK, s.deps.Planner.Visibility(target, lat, lon, at, minAlt))
}

// handleTwilight returns the solar events for one date.
// GET /api/v1/twilight?lat=&lon=&date=
func (s *Server) handleTwilight(w http.ResponseWriter, r *http.Request) {
	lat, ok1 := floatParam(r, "lat")
	lon, ok2 := floatParam(r, "lon")
	if !ok1 || !ok2 || lat < -90 || lat > 90 {
		writeError(w, http.StatusBadRequest, "lat and lon are required; lat in [-90,90]")
		return
	}
	date, err := timeParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.deps.Twilight.TwilightTimes(lat, lon, date))
}

// handleSun returns the Sun's apparent position and the equation of time.
// GET /api/v1/sun?t=
func (s *Server) handleSun(w http.ResponseWriter, r *http.Request) {
	at, err := timeParam(r, "t")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid t: "+err.Error())
		return
	}
	ctx := s.deps.Times.Context(at)

	writeJSON(w, http.StatusOK, map[string]any{
		"t":                       at.Format(time.RFC3339),
		"equatorial":              ephemeris.SunEquatorial(ctx),
		"equation_of_time_min":    ephemeris.EquationOfTime(ctx),
		"jd_utc":                  ctx.JDUTC,
		"jd_tt":                   ctx.JDTT,
	})
}

// handleMoon returns the Moon's phase and position.
// GET /api/v1/moon?t=
func (s *Server) handleMoon(w http.ResponseWriter, r *http.Request) {
	at, err := timeParam(r, "t")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid t: "+err.Error())
		return
	}
	ctx := s.deps.Times.Context(at)

	writeJSON(w, http.StatusOK, map[string]any{
		"t":        at.Format(time.RFC3339),
		"phase":    ephemeris.PhaseAt(ctx.JDUTC),
		"position": ephemeris.MoonEquatorial(ctx),
	})
}

// handleEOP returns the EOP snapshot nearest a date.
// GET /api/v1/eop?date=
func (s *Server) handleEOP(w http.ResponseWriter, r *http.Request) {
	date, err := timeParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}
	snap := s.store().Snapshot(date)
	metrics.SetEOPFreshness(string(snap.Freshness))
	writeJSON(w, http.StatusOK, snap)
}

// handleEOPRefresh forces a synchronous EOP refresh.
// POST /api/v1/eop/refresh
func (s *Server) handleEOPRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.store().Refresh(r.Context(), s.deps.EOPURLs); err != nil {
		metrics.RecordEOPRefresh("error")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	metrics.RecordEOPRefresh("ok")
	writeJSON(w, http.StatusOK, s.store().Snapshot(time.Now()))
}

// handleConvert converts equatorial coordinates to another frame.
// GET /api/v1/convert?ra=&dec=&to=galactic|ecliptic|horizontal|sexagesimal
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	target, err := targetParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch to := r.URL.Query().Get("to"); to {
	case "galactic":
		writeJSON(w, http.StatusOK, coords.EquatorialToGalactic(target))

	case "ecliptic":
		writeJSON(w, http.StatusOK, coords.EquatorialToEcliptic(target, coords.ObliquityJ2000Deg))

	case "horizontal":
		lat, ok1 := floatParam(r, "lat")
		lon, ok2 := floatParam(r, "lon")
		if !ok1 || !ok2 || lat < -90 || lat > 90 {
			writeError(w, http.StatusBadRequest, "horizontal conversion needs lat and lon")
			return
		}
		at, err := timeParam(r, "t")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid t: "+err.Error())
			return
		}
		ctx := s.deps.Times.Context(at)
		lst := sidereal.LocalApparent(ctx.JDUT1, ctx.JDTT, lon)
		writeJSON(w, http.StatusOK, coords.EquatorialToHorizontal(target, lat, lst))

	case "sexagesimal":
		writeJSON(w, http.StatusOK, map[string]string{
			"ra":  format.RAToHMS(target.RADeg),
			"dec": format.DecToDMS(target.DecDeg),
		})

	default:
		writeError(w, http.StatusBadRequest, "unknown target frame: "+to)
	}
}

// handleEventCalendar returns the combined event calendar for a range.
// GET /api/v1/events/calendar?start=2026-01-01&end=2026-12-31
func (s *Server) handleEventCalendar(w http.ResponseWriter, r *http.Request) {
	start, err1 := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	end, err2 := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err1 != nil || err2 != nil || end.Before(start) {
		writeError(w, http.StatusBadRequest, "start and end are required as YYYY-MM-DD, start <= end")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Calendar.EventsBetween(start, end.Add(24*time.Hour-time.Nanosecond)))
}

func yearParam(r *http.Request) (int, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	return year, err == nil && year > 1900 && year < 2200
}

// GET /api/v1/events/showers?year=
func (s *Server) handleShowers(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "year is required")
		return
	}
	writeJSON(w, http.StatusOK, events.MeteorShowers(year))
}

// GET /api/v1/events/seasons?year=
func (s *Server) handleSeasons(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "year is required")
		return
	}
	writeJSON(w, http.StatusOK, events.SeasonalEvents(year))
}

// GET /api/v1/events/moon-phases?year=&month=
func (s *Server) handleMoonPhases(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(r)
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if !ok || err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "year and month (1-12) are required")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Calendar.MoonPhasesForMonth(year, time.Month(month)))
}
