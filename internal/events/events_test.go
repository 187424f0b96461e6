package events

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sky/skyplan/internal/eop"
	"github.com/sky/skyplan/internal/timescale"
)

func testCalendar() *Calendar {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCalendar(timescale.NewBuilder(eop.NewStore(nil, logger)))
}

func TestSeasonalEvents2024(t *testing.T) {
	got := SeasonalEvents(2024)
	if len(got) != 4 {
		t.Fatalf("got %d events, want 4", len(got))
	}

	// Reference instants (UTC): Mar 20 03:06, Jun 20 20:51, Sep 22 12:44,
	// Dec 21 09:21. Allow an hour of slack for the truncated series.
	want := []struct {
		typ  Type
		name string
		time time.Time
	}{
		{TypeEquinox, "Vernal Equinox", time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC)},
		{TypeSolstice, "Summer Solstice", time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC)},
		{TypeEquinox, "Autumnal Equinox", time.Date(2024, 9, 22, 12, 44, 0, 0, time.UTC)},
		{TypeSolstice, "Winter Solstice", time.Date(2024, 12, 21, 9, 21, 0, 0, time.UTC)},
	}
	for i, w := range want {
		e := got[i]
		if e.Type != w.typ || e.Name != w.name {
			t.Errorf("event %d = %s %q, want %s %q", i, e.Type, e.Name, w.typ, w.name)
		}
		if d := e.Time.Sub(w.time); d < -time.Hour || d > time.Hour {
			t.Errorf("%s at %v, want within 1h of %v", e.Name, e.Time, w.time)
		}
		if e.Date.Month() == 0 {
			t.Errorf("%s calendar date unset", e.Name)
		}
	}
}

func TestMeteorShowersCatalog(t *testing.T) {
	showers := MeteorShowers(2024)
	if len(showers) != 9 {
		t.Fatalf("got %d showers, want 9", len(showers))
	}

	byName := map[string]MeteorShower{}
	for _, s := range showers {
		byName[s.Name] = s
	}

	perseids, ok := byName["Perseids"]
	if !ok {
		t.Fatal("Perseids missing")
	}
	if !perseids.Peak.Equal(time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Perseids peak %v", perseids.Peak)
	}
	if perseids.ZHR != 100 || perseids.ParentBody != "109P/Swift-Tuttle" {
		t.Errorf("Perseids = %+v", perseids)
	}

	geminids := byName["Geminids"]
	if geminids.ZHR != 150 {
		t.Errorf("Geminids ZHR = %d, want 150", geminids.ZHR)
	}

	// The Quadrantids activity window opens in the previous December.
	quad := byName["Quadrantids"]
	if quad.ActiveStart.Year() != 2023 || quad.ActiveStart.Month() != time.December {
		t.Errorf("Quadrantids active start %v, want Dec 2023", quad.ActiveStart)
	}
	if !quad.ActiveStart.Before(quad.Peak) || !quad.Peak.Before(quad.ActiveEnd) {
		t.Errorf("Quadrantids window disordered: %v / %v / %v", quad.ActiveStart, quad.Peak, quad.ActiveEnd)
	}

	for _, s := range showers {
		if s.ZHR <= 0 || s.Description == "" {
			t.Errorf("%s incomplete: %+v", s.Name, s)
		}
		if s.RadiantRA < -1 || s.RadiantRA >= 360 || s.RadiantDec < -90 || s.RadiantDec > 90 {
			t.Errorf("%s radiant out of range: (%v, %v)", s.Name, s.RadiantRA, s.RadiantDec)
		}
	}
}

func TestMoonPhasesForMonth(t *testing.T) {
	c := testCalendar()

	// January 2024: new moon on the 11th, full moon on the 25th-26th.
	phases := c.MoonPhasesForMonth(2024, time.January)
	if len(phases) < 3 || len(phases) > 5 {
		t.Fatalf("got %d phase events, want 3-5: %+v", len(phases), phases)
	}

	var sawNew, sawFull bool
	for _, p := range phases {
		if p.Date.Month() != time.January || p.Date.Year() != 2024 {
			t.Errorf("phase outside the month: %+v", p)
		}
		if p.IlluminationPercent < 0 || p.IlluminationPercent > 100 {
			t.Errorf("illumination %d out of range", p.IlluminationPercent)
		}
		switch p.Phase {
		case "New Moon":
			sawNew = true
			if d := p.Date.Day(); d < 9 || d > 13 {
				t.Errorf("new moon on day %d, want near the 11th", d)
			}
			if p.IlluminationPercent > 10 {
				t.Errorf("new moon illumination %d", p.IlluminationPercent)
			}
		case "Full Moon":
			sawFull = true
			if d := p.Date.Day(); d < 24 || d > 28 {
				t.Errorf("full moon on day %d, want near the 26th", d)
			}
			if p.IlluminationPercent < 90 {
				t.Errorf("full moon illumination %d", p.IlluminationPercent)
			}
		}
	}
	if !sawNew || !sawFull {
		t.Errorf("missing principal phases (new=%v full=%v): %+v", sawNew, sawFull, phases)
	}
}

func TestMoonPhasesChronological(t *testing.T) {
	c := testCalendar()
	for month := time.January; month <= time.December; month++ {
		phases := c.MoonPhasesForMonth(2024, month)
		for i := 1; i < len(phases); i++ {
			if !phases[i].Date.After(phases[i-1].Date) {
				t.Errorf("%v phases out of order: %+v", month, phases)
			}
		}
	}
}

func TestEventsBetween(t *testing.T) {
	c := testCalendar()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)

	got := c.EventsBetween(start, end)
	if len(got) == 0 {
		t.Fatal("empty calendar for a seven-month range")
	}

	var equinoxes, solstices, showers, moons int
	for i, e := range got {
		if e.Time.Before(start) || e.Time.After(end) {
			t.Errorf("event %q at %v outside range", e.ID, e.Time)
		}
		if i > 0 && got[i].Time.Before(got[i-1].Time) {
			t.Errorf("events out of order at %d: %v after %v", i, got[i].Time, got[i-1].Time)
		}
		if e.ID == "" || e.Name == "" {
			t.Errorf("event missing identity: %+v", e)
		}
		switch e.Type {
		case TypeEquinox:
			equinoxes++
		case TypeSolstice:
			solstices++
		case TypeMeteorShower:
			showers++
		case TypeNewMoon, TypeFirstQuarter, TypeFullMoon, TypeLastQuarter, TypeSupermoon:
			moons++
		}
	}

	// March through September holds both equinoxes, the June solstice, and
	// at least the Lyrids, Eta/Delta Aquariids and Perseids.
	if equinoxes != 2 || solstices != 1 {
		t.Errorf("seasons: %d equinoxes, %d solstices", equinoxes, solstices)
	}
	if showers < 4 {
		t.Errorf("only %d shower peaks", showers)
	}
	// Roughly four principal phases a month.
	if moons < 20 {
		t.Errorf("only %d moon phase events", moons)
	}
}

func TestEventIDsUnique(t *testing.T) {
	c := testCalendar()
	got := c.EventsBetween(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	seen := map[string]bool{}
	for _, e := range got {
		if seen[e.ID] {
			t.Errorf("duplicate event id %q", e.ID)
		}
		seen[e.ID] = true
	}
}
