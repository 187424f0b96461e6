// skyplan-diag dumps the full computation chain for one instant and
// observer: Julian Dates, EOP snapshot, sidereal times, Sun and Moon
// positions, and tonight's window for a hard-coded bright target. Useful for
// eyeballing the numbers against an ephemeris table.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sky/skyplan/internal/coords"
	"github.com/sky/skyplan/internal/eop"
	"github.com/sky/skyplan/internal/ephemeris"
	"github.com/sky/skyplan/internal/format"
	"github.com/sky/skyplan/internal/sidereal"
	"github.com/sky/skyplan/internal/timescale"
	"github.com/sky/skyplan/internal/twilight"
	"github.com/sky/skyplan/internal/window"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	// Denver, mirroring the ground-station test site.
	lat, lon := 39.7392, -104.9903

	now := time.Now().UTC()
	times := timescale.NewBuilder(eop.NewStore(nil, logger))
	ctx := times.Context(now)

	fmt.Printf("t       = %v\n", now.Format(time.RFC3339))
	fmt.Printf("jd_utc  = %.6f\n", ctx.JDUTC)
	fmt.Printf("jd_ut1  = %.6f (dut1 %+.4fs, %s/%s)\n",
		ctx.JDUT1, ctx.Snapshot.DUT1, ctx.Snapshot.Source, ctx.Snapshot.Freshness)
	fmt.Printf("jd_tt   = %.6f\n", ctx.JDTT)

	fmt.Printf("gmst    = %.6f°\n", sidereal.GMST(ctx.JDUT1, ctx.JDTT))
	fmt.Printf("gast    = %.6f°\n", sidereal.GAST(ctx.JDUT1, ctx.JDTT))
	fmt.Printf("lst     = %.6f°\n", sidereal.LocalApparent(ctx.JDUT1, ctx.JDTT, lon))

	sun := ephemeris.SunEquatorial(ctx)
	fmt.Printf("sun     = %s %s (eot %+.2f min)\n",
		format.RAToHMS(sun.RADeg), format.DecToDMS(sun.DecDeg), ephemeris.EquationOfTime(ctx))

	moon := ephemeris.MoonEquatorial(ctx)
	phase := ephemeris.PhaseAt(ctx.JDUTC)
	fmt.Printf("moon    = %s %s, %.0f km, %d%% (%s)\n",
		format.RAToHMS(moon.Equatorial.RADeg), format.DecToDMS(moon.Equatorial.DecDeg),
		moon.DistanceKm, phase.IlluminationPercent, phase.Name)

	// M42 as the probe target.
	planner := window.NewPlanner(times, twilight.SolarCalculator{})
	result := planner.BestWindow(window.Request{
		Target:       coords.Equatorial{RADeg: 83.82, DecDeg: -5.39},
		LatitudeDeg:  lat,
		LongitudeDeg: lon,
		Date:         now,
		Options:      window.DefaultOptions(),
	})
	if result.HasWindow {
		fmt.Printf("m42     = %s .. %s (%.0f min)\n",
			result.Start.Format(time.RFC3339), result.End.Format(time.RFC3339), result.DurationMinutes)
	} else {
		fmt.Printf("m42     = no window (%s)\n", result.Reason)
	}
}
