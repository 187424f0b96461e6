package events

import "time"

// showerSpec pins a shower's dates by month/day; the activity window may
// start in the previous year (Quadrantids).
type showerSpec struct {
	name                 string
	peakMonth            time.Month
	peakDay              int
	startMonth           time.Month
	startDay             int
	startPrevYear        bool
	endMonth             time.Month
	endDay               int
	zhr                  int
	radiantRA, radiantDec float64
	parentBody           string
	description          string
}

var showerCatalog = []showerSpec{
	{"Quadrantids", time.January, 3, time.December, 28, true, time.January, 12, 120, 230, 49, "2003 EH1",
		"One of the best annual meteor showers with bright meteors"},
	{"Lyrids", time.April, 22, time.April, 16, false, time.April, 25, 18, 271, 34, "C/1861 G1 Thatcher",
		"Medium strength shower with occasional bright fireballs"},
	{"Eta Aquariids", time.May, 6, time.April, 19, false, time.May, 28, 50, 338, -1, "1P/Halley",
		"Fast meteors from Halley's Comet debris"},
	{"Delta Aquariids", time.July, 30, time.July, 12, false, time.August, 23, 20, 340, -16, "96P/Machholz",
		"Best viewed from southern latitudes"},
	{"Perseids", time.August, 12, time.July, 17, false, time.August, 24, 100, 48, 58, "109P/Swift-Tuttle",
		"Most popular meteor shower with many bright meteors"},
	{"Orionids", time.October, 21, time.October, 2, false, time.November, 7, 20, 95, 16, "1P/Halley",
		"Fast meteors from Halley's Comet debris"},
	{"Leonids", time.November, 17, time.November, 6, false, time.November, 30, 15, 152, 22, "55P/Tempel-Tuttle",
		"Can produce meteor storms every 33 years"},
	{"Geminids", time.December, 14, time.December, 4, false, time.December, 17, 150, 112, 33, "3200 Phaethon",
		"King of meteor showers with many bright, colorful meteors"},
	{"Ursids", time.December, 22, time.December, 17, false, time.December, 26, 10, 217, 76, "8P/Tuttle",
		"Minor shower near the winter solstice"},
}

// MeteorShowers returns the major annual showers instantiated for a year.
func MeteorShowers(year int) []MeteorShower {
	out := make([]MeteorShower, 0, len(showerCatalog))
	for _, s := range showerCatalog {
		startYear := year
		if s.startPrevYear {
			startYear--
		}
		out = append(out, MeteorShower{
			Name:        s.name,
			Peak:        time.Date(year, s.peakMonth, s.peakDay, 0, 0, 0, 0, time.UTC),
			ActiveStart: time.Date(startYear, s.startMonth, s.startDay, 0, 0, 0, 0, time.UTC),
			ActiveEnd:   time.Date(year, s.endMonth, s.endDay, 0, 0, 0, 0, time.UTC),
			ZHR:         s.zhr,
			RadiantRA:   s.radiantRA,
			RadiantDec:  s.radiantDec,
			ParentBody:  s.parentBody,
			Description: s.description,
		})
	}
	return out
}
