package coords

// Equatorial is a position on the celestial sphere in the equatorial frame.
// RA is in degrees [0,360), Dec in degrees [-90,90].
type Equatorial struct {
	RADeg  float64 `json:"ra_deg"`
	DecDeg float64 `json:"dec_deg"`
}

// Horizontal is a position in the observer's local horizontal frame.
// Azimuth convention: 0 = North, 90 = East.
type Horizontal struct {
	AltitudeDeg float64 `json:"altitude_deg"`
	AzimuthDeg  float64 `json:"azimuth_deg"`
}

// Ecliptic is a position in the ecliptic frame (longitude/latitude, degrees).
type Ecliptic struct {
	LonDeg float64 `json:"lon_deg"`
	LatDeg float64 `json:"lat_deg"`
}

// Galactic is a position in the IAU 1958 galactic frame (l/b, degrees).
type Galactic struct {
	LDeg float64 `json:"l_deg"`
	BDeg float64 `json:"b_deg"`
}
