package format

import (
	"math"
	"testing"
)

func TestRAToHMS(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "00h 00m 00.00s"},
		{15, "01h 00m 00.00s"},
		{83.633, "05h 34m 31.92s"}, // M42
		{359.999, "23h 59m 59.76s"},
	}
	for _, tt := range tests {
		if got := RAToHMS(tt.deg); got != tt.want {
			t.Errorf("RAToHMS(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestDecToDMS(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, `+0° 00' 00.00"`},
		{-5.391111, `-5° 23' 28.00"`},
		{89.5, `+89° 30' 00.00"`},
	}
	for _, tt := range tests {
		if got := DecToDMS(tt.deg); got != tt.want {
			t.Errorf("DecToDMS(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestParseRA(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"05h 34m 31.94s", 83.6330833},
		{"5:34:31.94", 83.6330833},
		{"5 34 31.94", 83.6330833},
		{"83.633", 83.633},
		{"0", 0},
		{"00h 00m 00s", 0},
	}
	for _, tt := range tests {
		got, err := ParseRA(tt.in)
		if err != nil {
			t.Errorf("ParseRA(%q): %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-5 {
			t.Errorf("ParseRA(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRARejects(t *testing.T) {
	for _, bad := range []string{"", "not an RA", "-10", "360", "400.5", "25h 00m 00s", "05h 61m 00s", "05h 00m 75s"} {
		if got, err := ParseRA(bad); err == nil {
			t.Errorf("ParseRA(%q) = %v, want error", bad, got)
		}
	}
}

func TestParseDec(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`-05° 23' 28.0"`, -5.391111},
		{"-5:23:28", -5.391111},
		{"+41d 16m 09s", 41.269167},
		{"41.269", 41.269},
		{"-90", -90},
		{"90", 90},
	}
	for _, tt := range tests {
		got, err := ParseDec(tt.in)
		if err != nil {
			t.Errorf("ParseDec(%q): %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-5 {
			t.Errorf("ParseDec(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// A negative declination inside the first degree must keep its sign even
// though the whole-degree component parses as zero.
func TestParseDecSignedZeroDegrees(t *testing.T) {
	got, err := ParseDec(`-0° 30' 00"`)
	if err != nil {
		t.Fatalf("ParseDec: %v", err)
	}
	if math.Abs(got-(-0.5)) > 1e-9 {
		t.Errorf("got %v, want -0.5", got)
	}
}

func TestParseDecRejects(t *testing.T) {
	for _, bad := range []string{"", "junk", "-91", "95", `-95° 00' 00"`, `10° 61' 00"`, `10° 00' 75"`} {
		if got, err := ParseDec(bad); err == nil {
			t.Errorf("ParseDec(%q) = %v, want error", bad, got)
		}
	}
}

func TestRARoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 15.5, 83.633, 201.29, 359.9} {
		parsed, err := ParseRA(RAToHMS(deg))
		if err != nil {
			t.Fatalf("round trip %v: %v", deg, err)
		}
		if math.Abs(parsed-deg) > 1e-3 {
			t.Errorf("RA round trip %v -> %v", deg, parsed)
		}
	}
}

func TestDecRoundTrip(t *testing.T) {
	for _, deg := range []float64{-89.9, -5.391, -0.5, 0, 41.269, 89.9} {
		parsed, err := ParseDec(DecToDMS(deg))
		if err != nil {
			t.Fatalf("round trip %v: %v", deg, err)
		}
		if math.Abs(parsed-deg) > 1e-3 {
			t.Errorf("Dec round trip %v -> %v", deg, parsed)
		}
	}
}
