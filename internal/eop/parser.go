package eop

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// payload is the JSON exchange format for an EOP dataset.
type payload struct {
	Version string   `json:"version"`
	Samples []Sample `json:"samples"`
}

// Parse decodes an EOP payload. Two formats are accepted, tried in order:
// the JSON exchange format, then the semicolon-separated IERS CSV
// (finals2000A) layout. The returned sample list is non-empty and every
// sample is finite; anything else is an error.
func Parse(data []byte) ([]Sample, string, error) {
	if samples, version, err := parseJSON(data); err == nil {
		return samples, version, nil
	}

	samples, err := parseIERSCSV(data)
	if err != nil {
		return nil, "", err
	}
	return samples, "iers-csv", nil
}

func parseJSON(data []byte) ([]Sample, string, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, "", fmt.Errorf("decoding EOP JSON: %w", err)
	}
	if err := validate(p.Samples); err != nil {
		return nil, "", err
	}
	return p.Samples, p.Version, nil
}

// parseIERSCSV reads the IERS datacenter CSV export. The first line is a
// header naming the columns; rows with an empty UT1-UTC field (future
// placeholder rows) are skipped.
func parseIERSCSV(data []byte) ([]Sample, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("empty EOP payload")
	}
	header := strings.Split(scanner.Text(), ";")
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	mjdIdx, ok := col["MJD"]
	if !ok {
		return nil, fmt.Errorf("EOP CSV header missing MJD column")
	}
	dut1Idx, ok := col["UT1-UTC"]
	if !ok {
		return nil, fmt.Errorf("EOP CSV header missing UT1-UTC column")
	}
	xpIdx, hasXp := col["x_pole"]
	ypIdx, hasYp := col["y_pole"]

	var samples []Sample
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ";")
		if len(fields) <= mjdIdx || len(fields) <= dut1Idx {
			continue
		}
		dut1Str := strings.TrimSpace(fields[dut1Idx])
		if dut1Str == "" {
			continue
		}
		mjd, err := strconv.ParseFloat(strings.TrimSpace(fields[mjdIdx]), 64)
		if err != nil {
			continue
		}
		dut1, err := strconv.ParseFloat(dut1Str, 64)
		if err != nil {
			continue
		}

		s := Sample{MJD: mjd, DUT1: dut1}
		if hasXp && len(fields) > xpIdx {
			s.Xp, _ = strconv.ParseFloat(strings.TrimSpace(fields[xpIdx]), 64)
		}
		if hasYp && len(fields) > ypIdx {
			s.Yp, _ = strconv.ParseFloat(strings.TrimSpace(fields[ypIdx]), 64)
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading EOP CSV: %w", err)
	}

	if err := validate(samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// validate rejects empty sample lists and non-finite values.
func validate(samples []Sample) error {
	if len(samples) == 0 {
		return fmt.Errorf("EOP payload contains no samples")
	}
	for i, s := range samples {
		if !finite(s.MJD) || !finite(s.DUT1) || !finite(s.Xp) || !finite(s.Yp) {
			return fmt.Errorf("EOP sample %d is not finite", i)
		}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
