package uwb

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Column names shared by the serial logger output and the analysis input.
const (
	ColumnTimestamp = "Timestamp_ms"
	ColumnDistance  = "Measured_Distance_m"
)

var (
	// ErrMissingColumn is returned when a log lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmptyFile is returned when a log has no header row.
	ErrEmptyFile = errors.New("empty log file")
)

// missingCells are the cell values read as a missing value rather than a
// parse error.
var missingCells = map[string]bool{
	"": true, "nan": true, "-nan": true, "na": true, "n/a": true, "null": true, "none": true,
}

func isMissing(cell string) bool {
	return missingCells[strings.ToLower(strings.TrimSpace(cell))]
}

// ReadSamples decodes a ranging log. The header row locates the timestamp
// and distance columns by name; other columns are ignored. Blank and "nan"
// cells are kept as missing values; any other malformed cell fails the whole
// read.
func ReadSamples(r io.Reader) ([]RawSample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	tsCol, distCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case ColumnTimestamp:
			tsCol = i
		case ColumnDistance:
			distCol = i
		}
	}
	if tsCol < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, ColumnTimestamp)
	}
	if distCol < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, ColumnDistance)
	}

	var samples []RawSample
	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if tsCol >= len(record) || distCol >= len(record) {
			return nil, fmt.Errorf("row %d: expected at least %d fields, got %d", row, max(tsCol, distCol)+1, len(record))
		}

		var s RawSample
		if isMissing(record[tsCol]) {
			s.MissingTimestamp = true
		} else if s.TimestampMs, err = parseTimestamp(record[tsCol]); err != nil {
			return nil, fmt.Errorf("row %d %s: %w", row, ColumnTimestamp, err)
		}
		if isMissing(record[distCol]) {
			s.DistanceM = math.NaN()
		} else if s.DistanceM, err = strconv.ParseFloat(strings.TrimSpace(record[distCol]), 64); err != nil {
			return nil, fmt.Errorf("row %d %s: %w", row, ColumnDistance, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// parseTimestamp accepts integer text and integral float text ("13365.0").
func parseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return 0, fmt.Errorf("timestamp %q is not an integer", s)
	}
	return int64(f), nil
}

// WriteSamples writes raw (timestamp, distance) text pairs under the log
// header. Values are written verbatim, exactly as received from the device.
func WriteSamples(w io.Writer, records [][2]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnTimestamp, ColumnDistance}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(rec[:]); err != nil {
			return fmt.Errorf("write sample: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
