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

// SummaryColumns is the fixed header of the summary table.
var SummaryColumns = []string{
	"File",
	"Target_Distance_m",
	"Target_Hz",
	"Actual_Hz",
	"Avg_Delta_ms",
	"Measured_Mean_m",
	"Error_m",
	"Std_Dev_m",
	"Samples",
}

// FormatFloat renders a summary value in its shortest round-trip form,
// keeping a ".0" on integral values. NaN renders as an empty cell.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !math.IsInf(v, 0) && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (r FileReport) record() []string {
	return []string{
		r.File,
		FormatFloat(r.TargetDistanceM),
		FormatFloat(r.TargetHz),
		FormatFloat(r.ActualHz),
		FormatFloat(r.AvgDeltaMs),
		FormatFloat(r.MeasuredMeanM),
		FormatFloat(r.ErrorM),
		FormatFloat(r.StdDevM),
		strconv.Itoa(r.Samples),
	}
}

// WriteSummary writes the table as CSV with the SummaryColumns header.
func WriteSummary(w io.Writer, table SummaryTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryColumns); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, r := range table {
		if err := cw.Write(r.record()); err != nil {
			return fmt.Errorf("write summary row %s: %w", r.File, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSummary parses a table written by WriteSummary. Empty float cells
// decode as NaN.
func ReadSummary(r io.Reader) (SummaryTable, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read summary header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range SummaryColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}

	var table SummaryTable
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("summary row %d: %w", row, err)
		}

		var parseErr error
		num := func(name string) float64 {
			s := strings.TrimSpace(rec[col[name]])
			if s == "" {
				return math.NaN()
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil && parseErr == nil {
				parseErr = fmt.Errorf("summary row %d %s: %w", row, name, err)
			}
			return v
		}

		report := FileReport{
			File:            rec[col["File"]],
			TargetDistanceM: num("Target_Distance_m"),
			TargetHz:        num("Target_Hz"),
			ActualHz:        num("Actual_Hz"),
			AvgDeltaMs:      num("Avg_Delta_ms"),
			MeasuredMeanM:   num("Measured_Mean_m"),
			ErrorM:          num("Error_m"),
			StdDevM:         num("Std_Dev_m"),
		}
		if parseErr != nil {
			return nil, parseErr
		}
		if report.Samples, err = strconv.Atoi(strings.TrimSpace(rec[col["Samples"]])); err != nil {
			return nil, fmt.Errorf("summary row %d Samples: %w", row, err)
		}
		table = append(table, report)
	}
	return table, nil
}
