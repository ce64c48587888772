// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the ranging-log fixtures used by the analysis,
// plotting and command tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/uwb.report/internal/fsutil"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// LogCSV renders a ranging log with the standard header from parallel
// timestamp and distance slices.
func LogCSV(timestampsMs []int64, distancesM []float64) string {
	var b strings.Builder
	b.WriteString("Timestamp_ms,Measured_Distance_m\n")
	for i := range timestampsMs {
		fmt.Fprintf(&b, "%d,%g\n", timestampsMs[i], distancesM[i])
	}
	return b.String()
}

// UniformLog returns a log of n samples spaced periodMs apart, all reading
// distanceM.
func UniformLog(n int, periodMs int64, distanceM float64) string {
	ts := make([]int64, n)
	ds := make([]float64, n)
	for i := range ts {
		ts[i] = int64(i) * periodMs
		ds[i] = distanceM
	}
	return LogCSV(ts, ds)
}

// WriteLogs stores the given name → content logs under dir in fsys.
func WriteLogs(t *testing.T, fsys fsutil.FileSystem, dir string, logs map[string]string) {
	t.Helper()
	for name, content := range logs {
		if err := fsys.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
}
