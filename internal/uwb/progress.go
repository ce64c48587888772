package uwb

import (
	"fmt"
	"io"
	"strings"
)

// WriteProgressHeader prints the column header for the live progress table.
func WriteProgressHeader(w io.Writer) {
	fmt.Fprintf(w, "%-20s | %-10s | %-10s | %-15s | %-15s\n", "File", "Target Hz", "Actual Hz", "Mean Dist (m)", "Std Dev (m)")
	fmt.Fprintln(w, strings.Repeat("-", 85))
}

// WriteProgressLine prints one analyzed file. It is purely cosmetic; the
// summary table is the data product.
func WriteProgressLine(w io.Writer, stem string, meta FileMetadata, st FileStats) {
	fmt.Fprintf(w, "%-20s | %-10s | %-10.2f | %-15.4f | %-15.4f\n",
		stem, FormatFloat(meta.TargetRateHz), st.ActualHz, st.MeanM, st.StdDevM)
}
