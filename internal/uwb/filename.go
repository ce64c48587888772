package uwb

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// ErrFilenameFormat is wrapped by every metadata extraction failure.
var ErrFilenameFormat = errors.New("filename does not match <distance>m_<rate>Hz")

// FilenameError reports why a log file name could not be turned into
// FileMetadata. Callers skip the file rather than abort the batch.
type FilenameError struct {
	Name   string
	Reason string
}

func (e *FilenameError) Error() string {
	return fmt.Sprintf("could not parse filename %s: %s", e.Name, e.Reason)
}

func (e *FilenameError) Unwrap() error {
	return ErrFilenameFormat
}

// Stem returns the file name without directory or extension. Only an
// alphabetic extension counts, so "2.5m_50Hz" keeps its decimal point.
func Stem(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == "" || strings.IndexFunc(ext[1:], func(r rune) bool {
		return !unicode.IsLetter(r)
	}) >= 0 {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// ParseFilename extracts the nominal distance and target rate from a log
// file name such as "1m_10Hz.csv" or "2.5m_50Hz_run2.csv". The first
// underscore-separated token with its "m" removed is the distance and the
// second with its "Hz" removed is the rate. Values are not range checked:
// zero and negative numbers are returned as-is.
func ParseFilename(name string) (FileMetadata, error) {
	stem := Stem(name)
	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return FileMetadata{}, &FilenameError{Name: filepath.Base(name), Reason: "missing '_' separator"}
	}

	dist, err := parseToken(strings.ReplaceAll(parts[0], "m", ""))
	if err != nil {
		return FileMetadata{}, &FilenameError{Name: filepath.Base(name), Reason: fmt.Sprintf("distance %q: %v", parts[0], err)}
	}
	rate, err := parseToken(strings.ReplaceAll(parts[1], "Hz", ""))
	if err != nil {
		return FileMetadata{}, &FilenameError{Name: filepath.Base(name), Reason: fmt.Sprintf("rate %q: %v", parts[1], err)}
	}

	return FileMetadata{NominalDistanceM: dist, TargetRateHz: rate}, nil
}

func parseToken(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not finite")
	}
	return v, nil
}
