// Package collector records ranging samples streamed by a UWB board over a
// serial line into the CSV log format consumed by the analysis pipeline.
package collector

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/banshee-data/uwb.report/internal/fsutil"
	"github.com/banshee-data/uwb.report/internal/timeutil"
	"github.com/banshee-data/uwb.report/internal/uwb"
)

// Defaults for a collection session.
const (
	DefaultSampleCount   = 1000
	DefaultProgressEvery = 10
)

// Config bounds one collection session.
type Config struct {
	// SampleCount stops the session once this many samples are recorded.
	SampleCount int
	// ProgressEvery prints a progress line every N samples; 0 disables it.
	ProgressEvery int
}

// Sample is one accepted device line. Fields are kept exactly as the device
// sent them so the log is a faithful record.
type Sample struct {
	Timestamp string
	Distance  string
}

// ParseLine accepts a "timestamp,distance" line. The line is trimmed and
// must split on ',' into exactly two fields; anything else (boot banners,
// debug output, torn lines) is rejected.
func ParseLine(line string) (Sample, bool) {
	line = strings.TrimSpace(strings.ToValidUTF8(line, ""))
	if !strings.Contains(line, ",") {
		return Sample{}, false
	}
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return Sample{}, false
	}
	return Sample{Timestamp: parts[0], Distance: parts[1]}, true
}

// StopReason says why a session ended.
type StopReason int

const (
	// StopComplete means the sample count was reached.
	StopComplete StopReason = iota
	// StopCancelled means the context was cancelled (Ctrl-C).
	StopCancelled
	// StopPortClosed means the line stream ended first.
	StopPortClosed
)

func (r StopReason) String() string {
	switch r {
	case StopComplete:
		return "complete"
	case StopCancelled:
		return "cancelled"
	case StopPortClosed:
		return "port closed"
	}
	return fmt.Sprintf("StopReason(%d)", int(r))
}

// Result is the outcome of one session.
type Result struct {
	Samples  []Sample
	Rejected int
	Reason   StopReason
	Elapsed  time.Duration
}

// Rate returns the effective sample rate over the session in Hz, or 0 when
// no time elapsed.
func (r Result) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(len(r.Samples)) / r.Elapsed.Seconds()
}

// Session collects samples from a line stream.
type Session struct {
	Config Config
	Out    io.Writer
	Clock  timeutil.Clock
}

// NewSession creates a session that prints progress to out.
func NewSession(cfg Config, out io.Writer) *Session {
	return &Session{Config: cfg, Out: out, Clock: timeutil.RealClock{}}
}

// Collect reads lines until the sample count is reached, ctx is cancelled
// or lines is closed. Samples gathered before a stop are always returned.
func (s *Session) Collect(ctx context.Context, lines <-chan string) Result {
	target := s.Config.SampleCount
	if target <= 0 {
		target = DefaultSampleCount
	}

	res := Result{Samples: make([]Sample, 0, target)}
	start := s.Clock.Now()

	for len(res.Samples) < target {
		select {
		case <-ctx.Done():
			return s.cancelled(res, start)
		case line, ok := <-lines:
			if !ok {
				// Cancellation also ends the monitor feeding lines, so a
				// closed stream after Ctrl-C is still a user stop.
				if ctx.Err() != nil {
					return s.cancelled(res, start)
				}
				res.Reason = StopPortClosed
				res.Elapsed = s.Clock.Since(start)
				return res
			}
			sample, ok := ParseLine(line)
			if !ok {
				res.Rejected++
				continue
			}
			res.Samples = append(res.Samples, sample)

			n := len(res.Samples)
			if s.Config.ProgressEvery > 0 && n%s.Config.ProgressEvery == 0 {
				fmt.Fprintf(s.Out, "Collected %d/%d | Last value: %sm\n", n, target, sample.Distance)
			}
		}
	}
	res.Reason = StopComplete
	res.Elapsed = s.Clock.Since(start)
	return res
}

func (s *Session) cancelled(res Result, start time.Time) Result {
	fmt.Fprintln(s.Out, "\nStopped early by user.")
	res.Reason = StopCancelled
	res.Elapsed = s.Clock.Since(start)
	return res
}

// WriteCSV writes samples under the standard log header.
func WriteCSV(w io.Writer, samples []Sample) error {
	records := make([][2]string, len(samples))
	for i, s := range samples {
		records[i] = [2]string{s.Timestamp, s.Distance}
	}
	return uwb.WriteSamples(w, records)
}

// SaveCSV writes samples to path, replacing any existing file.
func SaveCSV(fsys fsutil.FileSystem, path string, samples []Sample) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, samples); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
