package uwb

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/uwb.report/internal/fsutil"
	"github.com/banshee-data/uwb.report/internal/monitoring"
)

// DefaultSummaryFile is the summary table name, written next to the input
// directory.
const DefaultSummaryFile = "UWB_Analysis_Summary.csv"

// Pipeline analyzes a directory of ranging logs one file at a time, in
// lexicographic order, and persists the summary table.
type Pipeline struct {
	FS  fsutil.FileSystem
	Out io.Writer

	// SummaryFile overrides DefaultSummaryFile when set.
	SummaryFile string
}

// Result describes one completed pipeline run.
type Result struct {
	InputDir    string
	SummaryPath string // empty when nothing was analyzed
	Table       SummaryTable
}

// NewPipeline creates a pipeline over the real filesystem.
func NewPipeline(out io.Writer) *Pipeline {
	return &Pipeline{FS: fsutil.OSFileSystem{}, Out: out}
}

// ResolveInputDir turns the command-line path into the directory to analyze.
// A path that is not a directory is normalised to its parent.
func ResolveInputDir(fsys fsutil.FileSystem, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if info, err := fsys.Stat(abs); err == nil && info.IsDir() {
		return abs, nil
	}
	return filepath.Dir(abs), nil
}

// SiblingDir returns the path of a directory next to the input directory,
// e.g. the "plots" output directory.
func SiblingDir(inputDir, name string) string {
	return filepath.Join(filepath.Dir(inputDir), name)
}

// ListCSVFiles returns the names of the *.csv files directly inside dir,
// sorted lexicographically.
func ListCSVFiles(fsys fsutil.FileSystem, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// AnalyzeFile extracts metadata for one log and analyzes its samples. A
// filename that does not parse yields an error wrapping ErrFilenameFormat
// before the file is opened.
func (p *Pipeline) AnalyzeFile(dir, name string) (FileReport, FileStats, error) {
	meta, err := ParseFilename(name)
	if err != nil {
		return FileReport{}, FileStats{}, err
	}

	f, err := p.FS.Open(filepath.Join(dir, name))
	if err != nil {
		return FileReport{}, FileStats{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	samples, err := ReadSamples(f)
	if err != nil {
		return FileReport{}, FileStats{}, fmt.Errorf("%s: %w", name, err)
	}

	st := Analyze(samples, meta)
	return NewFileReport(name, meta, st), st, nil
}

// AnalyzeDir analyzes every CSV log in dir. Files whose names do not carry
// metadata are skipped with a warning; any other failure aborts the batch.
// A directory without CSV files returns a nil table and no error.
func (p *Pipeline) AnalyzeDir(dir string) (SummaryTable, error) {
	names, err := ListCSVFiles(p.FS, dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		fmt.Fprintln(p.Out, "No CSV files found.")
		return nil, nil
	}

	WriteProgressHeader(p.Out)

	var table SummaryTable
	for _, name := range names {
		report, st, err := p.AnalyzeFile(dir, name)
		if errors.Is(err, ErrFilenameFormat) {
			monitoring.Warnf("Warning: Could not parse filename %s", name)
			continue
		}
		if err != nil {
			return nil, err
		}

		meta := FileMetadata{NominalDistanceM: report.TargetDistanceM, TargetRateHz: report.TargetHz}
		WriteProgressLine(p.Out, Stem(name), meta, st)
		table = append(table, report)
	}
	if len(table) == 0 {
		fmt.Fprintln(p.Out, "No files analyzed.")
	}
	return table, nil
}

// SummaryPath returns where the summary table for inputDir is written.
func (p *Pipeline) SummaryPath(inputDir string) string {
	name := p.SummaryFile
	if name == "" {
		name = DefaultSummaryFile
	}
	return filepath.Join(filepath.Dir(inputDir), name)
}

// WriteSummaryFile persists the table, replacing any previous summary.
func (p *Pipeline) WriteSummaryFile(path string, table SummaryTable) error {
	w, err := p.FS.Create(path)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	if err := WriteSummary(w, table); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close summary: %w", err)
	}
	return nil
}

// Run resolves the input path, analyzes the directory and writes the summary
// table. When no file could be analyzed nothing is written and the returned
// table is empty.
func (p *Pipeline) Run(path string) (*Result, error) {
	dir, err := ResolveInputDir(p.FS, path)
	if err != nil {
		return nil, err
	}
	res := &Result{InputDir: dir}

	table, err := p.AnalyzeDir(dir)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return res, nil
	}

	res.Table = table
	res.SummaryPath = p.SummaryPath(dir)
	if err := p.WriteSummaryFile(res.SummaryPath, table); err != nil {
		return nil, err
	}
	fmt.Fprintf(p.Out, "\nSummary saved to: %s\n", res.SummaryPath)
	return res, nil
}
