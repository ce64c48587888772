// Command plotlogs renders each UWB ranging log as a raw distance trace with
// its moving mean overlaid.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/banshee-data/uwb.report/internal/fsutil"
	"github.com/banshee-data/uwb.report/internal/monitoring"
	"github.com/banshee-data/uwb.report/internal/plots"
	"github.com/banshee-data/uwb.report/internal/uwb"
	"github.com/banshee-data/uwb.report/internal/version"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(1)
		}
		log.Fatalf("plotlogs: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("plotlogs", flag.ContinueOnError)
	flags.SetOutput(stderr)
	showVersion := flags.Bool("version", false, "print version and exit")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: plotlogs <csv-file-or-dir>")
	}
	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, version.String("plotlogs"))
		return nil
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return errUsage
	}

	fsys := fsutil.OSFileSystem{}
	path, err := filepath.Abs(flags.Arg(0))
	if err != nil {
		return err
	}

	info, err := fsys.Stat(path)
	if err == nil && info.IsDir() {
		names, err := uwb.ListCSVFiles(fsys, path)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(stdout, "No *.csv files found in", path)
			return nil
		}
		outDir := uwb.SiblingDir(path, plots.DefaultDir)
		for _, name := range names {
			if err := plotFile(fsys, stdout, filepath.Join(path, name), outDir); err != nil {
				return err
			}
		}
		return nil
	}

	// A single log is plotted into a directory beside it.
	return plotFile(fsys, stdout, path, filepath.Join(filepath.Dir(path), plots.DefaultDir))
}

func plotFile(fsys fsutil.FileSystem, stdout io.Writer, path, outDir string) error {
	name := filepath.Base(path)
	fmt.Fprintf(stdout, "Processing %s ...\n", name)

	f, err := fsys.Open(path)
	if err != nil {
		return err
	}
	samples, err := uwb.ReadSamples(f)
	f.Close()
	if errors.Is(err, uwb.ErrEmptyFile) {
		monitoring.Warnf("Skipping %s: %v", name, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	out, err := plots.SaveTimeSeries(fsys, outDir, name, samples)
	if errors.Is(err, plots.ErrNothingToPlot) {
		monitoring.Warnf("Skipping %s: %v", name, err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "  → saved figure to %s\n", out)
	return nil
}
