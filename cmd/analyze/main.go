// Command analyze reduces a directory of UWB ranging logs to a summary table
// and a frequency saturation chart.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/banshee-data/uwb.report/internal/config"
	"github.com/banshee-data/uwb.report/internal/db"
	"github.com/banshee-data/uwb.report/internal/fsutil"
	"github.com/banshee-data/uwb.report/internal/plots"
	"github.com/banshee-data/uwb.report/internal/uwb"
	"github.com/banshee-data/uwb.report/internal/version"
)

// errUsage means the arguments were wrong and usage has been printed.
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(1)
		}
		log.Fatalf("analyze: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("analyze", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to a JSON or YAML config file")
	writeHTML := flags.Bool("html", false, "also write an interactive HTML saturation chart")
	dbPath := flags.String("db", "", "record the run into this sqlite history database")
	history := flags.Bool("history", false, "list runs recorded in -db (or print one run's table) and exit")
	showVersion := flags.Bool("version", false, "print version and exit")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: analyze [flags] <folder_with_csvs>")
		fmt.Fprintln(stderr, "       analyze -db <path> -history [run-id]")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return errUsage
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String("analyze"))
		return nil
	}

	if *history {
		if *dbPath == "" || flags.NArg() > 1 {
			flags.Usage()
			return errUsage
		}
		return printHistory(stdout, *dbPath, flags.Arg(0))
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return errUsage
	}

	cfg := config.Empty()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	pipeline := uwb.NewPipeline(stdout)
	pipeline.SummaryFile = cfg.GetSummaryFile()

	res, err := pipeline.Run(flags.Arg(0))
	if err != nil {
		return err
	}

	if len(res.Table) == 0 {
		fmt.Fprintln(stdout, "No data to plot.")
		return nil
	}

	outDir := uwb.SiblingDir(res.InputDir, cfg.GetPlotsDir())
	pngPath, err := plots.SaveSaturation(pipeline.FS, outDir, cfg.GetSaturationFile(), res.Table)
	if errors.Is(err, plots.ErrNothingToPlot) {
		// Zero or negative rates cannot sit on log axes; the summary stands.
		fmt.Fprintln(stdout, "No data to plot.")
		return recordIfRequested(stdout, *dbPath, res)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Saved Frequency Plot to %s\n", pngPath)

	if *writeHTML {
		htmlPath, err := plots.SaveSaturationHTML(pipeline.FS, outDir, "", res.Table)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Saved interactive chart to %s\n", htmlPath)
	}

	return recordIfRequested(stdout, *dbPath, res)
}

func recordIfRequested(stdout io.Writer, dbPath string, res *uwb.Result) error {
	if dbPath == "" {
		return nil
	}
	return recordRun(stdout, dbPath, res)
}

func recordRun(stdout io.Writer, path string, res *uwb.Result) error {
	history, err := db.NewDB(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()

	r, err := history.RecordRun(res.InputDir, res.SummaryPath, res.Table)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	fmt.Fprintf(stdout, "Recorded run %s (%d files)\n", r.RunID, r.FileCount)
	return nil
}

// printHistory lists recorded runs, or prints the summary table of runID
// when one is given.
func printHistory(stdout io.Writer, path, runID string) error {
	if _, err := (fsutil.OSFileSystem{}).Stat(path); err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	history, err := db.NewDB(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()

	if runID != "" {
		table, err := history.RunReports(runID)
		if err != nil {
			return err
		}
		if len(table) == 0 {
			return fmt.Errorf("no run %q", runID)
		}
		return uwb.WriteSummary(stdout, table)
	}

	runs, err := history.Runs(0)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(stdout, "%s  %s  %3d files  %s\n",
			r.CreatedAt.Local().Format(time.RFC3339), r.RunID, r.FileCount, r.InputDir)
	}
	return nil
}
