// Command logger records "timestamp,distance" lines streamed by a UWB board
// over USB serial into CSV logs named after the experiment setup.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/banshee-data/uwb.report/internal/collector"
	"github.com/banshee-data/uwb.report/internal/config"
	"github.com/banshee-data/uwb.report/internal/fsutil"
	"github.com/banshee-data/uwb.report/internal/monitoring"
	"github.com/banshee-data/uwb.report/internal/security"
	"github.com/banshee-data/uwb.report/internal/serialmux"
	"github.com/banshee-data/uwb.report/internal/version"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, serialmux.OpenPort); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(1)
		}
		log.Fatalf("logger: %v", err)
	}
}

// logger runs collection sessions against one configured port.
type logger struct {
	cfg  config.CollectorConfig
	open serialmux.Opener
	fs   fsutil.FileSystem
	in   *bufio.Reader
	out  io.Writer

	// name skips the filename prompt and the "another experiment" loop.
	name string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, open serialmux.Opener) error {
	flags := flag.NewFlagSet("logger", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to a JSON or YAML config file")
	envFile := flags.String("env", config.DefaultEnvFile, "dotenv file with UWB_* overrides")
	port := flags.String("port", config.DefaultSerialPort, "serial port the board is attached to")
	baud := flags.Int("baud", serialmux.DefaultBaudRate, "serial baud rate")
	samples := flags.Int("samples", collector.DefaultSampleCount, "samples to collect per experiment")
	outDir := flags.String("out", ".", "directory the CSV logs are written to")
	name := flags.String("name", "", "experiment name (e.g. 1m_10Hz); skips the prompt and runs once")
	showVersion := flags.Bool("version", false, "print version and exit")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: logger [flags]")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	if flags.NArg() != 0 {
		flags.Usage()
		return errUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, version.String("logger"))
		return nil
	}

	cfg := config.Empty()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	lookup, err := config.EnvLookup(*envFile)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	// Flags given explicitly win over file and environment.
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.SerialPort = port
		case "baud":
			cfg.BaudRate = baud
		case "samples":
			cfg.SampleCount = samples
		case "out":
			cfg.OutputDir = outDir
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	cc, err := cfg.CollectorConfig()
	if err != nil {
		return err
	}

	l := &logger{
		cfg:  cc,
		open: open,
		fs:   fsutil.OSFileSystem{},
		in:   bufio.NewReader(stdin),
		out:  stdout,
		name: *name,
	}
	return l.loop()
}

// loop runs sessions until the operator declines another one.
func (l *logger) loop() error {
	for {
		again, err := l.session()
		if err != nil || !again || l.name != "" {
			return err
		}

		fmt.Fprint(l.out, "\nDo another experiment? (y/n): ")
		answer, _ := l.in.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			return nil
		}
	}
}

func (l *logger) prompt(text string) (string, bool) {
	fmt.Fprint(l.out, text)
	line, err := l.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// session runs one experiment. It reports false when the logger should stop
// without asking for another experiment.
func (l *logger) session() (bool, error) {
	port, err := l.open(l.cfg.Port, l.cfg.Options)
	if err != nil {
		fmt.Fprintf(l.out, "Error connecting to port: %v\n", err)
		return false, nil
	}
	mux := serialmux.NewSerialMux(port)
	defer mux.Close()
	fmt.Fprintf(l.out, "Connected to %s (%s)\n", l.cfg.Port, l.cfg.Options)

	input := l.name
	if input == "" {
		var ok bool
		if input, ok = l.prompt("Enter filename (e.g., 1m_10Hz): "); !ok {
			return false, nil
		}
	}
	if err := l.fs.MkdirAll(l.cfg.OutputDir, 0755); err != nil {
		return false, fmt.Errorf("create output dir: %w", err)
	}
	path, err := security.ExperimentPath(l.cfg.OutputDir, input)
	if err != nil {
		fmt.Fprintf(l.out, "Invalid filename %q: %v\n", input, err)
		return true, nil
	}

	fmt.Fprintf(l.out, "Starting collection... Target: %d samples.\n", l.cfg.SampleCount)
	fmt.Fprintf(l.out, "Saving to: %s\n", path)
	fmt.Fprintln(l.out, "Waiting for data stream...")

	id, lines := mux.Subscribe()
	defer mux.Unsubscribe(id)

	// Drop whatever the board sent before the operator was ready.
	if err := mux.ResetInput(); err != nil {
		monitoring.Warnf("failed to reset input buffer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	monCtx, cancelMonitor := context.WithCancel(ctx)
	monitorDone := make(chan error, 1)
	go func() {
		monitorDone <- mux.Monitor(monCtx)
	}()

	res := collector.NewSession(l.cfg.Session(), l.out).Collect(ctx, lines)

	cancelMonitor()
	mux.Close()
	if err := <-monitorDone; err != nil && res.Reason == collector.StopPortClosed {
		monitoring.Warnf("serial read failed: %v", err)
	}

	if err := collector.SaveCSV(l.fs, path, res.Samples); err != nil {
		return false, err
	}
	fmt.Fprintf(l.out, "\nDONE! Saved %d samples to:\n%s\n", len(res.Samples), path)
	fmt.Fprintf(l.out, "Elapsed %s, effective rate %.2f Hz (%s, %d lines rejected)\n",
		res.Elapsed.Round(time.Millisecond), res.Rate(), res.Reason, res.Rejected)
	return true, nil
}
