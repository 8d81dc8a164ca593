// Command mmapscan times how long it takes to read every byte of a
// memory-mapped file under a chosen prefetch policy.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/alecthomas/units"

	"github.com/hupe1980/mmapscan"
)

type flags struct {
	cfg       mmapscan.Config
	block     units.Base2Bytes
	policy    string
	access    string
	verify    bool
	faults    bool
	residency bool
	progress  time.Duration
	logLevel  string
	logFormat string
}

func newApp(f *flags) *kingpin.Application {
	app := kingpin.New("mmapscan", "Sum every byte of a memory-mapped file and report how long the scan took.")
	app.HelpFlag.Short('h')

	app.Arg("file", "File to scan.").Required().StringVar(&f.cfg.Path)
	app.Flag("parallel", "Scan with a pool of workers instead of a single goroutine.").BoolVar(&f.cfg.Parallel)
	app.Flag("early-advise", "Issue MADV_WILLNEED over the whole file right after mapping it.").BoolVar(&f.cfg.EarlyAdvise)
	app.Flag("block", "Block size, e.g. 4KiB or 1MiB.").Default("4KiB").BytesVar(&f.block)
	app.Flag("mode", "Per-block prefetch policy: none, advise or shadow (0, 1, 2).").
		Default("none").EnumVar(&f.policy, "none", "advise", "madvise", "shadow", "mmap", "0", "1", "2")
	app.Flag("access", "madvise hint for the whole mapping: normal, sequential or random.").
		Default("normal").EnumVar(&f.access, "normal", "sequential", "random")
	app.Flag("max-workers", "Upper bound on parallel workers.").Default(fmt.Sprint(mmapscan.DefaultMaxWorkers)).IntVar(&f.cfg.MaxWorkers)
	app.Flag("verify", "Fail unless every block was processed exactly once.").BoolVar(&f.verify)
	app.Flag("faults", "Report page faults taken during the scan.").BoolVar(&f.faults)
	app.Flag("residency", "Report page-cache residency before and after the scan.").BoolVar(&f.residency)
	app.Flag("progress", "Log progress at most once per interval (0 disables).").Default("0s").DurationVar(&f.progress)
	app.Flag("log.level", "Log level: debug, info, warn or error.").Default("info").EnumVar(&f.logLevel, "debug", "info", "warn", "error")
	app.Flag("log.format", "Log format: text or json.").Default("text").EnumVar(&f.logFormat, "text", "json")

	return app
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var f flags
	app := newApp(&f)
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	if _, err := app.Parse(args); err != nil {
		app.Errorf("%s, try --help", err)
		return 2
	}

	logger, err := newLogger(stderr, f.logLevel, f.logFormat)
	if err != nil {
		app.Errorf("%s", err)
		return 2
	}

	cfg := f.cfg
	cfg.BlockSize = int(f.block)
	if cfg.Policy, err = mmapscan.ParsePolicy(f.policy); err != nil {
		app.Errorf("%s", err)
		return 2
	}
	if cfg.Access, err = mmapscan.ParseAccessPattern(f.access); err != nil {
		app.Errorf("%s", err)
		return 2
	}

	opts := []mmapscan.Option{
		mmapscan.WithLogger(logger),
		mmapscan.WithProgress(f.progress),
	}
	if f.verify {
		opts = append(opts, mmapscan.WithCoverageCheck())
	}
	if f.faults {
		opts = append(opts, mmapscan.WithFaultCounters())
	}
	if f.residency {
		opts = append(opts, mmapscan.WithResidency())
	}

	if cfg.Parallel {
		logger.InfoContext(ctx, "worker pool configured", "max_workers", cfg.MaxWorkers)
	}
	logger.InfoContext(ctx, "finding byte sum of file", "path", cfg.Path)

	report, err := mmapscan.Run(ctx, cfg, opts...)
	if err != nil {
		return 1
	}

	fmt.Fprintf(stdout, "%s\n\n", report)
	logger.InfoContext(ctx, report.Summary())
	return 0
}

func newLogger(w io.Writer, level, format string) (*mmapscan.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return mmapscan.NewLogger(slog.NewJSONHandler(w, hopts)), nil
	}
	return mmapscan.NewLogger(slog.NewTextHandler(w, hopts)), nil
}
