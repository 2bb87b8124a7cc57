// Command saki records business expenses, builds reports and runs
// financial calculations from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"saki/internal/backend"
	"saki/internal/calculator"
	"saki/internal/cli"
	"saki/internal/config"
	"saki/internal/core"
	"saki/internal/log"
	"saki/internal/reports"
	"saki/internal/repository"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch core.KindOf(err) {
	case core.KindValidation, core.KindNotFound:
		return 2
	default:
		return 1
	}
}

type app struct {
	cfg    *config.Config
	logger *log.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	backend *backend.BackendResult
	repo    *repository.Repository
	reports *reports.Builder
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("saki", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", "", "Path to a .env file (default ./.env when present)")
	fs.Usage = func() { usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		usage(stderr, fs)
		return errUsage
	}
	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	if cmd == "help" {
		usage(stdout, fs)
		return nil
	}

	if *envFile != "" {
		cli.LoadEnvFile(*envFile)
	} else {
		cli.LoadEnvFile()
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}

	a := &app{
		cfg:    cfg,
		logger: cli.SetupLogger(cfg, stderr),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}

	// Commands that never touch the store.
	switch cmd {
	case "calc":
		return a.calc(cmdArgs)
	case "info":
		return a.info(cmdArgs)
	case "events":
		return a.events(cmdArgs)
	}

	commands := map[string]func(context.Context, []string) error{
		"add":    a.add,
		"list":   a.list,
		"show":   a.show,
		"update": a.update,
		"delete": a.delete,
		"stats":  a.stats,
		"report": a.report,
		"export": a.export,
		"seed":   a.seed,
	}
	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(stderr, "saki: unknown command %q\n", cmd)
		usage(stderr, fs)
		return errUsage
	}

	ctx := log.NewContext(context.Background(), a.logger)
	if err := a.open(ctx); err != nil {
		return err
	}
	defer a.close()
	return handler(ctx, cmdArgs)
}

func (a *app) open(ctx context.Context) error {
	res, err := cli.InitStore(ctx, a.logger, a.cfg)
	if err != nil {
		return err
	}
	a.backend = res

	opts := []repository.Option{repository.WithLogger(a.logger), repository.WithClock(a.now)}
	if res.Publisher != nil {
		opts = append(opts, repository.WithPublisher(res.Publisher))
	}
	a.repo = repository.New(res.Store, opts...)
	a.reports = reports.NewBuilder(a.repo, res.Store,
		reports.WithLogger(a.logger),
		reports.WithClock(a.now),
		reports.WithCacheSize(a.cfg.SummaryCacheSize),
		reports.WithCacheTTL(a.cfg.SummaryCacheTTL))
	return nil
}

func (a *app) close() {
	if a.backend == nil || a.backend.Cleanup == nil {
		return
	}
	if err := a.backend.Cleanup(); err != nil {
		a.logger.Warn("Cleanup failed", log.FieldError, err)
	}
}

func (a *app) newCalculator() *calculator.Calculator {
	return calculator.New(a.cfg.CalcHistoryLimit)
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, `Usage: saki [-env file] <command> [flags] [args]

Expenses:
  add       record an expense
  list      list expenses (filter by -month, -from/-to, -category, -search)
  show      show one expense
  update    change fields of an expense
  delete    delete an expense
  stats     analytics overview, or -by category|payment breakdown
  seed      generate demo expenses

Reports:
  report create|list|show|delete

Export:
  export csv|text|sheets

Calculator:
  calc vat|tax|discount|markup|margin|breakeven|simple|compound|eval|repl

Other:
  events    print expense events from the AMQP queue until interrupted
  info      show company and storage settings

Global flags:`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
