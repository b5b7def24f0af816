package main

import (
	"errors"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rootfind/batch"
	"github.com/zephyrtronium/rootfind/config"
	"github.com/zephyrtronium/rootfind/report"
	"github.com/zephyrtronium/rootfind/solve"
)

var runFlags struct {
	trace, summary, db string
	prec               uint
	tol                float64
	maxIter            int
	quiet, verbose     bool
}

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a batch of root-finding jobs",
	Long: `Run reads a batch file, or standard input if the file is -, and runs each
job. Iterations are written to the trace file, final results to the summary
file and, if a database is configured, to SQLite. Failing lines are reported
and the batch continues.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

// addRunFlags defines the flags of the run command on c.
func addRunFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&runFlags.trace, "trace", "", "iteration table file (default from config)")
	f.StringVar(&runFlags.summary, "summary", "", "result table file (default from config)")
	f.StringVar(&runFlags.db, "db", "", "SQLite database recording the run")
	f.UintVar(&runFlags.prec, "prec", 0, "bits of precision for the final residual (0 for float64)")
	f.Float64Var(&runFlags.tol, "tol", 0, "default tolerance")
	f.IntVar(&runFlags.maxIter, "max-iter", 0, "default iteration limit")
	f.BoolVarP(&runFlags.quiet, "quiet", "q", false, "don't print the console report")
	f.BoolVarP(&runFlags.verbose, "verbose", "v", false, "print every iteration on the console")
}

// applyRunFlags overrides configuration with the flags the user set.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("trace") {
		cfg.TraceFile = runFlags.trace
	}
	if f.Changed("summary") {
		cfg.SummaryFile = runFlags.summary
	}
	if f.Changed("db") {
		cfg.Database = runFlags.db
	}
	if f.Changed("prec") {
		cfg.Precision = runFlags.prec
	}
	if f.Changed("tol") {
		cfg.Defaults.Tolerance = runFlags.tol
	}
	if f.Changed("max-iter") {
		cfg.Defaults.MaxIterations = runFlags.maxIter
	}
	if f.Changed("quiet") {
		cfg.Quiet = runFlags.quiet
	}
	if f.Changed("verbose") {
		cfg.Verbose = runFlags.verbose
	}
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if cfg.Input != "-" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	sink, db, err := openSinks(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sink.Close())
	}()

	r := batch.Runner{
		Defaults: solve.Solver{Tol: cfg.Defaults.Tolerance, MaxIter: cfg.Defaults.MaxIterations},
		Prec:     cfg.Precision,
		Sink:     sink,
		Log:      log.Default(),
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	st, err := r.Run(ctx, in)
	log.Print(st)
	if db != nil {
		log.Printf("run %s recorded in %s", db.RunID(), cfg.Database)
	}
	return err
}

// openSinks opens every sink the configuration asks for.
func openSinks(stdout io.Writer, cfg *config.Config) (report.Sink, *report.SQLite, error) {
	var sinks []report.Sink
	fail := func(err error) (report.Sink, *report.SQLite, error) {
		return nil, nil, errors.Join(err, report.Multi(sinks...).Close())
	}
	tr, err := report.CreateTrace(cfg.TraceFile)
	if err != nil {
		return fail(err)
	}
	sinks = append(sinks, tr)
	sm, err := report.CreateSummary(cfg.SummaryFile)
	if err != nil {
		return fail(err)
	}
	sinks = append(sinks, sm)
	var db *report.SQLite
	if cfg.Database != "" {
		db, err = report.OpenSQLite(cfg.Database)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, db)
	}
	if !cfg.Quiet {
		sinks = append(sinks, report.NewConsole(stdout, cfg.Verbose))
	}
	return report.Multi(sinks...), db, nil
}
