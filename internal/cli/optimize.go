package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"ashlar/internal/ast"
	"ashlar/internal/config"
	"ashlar/internal/dialect"
	"ashlar/internal/errors"
	"ashlar/internal/optimizer"
	"ashlar/internal/parser"
	"ashlar/internal/semantic"
)

// OptimizeOptions holds flags for the optimize command. Flag values override
// whatever the config file sets.
type OptimizeOptions struct {
	*RootOptions
	Backend  string
	Sequence string
	Debug    string
	Runs     uint64
	NoStack  bool
	Reserved []string
	Output   string
}

// NewOptimizeCommand creates the optimize command.
func NewOptimizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OptimizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "optimize <file>",
		Short: "Optimize an IR file",
		Long: `Parse, analyze and optimize an IR file, printing the result.

Example:
  ashlar-opt optimize contract.air
  ashlar-opt optimize --sequence "fgo xarr u" --debug steps contract.air`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Backend, "backend", "", `target backend: "evm" or "wasm"`)
	cmd.Flags().StringVar(&opts.Sequence, "sequence", "", "custom step sequence")
	cmd.Flags().StringVar(&opts.Debug, "debug", "", `trace output: "steps" or "changes"`)
	cmd.Flags().Uint64Var(&opts.Runs, "runs", 0, "expected executions per deployment for the gas model")
	cmd.Flags().BoolVar(&opts.NoStack, "no-stack-tuning", false, "skip the stack compression phase")
	cmd.Flags().StringSliceVar(&opts.Reserved, "reserved", nil, "identifiers the optimizer must preserve")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the result to a file instead of stdout")

	return cmd
}

func runOptimize(opts *OptimizeOptions, cmd *cobra.Command, path string) error {
	log := commonlog.GetLogger("ashlar.cli")
	start := time.Now()

	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	block, err := parser.ParseSource(path, string(source))
	if err != nil {
		color.Red("Parsing failed after %s", formatDuration(time.Since(start)))
		return err
	}

	d, meter, err := backendFor(settings)
	if err != nil {
		return err
	}

	analyzer := semantic.NewAnalyzer(d)
	if errs := analyzer.Analyze(block); len(errs) > 0 {
		reporter := errors.NewErrorReporter(path)
		fmt.Fprint(cmd.ErrOrStderr(), reporter.FormatAll(errs))
		color.Red("Analysis failed after %s", formatDuration(time.Since(start)))
		return fmt.Errorf("%d semantic errors", len(errs))
	}

	log.Infof("optimizing %s for %s", path, d.Backend)

	object := &optimizer.Object{Name: path, Code: block}
	err = optimizer.Run(
		d,
		meter,
		object,
		settings.StackAllocation(),
		settings.ReservedIdentifiers,
		settings.Sequence,
		debugMode(settings.Debug),
	)
	if err != nil {
		color.Red("Optimization failed after %s", formatDuration(time.Since(start)))
		return err
	}

	result := ast.Print(object.Code)
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(result+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", opts.Output, err)
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), result)
	}

	color.Green("Optimized %s in %s", path, formatDuration(time.Since(start)))
	return nil
}

// loadSettings layers command-line flags over the config file, over the
// defaults.
func loadSettings(opts *OptimizeOptions) (config.Settings, error) {
	settings := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return settings, err
		}
		settings = loaded
	}
	if opts.Backend != "" {
		settings.Backend = opts.Backend
	}
	if opts.Sequence != "" {
		seq := opts.Sequence
		settings.Sequence = &seq
	}
	if opts.Debug != "" {
		settings.Debug = opts.Debug
	}
	if opts.Runs != 0 {
		settings.ExpectedRuns = opts.Runs
	}
	if opts.NoStack {
		off := false
		settings.OptimizeStackAllocation = &off
	}
	settings.ReservedIdentifiers = append(settings.ReservedIdentifiers, opts.Reserved...)
	return settings, settings.Validate()
}

func backendFor(settings config.Settings) (*dialect.Dialect, dialect.GasMeter, error) {
	switch settings.Backend {
	case "evm":
		return dialect.EVM(), dialect.NewEVMGasMeter(settings.ExpectedRuns), nil
	case "wasm":
		return dialect.Wasm(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", settings.Backend)
	}
}

func debugMode(mode string) optimizer.Debug {
	switch mode {
	case "steps":
		return optimizer.DebugPrintStep
	case "changes":
		return optimizer.DebugPrintChanges
	default:
		return optimizer.DebugNone
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
