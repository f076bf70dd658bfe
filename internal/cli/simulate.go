package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rocktower/pkg/errors"
	"github.com/matzehuels/rocktower/pkg/pipeline"
)

// simulateOpts holds the command-line flags for the simulate command.
type simulateOpts struct {
	pattern      string // jet pattern given inline
	rocks        int64  // number of rocks to drop
	exact        bool   // simulate every rock instead of extrapolating
	surfaceDepth int    // silhouette depth for cycle detection
	noCache      bool   // disable the result cache
	refresh      bool   // recompute and overwrite the cached height
	json         bool   // print the result as JSON
}

// simulateCommand creates the simulate command.
func (c *CLI) simulateCommand() *cobra.Command {
	var opts simulateOpts

	cmd := &cobra.Command{
		Use:   "simulate [file]",
		Short: "Compute the tower height for a jet pattern",
		Long: `Compute the height of the tower after the given number of rocks.

The jet pattern is read from --pattern, from the first line of file, or from
standard input. Characters other than '<' and '>' are ignored.`,
		Example: `  rocktower simulate input.txt
  rocktower simulate -n 1000000000000 input.txt
  echo '>>><<><>><<<>><>>><<<>>><<<><<<>><>><<>>' | rocktower simulate --exact`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.pattern, "pattern", "p", "", "jet pattern (instead of a file)")
	cmd.Flags().Int64VarP(&opts.rocks, "rocks", "n", 0, "number of rocks (default from config, 2022)")
	cmd.Flags().BoolVar(&opts.exact, "exact", false, "simulate every rock instead of extrapolating")
	cmd.Flags().IntVar(&opts.surfaceDepth, "surface-depth", 0, "rows of surface used for cycle detection (default from config, 64)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if the height is cached")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) runSimulate(cmd *cobra.Command, args []string, opts simulateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	pattern, source, err := readPattern(cmd.InOrStdin(), args, opts.pattern)
	if err != nil {
		return err
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	popts := pipeline.Options{
		Pattern:      pattern,
		Rocks:        cfg.Simulation.Rocks,
		Mode:         cfg.Simulation.Mode,
		SurfaceDepth: cfg.Simulation.SurfaceDepth,
		Refresh:      opts.refresh,
		Source:       source,
		Logger:       logger,
	}
	if opts.rocks != 0 {
		popts.Rocks = opts.rocks
	}
	if opts.exact {
		popts.Mode = pipeline.ModeExact
	}
	if opts.surfaceDepth != 0 {
		popts.SurfaceDepth = opts.surfaceDepth
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.json {
		res, err := runner.Execute(ctx, popts)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Dropping %s rocks...", formatCount(popts.Rocks)))
	spinner.Start()
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.Stop()
	prog.done("Simulated %d of %d rocks", res.Simulated, res.Rocks)

	printResult(res)
	if res.RunID != "" {
		fmt.Fprintln(stdout)
		printNextStep("Show this run", appName+" history show "+res.RunID)
	}
	return nil
}

// readPattern returns the jet pattern and a label for where it came from.
// An inline pattern wins over a file; with neither, stdin is read.
func readPattern(stdin io.Reader, args []string, inline string) (pattern, source string, err error) {
	switch {
	case inline != "":
		if len(args) > 0 {
			return "", "", errors.New(errors.ErrCodeInvalidInput, "use either --pattern or a file, not both")
		}
		return inline, "inline", nil
	case len(args) == 1 && args[0] != "-":
		data, err := os.ReadFile(args[0])
		if os.IsNotExist(err) {
			return "", "", errors.New(errors.ErrCodeFileNotFound, "file %s not found", args[0])
		}
		if err != nil {
			return "", "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", args[0])
		}
		return firstLine(string(data)), args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
	}
	return firstLine(string(data)), "stdin", nil
}

// firstLine returns s up to the first line break. Pattern files hold a
// single line followed by a newline.
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
