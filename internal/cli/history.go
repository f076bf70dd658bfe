package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rocktower/pkg/history"
)

// defaultHistoryLimit is how many runs "history list" shows.
const defaultHistoryLimit = 20

// historyCommand creates the history command. Without a subcommand it lists
// the most recent runs.
func (c *CLI) historyCommand() *cobra.Command {
	list := c.historyListCommand()

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded runs",
		Args:  cobra.NoArgs,
		RunE:  list.RunE,
	}
	cmd.Flags().AddFlagSet(list.Flags())

	cmd.AddCommand(list)
	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyClearCommand())

	return cmd
}

// openHistory opens the configured history store.
func (c *CLI) openHistory(ctx context.Context) (history.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return c.newHistory(ctx, cfg)
}

// historyListCommand creates the "history list" subcommand.
func (c *CLI) historyListCommand() *cobra.Command {
	var (
		limit       int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent runs, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No runs recorded yet")
				return nil
			}

			if !interactive {
				fmt.Fprintln(cmd.OutOrStdout(), renderRunTable(runs))
				return nil
			}

			model, err := tea.NewProgram(NewRunListModel(runs), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("run picker: %w", err)
			}
			if sel := model.(RunListModel).Selected; sel != nil {
				printRun(cmd.OutOrStdout(), sel)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", defaultHistoryLimit, "maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a run interactively")

	return cmd
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			printRun(cmd.OutOrStdout(), run)
			return nil
		},
	}
}

// historyClearCommand creates the "history clear" subcommand.
func (c *CLI) historyClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Clear(ctx)
			if err != nil {
				return err
			}
			printSuccess("Deleted %d runs", count)
			if fs, ok := store.(*history.FileStore); ok {
				printDetail("Directory: %s", fs.Path())
			}
			return nil
		},
	}
}

// =============================================================================
// Rendering
// =============================================================================

// renderRunTable renders runs as a bordered table.
func renderRunTable(runs []*history.Run) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = runRow(r)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(runHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return cellStyle.Foreground(colorDim)
			case col == 4:
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle
		}).
		Render()
}

var runHeaders = []string{"ID", "When", "Rocks", "Mode", "Height", "Cycle", "Source"}

// runRow formats the table cells for one run.
func runRow(r *history.Run) []string {
	cycle := "—"
	if r.Cycle != nil {
		cycle = fmt.Sprintf("%d/+%d", r.Cycle.Period, r.Cycle.Gain)
	}
	source := r.Source
	if r.Cached {
		source += " (" + labelCached + ")"
	}
	return []string{
		r.ID,
		formatRelativeTime(r.CreatedAt),
		formatCount(r.Rocks),
		r.Mode,
		formatCount(r.Height),
		cycle,
		source,
	}
}

// printRun prints every recorded field of a run.
func printRun(w io.Writer, r *history.Run) {
	line := func(key, value string) { printKeyValue(w, key, value) }

	fmt.Fprintln(w, StyleTitle.Render("Run "+r.ID))
	line("Created", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	line("Source", r.Source)
	line("Pattern", fmt.Sprintf("%s (%d jets)", shortHash(r.PatternHash), r.PatternLength))
	line("Rocks", formatCount(r.Rocks))
	line("Mode", r.Mode)
	if r.SurfaceDepth > 0 {
		line("Depth", fmt.Sprintf("%d rows", r.SurfaceDepth))
	}
	line("Height", StyleNumber.Render(formatCount(r.Height)))
	line("Simulated", formatCount(r.Simulated))
	if c := r.Cycle; c != nil {
		line("Cycle", fmt.Sprintf("start %d, period %d, gain %d", c.Start, c.Period, c.Gain))
	}
	line("Cached", fmt.Sprintf("%t", r.Cached))
	line("Duration", r.Duration.String())
}

// shortHash returns the first 12 characters of a content hash.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
