package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nao1215/pwforge/internal/config"
	"github.com/nao1215/pwforge/internal/database"
	"github.com/nao1215/pwforge/internal/model"
	"github.com/nao1215/pwforge/internal/report"
)

// defaultHistoryLimit is the number of runs listed without --limit.
const defaultHistoryLimit = 20

// errInvalidRunID is returned for an argument that is not a run ULID.
var errInvalidRunID = errors.New("invalid run ID")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List past generation runs or show one run's report",
		Long: `History reads the run database written by 'pwforge generate'.

Without arguments it lists the most recent runs. With a run ID it renders
that run's stored report again.

Examples:
  # List the 20 most recent runs
  pwforge history

  # List every run
  pwforge history -n 0

  # Show one run as Markdown
  pwforge history 01JQ3Z8K5M4N6P7R8S9T0V1W2X --report markdown

  # Accepted candidates per stage over all runs
  pwforge history --stages

  # Remove a run
  pwforge history --delete 01JQ3Z8K5M4N6P7R8S9T0V1W2X`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Number of runs to list (0 lists all)")
	cmd.Flags().String("report", config.ReportText,
		"Report format for a single run: text, json or markdown")
	cmd.Flags().Bool("stages", false,
		"Show per-stage totals over all stored runs")
	cmd.Flags().String("delete", "",
		"Delete the run with this ID")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	format, err := flags.GetString("report")
	if err != nil {
		return err
	}
	stages, err := flags.GetBool("stages")
	if err != nil {
		return err
	}
	deleteID, err := flags.GetString("delete")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	// Validate before opening so a bad argument never creates a database.
	var runID string
	if len(args) == 1 {
		runID = args[0]
		if !model.ValidRunID(runID) {
			return fmt.Errorf("%w: %q", errInvalidRunID, runID)
		}
	}
	if deleteID != "" && !model.ValidRunID(deleteID) {
		return fmt.Errorf("%w: %q", errInvalidRunID, deleteID)
	}

	out := cmd.OutOrStdout()
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); os.IsNotExist(err) {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	switch {
	case deleteID != "":
		if err := db.DeleteRun(ctx, deleteID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted run %s\n", deleteID)
		return nil

	case runID != "":
		r, err := db.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		w, err := report.NewWriter(format, out)
		if err != nil {
			return err
		}
		_, err = w.Write(r)
		return err

	case stages:
		totals, err := db.StageTotals(ctx)
		if err != nil {
			return err
		}
		return writeStageTotals(out, totals)

	default:
		runs, err := db.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		return writeRunList(out, runs, time.Now())
	}
}

func writeRunList(out io.Writer, runs []database.RunSummary, now time.Time) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No runs recorded yet.")
		return err
	}

	table := tablewriter.NewWriter(out)
	table.Header("Run ID", "Started", "Status", "Seeds", "Written", "Target", "Output")
	for _, r := range runs {
		if err := table.Append([]string{
			r.ID,
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			string(r.Status),
			humanize.Comma(int64(r.SeedCount)),
			humanize.Comma(int64(r.Accepted)),
			yesNo(r.TargetReached),
			r.Output,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func writeStageTotals(out io.Writer, totals []model.StageStats) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(out, "No stage statistics recorded yet.")
		return err
	}

	table := tablewriter.NewWriter(out)
	table.Header("Stage", "Produced", "Accepted", "Too short", "Duplicates")
	for _, s := range totals {
		if err := table.Append([]string{
			s.Name,
			humanize.Comma(int64(s.Produced)),
			humanize.Comma(int64(s.Accepted)),
			humanize.Comma(int64(s.TooShort)),
			humanize.Comma(int64(s.Duplicates)),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
