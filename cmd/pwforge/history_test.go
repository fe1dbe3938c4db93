package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/pwforge/internal/database"
	"github.com/nao1215/pwforge/internal/model"
)

// seedHistory stores one completed run in a fresh database directory.
func seedHistory(t *testing.T) (string, *model.RunReport) {
	t.Helper()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	startedAt := time.Now().Add(-time.Hour)
	r := model.NewRunReport(startedAt)
	r.FinishedAt = startedAt.Add(3 * time.Second)
	r.Options = model.RunOptions{Output: "habari.txt", MaxCombos: 50000, MinLength: 8}
	r.Seeds = model.SeedStats{BaseWords: 2, CrawledWords: 40, Total: 42}
	r.Stages = []model.StageStats{
		{Name: "basic_variation", Produced: 126, Accepted: 80, TooShort: 46},
		{Name: "word_merging", Produced: 12000, Accepted: 11990, Duplicates: 10},
	}
	r.Accepted = 12070
	r.Examples = []string{"Jambo_pesa"}

	if err := db.SaveRun(t.Context(), r); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	return dbDir, r
}

func executeHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewHistoryCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	if cmd.Use != "history [run-id]" {
		t.Errorf("unexpected Use: got %q", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("expected non-empty descriptions")
	}

	flag := cmd.Flags().Lookup("limit")
	if flag == nil {
		t.Fatal("expected limit flag")
	}
	if flag.Shorthand != "n" {
		t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
	}
	if flag.DefValue != "20" {
		t.Errorf("expected default 20, got %q", flag.DefValue)
	}
	for _, name := range []string{"report", "stages", "delete", "db-dir"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected flag %q to exist", name)
		}
	}
}

func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("no database yet", func(t *testing.T) {
		t.Parallel()

		out, err := executeHistory(t, "--db-dir", t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No runs recorded yet.") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("lists runs", func(t *testing.T) {
		t.Parallel()

		dbDir, r := seedHistory(t)
		out, err := executeHistory(t, "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{r.ID, "completed", "12,070", "habari.txt", "hour ago"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("shows one run as JSON", func(t *testing.T) {
		t.Parallel()

		dbDir, r := seedHistory(t)
		out, err := executeHistory(t, r.ID, "--db-dir", dbDir, "--report", "json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got struct {
			ID       string `json:"id"`
			Accepted int    `json:"accepted"`
			Produced int    `json:"produced"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", out, err)
		}
		if got.ID != r.ID || got.Accepted != 12070 || got.Produced != 12126 {
			t.Errorf("unexpected report: %+v", got)
		}
	})

	t.Run("stage totals", func(t *testing.T) {
		t.Parallel()

		dbDir, _ := seedHistory(t)
		out, err := executeHistory(t, "--db-dir", dbDir, "--stages")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"basic_variation", "word_merging", "11,990"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("deletes a run", func(t *testing.T) {
		t.Parallel()

		dbDir, r := seedHistory(t)
		if _, err := executeHistory(t, "--db-dir", dbDir, "--delete", r.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := executeHistory(t, r.ID, "--db-dir", dbDir)
		if !errors.Is(err, database.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound after delete, got %v", err)
		}
	})

	t.Run("rejects malformed run ID", func(t *testing.T) {
		t.Parallel()

		_, err := executeHistory(t, "not-a-ulid", "--db-dir", t.TempDir())
		if !errors.Is(err, errInvalidRunID) {
			t.Errorf("expected errInvalidRunID, got %v", err)
		}
	})

	t.Run("rejects unknown report format", func(t *testing.T) {
		t.Parallel()

		dbDir, r := seedHistory(t)
		if _, err := executeHistory(t, r.ID, "--db-dir", dbDir, "--report", "xml"); err == nil {
			t.Error("expected error for unknown report format")
		}
	})
}
