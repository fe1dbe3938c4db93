package pipeline

import (
	"iter"
	"slices"
	"testing"

	"github.com/nao1215/pwforge/internal/config"
)

// mockStage is a test helper that implements the Stage interface.
type mockStage struct {
	name  string
	items []string
}

func (m *mockStage) Name() string { return m.name }

func (m *mockStage) Candidates([]string) iter.Seq[string] {
	return slices.Values(m.items)
}

func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates empty pipeline", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StageCount() != 0 {
			t.Errorf("expected 0 stages, got %d", p.StageCount())
		}
	})

	t.Run("keeps stage order", func(t *testing.T) {
		t.Parallel()

		p := New(&mockStage{name: "a"}, &mockStage{name: "b"})
		p.AddStage(&mockStage{name: "c"})
		p.AddStages(&mockStage{name: "d"}, &mockStage{name: "e"})

		want := []string{"a", "b", "c", "d", "e"}
		if got := p.StageNames(); !slices.Equal(got, want) {
			t.Errorf("StageNames() = %v, want %v", got, want)
		}
	})

	t.Run("Stages returns a copy", func(t *testing.T) {
		t.Parallel()

		p := New(&mockStage{name: "a"})
		stages := p.Stages()
		stages[0] = &mockStage{name: "changed"}
		if p.StageNames()[0] != "a" {
			t.Error("modifying Stages() result changed the pipeline")
		}
	})
}

func TestDefault(t *testing.T) {
	t.Parallel()

	t.Run("stage order", func(t *testing.T) {
		t.Parallel()

		p := Default(config.NewConfig(), nil)
		want := []string{StageBasicVariation, StageWordMerging, StageNumberMixing, StageAdvancedPatterns}
		if got := p.StageNames(); !slices.Equal(got, want) {
			t.Errorf("StageNames() = %v, want %v", got, want)
		}
	})

	t.Run("default separators for merging", func(t *testing.T) {
		t.Parallel()

		p := Default(config.NewConfig(), fixedRand{})
		got := slices.Collect(p.Stages()[1].Candidates([]string{"jambo", "pesa"}))
		for _, want := range []string{"Jambo_pesa", "Jambopesa"} {
			if !slices.Contains(got, want) {
				t.Errorf("expected %q in %v", want, got)
			}
		}
	})

	t.Run("custom symbols replace separators and symbols", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Symbols = []string{"~"}
		p := Default(cfg, fixedRand{})
		stages := p.Stages()

		merged := slices.Collect(stages[1].Candidates([]string{"jambo", "pesa"}))
		if !slices.Equal(merged, []string{"Jambo~pesa", "Pesa~jambo"}) {
			t.Errorf("merged = %v", merged)
		}

		advanced := slices.Collect(stages[3].Candidates([]string{"pesa"}))
		if advanced[2] != "~pesa~" {
			t.Errorf("expected ~pesa~, got %q", advanced[2])
		}
	})

	t.Run("no similar only in first two stages", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.NoSimilar = true
		p := Default(cfg, fixedRand{})
		stages := p.Stages()

		basic := slices.Collect(stages[0].Candidates([]string{"simba"}))
		if basic[0] != "$1mba" {
			t.Errorf("expected $1mba, got %q", basic[0])
		}
		numbers := slices.Collect(stages[2].Candidates([]string{"simba"}))
		if !slices.Contains(numbers, "simba123") {
			t.Errorf("number mixing must not substitute, got %v", numbers)
		}
	})
}
