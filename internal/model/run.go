package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// RunStatus is the outcome of a generation run.
type RunStatus string

const (
	// RunCompleted means every stage ran or the target count was reached.
	RunCompleted RunStatus = "completed"

	// RunInterrupted means the run was cancelled by a signal.
	RunInterrupted RunStatus = "interrupted"

	// RunFailed means the run stopped on an error, such as a write failure.
	RunFailed RunStatus = "failed"
)

// MaxExamples is the number of accepted candidates kept as examples.
const MaxExamples = 5

// StageStats counts one transformation stage.
type StageStats struct {
	// Name is the stage name, e.g. "word_merging".
	Name string `json:"name"`

	// Produced is the number of candidates pulled from the stage.
	Produced int `json:"produced"`

	// Accepted is the number written to the output.
	Accepted int `json:"accepted"`

	// TooShort counts candidates rejected by the minimum length.
	TooShort int `json:"too_short"`

	// Duplicates counts candidates already in the output.
	Duplicates int `json:"duplicates"`
}

// Rejected returns the number of candidates the stage produced but the
// output did not take.
func (s StageStats) Rejected() int {
	return s.TooShort + s.Duplicates
}

// RunOptions records the generation settings of a run.
type RunOptions struct {
	Output        string   `json:"output"`
	MaxCombos     int      `json:"max_combos"`
	MinLength     int      `json:"min_length"`
	NoSimilar     bool     `json:"no_similar"`
	CustomSymbols bool     `json:"custom_symbols"`
	Append        bool     `json:"append"`
	URLs          []string `json:"urls,omitempty"`
	CrawlDepth    int      `json:"crawl_depth"`
	Languages     []string `json:"languages,omitempty"`
	SlangWords    int      `json:"slang_words"`
	BreachWords   int      `json:"breach_words"`
}

// SeedStats counts the seed vocabulary of a run.
type SeedStats struct {
	// BaseWords is the number of base words admitted.
	BaseWords int `json:"base_words"`

	// CrawledWords is the number of crawled words admitted.
	CrawledWords int `json:"crawled_words"`

	// Total is the size of the frozen seed set.
	Total int `json:"total"`
}

// RunReport summarizes one generation run.
type RunReport struct {
	// ID is a ULID, so IDs sort by start time.
	ID string `json:"id"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Status RunStatus `json:"status"`

	// Error is the message of the error that ended the run, if any.
	Error string `json:"error,omitempty"`

	Options RunOptions  `json:"options"`
	Seeds   SeedStats   `json:"seeds"`
	Crawl   *CrawlStats `json:"crawl,omitempty"`

	// Stages holds one entry per stage that started, in pipeline order.
	Stages []StageStats `json:"stages"`

	// Preexisting is the number of lines already in the output file.
	Preexisting int `json:"preexisting"`

	// Accepted is the number of lines written by this run.
	Accepted int `json:"accepted"`

	// TargetReached is true when the output holds MaxCombos lines.
	TargetReached bool `json:"target_reached"`

	// Examples are the first accepted candidates.
	Examples []string `json:"examples,omitempty"`
}

// NewRunReport creates a report for a run starting at startedAt.
func NewRunReport(startedAt time.Time) *RunReport {
	return &RunReport{
		ID:        ulid.MustNew(ulid.Timestamp(startedAt), rand.Reader).String(),
		StartedAt: startedAt,
		Status:    RunCompleted,
	}
}

// Duration returns the wall-clock time of the run.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Rate returns accepted candidates per second.
func (r *RunReport) Rate() float64 {
	d := r.Duration().Seconds()
	if d <= 0 {
		return 0
	}
	return float64(r.Accepted) / d
}

// Produced returns the candidates pulled across all stages.
func (r *RunReport) Produced() int {
	n := 0
	for _, s := range r.Stages {
		n += s.Produced
	}
	return n
}

// Total returns the line count of the output after the run.
func (r *RunReport) Total() int {
	return r.Preexisting + r.Accepted
}

// ValidRunID reports whether id is a well-formed run identifier.
func ValidRunID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
