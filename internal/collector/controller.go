package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/nao1215/pwforge/internal/config"
	"github.com/nao1215/pwforge/internal/model"
	"github.com/nao1215/pwforge/internal/pipeline"
)

// ErrNilWriter is returned by Run when the controller has no output.
var ErrNilWriter = errors.New("collector: no output writer")

// Result summarizes one Run.
type Result struct {
	// Stages holds one entry per stage that started, in pipeline order.
	Stages []model.StageStats

	// Preexisting is the number of lines already in the output.
	Preexisting int

	// Accepted is the number of lines written by this run.
	Accepted int

	// TargetReached is true when the output holds MaxCombos lines.
	TargetReached bool

	// Examples are the first accepted candidates, at most model.MaxExamples.
	Examples []string
}

// Total returns the number of lines in the output after the run.
func (r *Result) Total() int {
	return r.Preexisting + r.Accepted
}

// Controller filters, deduplicates and persists pipeline candidates.
type Controller struct {
	out       LineWriter
	accepted  *AcceptedSet
	maxCombos int
	minLength int
	logger    *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxCombos sets the target line count of the output.
func WithMaxCombos(n int) Option {
	return func(c *Controller) {
		c.maxCombos = n
	}
}

// WithMinLength sets the minimum candidate length in runes.
func WithMinLength(n int) Option {
	return func(c *Controller) {
		c.minLength = n
	}
}

// WithExisting preloads lines already in the output. They are never written
// again and count toward the target.
func WithExisting(lines []string) Option {
	return func(c *Controller) {
		for _, line := range lines {
			c.accepted.Add(line)
		}
	}
}

// WithLogger sets the logger. Candidates are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a Controller writing to out.
func NewController(out LineWriter, opts ...Option) *Controller {
	c := &Controller{
		out:       out,
		accepted:  NewAcceptedSet(),
		maxCombos: config.DefaultMaxCombos,
		minLength: config.DefaultMinLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Run drains the stages of p in order over seeds.
//
// It returns once the target is reached or every stage is exhausted.
// On a write failure or context cancellation it returns the partial result
// together with the error.
func (c *Controller) Run(ctx context.Context, seeds []string, p *pipeline.Pipeline) (*Result, error) {
	result := &Result{Preexisting: c.accepted.Len()}
	if c.out == nil {
		return result, ErrNilWriter
	}

	if c.reached(result) {
		result.TargetReached = true
		c.logger.Info("output already holds the target count",
			"lines", result.Preexisting, "max", c.maxCombos)
		return result, nil
	}

	for _, stage := range p.Stages() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Stages = append(result.Stages, model.StageStats{Name: stage.Name()})
		stats := &result.Stages[len(result.Stages)-1]
		c.logger.Debug("stage started", "stage", stats.Name, "seeds", len(seeds))

		err := c.drain(ctx, stage, seeds, stats, result)
		c.logger.Debug("stage finished",
			"stage", stats.Name,
			"produced", stats.Produced,
			"accepted", stats.Accepted,
			"too_short", stats.TooShort,
			"duplicates", stats.Duplicates,
		)
		if err != nil {
			return result, err
		}
		if result.TargetReached {
			return result, nil
		}
	}

	return result, nil
}

// drain consumes one stage until it is exhausted or the target is reached.
func (c *Controller) drain(ctx context.Context, stage pipeline.Stage, seeds []string, stats *model.StageStats, result *Result) error {
	for candidate := range stage.Candidates(seeds) {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Produced++

		if utf8.RuneCountInString(candidate) < c.minLength {
			stats.TooShort++
			continue
		}
		if c.accepted.Contains(candidate) {
			stats.Duplicates++
			continue
		}

		if err := c.out.WriteLine(candidate); err != nil {
			return fmt.Errorf("stage %s: %w", stats.Name, err)
		}
		c.accepted.Add(candidate)
		stats.Accepted++
		result.Accepted++
		if len(result.Examples) < model.MaxExamples {
			result.Examples = append(result.Examples, candidate)
		}

		if c.reached(result) {
			result.TargetReached = true
			return nil
		}
	}
	return nil
}

func (c *Controller) reached(result *Result) bool {
	return result.Total() >= c.maxCombos
}
