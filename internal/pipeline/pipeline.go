package pipeline

import (
	"github.com/nao1215/pwforge/internal/config"
)

// Pipeline is an ordered list of stages.
// The consumer drains stages in the order they were added.
type Pipeline struct {
	stages []Stage
}

// New creates a Pipeline running stages in the given order.
func New(stages ...Stage) *Pipeline {
	p := &Pipeline{stages: make([]Stage, 0, len(stages))}
	p.AddStages(stages...)
	return p
}

// Default creates the four-stage pipeline described by cfg.
// A nil rng uses DefaultRand.
func Default(cfg *config.Config, rng Rand) *Pipeline {
	if rng == nil {
		rng = DefaultRand()
	}
	return New(
		NewBasicVariation(cfg.NoSimilar),
		NewWordMerging(cfg.Separators(), cfg.NoSimilar),
		NewNumberMixing(config.NumericPatterns(), cfg.SymbolAlphabet(), rng),
		NewAdvancedPatterns(cfg.SymbolAlphabet(), rng),
	)
}

// AddStage appends a stage to the pipeline.
func (p *Pipeline) AddStage(stage Stage) {
	p.stages = append(p.stages, stage)
}

// AddStages appends multiple stages to the pipeline.
func (p *Pipeline) AddStages(stages ...Stage) {
	p.stages = append(p.stages, stages...)
}

// Stages returns the stages in execution order.
func (p *Pipeline) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// StageCount returns the number of stages in the pipeline.
func (p *Pipeline) StageCount() int {
	return len(p.stages)
}

// StageNames returns the names of all stages in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Name()
	}
	return names
}
