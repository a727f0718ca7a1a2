package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Stage is one step of the pipeline. Run reads the sections listed in
// Requires from the state and fills the ones listed in Produces.
type Stage struct {
	Name     string
	Requires []Section
	Produces []Section
	Run      func(ctx context.Context, st *State) error
}

// Timing records how long one stage took.
type Timing struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"duration"`
}

// Runner executes stages in order, checking that every section a stage
// requires was produced by an earlier stage.
type Runner struct {
	stages []Stage
	logger *zap.Logger
}

// NewRunner creates a runner. A nil logger disables logging.
func NewRunner(stages []Stage, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{stages: stages, logger: logger}
}

// Run executes the stages against the state and returns per-stage
// timings. The first stage error aborts the run; timings for completed
// stages are still returned.
func (r *Runner) Run(ctx context.Context, st *State) ([]Timing, error) {
	timings := make([]Timing, 0, len(r.stages))
	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return timings, fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		for _, sec := range stage.Requires {
			if !st.Produced(sec) {
				return timings, fmt.Errorf("stage %s requires %q which no earlier stage produced", stage.Name, sec)
			}
		}

		start := time.Now()
		err := stage.Run(ctx, st)
		elapsed := time.Since(start)
		timings = append(timings, Timing{Stage: stage.Name, Duration: elapsed})
		if err != nil {
			r.logger.Error("stage failed",
				zap.String("stage", stage.Name),
				zap.Duration("duration", elapsed),
				zap.Error(err))
			return timings, fmt.Errorf("stage %s: %w", stage.Name, err)
		}

		for _, sec := range stage.Produces {
			if err := st.markProduced(sec); err != nil {
				return timings, fmt.Errorf("stage %s: %w", stage.Name, err)
			}
		}
		r.logger.Debug("stage done",
			zap.String("stage", stage.Name),
			zap.Duration("duration", elapsed))
	}
	return timings, nil
}
