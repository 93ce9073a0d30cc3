package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/rodsim/internal/rod"
	"golang.org/x/sync/errgroup"
)

// Job is one independent simulation. Jobs must not share a Simulator or a
// Rod: force models keep per-call scratch buffers.
type Job struct {
	Name      string
	Simulator *Simulator
	Rod       *rod.Rod
	Config    Config
}

// Ensemble runs jobs concurrently, at most limit at a time (limit <= 0 means
// no limit). The first failing job cancels the rest.
type Ensemble struct {
	jobs  []Job
	limit int
}

func NewEnsemble(limit int, jobs ...Job) *Ensemble {
	return &Ensemble{jobs: jobs, limit: limit}
}

func (e *Ensemble) Add(j Job) { e.jobs = append(e.jobs, j) }

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.jobs))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, job := range e.jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := job.Simulator.Run(ctx, job.Rod, job.Config)
			results[i] = res
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
