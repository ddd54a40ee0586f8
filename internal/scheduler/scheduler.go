// Package scheduler drives the engine from a feed source: flat-out for
// replays, paced by an interval for wall-clock runs, with an optional cron
// job marking daily withdrawal boundaries.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"CrashLadder/internal/engine"
	"CrashLadder/internal/feed"
	"CrashLadder/internal/model"
)

// Runner consumes a source to exhaustion and feeds the engine.
type Runner struct {
	src      feed.Source
	eng      *engine.Engine
	interval time.Duration // >0 paces one outcome per interval
	daily    string        // cron spec for day-boundary withdrawals, "" = off
	cron     *cron.Cron

	mu   sync.Mutex
	last model.Outcome
}

// NewRunner creates a Runner. A non-empty dailySpec registers a cron job
// that requests a withdrawal boundary against the most recent outcome.
func NewRunner(src feed.Source, eng *engine.Engine, interval time.Duration, dailySpec string) (*Runner, error) {
	r := &Runner{src: src, eng: eng, interval: interval, daily: dailySpec}
	if dailySpec != "" {
		r.cron = cron.New(cron.WithSeconds())
		if _, err := r.cron.AddFunc(dailySpec, r.dayBoundary); err != nil {
			return nil, fmt.Errorf("register daily withdrawal: %w", err)
		}
	}
	return r, nil
}

func (r *Runner) dayBoundary() {
	r.mu.Lock()
	o := r.last
	r.mu.Unlock()
	if o.Seq == 0 {
		return
	}
	log.Info().Int64("outcome", o.Seq).Msg("day boundary reached")
	r.eng.RequestBoundary(o)
}

// Run processes outcomes until the source is exhausted, the engine halts,
// or the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if r.cron != nil {
		r.cron.Start()
		defer r.cron.Stop()
	}

	for {
		o, err := r.src.Next()
		if err == io.EOF {
			log.Info().Int64("consumed", r.eng.Consumed()).Msg("feed exhausted")
			return nil
		}
		if err != nil {
			return fmt.Errorf("next outcome: %w", err)
		}

		r.mu.Lock()
		r.last = o
		r.mu.Unlock()

		if err := r.eng.ProcessOutcome(o); err != nil {
			if errors.Is(err, engine.ErrHalted) {
				log.Warn().Int64("consumed", r.eng.Consumed()).Msg("simulation halted")
				return nil
			}
			return err
		}

		if r.interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.interval):
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
