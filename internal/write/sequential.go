package write

import (
	"context"
	"log/slog"
)

// runSequential drives a job with a plain loop over the transition
// function until it reaches a terminal state.
func (s *Service) runSequential(ctx context.Context, r *run) state {
	st := statePreparingTerm
	for !st.terminal() {
		next := s.step(ctx, st, r)
		slog.DebugContext(ctx, "state transition", "job_id", r.job.JobID, "from", st.String(), "to", next.String())
		st = next
	}
	return st
}
