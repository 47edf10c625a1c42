package domain

import "time"

// HarvestResult summarises one run over a single source.
type HarvestResult struct {
	RunID      string     `json:"runId"`
	Source     string     `json:"source"`
	Features   []*Feature `json:"-"`
	Accepted   int        `json:"accepted"`
	Rejected   int        `json:"rejected"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt"`
	Error      string     `json:"error,omitempty"`
}

// Duration is the wall time the run took.
func (r HarvestResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
