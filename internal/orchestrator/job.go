package orchestrator

import (
	"context"

	"github.com/rs/zerolog"

	"hiqsync/internal/runledger"
)

// SyncJob adapts an Orchestrator into a schedule.Job, the way aristath's
// cash_flows/jobs.SyncJob wraps a repository+processor set for its own
// scheduler. Each run is recorded in the run ledger when one is configured.
type SyncJob struct {
	orch      *Orchestrator
	ledger    *runledger.Ledger // nil disables audit recording
	destKind  string
	skipBasic bool
	log       zerolog.Logger
}

// NewSyncJob builds a scheduled job that runs one full sync pass. ledger may
// be nil, in which case runs are not recorded.
func NewSyncJob(orch *Orchestrator, ledger *runledger.Ledger, destKind string, skipBasic bool, log zerolog.Logger) *SyncJob {
	return &SyncJob{orch: orch, ledger: ledger, destKind: destKind, skipBasic: skipBasic, log: log}
}

// Name identifies this job in scheduler logs.
func (j *SyncJob) Name() string { return "sync" }

// Run executes one orchestrator pass, recording its outcome in the ledger
// when one is configured.
func (j *SyncJob) Run(ctx context.Context) error {
	var run *runledger.SyncRun
	if j.ledger != nil {
		r, err := j.ledger.StartRun(ctx, j.destKind, j.skipBasic)
		if err != nil {
			j.log.Error().Err(err).Msg("failed to record run start")
		} else {
			run = r
		}
	}

	runErr := j.orch.Run(ctx, j.skipBasic)

	if j.ledger != nil && run != nil {
		if err := j.ledger.FinishRun(ctx, run, j.orch.SyncerCount(), runErr); err != nil {
			j.log.Error().Err(err).Msg("failed to record run outcome")
		}
	}

	return runErr
}
