package cron

import (
	"context"
	"time"

	"github.com/inkquest-lab/backend/internal/domain/claimbatch"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

// ClaimBatchCronJob ticks the batch processor. A run that keeps failing on
// infrastructure is retried a few times with fixed backoff, then given up
// until the next tick. Unresolved requests stay in the processing list and
// are picked up again.
type ClaimBatchCronJob struct {
	processor *claimbatch.Processor
	interval  time.Duration
}

func NewClaimBatchCronJob(ctx context.Context, processor *claimbatch.Processor) *ClaimBatchCronJob {
	return &ClaimBatchCronJob{
		processor: processor,
		interval:  xcontext.Configs(ctx).Processor.Interval,
	}
}

func (job *ClaimBatchCronJob) Do(ctx context.Context) {
	attempts := xcontext.Configs(ctx).Processor.RetryAttempts
	backoff := xcontext.Configs(ctx).Processor.RetryBackoff

	var err error
	for i := 0; i < attempts; i++ {
		if err = job.processor.Run(ctx); err == nil {
			return
		}

		xcontext.Logger(ctx).Warnf("Claim batch run failed (attempt %d): %v", i+1, err)
		time.Sleep(backoff)
	}

	xcontext.Logger(ctx).Errorf("Claim batch gave up after %d attempts: %v", attempts, err)
}

func (job *ClaimBatchCronJob) RunNow() bool {
	return true
}

func (job *ClaimBatchCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
