package exams

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Worker drains the analysis job queue. The processing delay simulates the
// time a real inference backend would take; the poll interval and stale
// threshold control how quickly abandoned jobs (from a crashed instance)
// are reclaimed.
type Worker struct {
	jobs   JobRepository
	svc    *Service
	logger zerolog.Logger

	ProcessingDelay time.Duration
	PollInterval    time.Duration
	StaleThreshold  time.Duration
}

func NewWorker(jobs JobRepository, svc *Service, processingDelay time.Duration, logger zerolog.Logger) *Worker {
	return &Worker{
		jobs:            jobs,
		svc:             svc,
		logger:          logger,
		ProcessingDelay: processingDelay,
		PollInterval:    2 * time.Second,
		StaleThreshold:  5 * time.Minute,
	}
}

// Start runs the polling loop. It blocks until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain claims and processes jobs until the queue is empty or ctx ends.
func (w *Worker) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		job, err := w.jobs.ClaimNext(ctx, time.Now().Add(-w.StaleThreshold))
		if err != nil {
			w.logger.Error().Err(err).Msg("claiming analysis job")
			return
		}
		if job == nil {
			return
		}
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job *AnalysisJob) {
	// Simulated inference latency.
	if w.ProcessingDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.ProcessingDelay):
		}
	}

	if err := w.svc.ProcessExam(ctx, job.ExamID); err != nil {
		w.logger.Error().Err(err).
			Str("job_id", job.ID.String()).
			Str("exam_id", job.ExamID.String()).
			Int("attempts", job.Attempts).
			Msg("exam analysis failed")
		if err := w.jobs.MarkFailed(ctx, job.ID, err.Error()); err != nil {
			w.logger.Error().Err(err).Str("job_id", job.ID.String()).Msg("marking job failed")
		}
		return
	}

	if err := w.jobs.MarkDone(ctx, job.ID); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID.String()).Msg("marking job done")
	}
}
