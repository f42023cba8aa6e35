package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"trader-bot/utils"
)

// Job is one pipeline run. The context carries the per-run timeout.
type Job func(ctx context.Context) error

// Scheduler triggers a job immediately and then on a fixed interval.
// Triggers that arrive while a run is still in flight are skipped, so at
// most one run executes at a time against the channel.
type Scheduler struct {
	cron     *cron.Cron
	guard    *utils.RunGuard
	job      Job
	interval time.Duration
	timeout  time.Duration
	logger   *utils.Logger
}

// New creates a Scheduler. interval is the spacing between runs; timeout
// bounds each run so a hung network call cannot stall future cycles.
func New(job Job, interval, timeout time.Duration, logger *utils.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cronLogger{logger: logger})),
		guard:    &utils.RunGuard{},
		job:      job,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Start runs the job once immediately (blocking until it finishes), then
// schedules the recurring runs.
func (s *Scheduler) Start() error {
	s.RunNow()
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.RunNow); err != nil {
		return fmt.Errorf("scheduler: add job: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts future triggers and waits for any in-flight cron run to
// return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunNow executes the job unless a run is already in flight, in which case
// the trigger is dropped.
func (s *Scheduler) RunNow() {
	if !s.guard.TryAcquire() {
		s.logger.Warn("[scheduler] Previous run still in flight — skipping trigger")
		return
	}
	defer s.guard.Release()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.job(ctx); err != nil {
		s.logger.Error("[scheduler] Run failed after %v: %v",
			time.Since(start).Round(time.Millisecond), err)
		return
	}
	s.logger.Info("[scheduler] Run completed in %v", time.Since(start).Round(time.Millisecond))
}

// cronLogger adapts the app logger to cron's logging interface.
type cronLogger struct {
	logger *utils.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("[cron] %s %s", msg, formatParams(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("[cron] %s: %v %s", msg, err, formatParams(keysAndValues))
}

func formatParams(keysAndValues []interface{}) string {
	parts := make([]string, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		parts = append(parts, fmt.Sprintf("%v=%v", keysAndValues[i], keysAndValues[i+1]))
	}
	return strings.Join(parts, " ")
}
