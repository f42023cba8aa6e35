package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"trader-bot/utils"
)

func TestRunNowSkipsOverlappingRuns(t *testing.T) {
	var runs int32
	block := make(chan struct{})

	s := New(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		<-block
		return nil
	}, time.Hour, time.Minute, utils.NewLogger())

	done := make(chan struct{})
	go func() {
		s.RunNow()
		close(done)
	}()

	for i := 0; i < 100 && atomic.LoadInt32(&runs) == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if atomic.LoadInt32(&runs) != 1 {
		t.Fatal("first run never started")
	}

	// trigger while the first run is still in flight: must be dropped
	s.RunNow()
	if got := atomic.LoadInt32(&runs); got != 1 {
		t.Errorf("overlapping trigger started a run: %d runs", got)
	}

	close(block)
	<-done
}

func TestRunNowAppliesTimeout(t *testing.T) {
	var hadDeadline bool

	s := New(func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	}, time.Hour, time.Minute, utils.NewLogger())

	s.RunNow()
	if !hadDeadline {
		t.Error("run context should carry the per-run timeout deadline")
	}
}

func TestRunNowRunsAgainAfterCompletion(t *testing.T) {
	var runs int32

	s := New(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}, time.Hour, time.Minute, utils.NewLogger())

	s.RunNow()
	s.RunNow()
	if got := atomic.LoadInt32(&runs); got != 2 {
		t.Errorf("sequential triggers: got %d runs, want 2", got)
	}
}
