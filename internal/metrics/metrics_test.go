package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lanedrift/reelforge/internal/scheduler"
)

func TestCollector_RecordsStartCompleteDuration(t *testing.T) {
	c := NewCollector(func(string) string { return "mkdir" })

	startedBefore := testutil.ToFloat64(TasksStartedTotal.WithLabelValues("mkdir"))
	completedBefore := testutil.ToFloat64(TasksCompletedTotal.WithLabelValues("mkdir"))

	c.Observe(scheduler.Event{Kind: scheduler.EventTaskStarted, TaskID: "t1"})
	c.Observe(scheduler.Event{Kind: scheduler.EventTaskComplete, TaskID: "t1"})

	if got := testutil.ToFloat64(TasksStartedTotal.WithLabelValues("mkdir")); got != startedBefore+1 {
		t.Fatalf("started = %v, want %v", got, startedBefore+1)
	}
	if got := testutil.ToFloat64(TasksCompletedTotal.WithLabelValues("mkdir")); got != completedBefore+1 {
		t.Fatalf("completed = %v, want %v", got, completedBefore+1)
	}
}

func TestCollector_RecordsFailureAndSkip(t *testing.T) {
	c := NewCollector(func(string) string { return "command" })

	failedBefore := testutil.ToFloat64(TasksFailedTotal.WithLabelValues("command"))
	skippedBefore := testutil.ToFloat64(TasksSkippedTotal.WithLabelValues("command"))

	c.Observe(scheduler.Event{Kind: scheduler.EventTaskStarted, TaskID: "t2"})
	c.Observe(scheduler.Event{Kind: scheduler.EventTaskFailed, TaskID: "t2", Detail: "boom"})
	c.Observe(scheduler.Event{Kind: scheduler.EventTaskSkipped, TaskID: "t3"})

	if got := testutil.ToFloat64(TasksFailedTotal.WithLabelValues("command")); got != failedBefore+1 {
		t.Fatalf("failed = %v, want %v", got, failedBefore+1)
	}
	if got := testutil.ToFloat64(TasksSkippedTotal.WithLabelValues("command")); got != skippedBefore+1 {
		t.Fatalf("skipped = %v, want %v", got, skippedBefore+1)
	}
}

func TestCollector_RecordsCheckpointAndWorkflowOutcomes(t *testing.T) {
	c := NewCollector(func(string) string { return "checkpoint" })

	checkpointBefore := testutil.ToFloat64(CheckpointsReachedTotal.WithLabelValues("review"))
	completedBefore := testutil.ToFloat64(WorkflowsCompletedTotal)
	blockedBefore := testutil.ToFloat64(WorkflowsBlockedTotal)

	c.Observe(scheduler.Event{Kind: scheduler.EventCheckpointReached, TaskID: "review"})
	c.Observe(scheduler.Event{Kind: scheduler.EventWorkflowComplete})
	c.Observe(scheduler.Event{Kind: scheduler.EventWorkflowBlocked})

	if got := testutil.ToFloat64(CheckpointsReachedTotal.WithLabelValues("review")); got != checkpointBefore+1 {
		t.Fatalf("checkpoints = %v, want %v", got, checkpointBefore+1)
	}
	if got := testutil.ToFloat64(WorkflowsCompletedTotal); got != completedBefore+1 {
		t.Fatalf("workflows completed = %v, want %v", got, completedBefore+1)
	}
	if got := testutil.ToFloat64(WorkflowsBlockedTotal); got != blockedBefore+1 {
		t.Fatalf("workflows blocked = %v, want %v", got, blockedBefore+1)
	}
}
