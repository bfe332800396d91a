// Package metrics exposes scheduler activity as Prometheus metrics. It
// implements scheduler.Observer so a run can be wired up for scraping with
// no changes to the scheduler itself, grounded on the counter/histogram
// layout of the example pack's pkg/metrics package (promauto-registered
// package-level vars, small Record* wrapper functions).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lanedrift/reelforge/internal/scheduler"
)

var (
	TasksStartedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reelforge",
		Name:      "tasks_started_total",
		Help:      "Number of tasks dispatched, by task kind.",
	}, []string{"kind"})

	TasksCompletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reelforge",
		Name:      "tasks_completed_total",
		Help:      "Number of tasks that finished successfully, by task kind.",
	}, []string{"kind"})

	TasksFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reelforge",
		Name:      "tasks_failed_total",
		Help:      "Number of tasks whose executor returned an error, by task kind.",
	}, []string{"kind"})

	TasksSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reelforge",
		Name:      "tasks_skipped_total",
		Help:      "Number of tasks skipped under resume because their output was already valid, by task kind.",
	}, []string{"kind"})

	CheckpointsReachedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reelforge",
		Name:      "checkpoints_reached_total",
		Help:      "Number of times a checkpoint task blocked a run awaiting approval.",
	}, []string{"task_id"})

	TaskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "reelforge",
		Name:      "task_duration_seconds",
		Help:      "Wall-clock time a task spent Running, by task kind.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	WorkflowsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reelforge",
		Name:      "workflows_completed_total",
		Help:      "Number of runs that reached WorkflowComplete.",
	})

	WorkflowsBlockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reelforge",
		Name:      "workflows_blocked_total",
		Help:      "Number of runs that ended with at least one task still Blocked.",
	})
)

// Collector turns scheduler.Event values into metric updates. It needs the
// task kind, which events don't carry, so it looks tasks up in the state it
// was built against.
type Collector struct {
	kindOf   func(taskID string) string
	started  map[string]time.Time
}

// NewCollector returns an Observer that records metrics for events raised
// against state; kindOf is typically state.Task(id).Kind via a small
// adapter, passed in rather than imported to avoid a model dependency here.
func NewCollector(kindOf func(taskID string) string) *Collector {
	return &Collector{kindOf: kindOf, started: make(map[string]time.Time)}
}

func (c *Collector) Observe(e scheduler.Event) {
	switch e.Kind {
	case scheduler.EventTaskStarted:
		c.started[e.TaskID] = time.Now()
		TasksStartedTotal.WithLabelValues(c.kindOf(e.TaskID)).Inc()
	case scheduler.EventTaskComplete:
		kind := c.kindOf(e.TaskID)
		TasksCompletedTotal.WithLabelValues(kind).Inc()
		c.observeDuration(e.TaskID, kind)
	case scheduler.EventTaskFailed:
		kind := c.kindOf(e.TaskID)
		TasksFailedTotal.WithLabelValues(kind).Inc()
		c.observeDuration(e.TaskID, kind)
	case scheduler.EventTaskSkipped:
		TasksSkippedTotal.WithLabelValues(c.kindOf(e.TaskID)).Inc()
	case scheduler.EventCheckpointReached:
		CheckpointsReachedTotal.WithLabelValues(e.TaskID).Inc()
	case scheduler.EventWorkflowComplete:
		WorkflowsCompletedTotal.Inc()
	case scheduler.EventWorkflowBlocked:
		WorkflowsBlockedTotal.Inc()
	}
}

func (c *Collector) observeDuration(taskID, kind string) {
	start, ok := c.started[taskID]
	if !ok {
		return
	}
	delete(c.started, taskID)
	TaskDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
