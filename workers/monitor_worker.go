package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"tennis-tournament-api/services"
)

// Scanner runs one suspicious activity detection pass.
type Scanner interface {
	ScanCycle(ctx context.Context) (services.CycleReport, error)
}

// MonitorWorker runs the scanner on a fixed interval. A cycle that is still
// running when the next one is due causes that tick to be skipped.
type MonitorWorker struct {
	Scanner  Scanner
	Interval time.Duration

	sched gocron.Scheduler
}

func NewMonitorWorker(scanner Scanner, interval time.Duration) *MonitorWorker {
	return &MonitorWorker{Scanner: scanner, Interval: interval}
}

// Start schedules the scan. Cycles stop being started once ctx is done.
func (w *MonitorWorker) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create monitor scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.Interval),
		gocron.NewTask(func() {
			w.runCycle(ctx)
		}),
		gocron.WithName("suspicious-activity-monitor"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule monitor job: %w", err)
	}

	w.sched = sched
	sched.Start()
	log.Printf("✅ [Monitor] scanning every %s", w.Interval)
	return nil
}

func (w *MonitorWorker) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := w.Scanner.ScanCycle(ctx)
	if err != nil {
		log.Printf("❌ [Monitor] cycle abandoned: %v", err)
		return
	}
	if len(report.Flagged) > 0 {
		log.Printf("[Monitor] cycle done: %d candidate(s), %d newly flagged", len(report.Candidates), len(report.Flagged))
	}
}

// Stop waits for a running cycle to finish and shuts the scheduler down.
func (w *MonitorWorker) Stop() error {
	if w.sched == nil {
		return nil
	}
	return w.sched.Shutdown()
}
