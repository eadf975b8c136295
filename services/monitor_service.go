package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"tennis-tournament-api/metrics"
	"tennis-tournament-api/models"
)

// MonitorReason is recorded on every monitored user row the scan creates.
const MonitorReason = "High DELETE frequency detected"

// CycleReport describes what one scan cycle saw and did.
type CycleReport struct {
	Since      time.Time
	Candidates []models.ActionCount
	Flagged    []uint
	Skipped    []uint
}

// MonitorService flags users who delete tournaments too often. A user with
// more than Threshold DELETE_TOURNAMENT entries inside Window is written to
// the monitored users table once and never removed.
type MonitorService struct {
	Actions   ActionLogStore
	Monitored MonitoredUserStore
	Window    time.Duration
	Threshold int
	Now       func() time.Time

	// cycles must not overlap: the exists-check/insert pairs of one cycle
	// finish before the next begins.
	mu sync.Mutex
}

func NewMonitorService(actions ActionLogStore, monitored MonitoredUserStore, window time.Duration, threshold int) *MonitorService {
	return &MonitorService{
		Actions:   actions,
		Monitored: monitored,
		Window:    window,
		Threshold: threshold,
		Now:       time.Now,
	}
}

// ScanCycle runs one detection pass. Any error abandons the rest of the
// cycle; nothing is carried over to the next one.
func (m *MonitorService) ScanCycle(ctx context.Context) (report CycleReport, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan cycle panicked: %v", r)
		}
		if err != nil {
			metrics.MonitorCyclesTotal.WithLabelValues("error").Inc()
			return
		}
		metrics.MonitorCyclesTotal.WithLabelValues("ok").Inc()
	}()

	report.Since = m.Now().UTC().Add(-m.Window)
	log.Printf("[Monitor] checking deletes since %s", report.Since.Format(time.RFC3339))

	candidates, err := m.Actions.CountActionsSince(ctx, models.ActionDeleteTournament, report.Since, m.Threshold)
	if err != nil {
		return report, fmt.Errorf("aggregate delete actions: %w", err)
	}
	report.Candidates = candidates

	if len(candidates) == 0 {
		log.Println("[Monitor] no users with suspicious delete activity found")
		return report, nil
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		exists, err := m.Monitored.IsMonitored(ctx, c.UserID)
		if err != nil {
			return report, fmt.Errorf("check monitored user %d: %w", c.UserID, err)
		}
		if exists {
			log.Printf("[Monitor] user %d already monitored (%d deletes), skipping", c.UserID, c.Count)
			report.Skipped = append(report.Skipped, c.UserID)
			continue
		}

		inserted, err := m.Monitored.AddMonitoredUser(ctx, &models.MonitoredUser{
			UserID: c.UserID,
			Reason: MonitorReason,
		})
		if err != nil {
			return report, fmt.Errorf("flag user %d: %w", c.UserID, err)
		}
		if !inserted {
			report.Skipped = append(report.Skipped, c.UserID)
			continue
		}

		metrics.MonitorFlaggedUsersTotal.Inc()
		report.Flagged = append(report.Flagged, c.UserID)
		log.Printf("🚩 [Monitor] user %d flagged: %d deletes in %s", c.UserID, c.Count, m.Window)
	}

	return report, nil
}

// ListMonitoredUsers returns every flagged user with their username.
func (m *MonitorService) ListMonitoredUsers(ctx context.Context) ([]models.MonitoredUserView, error) {
	rows, err := m.Monitored.ListMonitoredUsers(ctx)
	if err != nil {
		return nil, storageError("list monitored users", err)
	}
	return rows, nil
}
