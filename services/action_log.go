package services

import (
	"context"
	"time"

	"tennis-tournament-api/metrics"
	"tennis-tournament-api/models"
)

// ActionLogger appends audit entries for mutating actions. The entries are
// the monitor's only input.
type ActionLogger struct {
	Store ActionLogStore
	Now   func() time.Time
}

func NewActionLogger(store ActionLogStore) *ActionLogger {
	return &ActionLogger{Store: store, Now: time.Now}
}

func (l *ActionLogger) Record(ctx context.Context, userID uint, action models.Action) error {
	entry := &models.ActionLog{
		UserID:    userID,
		Action:    action,
		Timestamp: l.Now().UTC(),
	}
	if err := l.Store.AppendAction(ctx, entry); err != nil {
		return storageError("append action log", err)
	}
	metrics.ActionLogEntriesTotal.WithLabelValues(string(action)).Inc()
	return nil
}
