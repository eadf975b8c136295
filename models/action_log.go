package models

import "time"

// Action is the kind of mutation recorded in the action log.
type Action string

const (
	ActionCreateTournament Action = "CREATE_TOURNAMENT"
	ActionUpdateTournament Action = "UPDATE_TOURNAMENT"
	ActionDeleteTournament Action = "DELETE_TOURNAMENT"
)

// ActionLog is an append-only audit row. Rows are never updated.
type ActionLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	Action    Action    `json:"action" gorm:"size:50;not null;index:idx_action_logs_action_time"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index:idx_action_logs_action_time"`
}

// ActionCount is one row of the per-user aggregation used by the monitor.
type ActionCount struct {
	UserID uint  `json:"userId"`
	Count  int64 `json:"count"`
}
