package models

import "time"

// MonitoredUser flags a user for suspicious activity. There is at most one row per user.
type MonitoredUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex;not null"`
	Reason    string    `json:"reason" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// MonitoredUserView is the admin listing row, joined with the username.
type MonitoredUserView struct {
	ID       uint    `json:"id"`
	UserID   uint    `json:"userId"`
	Reason   string  `json:"reason"`
	Username *string `json:"username"`
}
