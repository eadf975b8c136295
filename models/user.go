package models

import (
	"time"
)

// User is an account that can log in and mutate tournaments.
// Password holds a bcrypt hash, or the raw value in legacy plaintext mode.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"size:100;not null"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
}
