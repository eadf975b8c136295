package models

import (
	"strings"
	"time"
)

// Player is a ranked tennis player. Tournaments may reference one as their favorite.
type Player struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;index"`
	Country   string    `json:"country" gorm:"size:100;not null"`
	Ranking   int       `json:"ranking" gorm:"not null"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"-" gorm:"autoUpdateTime"`
}

// PlayerFilter narrows GET /api/players. Name is a case-insensitive
// substring match; Sort orders by ranking.
type PlayerFilter struct {
	Name string
	Sort string
}

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// NormalizeSort returns "asc", "desc" or "" for anything else.
func NormalizeSort(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SortAsc:
		return SortAsc
	case SortDesc:
		return SortDesc
	}
	return ""
}
