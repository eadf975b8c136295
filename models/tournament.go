package models

import (
	"math"
	"time"
)

// Tournament is a single tennis event.
//
// Location is optional: some clients send it and some don't, so it is kept
// as a nullable column rather than dropped.
type Tournament struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"size:100;not null"`
	Location         *string   `json:"location" gorm:"size:100;index"`
	Date             time.Time `json:"date" gorm:"type:date;not null;index"`
	PrizeMoney       float64   `json:"prizeMoney" gorm:"type:numeric(18,2);not null;default:0"`
	FavoritePlayerID *uint     `json:"favoritePlayerId" gorm:"index"`
	CreatedAt        time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	FavoritePlayer *Player `json:"-" gorm:"foreignKey:FavoritePlayerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	// Calculated field (not stored in DB)
	FavoritePlayerName *string `json:"favoritePlayerName" gorm:"-"`
}

// FillFavoritePlayerName copies the preloaded player's name into the response field.
func (t *Tournament) FillFavoritePlayerName() {
	if t.FavoritePlayer != nil {
		name := t.FavoritePlayer.Name
		t.FavoritePlayerName = &name
	} else {
		t.FavoritePlayerName = nil
	}
}

// TournamentPatch carries a PATCH body. Nil fields are left untouched.
// ClearFavoritePlayer sets favorite_player_id to NULL and wins over FavoritePlayerID.
type TournamentPatch struct {
	Name                *string
	Location            *string
	Date                *time.Time
	PrizeMoney          *float64
	FavoritePlayerID    *uint
	ClearFavoritePlayer bool
}

// Empty reports whether the patch changes nothing.
func (p TournamentPatch) Empty() bool {
	return p.Name == nil && p.Location == nil && p.Date == nil && p.PrizeMoney == nil &&
		p.FavoritePlayerID == nil && !p.ClearFavoritePlayer
}

// Columns returns the column→value map for the supplied fields only.
func (p TournamentPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Date != nil {
		cols["date"] = *p.Date
	}
	if p.PrizeMoney != nil {
		cols["prize_money"] = *p.PrizeMoney
	}
	switch {
	case p.ClearFavoritePlayer:
		cols["favorite_player_id"] = nil
	case p.FavoritePlayerID != nil:
		cols["favorite_player_id"] = *p.FavoritePlayerID
	}
	return cols
}

// TournamentFilter narrows GET /api/tournaments. Location is matched
// case-insensitively; Sort orders by date. Limit 0 means no paging.
type TournamentFilter struct {
	Location string
	Sort     string
	Page     int
	Limit    int
}

// Offset is the number of rows to skip for the requested page. A page too
// large to address saturates at math.MaxInt, which yields an empty page.
func (f TournamentFilter) Offset() int {
	if f.Limit <= 0 || f.Page <= 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}
