package services

import (
	"context"
	"time"

	"tennis-tournament-api/models"
)

// The data access interfaces consumed by the services. storage.Store
// satisfies all of them, over PostgreSQL or in-memory SQLite.

type PlayerStore interface {
	ListPlayers(ctx context.Context, f models.PlayerFilter) ([]models.Player, error)
	GetPlayer(ctx context.Context, id uint) (*models.Player, error)
	PlayerExists(ctx context.Context, id uint) (bool, error)
	CreatePlayer(ctx context.Context, p *models.Player) error
	ReplacePlayer(ctx context.Context, p *models.Player) error
	DeletePlayer(ctx context.Context, id uint) error
}

type TournamentStore interface {
	ListTournaments(ctx context.Context, f models.TournamentFilter) ([]models.Tournament, int64, error)
	GetTournament(ctx context.Context, id uint) (*models.Tournament, error)
	CreateTournament(ctx context.Context, t *models.Tournament) error
	PatchTournament(ctx context.Context, id uint, p models.TournamentPatch) error
	DeleteTournament(ctx context.Context, id uint) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type ActionLogStore interface {
	AppendAction(ctx context.Context, entry *models.ActionLog) error
	CountActionsSince(ctx context.Context, action models.Action, since time.Time, minExclusive int) ([]models.ActionCount, error)
}

type MonitoredUserStore interface {
	IsMonitored(ctx context.Context, userID uint) (bool, error)
	AddMonitoredUser(ctx context.Context, m *models.MonitoredUser) (bool, error)
	ListMonitoredUsers(ctx context.Context) ([]models.MonitoredUserView, error)
}

// Publisher fans an event out to connected clients.
type Publisher interface {
	Publish(event string, data interface{})
}
