package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"tennis-tournament-api/models"
	"tennis-tournament-api/storage"
)

// EventNewTournament is pushed to every WebSocket client after a successful create.
const EventNewTournament = "new-tournament"

const maxPageSize = 100

type TournamentService struct {
	Store   TournamentStore
	Players PlayerStore
	Actions *ActionLogger
	Events  Publisher
}

func NewTournamentService(store TournamentStore, players PlayerStore, actions *ActionLogger, events Publisher) *TournamentService {
	return &TournamentService{Store: store, Players: players, Actions: actions, Events: events}
}

// TournamentInput is the body of POST /api/tournaments.
type TournamentInput struct {
	Name             string   `json:"name"`
	Location         *string  `json:"location"`
	Date             string   `json:"date"`
	PrizeMoney       *float64 `json:"prizeMoney"`
	FavoritePlayerID *uint    `json:"favoritePlayerId"`
}

// TournamentPatchInput is the body of PATCH /api/tournaments/:id.
// Absent or null fields are left unchanged.
type TournamentPatchInput struct {
	Name             *string  `json:"name"`
	Location         *string  `json:"location"`
	Date             *string  `json:"date"`
	PrizeMoney       *float64 `json:"prizeMoney"`
	FavoritePlayerID *uint    `json:"favoritePlayerId"`
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and truncates to the calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, validationError("invalid date (use YYYY-MM-DD)")
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func validatePrize(p *float64) error {
	if p != nil && *p < 0 {
		return validationError("prizeMoney must be a non-negative number")
	}
	return nil
}

// favoritePlayerID treats an id of 0 as "no favorite player".
func favoritePlayerID(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

// checkFavoritePlayer fails with a reference error when id is set but no such player exists.
func (s *TournamentService) checkFavoritePlayer(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	exists, err := s.Players.PlayerExists(ctx, *id)
	if err != nil {
		return storageError("check favorite player", err)
	}
	if !exists {
		return &Error{Kind: KindReference, Message: "favorite player does not exist"}
	}
	return nil
}

func (s *TournamentService) List(ctx context.Context, f models.TournamentFilter) ([]models.Tournament, int64, error) {
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Limit > 0 && f.Page < 1 {
		f.Page = 1
	}
	tournaments, total, err := s.Store.ListTournaments(ctx, f)
	if err != nil {
		return nil, 0, storageError("list tournaments", err)
	}
	return tournaments, total, nil
}

func (s *TournamentService) Get(ctx context.Context, id uint) (*models.Tournament, error) {
	t, err := s.Store.GetTournament(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("tournament not found")
	}
	if err != nil {
		return nil, storageError("get tournament", err)
	}
	return t, nil
}

// Create validates, inserts, logs CREATE_TOURNAMENT for actor and
// broadcasts the new record. Nothing is written unless all checks pass.
func (s *TournamentService) Create(ctx context.Context, actor uint, in TournamentInput) (*models.Tournament, error) {
	if actor == 0 {
		return nil, ErrMissingActor
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Date) == "" {
		return nil, validationError("name and date are required")
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if err := validatePrize(in.PrizeMoney); err != nil {
		return nil, err
	}
	favorite := favoritePlayerID(in.FavoritePlayerID)
	if err := s.checkFavoritePlayer(ctx, favorite); err != nil {
		return nil, err
	}

	t := &models.Tournament{
		Name:             name,
		Location:         trimmedOrNil(in.Location),
		Date:             date,
		FavoritePlayerID: favorite,
	}
	if in.PrizeMoney != nil {
		t.PrizeMoney = *in.PrizeMoney
	}

	if err := s.Store.CreateTournament(ctx, t); err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			return nil, &Error{Kind: KindReference, Message: "favorite player does not exist", Err: err}
		}
		return nil, storageError("create tournament", err)
	}

	// The insert and the log entry are separate statements; a failure here
	// leaves the tournament without its audit row.
	if err := s.Actions.Record(ctx, actor, models.ActionCreateTournament); err != nil {
		log.Printf("❌ [Tournaments] tournament %d created but action log failed: %v", t.ID, err)
		return nil, err
	}

	created, err := s.Get(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	if s.Events != nil {
		s.Events.Publish(EventNewTournament, created)
	}
	log.Printf("✅ [Tournaments] user %d created tournament %d (%s)", actor, created.ID, created.Name)
	return created, nil
}

// Patch applies only the supplied fields and logs UPDATE_TOURNAMENT for actor.
func (s *TournamentService) Patch(ctx context.Context, actor uint, id uint, in TournamentPatchInput) (*models.Tournament, error) {
	if actor == 0 {
		return nil, ErrMissingActor
	}

	var patch models.TournamentPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		patch.Name = &name
	}
	if in.Location != nil {
		loc := strings.TrimSpace(*in.Location)
		patch.Location = &loc
	}
	if in.Date != nil {
		date, err := ParseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		patch.Date = &date
	}
	if err := validatePrize(in.PrizeMoney); err != nil {
		return nil, err
	}
	patch.PrizeMoney = in.PrizeMoney
	if in.FavoritePlayerID != nil && *in.FavoritePlayerID == 0 {
		patch.ClearFavoritePlayer = true
	} else {
		if err := s.checkFavoritePlayer(ctx, in.FavoritePlayerID); err != nil {
			return nil, err
		}
		patch.FavoritePlayerID = in.FavoritePlayerID
	}

	if err := s.Store.PatchTournament(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, notFound("tournament not found")
		case errors.Is(err, storage.ErrForeignKey):
			return nil, &Error{Kind: KindReference, Message: "favorite player does not exist", Err: err}
		}
		return nil, storageError("patch tournament", err)
	}

	if err := s.Actions.Record(ctx, actor, models.ActionUpdateTournament); err != nil {
		log.Printf("❌ [Tournaments] tournament %d updated but action log failed: %v", id, err)
		return nil, err
	}

	log.Printf("✏️ [Tournaments] user %d updated tournament %d", actor, id)
	return s.Get(ctx, id)
}

// Delete removes tournament id and logs DELETE_TOURNAMENT for actor.
func (s *TournamentService) Delete(ctx context.Context, actor uint, id uint) error {
	if actor == 0 {
		return ErrMissingActor
	}

	if err := s.Store.DeleteTournament(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("tournament not found")
		}
		return storageError("delete tournament", err)
	}

	if err := s.Actions.Record(ctx, actor, models.ActionDeleteTournament); err != nil {
		log.Printf("❌ [Tournaments] tournament %d deleted but action log failed: %v", id, err)
		return err
	}

	log.Printf("🗑️ [Tournaments] user %d deleted tournament %d", actor, id)
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
