package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"tennis-tournament-api/models"
	"tennis-tournament-api/storage"
)

type PlayerService struct {
	Store PlayerStore
}

func NewPlayerService(store PlayerStore) *PlayerService {
	return &PlayerService{Store: store}
}

// PlayerInput is the body of POST and PUT. Every field is required.
type PlayerInput struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Ranking *int   `json:"ranking"`
}

func (in PlayerInput) validate() (models.Player, error) {
	name := strings.TrimSpace(in.Name)
	country := strings.TrimSpace(in.Country)
	if name == "" || country == "" || in.Ranking == nil {
		return models.Player{}, validationError("name, country and ranking are required")
	}
	if *in.Ranking < 0 {
		return models.Player{}, validationError("ranking must be a non-negative integer")
	}
	return models.Player{Name: name, Country: country, Ranking: *in.Ranking}, nil
}

func (s *PlayerService) List(ctx context.Context, f models.PlayerFilter) ([]models.Player, error) {
	players, err := s.Store.ListPlayers(ctx, f)
	if err != nil {
		return nil, storageError("list players", err)
	}
	return players, nil
}

func (s *PlayerService) Get(ctx context.Context, id uint) (*models.Player, error) {
	p, err := s.Store.GetPlayer(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("player not found")
	}
	if err != nil {
		return nil, storageError("get player", err)
	}
	return p, nil
}

func (s *PlayerService) Create(ctx context.Context, in PlayerInput) (*models.Player, error) {
	p, err := in.validate()
	if err != nil {
		return nil, err
	}
	if err := s.Store.CreatePlayer(ctx, &p); err != nil {
		return nil, storageError("create player", err)
	}
	log.Printf("✅ [Players] created player %d (%s)", p.ID, p.Name)
	return &p, nil
}

// Replace overwrites every field of player id (PUT semantics).
func (s *PlayerService) Replace(ctx context.Context, id uint, in PlayerInput) (*models.Player, error) {
	p, err := in.validate()
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.Store.ReplacePlayer(ctx, &p); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("player not found")
		}
		return nil, storageError("replace player", err)
	}
	return s.Get(ctx, id)
}

func (s *PlayerService) Delete(ctx context.Context, id uint) error {
	if err := s.Store.DeletePlayer(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound("player not found")
		}
		return storageError("delete player", err)
	}
	log.Printf("🗑️ [Players] deleted player %d", id)
	return nil
}
