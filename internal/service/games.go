package service

import (
	"context"
	"fmt"

	apperrors "arcadia/internal/errors"
	"arcadia/internal/models"
	"arcadia/internal/repository"
)

type GameService struct {
	games repository.GameStore
}

func NewGameService(games repository.GameStore) *GameService {
	return &GameService{games: games}
}

func (s *GameService) Create(ctx context.Context, req *models.CreateGameRequest) (*models.Game, error) {
	game := &models.Game{
		Title:       req.Title,
		Genre:       req.Genre,
		Publisher:   req.Publisher,
		ReleaseYear: req.ReleaseYear,
		MinAge:      req.MinAge,
		Multiplayer: req.Multiplayer,
	}

	if err := s.games.Create(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

func (s *GameService) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	game, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("game %d: %w", id, apperrors.ErrNotFound)
	}
	return game, nil
}

func (s *GameService) List(ctx context.Context) ([]models.Game, error) {
	return s.games.List(ctx)
}

// Search finds catalog entries whose title contains the term,
// case-insensitively.
func (s *GameService) Search(ctx context.Context, title string) ([]models.Game, error) {
	return s.games.SearchByTitle(ctx, title)
}
