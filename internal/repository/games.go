package repository

import (
	"context"
	"database/sql"

	"arcadia/internal/database"
	"arcadia/internal/models"
)

type GameRepository struct {
	db *database.DB
}

func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (title, genre, publisher, release_year, min_age, multiplayer)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING game_id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		game.Title,
		game.Genre,
		game.Publisher,
		game.ReleaseYear,
		game.MinAge,
		game.Multiplayer,
	).Scan(&game.GameID, &game.CreatedAt)

	return err
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	game := &models.Game{}
	query := `
		SELECT game_id, title, genre, publisher, release_year, min_age, multiplayer, created_at
		FROM games
		WHERE game_id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&game.GameID,
		&game.Title,
		&game.Genre,
		&game.Publisher,
		&game.ReleaseYear,
		&game.MinAge,
		&game.Multiplayer,
		&game.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return game, err
}

func (r *GameRepository) List(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	query := `
		SELECT game_id, title, genre, publisher, release_year, min_age, multiplayer, created_at
		FROM games
		ORDER BY title`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var game models.Game
		err := rows.Scan(
			&game.GameID,
			&game.Title,
			&game.Genre,
			&game.Publisher,
			&game.ReleaseYear,
			&game.MinAge,
			&game.Multiplayer,
			&game.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	return games, rows.Err()
}

func (r *GameRepository) SearchByTitle(ctx context.Context, title string) ([]models.Game, error) {
	var games []models.Game
	query := `
		SELECT game_id, title, genre, publisher, release_year, min_age, multiplayer, created_at
		FROM games
		WHERE title ILIKE $1
		ORDER BY title`

	rows, err := r.db.QueryContext(ctx, query, "%"+title+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var game models.Game
		err := rows.Scan(
			&game.GameID,
			&game.Title,
			&game.Genre,
			&game.Publisher,
			&game.ReleaseYear,
			&game.MinAge,
			&game.Multiplayer,
			&game.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
