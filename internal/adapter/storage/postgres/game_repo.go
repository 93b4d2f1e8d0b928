package postgres

import (
	"context"
	"fmt"

	"credential-market/internal/core/domain"
)

// GameRepo implements ports.GameRepository.
type GameRepo struct {
	pool Pool
}

// NewGameRepo creates a new GameRepo.
func NewGameRepo(pool Pool) *GameRepo {
	return &GameRepo{pool: pool}
}

// Create inserts a new game.
func (r *GameRepo) Create(ctx context.Context, g *domain.Game) error {
	query := `INSERT INTO games (id, name, img, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, g.ID, g.Name, g.Image, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *GameRepo) query(ctx context.Context, query string, args ...any) ([]domain.Game, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		var g domain.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Image, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// List returns all games.
func (r *GameRepo) List(ctx context.Context) ([]domain.Game, error) {
	games, err := r.query(ctx, `SELECT id, name, img, created_at FROM games ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// Count returns the number of games.
func (r *GameRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM games`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return count, nil
}

// SearchByName returns games whose name matches the query prefix,
// case-insensitively.
func (r *GameRepo) SearchByName(ctx context.Context, q string) ([]domain.Game, error) {
	games, err := r.query(ctx,
		`SELECT id, name, img, created_at FROM games WHERE name ILIKE $1 || '%' ORDER BY name`, q)
	if err != nil {
		return nil, fmt.Errorf("search games: %w", err)
	}
	return games, nil
}
