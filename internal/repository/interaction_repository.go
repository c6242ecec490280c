package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/laasyan18/Tunr/internal/models"
)

// InteractionRepository handles database operations for movie interactions.
type InteractionRepository struct {
	db *sql.DB
}

// NewInteractionRepository creates a new InteractionRepository.
func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Add records an interaction. Adding an existing triple is a no-op.
func (r *InteractionRepository) Add(ctx context.Context, userID int, imdbID, kind string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO movie_interactions (user_id, imdb_id, interaction_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, imdb_id, interaction_type) DO NOTHING
	`, userID, imdbID, kind)
	return err
}

// Remove deletes an interaction. Removing an absent triple is a no-op.
func (r *InteractionRepository) Remove(ctx context.Context, userID int, imdbID, kind string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM movie_interactions
		WHERE user_id = $1 AND imdb_id = $2 AND interaction_type = $3
	`, userID, imdbID, kind)
	return err
}

// Exists reports whether the (user, movie, kind) triple is present.
func (r *InteractionRepository) Exists(ctx context.Context, userID int, imdbID, kind string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM movie_interactions
			WHERE user_id = $1 AND imdb_id = $2 AND interaction_type = $3)
	`, userID, imdbID, kind).Scan(&exists)
	return exists, err
}

// ByUserAndType returns a user's interactions of one kind with movie
// metadata, newest first. A non-positive limit returns all of them.
func (r *InteractionRepository) ByUserAndType(ctx context.Context, userID int, kind string, limit int) ([]models.Interaction, error) {
	return r.queryInteractions(ctx, `
		SELECT i.id, i.user_id, '' AS username, i.imdb_id, i.interaction_type, i.created_at,
			m.title, m.year, m.genre, m.director, m.actors, m.poster, m.imdb_rating
		FROM movie_interactions i
		INNER JOIN movies m ON m.imdb_id = i.imdb_id
		WHERE i.user_id = $1 AND i.interaction_type = $2
		ORDER BY i.created_at DESC
		LIMIT NULLIF($3, 0)
	`, userID, kind, limit)
}

// RecentFolloweeByType returns followees' interactions of one kind with
// usernames and movie metadata, newest first.
func (r *InteractionRepository) RecentFolloweeByType(ctx context.Context, followeeIDs []int, kind string, limit int) ([]models.Interaction, error) {
	return r.queryInteractions(ctx, `
		SELECT i.id, i.user_id, u.username, i.imdb_id, i.interaction_type, i.created_at,
			m.title, m.year, m.genre, m.director, m.actors, m.poster, m.imdb_rating
		FROM movie_interactions i
		INNER JOIN users u ON u.id = i.user_id
		INNER JOIN movies m ON m.imdb_id = i.imdb_id
		WHERE i.user_id = ANY($1) AND i.interaction_type = $2
		ORDER BY i.created_at DESC
		LIMIT $3
	`, pq.Array(followeeIDs), kind, limit)
}

// CountByUserAndType returns how many interactions of one kind a user has.
func (r *InteractionRepository) CountByUserAndType(ctx context.Context, userID int, kind string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM movie_interactions
		WHERE user_id = $1 AND interaction_type = $2
	`, userID, kind).Scan(&n)
	return n, err
}

func (r *InteractionRepository) queryInteractions(ctx context.Context, query string, args ...any) ([]models.Interaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interactions []models.Interaction
	for rows.Next() {
		var it models.Interaction
		var m models.Movie
		if err := rows.Scan(&it.ID, &it.UserID, &it.Username, &it.IMDBID,
			&it.Type, &it.CreatedAt,
			&m.Title, &m.Year, &m.Genre, &m.Director, &m.Actors, &m.Poster,
			&m.IMDBRating); err != nil {
			return nil, err
		}
		m.IMDBID = it.IMDBID
		it.Movie = &m
		interactions = append(interactions, it)
	}
	return interactions, rows.Err()
}
