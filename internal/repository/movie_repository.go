package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/laasyan18/Tunr/internal/models"
)

// MovieRepository handles database operations for the movie catalog.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// GetMovie returns a movie by IMDb id.
func (r *MovieRepository) GetMovie(ctx context.Context, imdbID string) (*models.Movie, error) {
	var m models.Movie
	err := r.db.QueryRowContext(ctx, `
		SELECT imdb_id, title, year, genre, director, actors, plot, poster,
			imdb_rating, runtime, created_at, updated_at
		FROM movies WHERE imdb_id = $1
	`, imdbID).Scan(
		&m.IMDBID, &m.Title, &m.Year, &m.Genre, &m.Director, &m.Actors,
		&m.Plot, &m.Poster, &m.IMDBRating, &m.Runtime, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// InsertStub creates a minimal movie row if none exists yet.
func (r *MovieRepository) InsertStub(ctx context.Context, imdbID, title, year, poster string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO movies (imdb_id, title, year, poster)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (imdb_id) DO NOTHING
	`, imdbID, title, year, poster)
	return err
}

// UpsertMovie inserts or fully overwrites a movie's descriptive fields.
func (r *MovieRepository) UpsertMovie(ctx context.Context, m *models.Movie) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO movies (imdb_id, title, year, genre, director, actors, plot,
			poster, imdb_rating, runtime, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (imdb_id) DO UPDATE SET
			title = EXCLUDED.title,
			year = EXCLUDED.year,
			genre = EXCLUDED.genre,
			director = EXCLUDED.director,
			actors = EXCLUDED.actors,
			plot = EXCLUDED.plot,
			poster = EXCLUDED.poster,
			imdb_rating = EXCLUDED.imdb_rating,
			runtime = EXCLUDED.runtime,
			updated_at = NOW()
	`, m.IMDBID, m.Title, m.Year, m.Genre, m.Director, m.Actors, m.Plot,
		m.Poster, m.IMDBRating, m.Runtime)
	if err != nil {
		return fmt.Errorf("upsert movie: %w", err)
	}
	return nil
}

// SimilarMovies returns unwatched movies whose metadata contains any of the
// given tokens, ranked by community rating. Matching is a case-sensitive
// substring test against the stored comma-separated fields.
func (r *MovieRepository) SimilarMovies(ctx context.Context, genres, directors, actors []string, excludeIDs []string, limit int) ([]models.RankedMovie, error) {
	var conditions []string
	var args []any
	argIdx := 1

	addTokens := func(column string, tokens []string) {
		for _, t := range tokens {
			conditions = append(conditions, fmt.Sprintf("m.%s LIKE '%%' || $%d || '%%'", column, argIdx))
			args = append(args, t)
			argIdx++
		}
	}
	addTokens("genre", genres)
	addTokens("director", directors)
	addTokens("actors", actors)

	if len(conditions) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT m.imdb_id, m.title, m.year, m.genre, m.director, m.actors,
			m.poster, m.imdb_rating,
			AVG(r.rating)::float8 AS avg_rating, COUNT(r.id) AS review_count
		FROM movies m
		LEFT JOIN movie_reviews r ON r.imdb_id = m.imdb_id
		WHERE (%s) AND m.imdb_id <> ALL($%d)
		GROUP BY m.imdb_id
		ORDER BY avg_rating DESC NULLS LAST, review_count DESC
		LIMIT $%d
	`, strings.Join(conditions, " OR "), argIdx, argIdx+1)
	args = append(args, pq.Array(excludeIDs), limit)

	return r.queryRanked(ctx, query, args...)
}

// PopularMovies returns unwatched movies with at least one review, ranked by
// review count then average rating.
func (r *MovieRepository) PopularMovies(ctx context.Context, excludeIDs []string, limit int) ([]models.RankedMovie, error) {
	return r.queryRanked(ctx, `
		SELECT m.imdb_id, m.title, m.year, m.genre, m.director, m.actors,
			m.poster, m.imdb_rating,
			AVG(r.rating)::float8 AS avg_rating, COUNT(r.id) AS review_count
		FROM movies m
		INNER JOIN movie_reviews r ON r.imdb_id = m.imdb_id
		WHERE m.imdb_id <> ALL($1)
		GROUP BY m.imdb_id
		HAVING COUNT(r.id) >= 1
		ORDER BY review_count DESC, avg_rating DESC
		LIMIT $2
	`, pq.Array(excludeIDs), limit)
}

func (r *MovieRepository) queryRanked(ctx context.Context, query string, args ...any) ([]models.RankedMovie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ranked movie query: %w", err)
	}
	defer rows.Close()

	var movies []models.RankedMovie
	for rows.Next() {
		var m models.RankedMovie
		var avg sql.NullFloat64
		if err := rows.Scan(&m.IMDBID, &m.Title, &m.Year, &m.Genre, &m.Director,
			&m.Actors, &m.Poster, &m.IMDBRating, &avg, &m.ReviewCount); err != nil {
			return nil, err
		}
		if avg.Valid {
			v := avg.Float64
			m.AvgRating = &v
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// MovieStats aggregates community activity for a movie.
func (r *MovieRepository) MovieStats(ctx context.Context, imdbID string) (*models.MovieStats, error) {
	stats := &models.MovieStats{IMDBID: imdbID}
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM movie_reviews WHERE imdb_id = $1
	`, imdbID).Scan(&avg, &stats.ReviewCount)
	if err != nil {
		return nil, err
	}
	if avg.Valid {
		stats.AvgRating = avg.Float64
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT interaction_type, COUNT(*)
		FROM movie_interactions
		WHERE imdb_id = $1
		GROUP BY interaction_type
	`, imdbID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		switch kind {
		case models.InteractionWatched:
			stats.Watched = n
		case models.InteractionWantToWatch:
			stats.WantToWatch = n
		case models.InteractionLike:
			stats.Liked = n
		case models.InteractionLove:
			stats.Loved = n
		}
	}
	return stats, rows.Err()
}
