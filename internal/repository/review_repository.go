package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/laasyan18/Tunr/internal/models"
)

// ReviewRepository handles database operations for movie reviews.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert creates or updates the review for (user, movie). A second review for
// the same pair overwrites the first, never duplicates it.
func (r *ReviewRepository) Upsert(ctx context.Context, userID int, imdbID string, rating int, text string) (*models.Review, error) {
	var rev models.Review
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO movie_reviews (user_id, imdb_id, rating, review_text, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, imdb_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			review_text = EXCLUDED.review_text,
			updated_at = NOW()
		RETURNING id, user_id, imdb_id, rating, review_text, created_at, updated_at
	`, userID, imdbID, rating, text).Scan(
		&rev.ID, &rev.UserID, &rev.IMDBID, &rev.Rating, &rev.ReviewText,
		&rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert review: %w", err)
	}
	return &rev, nil
}

// Delete removes a review owned by userID.
func (r *ReviewRepository) Delete(ctx context.Context, reviewID, userID int) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM movie_reviews WHERE id = $1 AND user_id = $2
	`, reviewID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ByUser returns a user's reviews with movie metadata joined, newest first.
// limit <= 0 returns all.
func (r *ReviewRepository) ByUser(ctx context.Context, userID, limit int) ([]models.Review, error) {
	query := `
		SELECT rev.id, rev.user_id, rev.imdb_id, rev.rating, rev.review_text,
			rev.created_at, rev.updated_at,
			m.title, m.year, m.genre, m.director, m.actors, m.poster, m.imdb_rating
		FROM movie_reviews rev
		INNER JOIN movies m ON m.imdb_id = rev.imdb_id
		WHERE rev.user_id = $1
		ORDER BY rev.created_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return r.queryReviews(ctx, query, args...)
}

// ByMovie returns all reviews of a movie with reviewer usernames.
func (r *ReviewRepository) ByMovie(ctx context.Context, imdbID string) ([]models.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rev.id, rev.user_id, u.username, rev.imdb_id, rev.rating,
			rev.review_text, rev.created_at, rev.updated_at
		FROM movie_reviews rev
		INNER JOIN users u ON u.id = rev.user_id
		WHERE rev.imdb_id = $1
		ORDER BY rev.created_at DESC
	`, imdbID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.Username, &rev.IMDBID,
			&rev.Rating, &rev.ReviewText, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// FolloweeFavorites groups followee reviews rated >= 4 by movie, counting the
// distinct followees behind each movie.
func (r *ReviewRepository) FolloweeFavorites(ctx context.Context, followeeIDs []int, excludeIDs []string, limit int) ([]models.RankedMovie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.imdb_id, m.title, m.year, m.genre, m.director, m.actors,
			m.poster, m.imdb_rating,
			AVG(rev.rating)::float8 AS avg_rating,
			COUNT(rev.id) AS review_count,
			COUNT(DISTINCT rev.user_id) AS love_count
		FROM movie_reviews rev
		INNER JOIN movies m ON m.imdb_id = rev.imdb_id
		WHERE rev.user_id = ANY($1)
		  AND rev.rating >= 4
		  AND rev.imdb_id <> ALL($2)
		GROUP BY m.imdb_id
		ORDER BY love_count DESC, avg_rating DESC
		LIMIT $3
	`, pq.Array(followeeIDs), pq.Array(excludeIDs), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []models.RankedMovie
	for rows.Next() {
		var m models.RankedMovie
		var avg sql.NullFloat64
		if err := rows.Scan(&m.IMDBID, &m.Title, &m.Year, &m.Genre, &m.Director,
			&m.Actors, &m.Poster, &m.IMDBRating, &avg, &m.ReviewCount, &m.LoveCount); err != nil {
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

// RecentFolloweeReviews returns followee reviews at or above minRating,
// newest first, with reviewer usernames and movie metadata.
func (r *ReviewRepository) RecentFolloweeReviews(ctx context.Context, followeeIDs []int, minRating, limit int) ([]models.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rev.id, rev.user_id, u.username, rev.imdb_id, rev.rating,
			rev.review_text, rev.created_at, rev.updated_at,
			m.title, m.year, m.genre, m.director, m.actors, m.poster, m.imdb_rating
		FROM movie_reviews rev
		INNER JOIN users u ON u.id = rev.user_id
		INNER JOIN movies m ON m.imdb_id = rev.imdb_id
		WHERE rev.user_id = ANY($1) AND rev.rating >= $2
		ORDER BY rev.created_at DESC
		LIMIT $3
	`, pq.Array(followeeIDs), minRating, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rev models.Review
		var m models.Movie
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.Username, &rev.IMDBID,
			&rev.Rating, &rev.ReviewText, &rev.CreatedAt, &rev.UpdatedAt,
			&m.Title, &m.Year, &m.Genre, &m.Director, &m.Actors, &m.Poster,
			&m.IMDBRating); err != nil {
			return nil, err
		}
		m.IMDBID = rev.IMDBID
		rev.Movie = &m
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// RatedIDs returns the set of movie ids a user has reviewed.
func (r *ReviewRepository) RatedIDs(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT imdb_id FROM movie_reviews WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountByUser returns how many reviews a user has written.
func (r *ReviewRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM movie_reviews WHERE user_id = $1
	`, userID).Scan(&n)
	return n, err
}

func (r *ReviewRepository) queryReviews(ctx context.Context, query string, args ...any) ([]models.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rev models.Review
		var m models.Movie
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.IMDBID, &rev.Rating,
			&rev.ReviewText, &rev.CreatedAt, &rev.UpdatedAt,
			&m.Title, &m.Year, &m.Genre, &m.Director, &m.Actors, &m.Poster,
			&m.IMDBRating); err != nil {
			return nil, err
		}
		m.IMDBID = rev.IMDBID
		rev.Movie = &m
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
