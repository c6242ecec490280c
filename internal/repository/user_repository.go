package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/laasyan18/Tunr/internal/models"
)

// UserRepository handles database operations for users and the follow graph.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user with a hashed password.
func (r *UserRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, bio, created_at
	`, username, email, passwordHash).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getUser(ctx, `WHERE id = $1`, id)
}

// GetByUsername returns a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `WHERE username = $1`, username)
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, bio, created_at FROM users `+where,
		arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Follow adds a follow edge. Adding an existing edge is a no-op.
func (r *UserRepository) Follow(ctx context.Context, followerID, followeeID int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, followerID, followeeID)
	return err
}

// Unfollow removes a follow edge. Removing an absent edge is a no-op.
func (r *UserRepository) Unfollow(ctx context.Context, followerID, followeeID int) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	return err
}

// IsFollowing reports whether follower follows followee.
func (r *UserRepository) IsFollowing(ctx context.Context, followerID, followeeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)
	`, followerID, followeeID).Scan(&exists)
	return exists, err
}

// FollowingIDs returns the ids of users that userID follows.
func (r *UserRepository) FollowingIDs(ctx context.Context, userID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT followee_id FROM follows WHERE follower_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Following returns the users that userID follows.
func (r *UserRepository) Following(ctx context.Context, userID int) ([]models.User, error) {
	return r.listUsers(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.bio, u.created_at
		FROM users u
		INNER JOIN follows f ON f.followee_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`, userID)
}

// Followers returns the users following userID.
func (r *UserRepository) Followers(ctx context.Context, userID int) ([]models.User, error) {
	return r.listUsers(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.bio, u.created_at
		FROM users u
		INNER JOIN follows f ON f.follower_id = u.id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC
	`, userID)
}

// FollowerCount returns the number of followers a user has.
func (r *UserRepository) FollowerCount(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM follows WHERE followee_id = $1
	`, userID).Scan(&n)
	return n, err
}

// CandidateUsers returns every user except userID and the ones they follow,
// for similarity scoring.
func (r *UserRepository) CandidateUsers(ctx context.Context, userID int) ([]models.User, error) {
	return r.listUsers(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.bio, u.created_at
		FROM users u
		WHERE u.id <> $1
		  AND u.id NOT IN (SELECT followee_id FROM follows WHERE follower_id = $1)
		ORDER BY u.id
	`, userID)
}

// PopularUsers returns candidate users ranked by follower count descending.
func (r *UserRepository) PopularUsers(ctx context.Context, userID, limit int) ([]models.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.username, u.bio, COUNT(f.follower_id) AS follower_count
		FROM users u
		LEFT JOIN follows f ON f.followee_id = u.id
		WHERE u.id <> $1
		  AND u.id NOT IN (SELECT followee_id FROM follows WHERE follower_id = $1)
		GROUP BY u.id
		ORDER BY follower_count DESC, u.id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.Username, &u.Bio, &u.FollowersCount); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SearchUsers does a case-insensitive substring match on username or email,
// excluding the acting user.
func (r *UserRepository) SearchUsers(ctx context.Context, userID int, query string, limit int) ([]models.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.username, u.bio,
			(SELECT COUNT(*) FROM follows WHERE followee_id = u.id) AS follower_count,
			EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = u.id) AS is_following
		FROM users u
		WHERE u.id <> $1
		  AND (u.username ILIKE '%' || $2 || '%' OR u.email ILIKE '%' || $2 || '%')
		ORDER BY u.id
		LIMIT $3
	`, userID, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.Username, &u.Bio, &u.FollowersCount, &u.IsFollowing); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) listUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetSpotifyCredentials returns the user's stored provider tokens.
func (r *UserRepository) GetSpotifyCredentials(ctx context.Context, userID int) (*models.SpotifyCredentials, error) {
	var c models.SpotifyCredentials
	var expires sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT spotify_access_token, spotify_refresh_token, spotify_token_expires, spotify_display_name
		FROM users WHERE id = $1
	`, userID).Scan(&c.AccessToken, &c.RefreshToken, &expires, &c.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.UserID = userID
	if expires.Valid {
		c.ExpiresAt = expires.Time
	}
	return &c, nil
}

// UpdateSpotifyAccessToken persists a rotated access token and its expiry.
func (r *UserRepository) UpdateSpotifyAccessToken(ctx context.Context, userID int, accessToken string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET spotify_access_token = $1, spotify_token_expires = $2, updated_at = NOW()
		WHERE id = $3
	`, accessToken, expiresAt, userID)
	return err
}
