package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/laasyan18/Tunr/internal/config"
)

// NewPostgres creates a new PostgreSQL connection and runs migrations.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(150) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			bio TEXT DEFAULT '',
			spotify_display_name VARCHAR(255) DEFAULT '',
			spotify_access_token TEXT DEFAULT '',
			spotify_refresh_token TEXT DEFAULT '',
			spotify_token_expires TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS follows (
			follower_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			followee_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (follower_id, followee_id),
			CHECK (follower_id <> followee_id)
		)`,
		`CREATE TABLE IF NOT EXISTS movies (
			imdb_id VARCHAR(20) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			year VARCHAR(10) DEFAULT '',
			genre VARCHAR(255) DEFAULT '',
			director VARCHAR(255) DEFAULT '',
			actors TEXT DEFAULT '',
			plot TEXT DEFAULT '',
			poster TEXT DEFAULT '',
			imdb_rating VARCHAR(10) DEFAULT '',
			runtime VARCHAR(20) DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS movie_reviews (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			imdb_id VARCHAR(20) REFERENCES movies(imdb_id) ON DELETE CASCADE,
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			review_text TEXT DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE (user_id, imdb_id)
		)`,
		`CREATE TABLE IF NOT EXISTS movie_interactions (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			imdb_id VARCHAR(20) REFERENCES movies(imdb_id) ON DELETE CASCADE,
			interaction_type VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE (user_id, imdb_id, interaction_type)
		)`,
		`CREATE TABLE IF NOT EXISTS liked_songs (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			spotify_track_id VARCHAR(100) NOT NULL,
			track_name VARCHAR(255) NOT NULL,
			artist_name VARCHAR(255) NOT NULL,
			album_name VARCHAR(255) DEFAULT '',
			album_image_url TEXT DEFAULT '',
			liked_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE (user_id, spotify_track_id)
		)`,
		`CREATE TABLE IF NOT EXISTS recently_played (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			spotify_track_id VARCHAR(100) NOT NULL,
			track_name VARCHAR(255) NOT NULL,
			artist_name VARCHAR(255) NOT NULL,
			album_name VARCHAR(255) DEFAULT '',
			album_image_url TEXT DEFAULT '',
			played_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, spotify_track_id, played_at)
		)`,
		`CREATE TABLE IF NOT EXISTS saved_playlists (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			spotify_playlist_id VARCHAR(100) NOT NULL,
			playlist_name VARCHAR(255) NOT NULL,
			playlist_image_url TEXT DEFAULT '',
			saved_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE (user_id, spotify_playlist_id)
		)`,
		// Indexes for common query patterns
		`CREATE INDEX IF NOT EXISTS idx_reviews_user ON movie_reviews(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_movie ON movie_reviews(imdb_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON movie_interactions(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_movie ON movie_interactions(imdb_id, interaction_type)`,
		`CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows(followee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recently_played_user ON recently_played(user_id, played_at DESC)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
