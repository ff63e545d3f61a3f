package sqlite

import (
	"database/sql"
	"fmt"
)

// migration represents a single database migration
type migration struct {
	version int
	name    string
	up      string
}

// migrations is the ordered list of all database migrations
// Each migration should be idempotent and safe to run multiple times
var migrations = []migration{
	{
		version: 1,
		name:    "create_posts_table",
		up: `
			CREATE TABLE IF NOT EXISTS posts (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				excerpt TEXT NOT NULL DEFAULT '',
				content TEXT NOT NULL,
				cover_image TEXT NOT NULL DEFAULT '',
				author_id TEXT NOT NULL,
				author_name TEXT NOT NULL,
				author_email TEXT NOT NULL,
				author_avatar TEXT NOT NULL DEFAULT '',
				author_bio TEXT NOT NULL DEFAULT '',
				published_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL,
				read_time INTEGER NOT NULL DEFAULT 1,
				views INTEGER NOT NULL DEFAULT 0,
				likes INTEGER NOT NULL DEFAULT 0,
				is_published INTEGER NOT NULL DEFAULT 0
			);

			CREATE INDEX IF NOT EXISTS idx_posts_published_at
			ON posts(published_at DESC)
			WHERE is_published = 1;
		`,
	},
	{
		version: 2,
		name:    "create_post_tags_table",
		up: `
			CREATE TABLE IF NOT EXISTS post_tags (
				post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
				position INTEGER NOT NULL,
				tag TEXT NOT NULL,
				PRIMARY KEY (post_id, position)
			);

			CREATE INDEX IF NOT EXISTS idx_post_tags_tag
			ON post_tags(tag);
		`,
	},
	{
		version: 3,
		name:    "create_users_table",
		up: `
			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				avatar TEXT NOT NULL DEFAULT '',
				bio TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);
		`,
	},
}

// runMigrations executes all pending migrations
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion := 0
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue // Already applied
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", m.version, err)
		}

		_, err = tx.Exec(m.up)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", m.version, m.name, err)
		}

		_, err = tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			m.version,
			m.name,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
