package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ButyrinIA/blogapi/internal/models"
	"github.com/ButyrinIA/blogapi/internal/storage"
	_ "modernc.org/sqlite"
)

type SQLiteStorage struct {
	db *sql.DB
}

func New(ctx context.Context, path string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	_, err = db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS blog_posts (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		tag TEXT NOT NULL,
		author TEXT NOT NULL,
		date TEXT NOT NULL,
		content TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS blog_posts_meta (
		id INTEGER PRIMARY KEY,
		saved_at DATETIME NOT NULL
	);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Load(ctx context.Context) ([]models.Post, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts_meta`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to read snapshot meta: %w", err)
	}
	if count == 0 {
		return nil, storage.ErrNoSnapshot
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, tag, author, date, content
		FROM blog_posts
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Tag, &p.Author, &p.Date, &p.Content); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Save заменяет снимок целиком в одной транзакции
func (s *SQLiteStorage) Save(ctx context.Context, posts []models.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blog_posts`); err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO blog_posts (position, id, title, tag, author, date, content)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range posts {
		if _, err := stmt.ExecContext(ctx, i, p.ID, p.Title, p.Tag, p.Author, p.Date, p.Content); err != nil {
			return fmt.Errorf("failed to insert post %s: %w", p.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO blog_posts_meta (id, saved_at) VALUES (1, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at`)
	if err != nil {
		return fmt.Errorf("failed to update snapshot meta: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
