package postgres

import (
	"context"
	"fmt"

	"github.com/ButyrinIA/blogapi/internal/models"
	"github.com/ButyrinIA/blogapi/internal/storage"
	"github.com/jackc/pgx/v5"
)

type PostgresStorage struct {
	conn *pgx.Conn
}

func New(ctx context.Context, dsn string) (*PostgresStorage, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	_, err = conn.Exec(ctx, `
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
			saved_at TIMESTAMPTZ NOT NULL
		);
	`)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &PostgresStorage{conn: conn}, nil
}

func (s *PostgresStorage) Load(ctx context.Context) ([]models.Post, error) {
	var saved bool
	if err := s.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blog_posts_meta)`).Scan(&saved); err != nil {
		return nil, fmt.Errorf("failed to read snapshot meta: %w", err)
	}
	if !saved {
		return nil, storage.ErrNoSnapshot
	}

	rows, err := s.conn.Query(ctx, `
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
func (s *PostgresStorage) Save(ctx context.Context, posts []models.Post) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM blog_posts`); err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}

	rows := make([][]any, len(posts))
	for i, p := range posts {
		rows[i] = []any{i, p.ID, p.Title, p.Tag, p.Author, p.Date, p.Content}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"blog_posts"},
		[]string{"position", "id", "title", "tag", "author", "date", "content"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy posts: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO blog_posts_meta (id, saved_at) VALUES (1, now())
		ON CONFLICT (id) DO UPDATE SET saved_at = EXCLUDED.saved_at`)
	if err != nil {
		return fmt.Errorf("failed to update snapshot meta: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStorage) Close() error {
	return s.conn.Close(context.Background())
}
