// Package store владеет коллекцией постов и синхронизирует ее с хранилищем
// после каждой мутации.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ButyrinIA/blogapi/internal/metrics"
	"github.com/ButyrinIA/blogapi/internal/models"
	"github.com/ButyrinIA/blogapi/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

type PostStore struct {
	backend storage.Backend
	logger  *zap.Logger
	metrics *metrics.Metrics
	newID   func() string

	mu    sync.Mutex
	posts []models.Post
}

type Option func(*PostStore)

func WithLogger(logger *zap.Logger) Option {
	return func(s *PostStore) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *PostStore) { s.metrics = m }
}

// WithIDGenerator подменяет генератор id (по умолчанию UUIDv4)
func WithIDGenerator(gen func() string) Option {
	return func(s *PostStore) { s.newID = gen }
}

// Open загружает коллекцию из backend. Если снимка еще нет, сразу сохраняет пустую коллекцию.
func Open(ctx context.Context, backend storage.Backend, opts ...Option) (*PostStore, error) {
	s := &PostStore{
		backend: backend,
		logger:  zap.NewNop(),
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}

	posts, err := backend.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNoSnapshot):
		s.logger.Info("Снимок постов не найден, создается пустая коллекция")
		posts = []models.Post{}
		if err := s.persist(ctx, posts); err != nil {
			return nil, &PersistenceError{Op: "init", Err: err}
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load posts: %w", err)
	default:
		if err := validateSnapshot(posts); err != nil {
			s.logger.Error("Снимок постов поврежден", zap.Error(err))
			return nil, err
		}
		s.logger.Info("Посты загружены", zap.Int("count", len(posts)))
	}

	s.posts = posts
	return s, nil
}

func validateSnapshot(posts []models.Post) error {
	seen := make(map[string]int, len(posts))
	for i, p := range posts {
		if p.ID == "" {
			return fmt.Errorf("%w: post #%d has empty id", ErrInvalidSnapshot, i)
		}
		if j, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: duplicate id %q at #%d and #%d", ErrInvalidSnapshot, p.ID, j, i)
		}
		seen[p.ID] = i
	}
	return nil
}

// List возвращает копию всей коллекции в порядке добавления
func (s *PostStore) List(ctx context.Context) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Clone(s.posts)
}

func (s *PostStore) Get(ctx context.Context, id string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.posts, id)
	if i < 0 {
		return models.Post{}, ErrNotFound
	}
	return s.posts[i], nil
}

// GetMany ищет посты по списку id; для отсутствующих в errs[i] будет ErrNotFound
func (s *PostStore) GetMany(ctx context.Context, ids []string) ([]models.Post, []error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]int, len(s.posts))
	for i, p := range s.posts {
		byID[p.ID] = i
	}

	posts := make([]models.Post, len(ids))
	errs := make([]error, len(ids))
	for i, id := range ids {
		idx, ok := byID[id]
		if !ok {
			errs[i] = ErrNotFound
			continue
		}
		posts[i] = s.posts[idx]
	}
	return posts, errs
}

func (s *PostStore) Create(ctx context.Context, input models.PostInput) (models.Post, error) {
	return s.mutate(ctx, OpCreate, func(posts []models.Post) ([]models.Post, models.Post, error) {
		id := s.newID()
		for id == "" || indexOf(posts, id) >= 0 {
			id = s.newID()
		}

		post := models.Post{ID: id}
		input.Apply(&post)
		return append(posts, post), post, nil
	})
}

// Update заменяет все поля поста, кроме id
func (s *PostStore) Update(ctx context.Context, id string, input models.PostInput) (models.Post, error) {
	return s.mutate(ctx, OpUpdate, func(posts []models.Post) ([]models.Post, models.Post, error) {
		i := indexOf(posts, id)
		if i < 0 {
			return nil, models.Post{}, ErrNotFound
		}
		input.Apply(&posts[i])
		return posts, posts[i], nil
	})
}

func (s *PostStore) Delete(ctx context.Context, id string) (models.Post, error) {
	return s.mutate(ctx, OpDelete, func(posts []models.Post) ([]models.Post, models.Post, error) {
		i := indexOf(posts, id)
		if i < 0 {
			return nil, models.Post{}, ErrNotFound
		}
		deleted := posts[i]
		return append(posts[:i], posts[i+1:]...), deleted, nil
	})
}

func (s *PostStore) Close() error {
	return s.backend.Close()
}

// mutate применяет fn к копии коллекции и публикует результат только после
// успешной записи снимка, так что при сбое память остается прежней
func (s *PostStore) mutate(ctx context.Context, op string, fn func([]models.Post) ([]models.Post, models.Post, error)) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, post, err := fn(models.Clone(s.posts))
	if err != nil {
		s.metrics.ObserveOperation(op, metrics.ResultNotFound)
		s.logger.Info("Мутация отклонена", zap.String("op", op), zap.Error(err))
		return models.Post{}, err
	}

	if err := s.persist(ctx, next); err != nil {
		perr := &PersistenceError{Op: op, Err: err}
		s.metrics.ObserveOperation(op, metrics.ResultError)
		s.logger.Error("Ошибка записи постов", zap.String("op", op), zap.String("id", post.ID), zap.Error(err))
		return models.Post{}, perr
	}

	s.posts = next
	s.metrics.ObserveOperation(op, metrics.ResultOK)
	s.logger.Info("Посты сохранены", zap.String("op", op), zap.String("id", post.ID), zap.Int("count", len(next)))
	return post, nil
}

func (s *PostStore) persist(ctx context.Context, posts []models.Post) error {
	start := time.Now()
	err := s.backend.Save(ctx, posts)
	s.metrics.ObservePersist(time.Since(start), err)
	return err
}

func indexOf(posts []models.Post, id string) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
