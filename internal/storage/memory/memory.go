package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/ButyrinIA/blogapi/internal/models"
	"github.com/ButyrinIA/blogapi/internal/storage"
)

var ErrClosed = errors.New("memory storage is closed")

// MemoryStorage держит снимок коллекции в памяти процесса
type MemoryStorage struct {
	posts   []models.Post
	saved   bool
	saves   int
	failErr error
	closed  bool
	mu      sync.RWMutex
}

func New() *MemoryStorage {
	return &MemoryStorage{}
}

// NewWithPosts создает хранилище с уже существующим снимком
func NewWithPosts(posts []models.Post) *MemoryStorage {
	return &MemoryStorage{posts: models.Clone(posts), saved: true}
}

func (s *MemoryStorage) Load(ctx context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	if !s.saved {
		return nil, storage.ErrNoSnapshot
	}
	return models.Clone(s.posts), nil
}

func (s *MemoryStorage) Save(ctx context.Context, posts []models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.failErr != nil {
		return s.failErr
	}
	s.posts = models.Clone(posts)
	s.saved = true
	s.saves++
	return nil
}

// FailSaves заставляет последующие Save возвращать err; nil снимает сбой
func (s *MemoryStorage) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Saves возвращает число успешных записей снимка
func (s *MemoryStorage) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Snapshot возвращает последний сохраненный снимок
func (s *MemoryStorage) Snapshot() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Clone(s.posts)
}

func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = nil
	s.closed = true
	return nil
}
