package storage

import (
	"context"
	"errors"

	"github.com/ButyrinIA/blogapi/internal/models"
)

// ErrNoSnapshot возвращается Load, если коллекция еще ни разу не сохранялась
var ErrNoSnapshot = errors.New("no snapshot")

// Backend хранит коллекцию постов целиком: Save всегда перезаписывает весь снимок
type Backend interface {
	Load(ctx context.Context) ([]models.Post, error)
	Save(ctx context.Context, posts []models.Post) error
	Close() error
}
