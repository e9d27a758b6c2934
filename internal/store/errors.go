package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("post not found")
	// ErrInvalidSnapshot - в загруженном снимке пустой или повторяющийся id
	ErrInvalidSnapshot = errors.New("invalid posts snapshot")
)

// PersistenceError - сбой записи снимка; коллекция в памяти при этом не меняется
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist posts after %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence сообщает, вызвана ли ошибка сбоем записи снимка
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
