package graphql

import (
	"errors"

	"github.com/ButyrinIA/blogapi/internal/store"
)

const (
	CodeNotFound        = "NOT_FOUND"
	CodePersistence     = "PERSISTENCE_FAILURE"
	CodeUnauthenticated = "UNAUTHENTICATED"
)

// Error - ошибка резолвера с кодом в extensions ответа
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

var errUnauthenticated = &Error{Code: CodeUnauthenticated, Message: "authentication required"}

// presentError переводит ошибки хранилища в ошибки API; op - глагол мутации ("create", "update", "delete")
func presentError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: "Post not found"}
	case store.IsPersistence(err):
		return &Error{Code: CodePersistence, Message: "Failed to " + op + " post"}
	default:
		return err
	}
}
