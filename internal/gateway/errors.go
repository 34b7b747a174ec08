package gateway

import (
	"errors"
	"fmt"
)

// Tagged failures of the backend API. Callers match these with errors.Is /
// errors.As; the gateway itself never panics and never returns an untyped
// transport fault.
var (
	ErrNotFound            = errors.New("пользователь не найден")
	ErrUnauthenticated     = errors.New("требуется авторизация")
	ErrAuthFailed          = errors.New("неверные данные авторизации")
	ErrInsufficientBalance = errors.New("недостаточно средств")
)

// ServerError covers everything else: non-2xx statuses, malformed bodies and
// transport failures (Status == 0). Message keeps the backend's original text.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("ошибка сервера: %s", e.Message)
	}
	return fmt.Sprintf("ошибка сервера (%d): %s", e.Status, e.Message)
}

func serverErr(status int, message string) *ServerError {
	return &ServerError{Status: status, Message: message}
}
