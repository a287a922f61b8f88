package service

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage wraps every persistence failure. The driver error stays
	// reachable through errors.Is/As.
	ErrStorage = errors.New("storage unavailable")
)

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
