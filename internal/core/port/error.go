package port

import (
	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/pkg/errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrFatalStore = errors.New("fatal store error")

	// ErrValidation is matched by every *model.ValidationError.
	ErrValidation = model.ErrValidation
)

// StoreError wraps a failure of the underlying storage. It is the only
// error class allowed to abort an operation outright.
type StoreError struct {
	cause error
}

func (e *StoreError) Error() string {
	return ErrFatalStore.Error() + ": " + e.cause.Error()
}

func (e *StoreError) Is(target error) bool {
	return target == ErrFatalStore
}

func (e *StoreError) Unwrap() error {
	return e.cause
}

func NewStoreError(cause error) error {
	return errors.WithStack(&StoreError{cause: cause})
}

// IsBusinessError reports whether err is an expected outcome of an
// operation rather than a storage failure.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict)
}
