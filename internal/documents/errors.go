package documents

import "errors"

var (
	// ErrInvalidInput marks caller input the service refuses.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound covers both absent ids and ids owned by someone else.
	ErrNotFound = errors.New("document not found")
	// ErrPersistence marks a failed store read or write.
	ErrPersistence = errors.New("document store failure")
)

// PersistenceError wraps a store failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "documents." + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrPersistence) match any store failure.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func persistenceErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
