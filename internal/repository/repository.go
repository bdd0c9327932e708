package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate is returned when a write trips a uniqueness constraint.
// Services map it to a 409 alongside their pre-emptive existence checks.
var ErrDuplicate = errors.New("duplicate key")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
