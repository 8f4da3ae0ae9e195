package mutate

import (
	"errors"
	"fmt"
)

// ErrDeclined is returned when the user declines a confirmation gate. Nothing was mutated.
var ErrDeclined = errors.New("declined")

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
