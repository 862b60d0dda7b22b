package element

import "github.com/vango-dev/fiber/internal/errors"

// ErrMalformed is returned (or panicked by H) when element arguments cannot
// describe a valid element.
var ErrMalformed = errors.New("F001")
