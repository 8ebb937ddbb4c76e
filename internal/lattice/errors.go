package lattice

import "errors"

// ErrDegenerateCell indicates basis vectors that cannot be inverted. Callers
// treat it as a configuration error and do not retry.
var ErrDegenerateCell = errors.New("lattice: degenerate cell")
