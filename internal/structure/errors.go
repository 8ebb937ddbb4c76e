package structure

import (
	"errors"
	"fmt"
)

// Validation errors reported by Descriptor.Validate and Prepare.
var (
	ErrNoPositions = errors.New("structure: no atom positions given")

	ErrNoSpecies = errors.New("structure: no atomicNumbers or chemicalSymbols given")

	// ErrAmbiguousPositions indicates both scaledPositions and positions.
	ErrAmbiguousPositions = errors.New("structure: both scaledPositions and positions given")

	// ErrLengthMismatch indicates a position count different from the species count.
	ErrLengthMismatch = errors.New("structure: number of positions does not match number of species")

	ErrInvalidBonds = errors.New(`structure: invalid value for bonds, use "auto", "off" or a list of index pairs`)

	ErrUnknownSymbol = errors.New("structure: unknown chemical symbol")

	// ErrAtomicNumberRange indicates an atomic number outside [1,103].
	ErrAtomicNumberRange = errors.New("structure: atomic number out of range")

	// ErrMissingCell indicates periodic axes or scaled positions without a cell.
	ErrMissingCell = errors.New("structure: cell required")

	ErrPeriodicity = errors.New("structure: pbc must have exactly three entries")

	// ErrTagIndex indicates a tag referencing a missing atom.
	ErrTagIndex = errors.New("structure: tag index out of range")
)

// ValidationError attaches the offending descriptor field to a sentinel.
type ValidationError struct {
	Field  string
	Detail string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Err: err, Detail: fmt.Sprintf(format, args...)}
}
