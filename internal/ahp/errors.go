package ahp

import "errors"

// Sentinel errors returned by the calculator. Callers match them with errors.Is;
// ErrZeroRowSum, ErrNonSquare and ErrNonPositive are wrapped with the offending row.
var (
	ErrEmpty       = errors.New("ahp: matrix has no rows")
	ErrNonSquare   = errors.New("ahp: matrix is not square")
	ErrNaNInf      = errors.New("ahp: NaN or Inf entry")
	ErrZeroRowSum  = errors.New("ahp: row sum must be non-zero")
	ErrNonPositive = errors.New("ahp: entries must be positive")
)
