package outcome

import "errors"

// Sentinel kinds for outcome errors.
var (
	ErrUnknownCategory = errors.New("unknown outcome category")
)
