// Package errorspkg provides common app errors.
package errorspkg

import "errors"

var (
	// ErrOperationFailed indicates a storage fault. The unit of work was rolled back,
	// so retrying the operation is safe.
	ErrOperationFailed = errors.New("operation failed")
	// ErrInternal is what clients see for any failure that is not their fault.
	ErrInternal = errors.New("internal error")
)
