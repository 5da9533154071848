package common

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds used across the storage and media layers. Handlers classify
// failures with errors.Is against these markers; absence of a child, word,
// recording or file is reported as a plain value, never as an error.
var (
	ErrValidation       = errors.New("validation error")
	ErrInvalidDate      = errors.New("invalid date")
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrInvalidTrimRange = errors.New("invalid trim range")
	ErrMediaProcessing  = errors.New("media processing error")
)

// WrapError tags err with the given kind and a caller-facing message.
// The kind must be one of the exported sentinel errors above.
func WrapError(kind error, message string, err error) error {
	message = strings.TrimSpace(message)
	if err != nil {
		if message != "" {
			return fmt.Errorf("%w: %s: %w", kind, message, err)
		}
		return fmt.Errorf("%w: %w", kind, err)
	}
	if message != "" {
		return fmt.Errorf("%w: %s", kind, message)
	}
	return kind
}
