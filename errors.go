package keystore

import (
	"errors"
	"fmt"
)

// Error types represent the failure kinds a store operation can surface

// ValidationError represents a configuration or argument validation error
type ValidationError struct {
	Field   string // The field or parameter that failed validation
	Value   any    // The invalid value
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DecryptionError represents a ciphertext that could not be decrypted. With
// no integrity tag in the format this is the only signal of a wrong password
// or wrong algorithm.
type DecryptionError struct {
	Algorithm string // Algorithm name, if known
	Path      string // Backing file, if applicable
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *DecryptionError) Error() string {
	switch {
	case e.Path != "" && e.Algorithm != "":
		return fmt.Sprintf("decryption error: %s (%s): %s", e.Path, e.Algorithm, e.Message)
	case e.Path != "":
		return fmt.Sprintf("decryption error: %s: %s", e.Path, e.Message)
	case e.Algorithm != "":
		return fmt.Sprintf("decryption error: %s: %s", e.Algorithm, e.Message)
	}
	return fmt.Sprintf("decryption error: %s", e.Message)
}

func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// CorruptFileError represents a file that decrypted but is not a valid
// account mapping
type CorruptFileError struct {
	Path    string // File path
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *CorruptFileError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("corrupt file: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("corrupt file: %s", e.Message)
}

func (e *CorruptFileError) Unwrap() error {
	return e.Err
}

// FilesystemError represents a failure of the underlying filesystem
type FilesystemError struct {
	Operation string // "read", "write", "mkdir", "rename", etc.
	Path      string // File path
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *FilesystemError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("filesystem error: %s %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("filesystem error: %s: %s", e.Operation, e.Message)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Common sentinel errors
var (
	ErrBadPadding          = errors.New("bad padding - wrong password or algorithm")
	ErrUnalignedCiphertext = errors.New("ciphertext length is not a multiple of the block size")
	ErrUnknownAlgorithm    = errors.New("unknown algorithm")
	ErrInvalidKeyMaterial  = errors.New("invalid key material")
	ErrClosed              = errors.New("store is closed")
	ErrNilConfig           = errors.New("config cannot be nil")
	ErrNilFileSystem       = errors.New("filesystem cannot be nil")
	ErrPanic               = errors.New("operation panicked")
)

// Helper functions for creating structured errors

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewDecryptionError creates a new decryption error
func NewDecryptionError(algorithm string, err error) error {
	return &DecryptionError{
		Algorithm: algorithm,
		Message:   err.Error(),
		Err:       err,
	}
}

// NewCorruptFileError creates a new corrupt file error
func NewCorruptFileError(path string, err error) error {
	return &CorruptFileError{
		Path:    path,
		Message: err.Error(),
		Err:     err,
	}
}

// NewFilesystemError creates a new filesystem error
func NewFilesystemError(operation, path string, err error) error {
	return &FilesystemError{
		Operation: operation,
		Path:      path,
		Message:   err.Error(),
		Err:       err,
	}
}

// Error checking helpers

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDecryptionError checks if an error is a decryption error
func IsDecryptionError(err error) bool {
	var de *DecryptionError
	return errors.As(err, &de)
}

// IsCorruptFileError checks if an error is a corrupt file error
func IsCorruptFileError(err error) bool {
	var ce *CorruptFileError
	return errors.As(err, &ce)
}

// IsFilesystemError checks if an error is a filesystem error
func IsFilesystemError(err error) bool {
	var fe *FilesystemError
	return errors.As(err, &fe)
}
