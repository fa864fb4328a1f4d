package nanocmp

import "errors"

// Sentinel errors for registry and render operations.
var (
	ErrInvalidName        = errors.New("nanocmp: invalid tag name")
	ErrUndefinedComponent = errors.New("nanocmp: component not defined")
	ErrNoState            = errors.New("nanocmp: no instance state")
	ErrInvalidFormat      = errors.New("nanocmp: invalid state format")
	ErrSignatureInvalid   = errors.New("nanocmp: state signature verification failed")
	ErrDecryptFailed      = errors.New("nanocmp: state decryption failed")
)

// IsInvalidName checks if err reports a rejected tag name.
func IsInvalidName(err error) bool {
	return errors.Is(err, ErrInvalidName)
}

// IsUndefined checks if err reports a tag name with no registered definition.
func IsUndefined(err error) bool {
	return errors.Is(err, ErrUndefinedComponent)
}

// IsDecryptionError checks if err is a state decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}
