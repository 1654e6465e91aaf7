package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrExtraction     = errors.New("text-layer extraction failure")
	ErrRecognition    = errors.New("optical recognition failure")
	ErrClassification = errors.New("classification failure")
	ErrVerification   = errors.New("registry verification failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
