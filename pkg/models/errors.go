package models

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ErrMappingCorrupt is returned when a stored mapping record fails to
// decrypt or deserialize. The store fails closed: no partial data is ever
// returned alongside this error.
var ErrMappingCorrupt = errors.New("mapping record corrupt")

type MappingCorruptError struct {
	Key string
	Err error
}

func (e *MappingCorruptError) Error() string {
	return fmt.Sprintf("mapping record %q corrupt: %v", e.Key, e.Err)
}

func (e *MappingCorruptError) Unwrap() error {
	return ErrMappingCorrupt
}

func NewMappingCorruptError(key string, err error) error {
	return &MappingCorruptError{Key: key, Err: err}
}

// ErrDetectorUnavailable signals that the external model detector failed or
// timed out. The engine does not surface it to callers; it degrades to
// pattern-only detection and reports the degradation in the result.
var ErrDetectorUnavailable = errors.New("model detector unavailable")

type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("unknown anonymization mode: %q", e.Mode)
}
