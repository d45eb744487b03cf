// Package apierrors defines the domain error kinds shared across the
// services: an entity missing upstream, a validation failure, and a
// malformed event on the consumer side. Anything else stays a plain error
// with its original context preserved.
package apierrors

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	msg string
}

func NewNotFound(format string, args ...any) error {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string { return e.msg }

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

type InvalidInputError struct {
	msg string
}

func NewInvalidInput(format string, args ...any) error {
	return &InvalidInputError{msg: fmt.Sprintf(format, args...)}
}

func (e *InvalidInputError) Error() string { return e.msg }

func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// EventProcessingError marks an event a consumer could not make sense of.
type EventProcessingError struct {
	msg string
}

func NewEventProcessing(format string, args ...any) error {
	return &EventProcessingError{msg: fmt.Sprintf(format, args...)}
}

func (e *EventProcessingError) Error() string { return e.msg }

func IsEventProcessing(err error) bool {
	var target *EventProcessingError
	return errors.As(err, &target)
}
