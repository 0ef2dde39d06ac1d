// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNoSpotPrice     = errors.New("no spot price available")
	ErrNoIVData        = errors.New("no implied volatility data found")
	ErrNoLegs          = errors.New("strategy has no legs")
	ErrNoChainData     = errors.New("option chain is empty")
	ErrNoHistory       = errors.New("no historical price data")
	ErrNoSimulation    = errors.New("no simulation data supplied")
	ErrConfigInvalid   = errors.New("invalid configuration")
	ErrDatabaseError   = errors.New("database error")
	ErrDecisionMissing = errors.New("decision not found")
)

// ValidationError represents a validation error on input construction.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// DataError represents missing or unusable market data. Operations that hit
// one degrade to an explicit no-data result instead of failing outright.
type DataError struct {
	DataType string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s]: %s: %v", e.DataType, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s]: %s", e.DataType, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Message:  message,
		Err:      err,
	}
}

// NumericError represents a guarded numeric degeneracy (zero denominator,
// zero volatility). It is carried inside result records as a warning, never
// allowed to propagate as NaN or Inf.
type NumericError struct {
	Quantity string
	Message  string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("numeric degeneracy [%s]: %s", e.Quantity, e.Message)
}

// NewNumericError creates a new NumericError.
func NewNumericError(quantity, message string) *NumericError {
	return &NumericError{
		Quantity: quantity,
		Message:  message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
