package models

import "fmt"

// Error types for consistent handling across the pipeline. Business-data
// anomalies (unbalanced trial balance, reconciliation discrepancies, missing
// fiscal-period match) are never modeled as errors; only contract violations
// and infrastructure failures are.

// ErrContract indicates a programming-contract violation, such as a nil
// transaction set passed to the reconciliation engine.
type ErrContract struct {
	Op     string
	Reason string
}

func (e *ErrContract) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Reason)
}

// ErrValidation indicates invalid input data.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrPersistence indicates a repository failure during materialization.
// The whole document batch is rolled back when this occurs.
type ErrPersistence struct {
	Op  string
	Err error
}

func (e *ErrPersistence) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *ErrPersistence) Unwrap() error {
	return e.Err
}
