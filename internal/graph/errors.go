package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by lookups when no record matches.
	ErrNotFound = errors.New("record not found")

	// ErrUnboundParameter is returned when a statement references a placeholder
	// that no parameter binds. The statement is never sent to the store.
	ErrUnboundParameter = errors.New("unbound query parameter")

	// ErrConflictingParameter is returned when one key is bound to two different values.
	ErrConflictingParameter = errors.New("conflicting query parameter")

	// ErrTransactionClosed is returned when a committed or rolled back transaction is reused.
	ErrTransactionClosed = errors.New("transaction already closed")
)

// TransactionFailure reports that the store rejected or could not complete a unit of work.
// By the time it is returned the owning transaction has been rolled back.
type TransactionFailure struct {
	// Op is the phase that failed: "begin", "execute" or "commit".
	Op string
	// Statements is the number of statements that were part of the failed unit.
	Statements int
	// Err is the underlying store error.
	Err error
}

func (e *TransactionFailure) Error() string {
	return fmt.Sprintf("transaction failed during %s (%d statements): %v", e.Op, e.Statements, e.Err)
}

func (e *TransactionFailure) Unwrap() error {
	return e.Err
}
