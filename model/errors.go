package model

import (
	"errors"
	"fmt"
)

var (
	// ErrReentrantWrite is carried by the panic raised when the model is
	// mutated while another mutation is being dispatched.
	ErrReentrantWrite = errors.New("reentrant model write")

	// ErrNoModel is returned by view operations on a detached view.
	ErrNoModel = errors.New("view is not attached to a model")
)

// Id errors, used for reporting; the mutations themselves are fail-soft.
var (
	// ErrInvalidID indicates an id that is not a valid QML identifier or is
	// reserved.
	ErrInvalidID = errors.New("invalid id")

	// ErrDuplicateID indicates an id already used by another node or
	// shadowing a property of the root node.
	ErrDuplicateID = errors.New("id already in use")
)

// ReentrancyError describes a write attempted while another write holds
// the model.
type ReentrancyError struct {
	Op     string
	Holder string
}

func (e *ReentrancyError) Error() string {
	return fmt.Sprintf("%s: %s while %s is in progress", ErrReentrantWrite, e.Op, e.Holder)
}

func (e *ReentrancyError) Is(target error) bool {
	return target == ErrReentrantWrite
}

// RewriteError is returned from the rewriter view's Notify when the source
// text could not be updated for a change. The model finishes the current
// notification and then resets the document text to LastGoodText.
type RewriteError struct {
	Description  string
	LastGoodText string
}

func (e *RewriteError) Error() string {
	return "rewrite failed: " + e.Description
}

// ViewError wraps a failure reported by, or recovered from, a view.
type ViewError struct {
	View         string
	Notification string
	Err          error
}

func (e *ViewError) Error() string {
	return fmt.Sprintf("view %q failed on %s: %s", e.View, e.Notification, e.Err)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}
