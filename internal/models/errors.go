package models

import "errors"

// Construction-time errors. Callers match them with errors.Is.
var (
	// ErrParse reports input that matches none of the accepted shapes.
	ErrParse = errors.New("parse error")
	// ErrInvariantViolation reports well-shaped input that breaks a model invariant.
	ErrInvariantViolation = errors.New("invariant violation")
)
