package service

import "errors"

// Sentinel errors shared across the service layer. Handlers translate these
// into HTTP statuses through the serializer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("resource conflict")
	ErrForbidden  = errors.New("operation not allowed")
	ErrValidation = errors.New("invalid input")
	ErrStorage    = errors.New("storage failure")
)
