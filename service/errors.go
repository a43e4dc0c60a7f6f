package service

import "errors"

// Sentinels returned by the service layer. The REST layer maps them to
// status codes with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
)
