package sentinel

import "errors"

// Sentinel dependency errors. Stores and token primitives return these
// (optionally wrapped) so services can translate them into API errors
// exactly once.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrMalformed = errors.New("malformed")
	ErrExpired   = errors.New("expired")
	ErrWrongType = errors.New("wrong token type")
	ErrRevoked   = errors.New("revoked")
)
