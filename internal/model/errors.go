package model

import "errors"

// Sentinel errors shared across layers. Services wrap them with context via
// fmt.Errorf("...: %w", err); the HTTP layer maps them with errors.Is.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenMissing = errors.New("authorization token missing")
	ErrTokenInvalid = errors.New("authorization token invalid")
	ErrTokenExpired = errors.New("authorization token expired")
	ErrTokenRevoked = errors.New("authorization token revoked")

	// ErrGenerationFailed covers upstream model failures (transport, refusal).
	ErrGenerationFailed = errors.New("generation failed")
	// ErrMalformedModelOutput covers model replies that violate the contract
	// beyond what the sanitizer can repair.
	ErrMalformedModelOutput = errors.New("malformed model output")
	// ErrStorageFailed covers failures of external recording services
	// (feedback sink, speech synthesis, media storage).
	ErrStorageFailed = errors.New("upstream storage failed")
)
