package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes; none of them leaves partial state behind.
var (
	// ErrPreconditionFailed indicates the record was not in the state the
	// transition requires, or a workflow precondition did not hold.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrValidation indicates a payload or identity failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound        = errors.New("user not found")
	ErrSubjectNotFound     = errors.New("subject not found")
	ErrPracticalNotFound   = errors.New("practical not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrCertificateNotFound = errors.New("certificate not found")
)
