package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrUnauthorized indicates the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrRefreshTokenExpired indicates a stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrNoEligiblePayers indicates an allocation run found no participant able to
// carry a share while there is a net expense to split. The allocation is still
// usable; callers surface this as a warning rather than a hard failure.
var ErrNoEligiblePayers = errors.New("no eligible payers for allocation")

// ErrInvalidState indicates a lifecycle operation was attempted on an entity
// whose current status does not permit it (e.g. finalizing a settlement that
// is not a draft, or editing a confirmed accounting record).
var ErrInvalidState = errors.New("invalid state for operation")

// ErrConcurrencyConflict indicates a concurrent writer won a state transition
// race. The losing caller must re-read state before retrying anything.
var ErrConcurrencyConflict = errors.New("concurrent modification conflict")
