package code

// HTTP status codes.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusCreated - 201: resource created.
	StatusCreated = 201
	// StatusBadRequest - 400: bad request parameters.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: not authenticated.
	StatusUnauthorized = 401
	// StatusForbidden - 403: access denied.
	StatusForbidden = 403
	// StatusNotFound - 404: resource not found.
	StatusNotFound = 404
	// StatusConflict - 409: state conflict.
	StatusConflict = 409
	// StatusTooManyRequests - 429: too many requests.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: internal server error.
	StatusInternalServerError = 500
	// StatusBadGateway - 502: upstream failure.
	StatusBadGateway = 502
)

// Common error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request binding failed.
	ErrBind
	// ErrValidation - 400: request validation failed.
	ErrValidation
	// ErrTokenInvalid - 401: invalid token.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: rate limit exceeded.
	ErrTooManyRequests
	// ErrPermissionDenied - 403: the caller may not perform this action.
	ErrPermissionDenied
	// ErrNotFound - 404: record not found.
	ErrNotFound
	// ErrInvalidTransition - 409: the record is not in a state that allows this action.
	ErrInvalidTransition
	// ErrStaleState - 409: the record changed concurrently.
	ErrStaleState
)

// User error codes (101xxx).
const (
	// ErrUserNotFound - 404: user not found.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: user already exists.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: wrong credentials.
	ErrUserPasswordIncorrect
)

// Payment error codes (102xxx).
const (
	// ErrPaymentFailed - 502: the payment gateway refused or failed the charge.
	ErrPaymentFailed int = iota + 102000
)

// Database error codes (105xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: record not found.
	ErrRecordNotFound
)

// Migration error codes (109xxx).
const (
	// ErrMigrationFailed - 500: migration failed.
	ErrMigrationFailed int = iota + 109000
	// ErrConnectionFailed - 500: connection failed.
	ErrConnectionFailed
)
