package code

var codeMessageMap = map[int]string{
	// common
	ErrSuccess:           "success",
	ErrUnknown:           "unknown error",
	ErrBind:              "invalid request body",
	ErrValidation:        "request validation failed",
	ErrTokenInvalid:      "invalid authentication token",
	ErrTooManyRequests:   "too many requests, try again later",
	ErrPermissionDenied:  "permission denied",
	ErrNotFound:          "resource not found",
	ErrInvalidTransition: "action not allowed in the current state",
	ErrStaleState:        "the record was modified concurrently, reload and retry",

	// users
	ErrUserNotFound:          "user not found",
	ErrUserAlreadyExist:      "user already exists",
	ErrUserPasswordIncorrect: "invalid username or password",

	// payments
	ErrPaymentFailed: "payment failed",

	// database
	ErrDatabase:       "database error",
	ErrRecordNotFound: "record not found",

	// migration
	ErrMigrationFailed:  "migration failed",
	ErrConnectionFailed: "connection failed",
}

var codeStatusMap = map[int]int{
	// common
	ErrSuccess:           StatusOK,
	ErrUnknown:           StatusInternalServerError,
	ErrBind:              StatusBadRequest,
	ErrValidation:        StatusBadRequest,
	ErrTokenInvalid:      StatusUnauthorized,
	ErrTooManyRequests:   StatusTooManyRequests,
	ErrPermissionDenied:  StatusForbidden,
	ErrNotFound:          StatusNotFound,
	ErrInvalidTransition: StatusConflict,
	ErrStaleState:        StatusConflict,

	// users
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// payments
	ErrPaymentFailed: StatusBadGateway,

	// database
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// migration
	ErrMigrationFailed:  StatusInternalServerError,
	ErrConnectionFailed: StatusInternalServerError,
}

// GetMessage returns the default message for code
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "unknown error"
}

// GetStatus returns the HTTP status for code
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
