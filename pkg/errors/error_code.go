package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 102

	// Storage errors (200-299)
	ErrCodeStorageFailure ErrorCode = 200
	ErrCodeQueryFailed    ErrorCode = 201

	// Strategy errors (300-399)
	ErrCodeStrategyNotFound ErrorCode = 300
)
