package errors

// ErrorCategory groups related application errors for unified handling.
type ErrorCategory string

const (
	ErrCategoryValidation ErrorCategory = "VALIDATION"
	ErrCategoryNetwork    ErrorCategory = "NETWORK"
	ErrCategoryAsset      ErrorCategory = "ASSET"
	ErrCategoryFileName   ErrorCategory = "FILENAME"
	ErrCategorySystem     ErrorCategory = "SYSTEM"
	ErrCategoryConfig     ErrorCategory = "CONFIG"
	ErrCategoryDatabase   ErrorCategory = "DATABASE"
)
