package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")

	ErrStore            = errors.New("store operation failed")
	ErrClassifier       = errors.New("classification failed")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidPriority  = errors.New("invalid priority; must be low, medium, or high")
)
