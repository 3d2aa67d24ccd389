package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Catalog and inventory errors
var (
	ErrDuplicateIdentifier = NewDomainError("DUPLICATE_IDENTIFIER", "Serialized identifier is already registered")
	ErrNegativeQuantity    = NewDomainError("NEGATIVE_QUANTITY", "Quantity must not be negative")
	ErrEmptyName           = NewDomainError("EMPTY_NAME", "Name must not be empty")
)

// Returns reconciliation errors
var (
	ErrReceiptNotFound     = NewDomainError("RECEIPT_NOT_FOUND", "Receipt does not match any recorded sale")
	ErrNoMatchingUnits     = NewDomainError("NO_MATCHING_UNITS", "No sold units match the requested return")
	ErrAmbiguousPricing    = NewDomainError("AMBIGUOUS_PRICING", "Per-unit price cannot be derived from the sale record")
	ErrDuplicateReturn     = NewDomainError("DUPLICATE_RETURN", "A return has already been recorded for this unit")
	ErrPartialBatchFailure = NewDomainError("PARTIAL_BATCH_FAILURE", "Some rows in the batch could not be processed")
)

// BackingStoreError wraps a storage failure without translating it. The
// original driver message is preserved verbatim for the caller.
type BackingStoreError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *BackingStoreError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying storage error
func (e *BackingStoreError) Unwrap() error {
	return e.Err
}

// NewBackingStoreError wraps err as a backing store failure for op
func NewBackingStoreError(op string, err error) *BackingStoreError {
	return &BackingStoreError{Op: op, Err: err}
}
