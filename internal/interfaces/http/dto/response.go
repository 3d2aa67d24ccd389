// Package dto defines the request/response envelopes of the HTTP API.
package dto

import (
	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/shared"
)

// Response is the uniform envelope for every API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo carries machine-readable error details.
type ErrorInfo struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// ValidationDetail describes one failed field of a request body.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta carries pagination info for list responses.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse wraps data in a success envelope
func NewSuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// NewSuccessResponseWithMeta wraps list data with pagination metadata
func NewSuccessResponseWithMeta(data interface{}, meta Meta) Response {
	return Response{Success: true, Data: data, Meta: &meta}
}

// NewErrorResponse builds an error envelope
func NewErrorResponse(code, message string) Response {
	return Response{Success: false, Error: &ErrorInfo{Code: code, Message: message}}
}

// NewErrorResponseWithRequestID builds an error envelope carrying the request ID
// so clients can quote it when reporting problems.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{Success: false, Error: &ErrorInfo{Code: code, Message: message, RequestID: requestID}}
}

// NewErrorResponseWithDetails builds an error envelope with a structured payload,
// used for partial batch failures where the caller needs per-line outcomes.
func NewErrorResponseWithDetails(code, message string, details interface{}) Response {
	return Response{Success: false, Error: &ErrorInfo{Code: code, Message: message, Details: details}}
}

// NewMeta computes pagination metadata
func NewMeta(page, pageSize int, total int64) Meta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Meta{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// ListRequest is the shared query shape for paginated list endpoints.
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,max=64"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"omitempty,max=255"`
}

// DefaultListRequest returns a ListRequest with defaults applied
func DefaultListRequest() ListRequest {
	return ListRequest{Page: 1, PageSize: 20, OrderDir: "desc"}
}

// ToFilter converts the request into a domain filter, applying defaults
// for missing values.
func (r ListRequest) ToFilter() shared.Filter {
	f := shared.DefaultFilter()
	if r.Page > 0 {
		f.Page = r.Page
	}
	if r.PageSize > 0 {
		f.PageSize = r.PageSize
	}
	if r.OrderBy != "" {
		f.OrderBy = r.OrderBy
	}
	if r.OrderDir != "" {
		f.OrderDir = r.OrderDir
	}
	f.Search = r.Search
	return f
}

// IDRequest binds a UUID path parameter.
type IDRequest struct {
	ID uuid.UUID `uri:"id" binding:"required"`
}
