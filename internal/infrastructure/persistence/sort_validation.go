package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not listed.
// Caller-supplied sort fields are concatenated into ORDER BY clauses, so
// everything outside the whitelist is discarded.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for catalog products
var ProductSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"supplier":       true,
	"kind":           true,
	"purchase_price": true,
	"selling_price":  true,
	"quantity":       true,
}

// ReturnSortFields contains allowed sort fields for return entries
var ReturnSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"product_name":  true,
	"device_id":     true,
	"quantity":      true,
	"amount":        true,
	"status":        true,
	"returned_date": true,
}
