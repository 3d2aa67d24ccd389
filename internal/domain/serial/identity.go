package serial

import "strings"

// DefaultDelimiter separates device identifiers in stored delimited fields.
const DefaultDelimiter = ","

// UnitIdentity identifies one physical unit of a serialized product.
// Size is optional and positionally aligned with the identifier list.
type UnitIdentity struct {
	DeviceID string `json:"device_id"`
	Size     string `json:"size,omitempty"`
}

// Canonical returns the comparison form of an identifier: trimmed and
// lower-cased. Two identifiers are the same iff their canonical forms match.
func Canonical(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// ParseDelimitedIDs splits a delimited identifier string into an ordered list
// of trimmed, non-empty tokens. Order is preserved because it encodes the
// alignment with the size list.
func ParseDelimitedIDs(raw, delimiter string) []string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	parts := strings.Split(raw, delimiter)
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ids = append(ids, p)
	}
	return ids
}

// AlignSizes parses rawSizes and pads or truncates the result to match the
// identifier list length. Missing entries default to the empty string.
func AlignSizes(ids []string, rawSizes, delimiter string) []string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	sizes := make([]string, len(ids))
	if rawSizes == "" {
		return sizes
	}
	parts := strings.Split(rawSizes, delimiter)
	for i := range ids {
		if i < len(parts) {
			sizes[i] = strings.TrimSpace(parts[i])
		}
	}
	return sizes
}

// ParseUnits combines identifier and size parsing into an ordered unit list.
func ParseUnits(rawIDs, rawSizes, delimiter string) []UnitIdentity {
	ids := ParseDelimitedIDs(rawIDs, delimiter)
	sizes := AlignSizes(ids, rawSizes, delimiter)
	units := make([]UnitIdentity, len(ids))
	for i, id := range ids {
		units[i] = UnitIdentity{DeviceID: id, Size: sizes[i]}
	}
	return units
}
