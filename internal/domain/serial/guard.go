package serial

// ConflictSource names the identifier set a candidate collided with.
type ConflictSource string

const (
	// ConflictInForm means the identifier repeats within the entry form itself.
	ConflictInForm ConflictSource = "in_form"
	// ConflictInCatalog means the identifier is registered on a catalog product.
	ConflictInCatalog ConflictSource = "in_catalog"
	// ConflictInSales means the identifier appears in recorded sales history.
	ConflictInSales ConflictSource = "in_sales"
)

// Conflict describes a duplicate-identifier hit.
type Conflict struct {
	DeviceID string
	Source   ConflictSource
	// ProductName is populated for catalog conflicts when known.
	ProductName string
}

// CheckScope carries the identifier sets a candidate is validated against.
// Sets are snapshots taken by the caller; the guard itself performs no I/O.
type CheckScope struct {
	// InFormUnits are identifiers already typed or scanned in the current form.
	InFormUnits []string
	// CatalogUnits maps canonical identifiers to the owning product name.
	CatalogUnits map[string]string
	// HistoricalSoldIDs are canonical identifiers seen in sales history.
	HistoricalSoldIDs map[string]struct{}
	// AllowSold permits matches against sales history. Returns lookups set
	// this because the identifier is expected to reappear there.
	AllowSold bool
}

// Check validates a candidate identifier against the scope. It returns the
// first conflict found or nil. The check is pure; the caller decides whether
// to reject the input or surface an error.
func Check(candidate string, scope CheckScope) *Conflict {
	canonical := Canonical(candidate)
	if canonical == "" {
		return nil
	}
	for _, id := range scope.InFormUnits {
		if Canonical(id) == canonical {
			return &Conflict{DeviceID: candidate, Source: ConflictInForm}
		}
	}
	if name, ok := scope.CatalogUnits[canonical]; ok {
		return &Conflict{DeviceID: candidate, Source: ConflictInCatalog, ProductName: name}
	}
	if !scope.AllowSold {
		if _, ok := scope.HistoricalSoldIDs[canonical]; ok {
			return &Conflict{DeviceID: candidate, Source: ConflictInSales}
		}
	}
	return nil
}

// CheckAll validates every candidate in order and collects all conflicts.
// Earlier candidates become part of the in-form set for later ones, so a
// batch containing an internal duplicate is caught without caller bookkeeping.
func CheckAll(candidates []string, scope CheckScope) []Conflict {
	var conflicts []Conflict
	seen := make([]string, 0, len(candidates)+len(scope.InFormUnits))
	seen = append(seen, scope.InFormUnits...)
	for _, c := range candidates {
		s := scope
		s.InFormUnits = seen
		if conflict := Check(c, s); conflict != nil {
			conflicts = append(conflicts, *conflict)
			continue
		}
		seen = append(seen, c)
	}
	return conflicts
}
