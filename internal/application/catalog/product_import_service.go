package catalog

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/sales"
	"github.com/storeops/backend/internal/domain/serial"
	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/infrastructure/csvimport"
)

// Column layout of the product import file. Device identifiers and sizes
// are semicolon-delimited and positionally aligned.
const (
	colName          = "name"
	colDescription   = "description"
	colPurchasePrice = "purchase_price"
	colSellingPrice  = "selling_price"
	colSupplier      = "suppliers_name"
	colDeviceIDs     = "device_ids"
	colDeviceSizes   = "device_sizes"
	colPurchaseQty   = "purchase_qty"
)

const importDelimiter = ";"

var requiredColumns = []string{colName, colPurchasePrice, colSellingPrice}

// ImportLimits caps a single import batch. Zero values fall back to the
// built-in defaults.
type ImportLimits struct {
	MaxRows   int    // rows per file before the batch is rejected
	MaxErrors int    // row errors reported before truncation
	Delimiter string // delimiter between identifiers inside one cell
}

func (l ImportLimits) withDefaults() ImportLimits {
	if l.MaxRows <= 0 {
		l.MaxRows = 10000
	}
	if l.MaxErrors <= 0 {
		l.MaxErrors = 100
	}
	if l.Delimiter == "" {
		l.Delimiter = importDelimiter
	}
	return l
}

// ImportReport summarizes one batch import. The batch is not transactional:
// rows already applied stay applied when later rows fail or the batch is
// aborted.
type ImportReport struct {
	TotalRows int                  `json:"total_rows"`
	Inserted  int                  `json:"inserted"`
	Skipped   int                  `json:"skipped"`
	Rejected  int                  `json:"rejected"`
	Aborted   bool                 `json:"aborted"`
	Errors    []csvimport.RowError `json:"errors,omitempty"`
	Truncated bool                 `json:"errors_truncated,omitempty"`
}

// ProductImportService handles CSV batch product creation
type ProductImportService struct {
	productRepo catalog.ProductRepository
	saleRepo    sales.SaleRepository
	service     *ProductService
	limits      ImportLimits
}

// NewProductImportService creates a new ProductImportService
func NewProductImportService(
	productRepo catalog.ProductRepository,
	saleRepo sales.SaleRepository,
	service *ProductService,
) *ProductImportService {
	return NewProductImportServiceWithLimits(productRepo, saleRepo, service, ImportLimits{})
}

// NewProductImportServiceWithLimits creates a ProductImportService with
// explicit batch limits.
func NewProductImportServiceWithLimits(
	productRepo catalog.ProductRepository,
	saleRepo sales.SaleRepository,
	service *ProductService,
	limits ImportLimits,
) *ProductImportService {
	return &ProductImportService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		service:     service,
		limits:      limits.withDefaults(),
	}
}

// Import runs a batch import from a CSV stream.
//
// Rows whose name is already in the catalog are skipped and counted, not
// errors. Rows whose device identifiers collide with any registered or sold
// identifier abort the whole batch before any row is applied, reporting the
// colliding list. The worker checks the session's abort flag between rows;
// rows applied before an abort are permanent.
func (s *ProductImportService) Import(
	ctx context.Context,
	session shared.Session,
	importSession *csvimport.ImportSession,
	reader io.Reader,
) (*ImportReport, error) {
	parser, err := csvimport.NewParser(reader)
	if err != nil {
		importSession.UpdateState(csvimport.StateRejected)
		return nil, err
	}
	if missing := parser.MissingHeaders(requiredColumns); len(missing) > 0 {
		importSession.UpdateState(csvimport.StateRejected)
		return nil, shared.NewDomainError("INVALID_INPUT",
			"Missing required columns: "+strings.Join(missing, ", "))
	}

	rows, err := parser.ReadAll()
	if err != nil {
		importSession.UpdateState(csvimport.StateRejected)
		return nil, err
	}
	if len(rows) == 0 {
		importSession.UpdateState(csvimport.StateRejected)
		return nil, csvimport.ErrNoDataRows
	}
	if len(rows) > s.limits.MaxRows {
		importSession.UpdateState(csvimport.StateRejected)
		return nil, shared.NewDomainError("INVALID_INPUT",
			"File exceeds the maximum of "+strconv.Itoa(s.limits.MaxRows)+" rows")
	}

	if err := s.preflightDeviceIDs(ctx, session, rows); err != nil {
		importSession.UpdateState(csvimport.StateRejected)
		return nil, err
	}

	importSession.UpdateState(csvimport.StateRunning)

	report := &ImportReport{TotalRows: len(rows)}
	errors := csvimport.NewErrorCollection(s.limits.MaxErrors)

	for _, row := range rows {
		if importSession.Aborted() {
			report.Aborted = true
			importSession.UpdateState(csvimport.StateAborted)
			break
		}
		select {
		case <-ctx.Done():
			report.Aborted = true
			importSession.UpdateState(csvimport.StateAborted)
			return s.finish(importSession, report, errors), nil
		default:
		}

		s.importRow(ctx, session, row, report, errors)

		importSession.Inserted = report.Inserted
		importSession.Skipped = report.Skipped
		importSession.Rejected = report.Rejected
	}

	if !report.Aborted {
		importSession.UpdateState(csvimport.StateCompleted)
	}
	return s.finish(importSession, report, errors), nil
}

// preflightDeviceIDs validates every identifier in the file against the
// catalog, the sales history and the file itself. Any collision rejects
// the entire batch with the colliding list.
func (s *ProductImportService) preflightDeviceIDs(ctx context.Context, session shared.Session, rows []*csvimport.Row) error {
	var all []string
	for _, row := range rows {
		all = append(all, serial.ParseDelimitedIDs(row.Get(colDeviceIDs), s.limits.Delimiter)...)
	}
	if len(all) == 0 {
		return nil
	}

	canonical := make([]string, len(all))
	for i, id := range all {
		canonical[i] = serial.Canonical(id)
	}
	owners, err := s.productRepo.FindDeviceOwners(ctx, session.StoreID, canonical)
	if err != nil {
		return err
	}
	soldIDs, err := s.saleRepo.SoldDeviceIDs(ctx, session.StoreID)
	if err != nil {
		return err
	}

	scope := serial.CheckScope{CatalogUnits: owners, HistoricalSoldIDs: soldIDs}
	conflicts := serial.CheckAll(all, scope)
	if len(conflicts) == 0 {
		return nil
	}

	colliding := make([]string, len(conflicts))
	for i, c := range conflicts {
		colliding[i] = c.DeviceID
	}
	return shared.NewDomainError(shared.ErrDuplicateIdentifier.Code,
		"Device identifiers already registered: "+strings.Join(colliding, ", "))
}

func (s *ProductImportService) importRow(
	ctx context.Context,
	session shared.Session,
	row *csvimport.Row,
	report *ImportReport,
	errors *csvimport.ErrorCollection,
) {
	name := row.Get(colName)
	if name == "" {
		errors.Add(csvimport.NewRowError(row.LineNumber, colName, csvimport.ErrCodeRequiredField, "name is required"))
		report.Rejected++
		return
	}

	exists, err := s.productRepo.ExistsByName(ctx, session.StoreID, name)
	if err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, colName, csvimport.ErrCodeValidation, err.Error()))
		report.Rejected++
		return
	}
	if exists {
		report.Skipped++
		return
	}

	purchasePrice, err := parsePrice(row.Get(colPurchasePrice))
	if err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, colPurchasePrice, csvimport.ErrCodeInvalidType, "invalid decimal value"))
		report.Rejected++
		return
	}
	sellingPrice, err := parsePrice(row.Get(colSellingPrice))
	if err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, colSellingPrice, csvimport.ErrCodeInvalidType, "invalid decimal value"))
		report.Rejected++
		return
	}

	qty := 0
	if raw := row.Get(colPurchaseQty); raw != "" {
		qty, err = strconv.Atoi(raw)
		if err != nil || qty < 0 {
			errors.Add(csvimport.NewRowError(row.LineNumber, colPurchaseQty, csvimport.ErrCodeInvalidType, "invalid quantity"))
			report.Rejected++
			return
		}
	}

	req := CreateProductRequest{
		Name:          name,
		Description:   row.Get(colDescription),
		Supplier:      row.Get(colSupplier),
		PurchasePrice: &purchasePrice,
		SellingPrice:  &sellingPrice,
		PurchaseQty:   qty,
		DeviceIDs:     row.Get(colDeviceIDs),
		DeviceSizes:   row.Get(colDeviceSizes),
		Delimiter:     s.limits.Delimiter,
	}

	if _, err := s.service.Create(ctx, session, req); err != nil {
		errors.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeValidation, err.Error()))
		report.Rejected++
		return
	}

	report.Inserted++
}

func (s *ProductImportService) finish(importSession *csvimport.ImportSession, report *ImportReport, errors *csvimport.ErrorCollection) *ImportReport {
	report.Errors = errors.Errors()
	report.Truncated = errors.IsTruncated()
	importSession.Errors = errors.Errors()
	return report
}

func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
