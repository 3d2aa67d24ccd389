package reconcile

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/returns"
	"github.com/storeops/backend/internal/domain/sales"
	"github.com/storeops/backend/internal/domain/serial"
	"github.com/storeops/backend/internal/domain/shared"
)

// LedgerService creates, edits and deletes return entries against located
// sale units, enforcing the quantity and status invariants.
type LedgerService struct {
	returnRepo  returns.ReturnRepository
	saleRepo    sales.SaleRepository
	receiptRepo sales.ReceiptRepository
	productRepo catalog.ProductRepository
	eventBus    shared.EventPublisher
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	returnRepo returns.ReturnRepository,
	saleRepo sales.SaleRepository,
	receiptRepo sales.ReceiptRepository,
	productRepo catalog.ProductRepository,
	eventBus shared.EventPublisher,
) *LedgerService {
	return &LedgerService{
		returnRepo:  returnRepo,
		saleRepo:    saleRepo,
		receiptRepo: receiptRepo,
		productRepo: productRepo,
		eventBus:    eventBus,
	}
}

// Create creates one return entry per selected unit. The batch is not
// atomic: entries already persisted stay persisted when a later one fails,
// and the result reports both sides.
func (s *LedgerService) Create(ctx context.Context, session shared.Session, req CreateReturnsRequest) (*BatchResult, error) {
	result := &BatchResult{}

	for _, unitReq := range req.Units {
		record, err := s.buildRecord(ctx, session, unitReq, req)
		if err != nil {
			result.Failed = append(result.Failed, toFailure(unitReq, err))
			continue
		}
		if err := s.returnRepo.Save(ctx, record); err != nil {
			result.Failed = append(result.Failed, toFailure(unitReq, err))
			continue
		}
		s.publishEvents(ctx, record)
		result.Created = append(result.Created, ToReturnResponse(record))
	}

	if len(result.Failed) > 0 && len(result.Created) > 0 {
		return result, shared.ErrPartialBatchFailure
	}
	if len(result.Failed) > 0 {
		return result, shared.NewDomainError(result.Failed[0].Code, result.Failed[0].Message)
	}
	return result, nil
}

// buildRecord re-derives the unit from its sale row and checks the return
// invariants before constructing the entry.
func (s *LedgerService) buildRecord(ctx context.Context, session shared.Session, unitReq ReturnUnitRequest, req CreateReturnsRequest) (*returns.ReturnRecord, error) {
	sale, err := s.saleRepo.FindByID(ctx, session.StoreID, unitReq.SaleID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.ErrNoMatchingUnits
		}
		return nil, err
	}

	receipt, err := s.receiptRepo.FindByGroupID(ctx, session.StoreID, sale.SaleGroupID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.ErrReceiptNotFound
		}
		return nil, err
	}

	snapshot, err := s.snapshot(ctx, session.StoreID, sale.ProductID)
	if err != nil {
		return nil, err
	}

	canonical := serial.Canonical(unitReq.DeviceID)
	quantity := unitReq.Quantity
	soldQty := sale.QuantitySold
	amount, _ := sales.PerUnitAmount(*sale)

	if snapshot.Serialized {
		// A serialized return targets exactly one unit.
		if canonical == "" {
			return nil, shared.ErrNoMatchingUnits
		}
		unit := matchUnit(*sale, snapshot, canonical)
		if unit == nil {
			return nil, shared.ErrNoMatchingUnits
		}
		quantity = 1
		soldQty = 1
		amount = unit.Amount
	} else {
		if quantity <= 0 {
			quantity = soldQty
		}
		amount = sale.TotalAmount
	}

	existing, err := s.returnRepo.FindActiveForUnit(ctx, session.StoreID, receipt.ID, canonical)
	if err != nil {
		return nil, err
	}
	returned := 0
	for _, r := range existing {
		returned += r.Quantity
	}
	if returned+quantity > soldQty {
		return nil, shared.ErrDuplicateReturn
	}

	record, err := returns.NewReturnRecord(
		session.StoreID, receipt.ID,
		snapshot.Name, unitReq.DeviceID,
		quantity, amount,
		req.ReasonRemark, req.ReturnedDate,
	)
	if err != nil {
		return nil, err
	}
	record.SetCreatedBy(session.UserID)
	return record, nil
}

// Update edits a return entry. Identity fields are immutable; only status,
// date and remark can change.
func (s *LedgerService) Update(ctx context.Context, session shared.Session, id uuid.UUID, req UpdateReturnRequest) (*ReturnResponse, error) {
	record, err := s.returnRepo.FindByIDForStore(ctx, session.StoreID, id)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		if !returns.ValidStatus(req.Status) {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown return status")
		}
		if err := record.ChangeStatus(req.Status); err != nil {
			return nil, err
		}
	}

	if req.ReasonRemark != nil || !req.ReturnedDate.IsZero() {
		remark := record.ReasonRemark
		if req.ReasonRemark != nil {
			remark = *req.ReasonRemark
		}
		record.UpdateDetails(remark, req.ReturnedDate)
	}

	if err := s.returnRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, record)

	response := ToReturnResponse(record)
	return &response, nil
}

// Delete removes return entries in batch. No inventory rollback happens:
// returns never restock automatically.
func (s *LedgerService) Delete(ctx context.Context, session shared.Session, req DeleteReturnsRequest) (int64, error) {
	for _, id := range req.IDs {
		record, err := s.returnRepo.FindByIDForStore(ctx, session.StoreID, id)
		if err != nil {
			if err == shared.ErrNotFound {
				continue
			}
			return 0, err
		}
		record.MarkDeleted()
		s.publishEvents(ctx, record)
	}
	return s.returnRepo.DeleteBatch(ctx, session.StoreID, req.IDs)
}

// GetByID retrieves a return entry
func (s *LedgerService) GetByID(ctx context.Context, session shared.Session, id uuid.UUID) (*ReturnResponse, error) {
	record, err := s.returnRepo.FindByIDForStore(ctx, session.StoreID, id)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(record)
	return &response, nil
}

// List retrieves the ledger with pagination
func (s *LedgerService) List(ctx context.Context, session shared.Session, filter shared.Filter) ([]ReturnResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "returned_date"
		filter.OrderDir = "desc"
	}

	records, err := s.returnRepo.FindAllForStore(ctx, session.StoreID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.returnRepo.CountForStore(ctx, session.StoreID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReturnResponse, len(records))
	for i := range records {
		responses[i] = ToReturnResponse(&records[i])
	}
	return responses, total, nil
}

func (s *LedgerService) snapshot(ctx context.Context, storeID, productID uuid.UUID) (sales.ProductSnapshot, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		if err == shared.ErrNotFound {
			// Product deleted since the sale; treat as bulk with no name.
			return sales.ProductSnapshot{ID: productID}, nil
		}
		return sales.ProductSnapshot{}, err
	}
	return sales.ProductSnapshot{ID: product.ID, Name: product.Name, Serialized: product.IsSerialized()}, nil
}

func (s *LedgerService) publishEvents(ctx context.Context, record *returns.ReturnRecord) {
	if s.eventBus == nil {
		return
	}
	events := record.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventBus.Publish(ctx, events...)
	}
	record.ClearDomainEvents()
}

func matchUnit(sale sales.SaleRecord, snapshot sales.ProductSnapshot, canonical string) *sales.UnitSaleRecord {
	for _, unit := range sales.Expand(sale, snapshot) {
		if serial.Canonical(unit.DeviceID) == canonical {
			u := unit
			return &u
		}
	}
	return nil
}

func toFailure(unitReq ReturnUnitRequest, err error) BatchFailure {
	failure := BatchFailure{
		SaleID:   unitReq.SaleID,
		DeviceID: unitReq.DeviceID,
		Code:     "BACKING_STORE_ERROR",
		Message:  err.Error(),
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		failure.Code = domainErr.Code
	}
	return failure
}
