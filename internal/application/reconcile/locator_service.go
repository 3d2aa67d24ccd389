package reconcile

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/sales"
	"github.com/storeops/backend/internal/domain/shared"
)

// LocatorService reconstructs the per-unit view of past sales so a return
// can be matched to the exact unit it corresponds to.
type LocatorService struct {
	saleRepo    sales.SaleRepository
	receiptRepo sales.ReceiptRepository
	productRepo catalog.ProductRepository
}

// NewLocatorService creates a new LocatorService
func NewLocatorService(
	saleRepo sales.SaleRepository,
	receiptRepo sales.ReceiptRepository,
	productRepo catalog.ProductRepository,
) *LocatorService {
	return &LocatorService{
		saleRepo:    saleRepo,
		receiptRepo: receiptRepo,
		productRepo: productRepo,
	}
}

// FindByReceipt expands every sale row of the receipt's checkout into unit
// records, preserving sale-row order then token order, with the receipt's
// customer metadata merged onto every unit.
func (s *LocatorService) FindByReceipt(ctx context.Context, session shared.Session, receiptCode string) ([]sales.UnitSaleRecord, error) {
	receiptCode = strings.TrimSpace(receiptCode)
	receipt, err := s.receiptRepo.FindByCode(ctx, session.StoreID, receiptCode)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.ErrReceiptNotFound
		}
		return nil, err
	}

	rows, err := s.saleRepo.FindByGroupID(ctx, session.StoreID, receipt.SaleGroupID)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.productSnapshots(ctx, session.StoreID, rows)
	if err != nil {
		return nil, err
	}

	var units []sales.UnitSaleRecord
	for _, row := range rows {
		for _, unit := range sales.Expand(row, snapshots[row.ProductID]) {
			attachReceipt(&unit, receipt)
			units = append(units, unit)
		}
	}
	return units, nil
}

// FindByDeviceID locates sold units whose identifier contains the query
// fragment. Only the matching tokens of each sale row are expanded, and
// each hit's receipt is resolved independently since one query can span
// multiple receipts.
func (s *LocatorService) FindByDeviceID(ctx context.Context, session shared.Session, queryFragment string) ([]sales.UnitSaleRecord, error) {
	rows, err := s.saleRepo.FindByDeviceFragment(ctx, session.StoreID, queryFragment)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.productSnapshots(ctx, session.StoreID, rows)
	if err != nil {
		return nil, err
	}

	var units []sales.UnitSaleRecord
	for _, row := range rows {
		matched := sales.ExpandMatching(row, snapshots[row.ProductID], queryFragment)
		if len(matched) == 0 {
			continue
		}
		receipt, err := s.receiptRepo.FindByGroupID(ctx, session.StoreID, row.SaleGroupID)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		for _, unit := range matched {
			if receipt != nil {
				attachReceipt(&unit, receipt)
			}
			units = append(units, unit)
		}
	}

	if len(units) == 0 {
		return nil, shared.ErrNoMatchingUnits
	}
	return units, nil
}

func (s *LocatorService) productSnapshots(ctx context.Context, storeID uuid.UUID, rows []sales.SaleRecord) (map[uuid.UUID]sales.ProductSnapshot, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		if !seen[row.ProductID] {
			seen[row.ProductID] = true
			ids = append(ids, row.ProductID)
		}
	}

	snapshots := make(map[uuid.UUID]sales.ProductSnapshot, len(ids))
	if len(ids) == 0 {
		return snapshots, nil
	}
	products, err := s.productRepo.FindByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		p := &products[i]
		snapshots[p.ID] = sales.ProductSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			Serialized: p.IsSerialized(),
		}
	}
	return snapshots, nil
}

func attachReceipt(unit *sales.UnitSaleRecord, receipt *sales.Receipt) {
	unit.ReceiptID = receipt.ID
	unit.ReceiptCode = receipt.ReceiptCode
	unit.CustomerName = receipt.CustomerName
	unit.CustomerPhone = receipt.CustomerPhone
}
