package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/inventory"
	"github.com/storeops/backend/internal/domain/sales"
	"github.com/storeops/backend/internal/domain/serial"
	"github.com/storeops/backend/internal/domain/shared"
)

// ProductService handles catalog entry operations
type ProductService struct {
	productRepo catalog.ProductRepository
	saleRepo    sales.SaleRepository
	counterRepo inventory.CounterRepository
	eventBus    shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	saleRepo sales.SaleRepository,
	counterRepo inventory.CounterRepository,
	eventBus shared.EventPublisher,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		counterRepo: counterRepo,
		eventBus:    eventBus,
	}
}

// Create creates a bulk or serialized product depending on whether the
// request carries device identifiers.
func (s *ProductService) Create(ctx context.Context, session shared.Session, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByName(ctx, session.StoreID, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
	}

	var product *catalog.Product
	units := serial.ParseUnits(req.DeviceIDs, req.DeviceSizes, req.Delimiter)
	if len(units) > 0 {
		if err := s.guardUnits(ctx, session.StoreID, units); err != nil {
			return nil, err
		}
		product, err = catalog.NewSerializedProduct(session.StoreID, req.Name, units)
	} else {
		product, err = catalog.NewBulkProduct(session.StoreID, req.Name, req.PurchaseQty, req.GenericCode, req.Size)
	}
	if err != nil {
		return nil, err
	}

	product.SetCreatedBy(session.UserID)

	if req.Description != "" || req.Supplier != "" {
		if err := product.Update(req.Name, req.Description, req.Supplier); err != nil {
			return nil, err
		}
	}

	purchasePrice := decimal.Zero
	sellingPrice := decimal.Zero
	if req.PurchasePrice != nil {
		purchasePrice = *req.PurchasePrice
	}
	if req.SellingPrice != nil {
		sellingPrice = *req.SellingPrice
	}
	if !purchasePrice.IsZero() || !sellingPrice.IsZero() {
		if err := product.SetPrices(purchasePrice, sellingPrice); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if err := s.initCounter(ctx, session.StoreID, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, session shared.Session, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, session.StoreID, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Inventory returns the running availability counter of a product
func (s *ProductService) Inventory(ctx context.Context, session shared.Session, productID uuid.UUID) (*InventoryResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, session.StoreID, productID)
	if err != nil {
		return nil, err
	}

	counter, err := s.counterRepo.FindByProduct(ctx, session.StoreID, productID)
	if err != nil {
		return nil, err
	}

	return &InventoryResponse{
		ProductID:    product.ID,
		ProductName:  product.Name,
		AvailableQty: counter.AvailableQty,
		QuantitySold: counter.QuantitySold,
		UpdatedAt:    counter.UpdatedAt,
	}, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, session shared.Session, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}

	products, err := s.productRepo.FindAllForStore(ctx, session.StoreID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForStore(ctx, session.StoreID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Update edits the descriptive fields of a product
func (s *ProductService) Update(ctx context.Context, session shared.Session, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, session.StoreID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.Supplier); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Restock increases a bulk product's quantity and its available counter
func (s *ProductService) Restock(ctx context.Context, session shared.Session, productID uuid.UUID, req RestockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, session.StoreID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.RestockBulk(req.Delta); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	counter, err := s.counterRepo.FindByProduct(ctx, session.StoreID, product.ID)
	if err != nil {
		return nil, err
	}
	if err := counter.Restock(req.Delta); err != nil {
		return nil, err
	}
	if err := s.counterRepo.Save(ctx, counter); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// AppendUnits appends serialized units to a product, counting them as
// restocked stock. Reserved to the owner role.
func (s *ProductService) AppendUnits(ctx context.Context, session shared.Session, productID uuid.UUID, req AppendUnitsRequest) (*ProductResponse, error) {
	if !session.IsOwner() {
		return nil, shared.ErrForbidden
	}

	product, err := s.productRepo.FindByIDForStore(ctx, session.StoreID, productID)
	if err != nil {
		return nil, err
	}

	units := serial.ParseUnits(req.DeviceIDs, req.DeviceSizes, req.Delimiter)
	if len(units) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No device identifiers provided")
	}

	owners, err := s.catalogOwners(ctx, session.StoreID, units)
	if err != nil {
		return nil, err
	}
	soldIDs, err := s.saleRepo.SoldDeviceIDs(ctx, session.StoreID)
	if err != nil {
		return nil, err
	}
	scope := serial.CheckScope{CatalogUnits: owners, HistoricalSoldIDs: soldIDs}
	if conflicts := serial.CheckAll(unitIDs(units), scope); len(conflicts) > 0 {
		return nil, conflictError(conflicts[0])
	}

	if err := product.AppendSerialUnits(units, owners); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	counter, err := s.counterRepo.FindByProduct(ctx, session.StoreID, product.ID)
	if err != nil {
		return nil, err
	}
	if err := counter.Restock(len(units)); err != nil {
		return nil, err
	}
	if err := s.counterRepo.Save(ctx, counter); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product and cascades to its inventory counter.
// Reserved to the owner role.
func (s *ProductService) Delete(ctx context.Context, session shared.Session, productID uuid.UUID) error {
	if !session.IsOwner() {
		return shared.ErrForbidden
	}

	product, err := s.productRepo.FindByIDForStore(ctx, session.StoreID, productID)
	if err != nil {
		return err
	}

	product.MarkDeleted()

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}
	if err := s.counterRepo.Delete(ctx, product.ID); err != nil {
		return err
	}

	s.publishEvents(ctx, product)

	return nil
}

// CheckDeviceID runs the duplicate guard for a single candidate, the way
// entry forms validate on every scan before submitting.
func (s *ProductService) CheckDeviceID(ctx context.Context, session shared.Session, req CheckDeviceIDRequest) (*CheckDeviceIDResponse, error) {
	owners, err := s.productRepo.FindDeviceOwners(ctx, session.StoreID, []string{serial.Canonical(req.Candidate)})
	if err != nil {
		return nil, err
	}
	soldIDs, err := s.saleRepo.SoldDeviceIDs(ctx, session.StoreID)
	if err != nil {
		return nil, err
	}

	conflict := serial.Check(req.Candidate, serial.CheckScope{
		InFormUnits:       req.InFormUnits,
		CatalogUnits:      owners,
		HistoricalSoldIDs: soldIDs,
	})
	if conflict == nil {
		return &CheckDeviceIDResponse{Duplicate: false}, nil
	}
	return &CheckDeviceIDResponse{
		Duplicate:   true,
		Source:      string(conflict.Source),
		ProductName: conflict.ProductName,
	}, nil
}

// guardUnits validates new units against the catalog and sales history
func (s *ProductService) guardUnits(ctx context.Context, storeID uuid.UUID, units []serial.UnitIdentity) error {
	owners, err := s.catalogOwners(ctx, storeID, units)
	if err != nil {
		return err
	}
	soldIDs, err := s.saleRepo.SoldDeviceIDs(ctx, storeID)
	if err != nil {
		return err
	}
	scope := serial.CheckScope{CatalogUnits: owners, HistoricalSoldIDs: soldIDs}
	if conflicts := serial.CheckAll(unitIDs(units), scope); len(conflicts) > 0 {
		return conflictError(conflicts[0])
	}
	return nil
}

func (s *ProductService) catalogOwners(ctx context.Context, storeID uuid.UUID, units []serial.UnitIdentity) (map[string]string, error) {
	canonical := make([]string, len(units))
	for i, u := range units {
		canonical[i] = serial.Canonical(u.DeviceID)
	}
	return s.productRepo.FindDeviceOwners(ctx, storeID, canonical)
}

func (s *ProductService) initCounter(ctx context.Context, storeID uuid.UUID, product *catalog.Product) error {
	counter, err := s.counterRepo.FindByProduct(ctx, storeID, product.ID)
	if err != nil {
		return err
	}
	if err := counter.Restock(product.QuantityOnHand()); err != nil {
		return err
	}
	return s.counterRepo.Save(ctx, counter)
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventBus == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventBus.Publish(ctx, events...)
	}
	product.ClearDomainEvents()
}

func unitIDs(units []serial.UnitIdentity) []string {
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.DeviceID
	}
	return ids
}

func conflictError(c serial.Conflict) error {
	msg := "Identifier " + c.DeviceID + " is already registered"
	if c.ProductName != "" {
		msg += " on product " + c.ProductName
	}
	return shared.NewDomainError(shared.ErrDuplicateIdentifier.Code, msg)
}
