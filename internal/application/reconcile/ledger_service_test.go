package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storeops/backend/internal/domain/returns"
	"github.com/storeops/backend/internal/domain/sales"
	"github.com/storeops/backend/internal/domain/shared"
)

type ledgerFixture struct {
	service     *LedgerService
	returnRepo  *MockReturnRepository
	saleRepo    *MockSaleRepository
	receiptRepo *MockReceiptRepository
	productRepo *MockProductRepository
}

func newLedgerFixture() *ledgerFixture {
	returnRepo := new(MockReturnRepository)
	saleRepo := new(MockSaleRepository)
	receiptRepo := new(MockReceiptRepository)
	productRepo := new(MockProductRepository)
	eventBus := new(MockEventPublisher)
	eventBus.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	return &ledgerFixture{
		service:     NewLedgerService(returnRepo, saleRepo, receiptRepo, productRepo, eventBus),
		returnRepo:  returnRepo,
		saleRepo:    saleRepo,
		receiptRepo: receiptRepo,
		productRepo: productRepo,
	}
}

// soldUnit wires a serialized sale of three units at 100 each into the mocks
// and returns the pieces a test needs.
func (f *ledgerFixture) soldUnit(t *testing.T, ctx context.Context, session shared.Session) (*sales.SaleRecord, *sales.Receipt) {
	t.Helper()
	product := serializedProduct(t, session.StoreID, "Phone X", "IMEI-1", "IMEI-2", "IMEI-3")
	groupID := uuid.New()
	sale := &sales.SaleRecord{
		ID: uuid.New(), StoreID: session.StoreID, ProductID: product.ID,
		QuantitySold: 3, TotalAmount: decimal.NewFromInt(300),
		DeviceIDField: "IMEI-1,IMEI-2,IMEI-3", SaleGroupID: groupID,
	}
	receipt := &sales.Receipt{ID: uuid.New(), StoreID: session.StoreID, SaleGroupID: groupID, ReceiptCode: "R-1"}

	f.saleRepo.On("FindByID", ctx, session.StoreID, sale.ID).Return(sale, nil)
	f.receiptRepo.On("FindByGroupID", ctx, session.StoreID, groupID).Return(receipt, nil)
	f.productRepo.On("FindByIDForStore", ctx, session.StoreID, product.ID).Return(product, nil)
	return sale, receipt
}

func activeReturn(t *testing.T, storeID, receiptID uuid.UUID, deviceID string, quantity int) returns.ReturnRecord {
	t.Helper()
	record, err := returns.NewReturnRecord(storeID, receiptID, "Phone X", deviceID,
		quantity, decimal.NewFromInt(100), "", time.Now())
	require.NoError(t, err)
	return *record
}

func TestLedgerCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending return for a located serialized unit", func(t *testing.T) {
		f := newLedgerFixture()
		session := testSession()
		sale, receipt := f.soldUnit(t, ctx, session)

		f.returnRepo.On("FindActiveForUnit", ctx, session.StoreID, receipt.ID, "imei-2").
			Return([]returns.ReturnRecord{}, nil)
		f.returnRepo.On("Save", ctx, mock.AnythingOfType("*returns.ReturnRecord")).Return(nil)

		result, err := f.service.Create(ctx, session, CreateReturnsRequest{
			Units:        []ReturnUnitRequest{{SaleID: sale.ID, DeviceID: "IMEI-2"}},
			ReasonRemark: "Cracked screen",
		})
		require.NoError(t, err)
		require.Len(t, result.Created, 1)
		assert.Empty(t, result.Failed)

		created := result.Created[0]
		assert.Equal(t, receipt.ID, created.ReceiptID)
		assert.Equal(t, "Phone X", created.ProductName)
		assert.Equal(t, "IMEI-2", created.DeviceID)
		assert.Equal(t, 1, created.Quantity)
		assert.True(t, created.Amount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, returns.ReturnStatusPending, created.Status)
	})

	t.Run("rejects second return for the same unit", func(t *testing.T) {
		f := newLedgerFixture()
		session := testSession()
		sale, receipt := f.soldUnit(t, ctx, session)

		f.returnRepo.On("FindActiveForUnit", ctx, session.StoreID, receipt.ID, "imei-1").
			Return([]returns.ReturnRecord{activeReturn(t, session.StoreID, receipt.ID, "IMEI-1", 1)}, nil)

		result, err := f.service.Create(ctx, session, CreateReturnsRequest{
			Units: []ReturnUnitRequest{{SaleID: sale.ID, DeviceID: "IMEI-1"}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_RETURN", domainErr.Code)
		assert.Empty(t, result.Created)
		f.returnRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("allows a new return after the previous one was rejected", func(t *testing.T) {
		f := newLedgerFixture()
		session := testSession()
		sale, receipt := f.soldUnit(t, ctx, session)

		// Rejected entries are not active, so the repository excludes them.
		f.returnRepo.On("FindActiveForUnit", ctx, session.StoreID, receipt.ID, "imei-1").
			Return([]returns.ReturnRecord{}, nil)
		f.returnRepo.On("Save", ctx, mock.AnythingOfType("*returns.ReturnRecord")).Return(nil)

		result, err := f.service.Create(ctx, session, CreateReturnsRequest{
			Units: []ReturnUnitRequest{{SaleID: sale.ID, DeviceID: "IMEI-1"}},
		})
		require.NoError(t, err)
		assert.Len(t, result.Created, 1)
	})

	t.Run("rejects device not present in the sale row", func(t *testing.T) {
		f := newLedgerFixture()
		session := testSession()
		sale, _ := f.soldUnit(t, ctx, session)

		_, err := f.service.Create(ctx, session, CreateReturnsRequest{
			Units: []ReturnUnitRequest{{SaleID: sale.ID, DeviceID: "IMEI-999"}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_MATCHING_UNITS", domainErr.Code)
	})

	t.Run("bulk returns are bounded by the sold quantity", func(t *testing.T) {
		f := newLedgerFixture()
		session := testSession()

		product := bulkProduct(t, session.StoreID, "Charger", 50)
		groupID := uuid.New()
		sale := &sales.SaleRecord{
			ID: uuid.New(), StoreID: session.StoreID, ProductID: product.ID,
			QuantitySold: 3, TotalAmount: decimal.NewFromInt(27), SaleGroupID: groupID,
		}
		receipt := &sales.Receipt{ID: uuid.New(), StoreID: session.StoreID, SaleGroupID: groupID, ReceiptCode: "R-2"}

		f.saleRepo.On("FindByID", ctx, session.StoreID, sale.ID).Return(sale, nil)
		f.receiptRepo.On("FindByGroupID", ctx, session.StoreID, groupID).Return(receipt, nil)
		f.productRepo.On("FindByIDForStore", ctx, session.StoreID, product.ID).Return(product, nil)
		f.returnRepo.On("FindActiveForUnit", ctx, session.StoreID, receipt.ID, "").
			Return([]returns.ReturnRecord{activeReturn(t, session.StoreID, receipt.ID, "", 2)}, nil)

		_, err := f.service.Create(ctx, session, CreateReturnsRequest{
			Units: []ReturnUnitRequest{{SaleID: sale.ID, Quantity: 2}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_RETURN", domainErr.Code)

		// One more unit still fits within the three sold.
		f.returnRepo.On("Save", ctx, mock.AnythingOfType("*returns.ReturnRecord")).Return(nil)
		result, err := f.service.Create(ctx, session, CreateReturnsRequest{
			Units: []ReturnUnitRequest{{SaleID: sale.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		require.Len(t, result.Created, 1)
		assert.Equal(t, 1, result.Created[0].Quantity)
	})

	t.Run("partial batch keeps created entries and reports failures", func(t *testing.T) {
		f := newLedgerFixture()
		session := testSession()
		sale, receipt := f.soldUnit(t, ctx, session)

		f.returnRepo.On("FindActiveForUnit", ctx, session.StoreID, receipt.ID, "imei-1").
			Return([]returns.ReturnRecord{}, nil)
		f.returnRepo.On("Save", ctx, mock.AnythingOfType("*returns.ReturnRecord")).Return(nil)

		result, err := f.service.Create(ctx, session, CreateReturnsRequest{
			Units: []ReturnUnitRequest{
				{SaleID: sale.ID, DeviceID: "IMEI-1"},
				{SaleID: sale.ID, DeviceID: "IMEI-999"},
			},
		})
		require.ErrorIs(t, err, shared.ErrPartialBatchFailure)
		require.Len(t, result.Created, 1)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "IMEI-999", result.Failed[0].DeviceID)
		assert.Equal(t, "NO_MATCHING_UNITS", result.Failed[0].Code)
	})
}

func TestLedgerUpdate(t *testing.T) {
	ctx := context.Background()

	newPending := func(t *testing.T, session shared.Session) *returns.ReturnRecord {
		record, err := returns.NewReturnRecord(session.StoreID, uuid.New(), "Phone X", "IMEI-1",
			1, decimal.NewFromInt(100), "Cracked screen", time.Now())
		require.NoError(t, err)
		return record
	}

	t.Run("walks the status machine to refunded", func(t *testing.T) {
		f := newLedgerFixture()
		session := testSession()
		record := newPending(t, session)

		f.returnRepo.On("FindByIDForStore", ctx, session.StoreID, record.ID).Return(record, nil)
		f.returnRepo.On("Save", ctx, record).Return(nil)

		response, err := f.service.Update(ctx, session, record.ID, UpdateReturnRequest{Status: returns.ReturnStatusApproved})
		require.NoError(t, err)
		assert.Equal(t, returns.ReturnStatusApproved, response.Status)

		response, err = f.service.Update(ctx, session, record.ID, UpdateReturnRequest{Status: returns.ReturnStatusRefunded})
		require.NoError(t, err)
		assert.Equal(t, returns.ReturnStatusRefunded, response.Status)
	})

	t.Run("refunded is terminal", func(t *testing.T) {
		f := newLedgerFixture()
		session := testSession()
		record := newPending(t, session)
		require.NoError(t, record.ChangeStatus(returns.ReturnStatusApproved))
		require.NoError(t, record.ChangeStatus(returns.ReturnStatusRefunded))

		f.returnRepo.On("FindByIDForStore", ctx, session.StoreID, record.ID).Return(record, nil)

		_, err := f.service.Update(ctx, session, record.ID, UpdateReturnRequest{Status: returns.ReturnStatusPending})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		f.returnRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown status value", func(t *testing.T) {
		f := newLedgerFixture()
		session := testSession()
		record := newPending(t, session)

		f.returnRepo.On("FindByIDForStore", ctx, session.StoreID, record.ID).Return(record, nil)

		_, err := f.service.Update(ctx, session, record.ID, UpdateReturnRequest{Status: "bogus"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("edits remark and date without touching identity fields", func(t *testing.T) {
		f := newLedgerFixture()
		session := testSession()
		record := newPending(t, session)
		newDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
		remark := "Customer changed mind"

		f.returnRepo.On("FindByIDForStore", ctx, session.StoreID, record.ID).Return(record, nil)
		f.returnRepo.On("Save", ctx, record).Return(nil)

		response, err := f.service.Update(ctx, session, record.ID, UpdateReturnRequest{
			ReasonRemark: &remark,
			ReturnedDate: newDate,
		})
		require.NoError(t, err)
		assert.Equal(t, remark, response.ReasonRemark)
		assert.True(t, response.ReturnedDate.Equal(newDate))
		assert.Equal(t, "IMEI-1", response.DeviceID)
		assert.True(t, response.Amount.Equal(decimal.NewFromInt(100)))
	})
}

func TestLedgerDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes in batch skipping already-gone entries", func(t *testing.T) {
		f := newLedgerFixture()
		session := testSession()

		record, err := returns.NewReturnRecord(session.StoreID, uuid.New(), "Phone X", "IMEI-1",
			1, decimal.NewFromInt(100), "", time.Now())
		require.NoError(t, err)
		missing := uuid.New()
		ids := []uuid.UUID{record.ID, missing}

		f.returnRepo.On("FindByIDForStore", ctx, session.StoreID, record.ID).Return(record, nil)
		f.returnRepo.On("FindByIDForStore", ctx, session.StoreID, missing).Return(nil, shared.ErrNotFound)
		f.returnRepo.On("DeleteBatch", ctx, session.StoreID, ids).Return(int64(1), nil)

		deleted, err := f.service.Delete(ctx, session, DeleteReturnsRequest{IDs: ids})
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)
	})
}
