package reconcile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/sales"
	"github.com/storeops/backend/internal/domain/serial"
	"github.com/storeops/backend/internal/domain/shared"
)

func testSession() shared.Session {
	return shared.Session{
		StoreID: uuid.New(),
		UserID:  uuid.New(),
		Role:    shared.RoleOwner,
	}
}

func serializedProduct(t *testing.T, storeID uuid.UUID, name string, deviceIDs ...string) *catalog.Product {
	t.Helper()
	units := make([]serial.UnitIdentity, len(deviceIDs))
	for i, id := range deviceIDs {
		units[i] = serial.UnitIdentity{DeviceID: id}
	}
	product, err := catalog.NewSerializedProduct(storeID, name, units)
	require.NoError(t, err)
	return product
}

func bulkProduct(t *testing.T, storeID uuid.UUID, name string, quantity int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewBulkProduct(storeID, name, quantity, "", "")
	require.NoError(t, err)
	return product
}

func TestLocatorFindByReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("expands serialized row into per-unit records with receipt metadata", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		receiptRepo := new(MockReceiptRepository)
		productRepo := new(MockProductRepository)
		service := NewLocatorService(saleRepo, receiptRepo, productRepo)
		session := testSession()

		product := serializedProduct(t, session.StoreID, "Phone X", "IMEI-1", "IMEI-2", "IMEI-3")
		groupID := uuid.New()
		sale := sales.SaleRecord{
			ID:            uuid.New(),
			StoreID:       session.StoreID,
			ProductID:     product.ID,
			QuantitySold:  3,
			TotalAmount:   decimal.NewFromInt(300),
			DeviceIDField: "IMEI-1,IMEI-2,IMEI-3",
			SaleGroupID:   groupID,
		}
		receipt := &sales.Receipt{
			ID:           uuid.New(),
			StoreID:      session.StoreID,
			SaleGroupID:  groupID,
			ReceiptCode:  "R-100",
			CustomerName: "Alice",
		}

		receiptRepo.On("FindByCode", ctx, session.StoreID, "R-100").Return(receipt, nil)
		saleRepo.On("FindByGroupID", ctx, session.StoreID, groupID).Return([]sales.SaleRecord{sale}, nil)
		productRepo.On("FindByIDs", ctx, session.StoreID, []uuid.UUID{product.ID}).
			Return([]catalog.Product{*product}, nil)

		units, err := service.FindByReceipt(ctx, session, " R-100 ")
		require.NoError(t, err)
		require.Len(t, units, 3)

		for i, want := range []string{"IMEI-1", "IMEI-2", "IMEI-3"} {
			assert.Equal(t, want, units[i].DeviceID)
			assert.Equal(t, 1, units[i].Quantity)
			assert.True(t, units[i].Amount.Equal(decimal.NewFromInt(100)))
			assert.Equal(t, "Phone X", units[i].ProductName)
			assert.Equal(t, receipt.ID, units[i].ReceiptID)
			assert.Equal(t, "R-100", units[i].ReceiptCode)
			assert.Equal(t, "Alice", units[i].CustomerName)
		}
	})

	t.Run("keeps bulk rows as single records alongside serialized ones", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		receiptRepo := new(MockReceiptRepository)
		productRepo := new(MockProductRepository)
		service := NewLocatorService(saleRepo, receiptRepo, productRepo)
		session := testSession()

		phone := serializedProduct(t, session.StoreID, "Phone X", "IMEI-9")
		charger := bulkProduct(t, session.StoreID, "Charger", 50)
		groupID := uuid.New()
		rows := []sales.SaleRecord{
			{
				ID: uuid.New(), StoreID: session.StoreID, ProductID: phone.ID,
				QuantitySold: 1, TotalAmount: decimal.NewFromInt(700),
				DeviceIDField: "IMEI-9", SaleGroupID: groupID,
			},
			{
				ID: uuid.New(), StoreID: session.StoreID, ProductID: charger.ID,
				QuantitySold: 4, TotalAmount: decimal.NewFromInt(36),
				SaleGroupID: groupID,
			},
		}
		receipt := &sales.Receipt{ID: uuid.New(), StoreID: session.StoreID, SaleGroupID: groupID, ReceiptCode: "R-7"}

		receiptRepo.On("FindByCode", ctx, session.StoreID, "R-7").Return(receipt, nil)
		saleRepo.On("FindByGroupID", ctx, session.StoreID, groupID).Return(rows, nil)
		productRepo.On("FindByIDs", ctx, session.StoreID, mock.Anything).
			Return([]catalog.Product{*phone, *charger}, nil)

		units, err := service.FindByReceipt(ctx, session, "R-7")
		require.NoError(t, err)
		require.Len(t, units, 2)

		assert.Equal(t, "IMEI-9", units[0].DeviceID)
		assert.Equal(t, 1, units[0].Quantity)

		assert.Empty(t, units[1].DeviceID)
		assert.Equal(t, 4, units[1].Quantity)
		assert.True(t, units[1].Amount.Equal(decimal.NewFromInt(36)))
		assert.Equal(t, rows[1].ID.String(), units[1].CompositeID)
	})

	t.Run("returns receipt not found for unknown code", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		receiptRepo := new(MockReceiptRepository)
		productRepo := new(MockProductRepository)
		service := NewLocatorService(saleRepo, receiptRepo, productRepo)
		session := testSession()

		receiptRepo.On("FindByCode", ctx, session.StoreID, "NOPE").Return(nil, shared.ErrNotFound)

		_, err := service.FindByReceipt(ctx, session, "NOPE")
		assert.ErrorIs(t, err, shared.ErrReceiptNotFound)
	})
}

func TestLocatorFindByDeviceID(t *testing.T) {
	ctx := context.Background()

	t.Run("expands only matching tokens and resolves each hit's receipt", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		receiptRepo := new(MockReceiptRepository)
		productRepo := new(MockProductRepository)
		service := NewLocatorService(saleRepo, receiptRepo, productRepo)
		session := testSession()

		product := serializedProduct(t, session.StoreID, "Phone X", "IMEI-100", "IMEI-200")
		groupID := uuid.New()
		sale := sales.SaleRecord{
			ID: uuid.New(), StoreID: session.StoreID, ProductID: product.ID,
			QuantitySold: 2, TotalAmount: decimal.NewFromInt(200),
			DeviceIDField: "IMEI-100,IMEI-200", SaleGroupID: groupID,
		}
		receipt := &sales.Receipt{ID: uuid.New(), StoreID: session.StoreID, SaleGroupID: groupID, ReceiptCode: "R-42"}

		saleRepo.On("FindByDeviceFragment", ctx, session.StoreID, "imei-1").Return([]sales.SaleRecord{sale}, nil)
		productRepo.On("FindByIDs", ctx, session.StoreID, mock.Anything).Return([]catalog.Product{*product}, nil)
		receiptRepo.On("FindByGroupID", ctx, session.StoreID, groupID).Return(receipt, nil)

		units, err := service.FindByDeviceID(ctx, session, "imei-1")
		require.NoError(t, err)
		require.Len(t, units, 1)
		assert.Equal(t, "IMEI-100", units[0].DeviceID)
		assert.Equal(t, "R-42", units[0].ReceiptCode)
	})

	t.Run("device and receipt lookup agree on the same unit", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		receiptRepo := new(MockReceiptRepository)
		productRepo := new(MockProductRepository)
		service := NewLocatorService(saleRepo, receiptRepo, productRepo)
		session := testSession()

		product := serializedProduct(t, session.StoreID, "Phone X", "IMEI-500", "IMEI-501")
		groupID := uuid.New()
		sale := sales.SaleRecord{
			ID: uuid.New(), StoreID: session.StoreID, ProductID: product.ID,
			QuantitySold: 2, TotalAmount: decimal.NewFromInt(500),
			DeviceIDField: "IMEI-500,IMEI-501", SaleGroupID: groupID,
		}
		receipt := &sales.Receipt{ID: uuid.New(), StoreID: session.StoreID, SaleGroupID: groupID, ReceiptCode: "R-9"}

		receiptRepo.On("FindByCode", ctx, session.StoreID, "R-9").Return(receipt, nil)
		receiptRepo.On("FindByGroupID", ctx, session.StoreID, groupID).Return(receipt, nil)
		saleRepo.On("FindByGroupID", ctx, session.StoreID, groupID).Return([]sales.SaleRecord{sale}, nil)
		saleRepo.On("FindByDeviceFragment", ctx, session.StoreID, "IMEI-501").Return([]sales.SaleRecord{sale}, nil)
		productRepo.On("FindByIDs", ctx, session.StoreID, mock.Anything).Return([]catalog.Product{*product}, nil)

		byReceipt, err := service.FindByReceipt(ctx, session, "R-9")
		require.NoError(t, err)
		byDevice, err := service.FindByDeviceID(ctx, session, "IMEI-501")
		require.NoError(t, err)

		require.Len(t, byDevice, 1)
		assert.Equal(t, byReceipt[1], byDevice[0])
	})

	t.Run("returns no matching units when nothing matches", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		receiptRepo := new(MockReceiptRepository)
		productRepo := new(MockProductRepository)
		service := NewLocatorService(saleRepo, receiptRepo, productRepo)
		session := testSession()

		saleRepo.On("FindByDeviceFragment", ctx, session.StoreID, "ghost").Return([]sales.SaleRecord{}, nil)
		productRepo.On("FindByIDs", ctx, session.StoreID, mock.Anything).Return([]catalog.Product{}, nil).Maybe()

		_, err := service.FindByDeviceID(ctx, session, "ghost")
		assert.ErrorIs(t, err, shared.ErrNoMatchingUnits)
	})
}
