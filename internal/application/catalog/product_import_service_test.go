package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storeops/backend/internal/domain/inventory"
	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/infrastructure/csvimport"
)

const importHeader = "name,description,purchase_price,selling_price,suppliers_name,device_ids,device_sizes,purchase_qty\n"

func newImportFixture() (*ProductImportService, *MockProductRepository, *MockSaleRepository, *MockCounterRepository) {
	productRepo := new(MockProductRepository)
	saleRepo := new(MockSaleRepository)
	counterRepo := new(MockCounterRepository)
	eventBus := new(MockEventPublisher)
	eventBus.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	service := NewProductService(productRepo, saleRepo, counterRepo, eventBus)
	importService := NewProductImportService(productRepo, saleRepo, service)
	return importService, productRepo, saleRepo, counterRepo
}

func allowSaves(productRepo *MockProductRepository, counterRepo *MockCounterRepository, session shared.Session) {
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
	counterRepo.On("FindByProduct", mock.Anything, session.StoreID, mock.AnythingOfType("uuid.UUID")).
		Return(&inventory.Counter{StoreID: session.StoreID}, nil)
	counterRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.Counter")).Return(nil)
}

func TestProductImport(t *testing.T) {
	ctx := context.Background()

	t.Run("imports bulk and serialized rows", func(t *testing.T) {
		importService, productRepo, saleRepo, counterRepo := newImportFixture()
		session := testSession()

		csv := importHeader +
			"Phone X,flagship,500,700,Acme,IMEI-1;IMEI-2,64GB;128GB,\n" +
			"Charger,,5,9,Acme,,,20\n"

		productRepo.On("FindDeviceOwners", mock.Anything, session.StoreID, mock.Anything).
			Return(map[string]string{}, nil)
		saleRepo.On("SoldDeviceIDs", mock.Anything, session.StoreID).Return(map[string]struct{}{}, nil)
		productRepo.On("ExistsByName", mock.Anything, session.StoreID, mock.AnythingOfType("string")).Return(false, nil)
		allowSaves(productRepo, counterRepo, session)

		importSession := csvimport.NewImportSession(session.StoreID, session.UserID, "products.csv")
		report, err := importService.Import(ctx, session, importSession, strings.NewReader(csv))
		require.NoError(t, err)

		assert.Equal(t, 2, report.TotalRows)
		assert.Equal(t, 2, report.Inserted)
		assert.Equal(t, 0, report.Skipped)
		assert.Equal(t, 0, report.Rejected)
		assert.Equal(t, csvimport.StateCompleted, importSession.State)
	})

	t.Run("skips rows whose name already exists", func(t *testing.T) {
		importService, productRepo, saleRepo, counterRepo := newImportFixture()
		session := testSession()

		csv := importHeader +
			"Existing,,5,9,,,,1\n" +
			"Fresh,,5,9,,,,1\n"

		saleRepo.On("SoldDeviceIDs", mock.Anything, session.StoreID).Return(map[string]struct{}{}, nil).Maybe()
		productRepo.On("ExistsByName", mock.Anything, session.StoreID, "Existing").Return(true, nil)
		productRepo.On("ExistsByName", mock.Anything, session.StoreID, "Fresh").Return(false, nil)
		allowSaves(productRepo, counterRepo, session)

		importSession := csvimport.NewImportSession(session.StoreID, session.UserID, "products.csv")
		report, err := importService.Import(ctx, session, importSession, strings.NewReader(csv))
		require.NoError(t, err)

		assert.Equal(t, 1, report.Inserted)
		assert.Equal(t, 1, report.Skipped)
		assert.Equal(t, 0, report.Rejected)
	})

	t.Run("aborts entire batch on device id collision", func(t *testing.T) {
		importService, productRepo, saleRepo, _ := newImportFixture()
		session := testSession()

		csv := importHeader +
			"Phone X,,500,700,,TAKEN-1,,\n" +
			"Charger,,5,9,,,,20\n"

		productRepo.On("FindDeviceOwners", mock.Anything, session.StoreID, mock.Anything).
			Return(map[string]string{"taken-1": "Phone Y"}, nil)
		saleRepo.On("SoldDeviceIDs", mock.Anything, session.StoreID).Return(map[string]struct{}{}, nil)

		importSession := csvimport.NewImportSession(session.StoreID, session.UserID, "products.csv")
		_, err := importService.Import(ctx, session, importSession, strings.NewReader(csv))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_IDENTIFIER", domainErr.Code)
		assert.Contains(t, err.Error(), "TAKEN-1")
		assert.Equal(t, csvimport.StateRejected, importSession.State)
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("counts rejected rows without failing the batch", func(t *testing.T) {
		importService, productRepo, saleRepo, counterRepo := newImportFixture()
		session := testSession()

		csv := importHeader +
			"Bad,,not-a-price,9,,,,1\n" +
			"Good,,5,9,,,,1\n"

		saleRepo.On("SoldDeviceIDs", mock.Anything, session.StoreID).Return(map[string]struct{}{}, nil).Maybe()
		productRepo.On("ExistsByName", mock.Anything, session.StoreID, mock.AnythingOfType("string")).Return(false, nil)
		allowSaves(productRepo, counterRepo, session)

		importSession := csvimport.NewImportSession(session.StoreID, session.UserID, "products.csv")
		report, err := importService.Import(ctx, session, importSession, strings.NewReader(csv))
		require.NoError(t, err)

		assert.Equal(t, 1, report.Inserted)
		assert.Equal(t, 1, report.Rejected)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, "purchase_price", report.Errors[0].Column)
	})

	t.Run("abort flag stops between rows keeping applied rows", func(t *testing.T) {
		importService, productRepo, saleRepo, counterRepo := newImportFixture()
		session := testSession()

		csv := importHeader +
			"First,,5,9,,,,1\n" +
			"Second,,5,9,,,,1\n"

		importSession := csvimport.NewImportSession(session.StoreID, session.UserID, "products.csv")

		saleRepo.On("SoldDeviceIDs", mock.Anything, session.StoreID).Return(map[string]struct{}{}, nil).Maybe()
		// Abort as soon as the first row lands.
		productRepo.On("ExistsByName", mock.Anything, session.StoreID, "First").
			Run(func(args mock.Arguments) { importSession.Abort() }).
			Return(false, nil)
		allowSaves(productRepo, counterRepo, session)

		report, err := importService.Import(ctx, session, importSession, strings.NewReader(csv))
		require.NoError(t, err)

		assert.True(t, report.Aborted)
		assert.Equal(t, 1, report.Inserted)
		assert.Equal(t, csvimport.StateAborted, importSession.State)
		productRepo.AssertNotCalled(t, "ExistsByName", mock.Anything, session.StoreID, "Second")
	})

	t.Run("rejects file missing required columns", func(t *testing.T) {
		importService, _, _, _ := newImportFixture()
		session := testSession()

		importSession := csvimport.NewImportSession(session.StoreID, session.UserID, "products.csv")
		_, err := importService.Import(ctx, session, importSession, strings.NewReader("name,foo\nX,1\n"))
		require.Error(t, err)
		assert.Equal(t, csvimport.StateRejected, importSession.State)
	})
}
