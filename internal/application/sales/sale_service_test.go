package sales

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/botecopos/backend/internal/domain/catalog"
	"github.com/botecopos/backend/internal/domain/partner"
	"github.com/botecopos/backend/internal/domain/sales"
	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/botecopos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// In-memory repositories
// =============================================================================

type memSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*sales.Sale
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{sales: make(map[uuid.UUID]*sales.Sale)}
}

func (r *memSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	copied := *sale
	copied.Items = append([]sales.SaleItem(nil), sale.Items...)
	copied.Payments = append([]sales.Payment(nil), sale.Payments...)
	return &copied, nil
}

func (r *memSaleRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	return r.FindByID(ctx, id)
}

func (r *memSaleRepo) FindOpenByClient(_ context.Context, clientID uuid.UUID) ([]sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []sales.Sale
	for _, sale := range r.sales {
		if sale.ClientID != nil && *sale.ClientID == clientID && sale.Status == sales.SaleStatusOpen {
			result = append(result, *sale)
		}
	}
	return result, nil
}

func (r *memSaleRepo) FindByStatus(_ context.Context, status sales.SaleStatus, _ shared.Filter) ([]sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []sales.Sale
	for _, sale := range r.sales {
		if sale.Status == status {
			result = append(result, *sale)
		}
	}
	return result, nil
}

func (r *memSaleRepo) FindByPeriod(_ context.Context, start, end time.Time) ([]sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []sales.Sale
	for _, sale := range r.sales {
		if sale.Status == sales.SaleStatusFinalized && !sale.UpdatedAt.Before(start) && sale.UpdatedAt.Before(end) {
			result = append(result, *sale)
		}
	}
	return result, nil
}

func (r *memSaleRepo) FindAll(_ context.Context, _ shared.Filter) ([]sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []sales.Sale
	for _, sale := range r.sales {
		result = append(result, *sale)
	}
	return result, nil
}

func (r *memSaleRepo) Save(_ context.Context, sale *sales.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *sale
	copied.Items = append([]sales.SaleItem(nil), sale.Items...)
	copied.Payments = append([]sales.Payment(nil), sale.Payments...)
	r.sales[sale.ID] = &copied
	return nil
}

func (r *memSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sales, id)
	return nil
}

func (r *memSaleRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sales)), nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (r *memProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) FindByIDsForUpdate(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []catalog.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []catalog.Product
	for _, product := range r.products {
		result = append(result, *product)
	}
	return result, nil
}

func (r *memProductRepo) FindLowStock(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []catalog.Product
	for _, product := range r.products {
		if product.Active && product.IsLowStock() {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *memProductRepo) CountOutOfStock(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, product := range r.products {
		if product.IsOutOfStock() {
			count++
		}
	}
	return count, nil
}

type memClientRepo struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*partner.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[uuid.UUID]*partner.Client)}
}

func (r *memClientRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	copied := *client
	return &copied, nil
}

func (r *memClientRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	return r.FindByID(ctx, id)
}

func (r *memClientRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []partner.Client
	for _, client := range r.clients {
		result = append(result, *client)
	}
	return result, nil
}

func (r *memClientRepo) FindDebtors(_ context.Context, _ shared.Filter) ([]partner.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []partner.Client
	for _, client := range r.clients {
		if client.HasDebt() {
			result = append(result, *client)
		}
	}
	return result, nil
}

func (r *memClientRepo) Save(_ context.Context, client *partner.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *client
	r.clients[client.ID] = &copied
	return nil
}

func (r *memClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
	return nil
}

func (r *memClientRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.clients)), nil
}

// =============================================================================
// Fixture
// =============================================================================

type fixture struct {
	service  *SaleService
	sales    *memSaleRepo
	products *memProductRepo
	clients  *memClientRepo
	client   *partner.Client
	beer     *catalog.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	saleRepo := newMemSaleRepo()
	productRepo := newMemProductRepo()
	clientRepo := newMemClientRepo()

	client, err := partner.NewClient("Maria Aparecida", "Cida", "")
	require.NoError(t, err)
	require.NoError(t, clientRepo.Save(context.Background(), client))

	beer, err := catalog.NewProduct("Skol Lata 350ml", catalog.CategoryBeer,
		valueobject.NewMoneyBRLFromFloat(5.00), valueobject.NewMoneyBRLFromFloat(2.50))
	require.NoError(t, err)
	require.NoError(t, beer.Restock(10))
	require.NoError(t, productRepo.Save(context.Background(), beer))

	scope := NewNoOpTransactionScope(saleRepo, productRepo, clientRepo)
	return &fixture{
		service:  NewSaleService(scope),
		sales:    saleRepo,
		products: productRepo,
		clients:  clientRepo,
		client:   client,
		beer:     beer,
	}
}

func (f *fixture) productQty(t *testing.T, id uuid.UUID) int {
	t.Helper()
	product, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, product)
	return product.Quantity
}

func (f *fixture) clientDebt(t *testing.T) decimal.Decimal {
	t.Helper()
	client, err := f.clients.FindByID(context.Background(), f.client.ID)
	require.NoError(t, err)
	require.NotNil(t, client)
	return client.DebtBalance
}

func (f *fixture) openSale(t *testing.T) *SaleResponse {
	t.Helper()
	sale, err := f.service.Create(context.Background(), CreateSaleRequest{ClientID: &f.client.ID})
	require.NoError(t, err)
	return sale
}

// =============================================================================
// Tests
// =============================================================================

func TestSaleService_Create(t *testing.T) {
	f := newFixture(t)

	sale := f.openSale(t)
	assert.Equal(t, "open", sale.Status)
	assert.Equal(t, f.client.ID, *sale.ClientID)
	assert.Equal(t, "Maria Aparecida", sale.ClientName)
}

func TestSaleService_Create_WalkIn(t *testing.T) {
	f := newFixture(t)

	sale, err := f.service.Create(context.Background(), CreateSaleRequest{WalkInName: "Mesa 3"})
	require.NoError(t, err)
	assert.Nil(t, sale.ClientID)
	assert.Equal(t, "Mesa 3", sale.ClientName)
}

func TestSaleService_Create_UnknownClient(t *testing.T) {
	f := newFixture(t)
	unknown := uuid.New()

	_, err := f.service.Create(context.Background(), CreateSaleRequest{ClientID: &unknown})
	assert.Error(t, err)
}

func TestSaleService_AddItem_ReservesStockAndRaisesDebt(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)

	updated, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, 7, f.productQty(t, f.beer.ID))
	assert.True(t, decimal.NewFromFloat(15.00).Equal(updated.Total))
	assert.True(t, decimal.NewFromFloat(15.00).Equal(f.clientDebt(t)))
}

func TestSaleService_AddItem_InsufficientStockChangesNothing(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)

	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 11})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.ErrInsufficientStock.Code, domainErr.Code)

	assert.Equal(t, 10, f.productQty(t, f.beer.ID))
	assert.True(t, f.clientDebt(t).IsZero())
}

func TestSaleService_AddItem_InactiveProduct(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)

	product, err := f.products.FindByID(context.Background(), f.beer.ID)
	require.NoError(t, err)
	product.Deactivate()
	require.NoError(t, f.products.Save(context.Background(), product))

	_, err = f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 1})
	assert.Error(t, err)
}

func TestSaleService_RemoveItem_ReleasesStock(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)

	updated, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)

	updated, err = f.service.RemoveItem(context.Background(), sale.ID, updated.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Items)
	assert.Equal(t, 10, f.productQty(t, f.beer.ID))
	assert.True(t, f.clientDebt(t).IsZero())
}

func TestSaleService_ApplyPayment_PartialKeepsOpen(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)

	updated, err := f.service.ApplyPayment(context.Background(), sale.ID, ApplyPaymentRequest{
		Amount: decimal.NewFromFloat(10.00), Method: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "open", updated.Status)
	assert.True(t, decimal.NewFromFloat(5.00).Equal(updated.Balance))
	assert.True(t, decimal.NewFromFloat(5.00).Equal(f.clientDebt(t)))
}

func TestSaleService_ApplyPayment_FullAutoFinalizes(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)

	updated, err := f.service.ApplyPayment(context.Background(), sale.ID, ApplyPaymentRequest{
		Amount: decimal.NewFromFloat(15.00), Method: "pix",
	})
	require.NoError(t, err)
	assert.Equal(t, "finalized", updated.Status)
	assert.True(t, updated.Balance.IsZero())

	// stock stays reserved, debt drops to zero
	assert.Equal(t, 7, f.productQty(t, f.beer.ID))
	assert.True(t, f.clientDebt(t).IsZero())
}

func TestSaleService_ApplyPayment_IdempotencyKeyDeduplicates(t *testing.T) {
	f := newFixture(t)
	f.service.SetIdempotencyStore(newFakeIdempotencyStore(), shared.DefaultIdempotencyConfig())

	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)

	req := ApplyPaymentRequest{Amount: decimal.NewFromFloat(5.00), Method: "cash", IdempotencyKey: "form-123"}
	first, err := f.service.ApplyPayment(context.Background(), sale.ID, req)
	require.NoError(t, err)
	second, err := f.service.ApplyPayment(context.Background(), sale.ID, req)
	require.NoError(t, err)

	assert.Len(t, first.Payments, 1)
	assert.Len(t, second.Payments, 1)
	assert.True(t, first.Paid.Equal(second.Paid))
}

func TestSaleService_ApplyPayment_RejectedAttemptKeepsKeyUsable(t *testing.T) {
	f := newFixture(t)
	f.service.SetIdempotencyStore(newFakeIdempotencyStore(), shared.DefaultIdempotencyConfig())

	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)

	// a mistyped negative amount is rejected and must not consume the key
	_, err = f.service.ApplyPayment(context.Background(), sale.ID, ApplyPaymentRequest{
		Amount: decimal.NewFromFloat(-5.00), Method: "cash", IdempotencyKey: "form-456",
	})
	require.Error(t, err)

	corrected, err := f.service.ApplyPayment(context.Background(), sale.ID, ApplyPaymentRequest{
		Amount: decimal.NewFromFloat(5.00), Method: "cash", IdempotencyKey: "form-456",
	})
	require.NoError(t, err)
	require.Len(t, corrected.Payments, 1)
	assert.True(t, decimal.NewFromFloat(5.00).Equal(corrected.Paid))

	// the corrected submission consumed the key; replaying it is a no-op
	replayed, err := f.service.ApplyPayment(context.Background(), sale.ID, ApplyPaymentRequest{
		Amount: decimal.NewFromFloat(5.00), Method: "cash", IdempotencyKey: "form-456",
	})
	require.NoError(t, err)
	assert.Len(t, replayed.Payments, 1)
	assert.True(t, decimal.NewFromFloat(5.00).Equal(replayed.Paid))
}

func TestSaleService_Finalize_StatusOnly(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)

	updated, err := f.service.Finalize(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "finalized", updated.Status)
	assert.Equal(t, 7, f.productQty(t, f.beer.ID))
	// finalized sales no longer count toward the debt cache
	assert.True(t, f.clientDebt(t).IsZero())
}

func TestSaleService_Cancel_ReleasesStock(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)

	updated, err := f.service.Cancel(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", updated.Status)
	assert.Equal(t, 10, f.productQty(t, f.beer.ID))
	assert.True(t, f.clientDebt(t).IsZero())
}

func TestSaleService_Cancel_Idempotent(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = f.service.Cancel(context.Background(), sale.ID)
	require.NoError(t, err)
	_, err = f.service.Cancel(context.Background(), sale.ID)
	require.NoError(t, err)

	// second cancel must not release stock again
	assert.Equal(t, 10, f.productQty(t, f.beer.ID))
}

func TestSaleService_Reopen_FromFinalized_StockStable(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = f.service.Finalize(context.Background(), sale.ID)
	require.NoError(t, err)

	updated, err := f.service.Reopen(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "open", updated.Status)
	assert.Equal(t, 7, f.productQty(t, f.beer.ID))

	// reopened sales count toward debt again
	assert.True(t, decimal.NewFromFloat(15.00).Equal(f.clientDebt(t)))

	_, err = f.service.Finalize(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, f.productQty(t, f.beer.ID))
}

func TestSaleService_Reopen_FromCancelled_ReReserves(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = f.service.Cancel(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Equal(t, 10, f.productQty(t, f.beer.ID))

	updated, err := f.service.Reopen(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "open", updated.Status)
	assert.Equal(t, 7, f.productQty(t, f.beer.ID))
}

func TestSaleService_Reopen_FromCancelled_InsufficientStockAborts(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 8})
	require.NoError(t, err)
	_, err = f.service.Cancel(context.Background(), sale.ID)
	require.NoError(t, err)

	// someone else takes the stock while the sale is cancelled
	product, err := f.products.FindByID(context.Background(), f.beer.ID)
	require.NoError(t, err)
	require.NoError(t, product.Reserve(5))
	require.NoError(t, f.products.Save(context.Background(), product))

	_, err = f.service.Reopen(context.Background(), sale.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.ErrInsufficientStock.Code, domainErr.Code)

	got, err := f.service.Get(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	assert.Equal(t, 5, f.productQty(t, f.beer.ID))
}

func TestSaleService_Delete_ReleasesReservation(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), sale.ID))
	assert.Equal(t, 10, f.productQty(t, f.beer.ID))
	assert.True(t, f.clientDebt(t).IsZero())

	_, err = f.service.Get(context.Background(), sale.ID)
	assert.Error(t, err)
}

func TestSaleService_Delete_CancelledMovesNoStock(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)
	_, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = f.service.Cancel(context.Background(), sale.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), sale.ID))
	assert.Equal(t, 10, f.productQty(t, f.beer.ID))
}

// The full counter flow: open a tab, add three beers from a stock of ten,
// pay it off, cancel it afterwards.
func TestSaleService_WorkedScenario(t *testing.T) {
	f := newFixture(t)
	sale := f.openSale(t)

	updated, err := f.service.AddItem(context.Background(), sale.ID, AddItemRequest{ProductID: f.beer.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, f.productQty(t, f.beer.ID))
	assert.True(t, decimal.NewFromFloat(15.00).Equal(updated.Total))

	updated, err = f.service.ApplyPayment(context.Background(), sale.ID, ApplyPaymentRequest{
		Amount: decimal.NewFromFloat(15.00), Method: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "finalized", updated.Status)
	assert.Equal(t, 7, f.productQty(t, f.beer.ID))
	assert.True(t, updated.Balance.IsZero())
	assert.True(t, f.clientDebt(t).IsZero())

	updated, err = f.service.Cancel(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", updated.Status)
	assert.Equal(t, 10, f.productQty(t, f.beer.ID))
	assert.True(t, f.clientDebt(t).IsZero())
}

// =============================================================================
// Fake idempotency store
// =============================================================================

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]struct{})}
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok, nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }

var _ shared.IdempotencyStore = (*fakeIdempotencyStore)(nil)
