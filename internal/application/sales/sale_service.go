package sales

import (
	"context"
	"fmt"
	"sort"

	"github.com/botecopos/backend/internal/domain/catalog"
	"github.com/botecopos/backend/internal/domain/sales"
	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleService coordinates sale state changes with stock and client debt.
// Every operation runs in a single transaction; stock movements produced by
// the aggregate are applied to locked product rows inside that transaction,
// and the client's cached debt is recomputed before commit. An error from any
// step rolls the whole operation back.
type SaleService struct {
	txScope        TransactionScope
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
	eventPublisher shared.EventPublisher
}

// NewSaleService creates a new SaleService
func NewSaleService(txScope TransactionScope) *SaleService {
	return &SaleService{
		txScope:        txScope,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
	}
}

// SetIdempotencyStore sets the store used to deduplicate payment submissions
func (s *SaleService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idempotencyCfg = cfg
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new sale for a registered client or a walk-in name
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	var response SaleResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		clientName := req.WalkInName
		if req.ClientID != nil {
			client, err := repos.ClientRepo().FindByID(ctx, *req.ClientID)
			if err != nil {
				return err
			}
			if client == nil {
				return shared.NewDomainError(shared.ErrNotFound.Code,
					fmt.Sprintf("Client %s not found", req.ClientID))
			}
			clientName = client.Name
		}

		sale, err := sales.NewSale(req.ClientID, clientName)
		if err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		s.publishAndClear(ctx, sale)
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Get retrieves a sale with its items and payments
func (s *SaleService) Get(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var response SaleResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := s.loadSale(ctx, repos, saleID, false)
		if err != nil {
			return err
		}
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves sales, optionally filtered by status
func (s *SaleService) List(ctx context.Context, req ListSalesRequest) (*shared.Paginated[SaleResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	var result shared.Paginated[SaleResponse]

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var (
			items []sales.Sale
			err   error
		)
		if req.Status != "" {
			items, err = repos.SaleRepo().FindByStatus(ctx, sales.SaleStatus(req.Status), filter)
		} else {
			items, err = repos.SaleRepo().FindAll(ctx, filter)
		}
		if err != nil {
			return err
		}

		statusFilter := filter
		if req.Status != "" {
			statusFilter.Filters["status"] = req.Status
		}
		total, err := repos.SaleRepo().Count(ctx, statusFilter)
		if err != nil {
			return err
		}

		responses := make([]SaleResponse, 0, len(items))
		for i := range items {
			responses = append(responses, ToSaleResponse(&items[i]))
		}
		result = shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AddItem adds a quantity of a product to an open sale and reserves its
// stock. Adding a product already on the sale accumulates onto the line.
func (s *SaleService) AddItem(ctx context.Context, saleID uuid.UUID, req AddItemRequest) (*SaleResponse, error) {
	var response SaleResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := s.loadSale(ctx, repos, saleID, true)
		if err != nil {
			return err
		}

		products, err := s.lockProducts(ctx, repos, []uuid.UUID{req.ProductID})
		if err != nil {
			return err
		}
		product := products[req.ProductID]
		if !product.Active {
			return shared.NewDomainError("PRODUCT_INACTIVE",
				fmt.Sprintf("Product %s is not for sale", product.Name))
		}

		movement, err := sale.AddItem(product.ID, product.Name, product.SalePrice, req.Quantity)
		if err != nil {
			return err
		}
		if err := s.applyMovements(ctx, repos, products, []sales.StockMovement{movement}); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		if err := s.refreshClientDebt(ctx, repos, sale.ClientID); err != nil {
			return err
		}

		s.publishAndClear(ctx, sale)
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// RemoveItem removes a line from an open sale and releases its stock
func (s *SaleService) RemoveItem(ctx context.Context, saleID, itemID uuid.UUID) (*SaleResponse, error) {
	var response SaleResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := s.loadSale(ctx, repos, saleID, true)
		if err != nil {
			return err
		}

		item := sale.FindItem(itemID)
		if item == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND",
				fmt.Sprintf("Sale has no item %s", itemID))
		}

		products, err := s.lockProducts(ctx, repos, []uuid.UUID{item.ProductID})
		if err != nil {
			return err
		}

		movement, err := sale.RemoveItem(itemID)
		if err != nil {
			return err
		}
		if err := s.applyMovements(ctx, repos, products, []sales.StockMovement{movement}); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		if err := s.refreshClientDebt(ctx, repos, sale.ClientID); err != nil {
			return err
		}

		s.publishAndClear(ctx, sale)
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ApplyPayment records a payment on an open sale. A payment covering the
// full balance finalizes the sale in the same transaction. When the request
// carries an idempotency key, a repeated submission returns the current sale
// without applying the payment again.
func (s *SaleService) ApplyPayment(ctx context.Context, saleID uuid.UUID, req ApplyPaymentRequest) (*SaleResponse, error) {
	useKey := req.IdempotencyKey != "" && s.idempotency != nil && s.idempotencyCfg.Enabled
	var key string
	if useKey {
		key = paymentIdempotencyKey(saleID, req.IdempotencyKey)
		seen, err := s.idempotency.IsProcessed(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("idempotency check: %w", err)
		}
		if seen {
			return s.Get(ctx, saleID)
		}
	}

	var response SaleResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := s.loadSale(ctx, repos, saleID, true)
		if err != nil {
			return err
		}

		if _, err := sale.ApplyPayment(req.Amount, req.Method, req.Note); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		if err := s.refreshClientDebt(ctx, repos, sale.ClientID); err != nil {
			return err
		}

		s.publishAndClear(ctx, sale)
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The key is consumed only by a committed payment so that a rejected
	// attempt can be retried with the same key. The payment is already on
	// the ledger at this point, so a store failure must not fail the call.
	if useKey {
		_, _ = s.idempotency.MarkProcessed(ctx, key, s.idempotencyCfg.TTL)
	}
	return &response, nil
}

// Finalize closes an open sale. Stock stays where the item reservations put
// it. Finalizing an already finalized sale is a no-op.
func (s *SaleService) Finalize(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var response SaleResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := s.loadSale(ctx, repos, saleID, true)
		if err != nil {
			return err
		}

		if err := sale.Finalize(); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		if err := s.refreshClientDebt(ctx, repos, sale.ClientID); err != nil {
			return err
		}

		s.publishAndClear(ctx, sale)
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Cancel cancels a sale and returns every reserved item to stock.
// Cancelling a cancelled sale is a no-op.
func (s *SaleService) Cancel(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var response SaleResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := s.loadSale(ctx, repos, saleID, true)
		if err != nil {
			return err
		}

		movements, err := sale.Cancel()
		if err != nil {
			return err
		}
		if err := s.applyMovementsLocking(ctx, repos, movements); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		if err := s.refreshClientDebt(ctx, repos, sale.ClientID); err != nil {
			return err
		}

		s.publishAndClear(ctx, sale)
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Reopen puts a finalized or cancelled sale back in the open state.
// Reopening a cancelled sale re-reserves its items and fails with
// InsufficientStock when the stock has been sold in the meantime; nothing is
// changed in that case. Reopening an open sale is a no-op.
func (s *SaleService) Reopen(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var response SaleResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := s.loadSale(ctx, repos, saleID, true)
		if err != nil {
			return err
		}

		movements, err := sale.Reopen()
		if err != nil {
			return err
		}
		if err := s.applyMovementsLocking(ctx, repos, movements); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		if err := s.refreshClientDebt(ctx, repos, sale.ClientID); err != nil {
			return err
		}

		s.publishAndClear(ctx, sale)
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Delete removes a sale with its items and payments. Stock still held by the
// sale is released first, so deleting an open or finalized sale behaves like
// cancelling it and then erasing the record.
func (s *SaleService) Delete(ctx context.Context, saleID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := s.loadSale(ctx, repos, saleID, true)
		if err != nil {
			return err
		}

		if err := s.applyMovementsLocking(ctx, repos, sale.OutstandingReservations()); err != nil {
			return err
		}
		if err := repos.SaleRepo().Delete(ctx, saleID); err != nil {
			return err
		}
		return s.refreshClientDebt(ctx, repos, sale.ClientID)
	})
}

// loadSale fetches a sale, optionally taking the row lock that heads the
// transaction's lock order
func (s *SaleService) loadSale(ctx context.Context, repos TransactionalRepositories, saleID uuid.UUID, forUpdate bool) (*sales.Sale, error) {
	var (
		sale *sales.Sale
		err  error
	)
	if forUpdate {
		sale, err = repos.SaleRepo().FindByIDForUpdate(ctx, saleID)
	} else {
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
	}
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError(shared.ErrNotFound.Code,
			fmt.Sprintf("Sale %s not found", saleID))
	}
	return sale, nil
}

// lockProducts loads product rows under FOR UPDATE locks, in ascending ID
// order, and returns them keyed by ID
func (s *SaleService) lockProducts(ctx context.Context, repos TransactionalRepositories, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}

	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	products, err := repos.ProductRepo().FindByIDsForUpdate(ctx, sorted)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code,
				fmt.Sprintf("Product %s not found", id))
		}
	}
	return byID, nil
}

// applyMovements applies stock movements to already locked products and
// saves them. A failed reservation aborts without saving anything.
func (s *SaleService) applyMovements(ctx context.Context, repos TransactionalRepositories, products map[uuid.UUID]*catalog.Product, movements []sales.StockMovement) error {
	for _, m := range movements {
		product, ok := products[m.ProductID]
		if !ok {
			return shared.NewDomainError(shared.ErrNotFound.Code,
				fmt.Sprintf("Product %s not found", m.ProductID))
		}
		if m.Quantity < 0 {
			if err := product.Reserve(-m.Quantity); err != nil {
				return err
			}
		} else if m.Quantity > 0 {
			if err := product.Release(m.Quantity); err != nil {
				return err
			}
		}
	}

	for _, m := range movements {
		product := products[m.ProductID]
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}
		s.publishAndClear(ctx, product)
	}
	return nil
}

// applyMovementsLocking locks the products named by the movements and
// applies them
func (s *SaleService) applyMovementsLocking(ctx context.Context, repos TransactionalRepositories, movements []sales.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(movements))
	for _, m := range movements {
		ids = append(ids, m.ProductID)
	}
	products, err := s.lockProducts(ctx, repos, ids)
	if err != nil {
		return err
	}
	return s.applyMovements(ctx, repos, products, movements)
}

// refreshClientDebt recomputes the client's cached debt from their open
// sales. The cache is never adjusted incrementally; recomputing inside the
// same transaction keeps it exact after every kind of sale change.
func (s *SaleService) refreshClientDebt(ctx context.Context, repos TransactionalRepositories, clientID *uuid.UUID) error {
	if clientID == nil {
		return nil
	}

	client, err := repos.ClientRepo().FindByIDForUpdate(ctx, *clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return shared.NewDomainError(shared.ErrNotFound.Code,
			fmt.Sprintf("Client %s not found", clientID))
	}

	openSales, err := repos.SaleRepo().FindOpenByClient(ctx, *clientID)
	if err != nil {
		return err
	}

	debt := decimal.Zero
	for i := range openSales {
		balance := openSales[i].Balance()
		if balance.IsPositive() {
			debt = debt.Add(balance)
		}
	}

	client.SetDebtBalance(debt)
	if err := repos.ClientRepo().Save(ctx, client); err != nil {
		return err
	}
	s.publishAndClear(ctx, client)
	return nil
}

// publishAndClear publishes pending domain events and clears them.
// Errors are handled by the event bus, not propagated.
func (s *SaleService) publishAndClear(ctx context.Context, aggregate interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}) {
	if s.eventPublisher == nil {
		aggregate.ClearDomainEvents()
		return
	}
	for _, event := range aggregate.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	aggregate.ClearDomainEvents()
}

func paymentIdempotencyKey(saleID uuid.UUID, key string) string {
	return fmt.Sprintf("sale:%s:payment:%s", saleID, key)
}
