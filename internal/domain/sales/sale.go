package sales

import (
	"fmt"
	"time"

	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/botecopos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the sale lifecycle state
type SaleStatus string

const (
	SaleStatusOpen      SaleStatus = "open"
	SaleStatusFinalized SaleStatus = "finalized"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// CanTransitionTo checks if the status transition is allowed
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	switch s {
	case SaleStatusOpen:
		return target == SaleStatusFinalized || target == SaleStatusCancelled
	case SaleStatusFinalized:
		return target == SaleStatusOpen || target == SaleStatusCancelled
	case SaleStatusCancelled:
		return target == SaleStatusOpen
	}
	return false
}

// PaymentMethodOnAccount marks a payment recorded as store credit ("fiado").
// Methods are otherwise free-form tags such as "cash", "pix" or "card".
const PaymentMethodOnAccount = "on_account"

// StockMovement is a stock command the reconciliation coordinator applies
// under product row locks. A negative Quantity takes stock (reserve), a
// positive Quantity returns it (release).
type StockMovement struct {
	ProductID uuid.UUID
	Quantity  int
}

// SaleItem is a line on a sale. Name and unit price are snapshots taken when
// the item was first added; later catalog changes do not touch them.
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uq_sale_items_sale_product"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uq_sale_items_sale_product"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// Subtotal returns price times quantity for this line
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Payment is an append-only ledger entry against a sale
type Payment struct {
	shared.BaseEntity
	SaleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Method string          `gorm:"type:varchar(30);not null;default:'cash'"`
	Note   string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// Sale is the aggregate root for a customer tab. All state changes that move
// stock return StockMovement commands instead of touching products directly;
// the coordinator applies them inside the same transaction.
type Sale struct {
	shared.BaseAggregateRoot
	ClientID   *uuid.UUID `gorm:"type:uuid;index"`
	ClientName string     `gorm:"type:varchar(255)"`
	Status     SaleStatus `gorm:"type:varchar(20);not null;default:'open';index"`
	Items      []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Payments   []Payment  `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale opens a new sale, either for a registered client or a walk-in name
func NewSale(clientID *uuid.UUID, clientName string) (*Sale, error) {
	if clientID == nil && clientName == "" {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale requires a client or a walk-in name")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		ClientName:        clientName,
		Status:            SaleStatusOpen,
		Items:             []SaleItem{},
		Payments:          []Payment{},
	}

	sale.AddDomainEvent(NewSaleOpenedEvent(sale))

	return sale, nil
}

// IsOpen returns true while items and payments can still be changed
func (s *Sale) IsOpen() bool {
	return s.Status == SaleStatusOpen
}

// Total returns the sum of all line subtotals
func (s *Sale) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// PaidAmount returns the sum of all payments
func (s *Sale) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for _, payment := range s.Payments {
		paid = paid.Add(payment.Amount)
	}
	return paid
}

// Balance returns the outstanding amount, rounded to two decimal places.
// Overpaid sales report a negative balance.
func (s *Sale) Balance() decimal.Decimal {
	return s.Total().Sub(s.PaidAmount()).Round(2)
}

// GetTotalMoney returns the total as Money
func (s *Sale) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(s.Total())
}

// GetBalanceMoney returns the outstanding balance as Money
func (s *Sale) GetBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(s.Balance())
}

// FindItemByProduct returns the line for a product, or nil
func (s *Sale) FindItemByProduct(productID uuid.UUID) *SaleItem {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return &s.Items[i]
		}
	}
	return nil
}

// FindItem returns the line with the given item ID, or nil
func (s *Sale) FindItem(itemID uuid.UUID) *SaleItem {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return &s.Items[i]
		}
	}
	return nil
}

// AddItem adds a quantity of a product to the sale. Adding a product already
// on the sale accumulates onto the existing line and keeps its original price
// snapshot. The returned movement reserves the added quantity.
func (s *Sale) AddItem(productID uuid.UUID, productName string, price decimal.Decimal, qty int) (StockMovement, error) {
	if !s.IsOpen() {
		return StockMovement{}, NewSaleNotOpenError(s)
	}
	if qty <= 0 {
		return StockMovement{}, shared.ErrInvalidQuantity
	}

	if existing := s.FindItemByProduct(productID); existing != nil {
		existing.Quantity += qty
		existing.UpdatedAt = time.Now()
	} else {
		s.Items = append(s.Items, SaleItem{
			BaseEntity:  shared.NewBaseEntity(),
			SaleID:      s.ID,
			ProductID:   productID,
			ProductName: productName,
			Quantity:    qty,
			Price:       price.Round(2),
		})
	}

	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleItemAddedEvent(s, productID, qty))

	return StockMovement{ProductID: productID, Quantity: -qty}, nil
}

// RemoveItem removes a whole line from the sale. The returned movement
// releases the line's quantity back to stock.
func (s *Sale) RemoveItem(itemID uuid.UUID) (StockMovement, error) {
	if !s.IsOpen() {
		return StockMovement{}, NewSaleNotOpenError(s)
	}

	for i := range s.Items {
		if s.Items[i].ID == itemID {
			removed := s.Items[i]
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			s.UpdatedAt = time.Now()
			s.IncrementVersion()
			s.AddDomainEvent(NewSaleItemRemovedEvent(s, removed.ProductID, removed.Quantity))
			return StockMovement{ProductID: removed.ProductID, Quantity: removed.Quantity}, nil
		}
	}

	return StockMovement{}, shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Sale has no item %s", itemID))
}

// ApplyPayment appends a payment to the ledger. When the sale becomes fully
// paid it finalizes automatically. Returns true when auto-finalization fired.
func (s *Sale) ApplyPayment(amount decimal.Decimal, method, note string) (bool, error) {
	if !s.IsOpen() {
		return false, NewSaleNotOpenError(s)
	}
	if !amount.IsPositive() {
		return false, shared.ErrInvalidAmount
	}
	if method == "" {
		method = "cash"
	}

	payment := Payment{
		BaseEntity: shared.NewBaseEntity(),
		SaleID:     s.ID,
		Amount:     amount.Round(2),
		Method:     method,
		Note:       note,
	}
	s.Payments = append(s.Payments, payment)

	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewPaymentAppliedEvent(s, &payment))

	if !s.Balance().IsPositive() {
		s.Status = SaleStatusFinalized
		s.AddDomainEvent(NewSaleFinalizedEvent(s, true))
		return true, nil
	}

	return false, nil
}

// Finalize closes an open sale. Stock was already reserved when items were
// added, so finalizing moves no stock. Finalizing a finalized sale is a
// no-op; a cancelled sale must be reopened first.
func (s *Sale) Finalize() error {
	if s.Status == SaleStatusFinalized {
		return nil
	}
	if !s.Status.CanTransitionTo(SaleStatusFinalized) {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("Cannot finalize a %s sale", s.Status))
	}

	s.Status = SaleStatusFinalized
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleFinalizedEvent(s, false))

	return nil
}

// Cancel cancels the sale and returns movements releasing every reserved
// item. Cancelling a cancelled sale is a no-op with no movements.
func (s *Sale) Cancel() ([]StockMovement, error) {
	if s.Status == SaleStatusCancelled {
		return nil, nil
	}

	movements := make([]StockMovement, 0, len(s.Items))
	for _, item := range s.Items {
		movements = append(movements, StockMovement{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	s.Status = SaleStatusCancelled
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleCancelledEvent(s))

	return movements, nil
}

// Reopen puts the sale back in the open state. Reopening a finalized sale
// moves no stock because its reservation was never released; reopening a
// cancelled sale returns movements re-reserving every item, which the
// coordinator may reject for insufficient stock. Reopening an open sale is a
// no-op.
func (s *Sale) Reopen() ([]StockMovement, error) {
	switch s.Status {
	case SaleStatusOpen:
		return nil, nil
	case SaleStatusFinalized:
		s.Status = SaleStatusOpen
		s.UpdatedAt = time.Now()
		s.IncrementVersion()
		s.AddDomainEvent(NewSaleReopenedEvent(s))
		return nil, nil
	case SaleStatusCancelled:
		movements := make([]StockMovement, 0, len(s.Items))
		for _, item := range s.Items {
			movements = append(movements, StockMovement{ProductID: item.ProductID, Quantity: -item.Quantity})
		}
		s.Status = SaleStatusOpen
		s.UpdatedAt = time.Now()
		s.IncrementVersion()
		s.AddDomainEvent(NewSaleReopenedEvent(s))
		return movements, nil
	}
	return nil, shared.ErrInvalidState
}

// OutstandingReservations returns the movements that would release the stock
// this sale currently holds. Open and finalized sales hold their full item
// set; cancelled sales hold nothing. Used before deleting a sale.
func (s *Sale) OutstandingReservations() []StockMovement {
	if s.Status == SaleStatusCancelled {
		return nil
	}
	movements := make([]StockMovement, 0, len(s.Items))
	for _, item := range s.Items {
		movements = append(movements, StockMovement{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return movements
}

// NewSaleNotOpenError builds a SaleNotOpen error naming the current status
func NewSaleNotOpenError(s *Sale) *shared.DomainError {
	return shared.NewDomainError(shared.ErrSaleNotOpen.Code,
		fmt.Sprintf("Sale %s is %s, not open", s.ID, s.Status))
}
