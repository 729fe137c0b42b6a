package partner

import (
	"time"

	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/botecopos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Client is the aggregate root for a regular customer who can buy on account.
// DebtBalance is a cached total of the client's open sale balances; the sale
// reconciliation flow recomputes it after every write that touches a sale.
type Client struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(255);not null;index"`
	Nickname    string          `gorm:"type:varchar(100)"`
	Phone       string          `gorm:"type:varchar(30)"`
	PhotoPath   string          `gorm:"type:varchar(512)"`
	DebtBalance decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client with zero debt
func NewClient(name, nickname, phone string) (*Client, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 255 characters")
	}

	client := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Nickname:          nickname,
		Phone:             phone,
		DebtBalance:       decimal.Zero,
		Active:            true,
	}

	client.AddDomainEvent(NewClientRegisteredEvent(client))

	return client, nil
}

// UpdateContact updates the client's display and contact details
func (c *Client) UpdateContact(name, nickname, phone string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 255 characters")
	}

	c.Name = name
	c.Nickname = nickname
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetPhoto records the stored path of the client's photo
func (c *Client) SetPhoto(path string) {
	c.PhotoPath = path
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetDebtBalance replaces the cached debt with a freshly recomputed total.
// The value is rounded to two decimal places before being stored.
func (c *Client) SetDebtBalance(balance decimal.Decimal) {
	old := c.DebtBalance
	c.DebtBalance = balance.Round(2)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	if !old.Equal(c.DebtBalance) {
		c.AddDomainEvent(NewClientDebtChangedEvent(c, old))
	}
}

// HasDebt returns true if the client owes anything
func (c *Client) HasDebt() bool {
	return c.DebtBalance.IsPositive()
}

// GetDebtMoney returns the cached debt as Money
func (c *Client) GetDebtMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(c.DebtBalance)
}

// DisplayName returns the nickname when set, otherwise the full name
func (c *Client) DisplayName() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	return c.Name
}

// Deactivate hides the client from new sales without deleting history
func (c *Client) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate makes the client available for new sales again
func (c *Client) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
