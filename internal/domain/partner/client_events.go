package partner

import (
	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeClient is the aggregate type for client events
const AggregateTypeClient = "Client"

// Client event types
const (
	EventTypeClientRegistered  = "ClientRegistered"
	EventTypeClientDebtChanged = "ClientDebtChanged"
)

// ClientRegisteredEvent is emitted when a new client is registered
type ClientRegisteredEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`
}

func NewClientRegisteredEvent(client *Client) *ClientRegisteredEvent {
	return &ClientRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientRegistered, AggregateTypeClient, client.ID),
		Name:            client.Name,
		Nickname:        client.Nickname,
	}
}

// ClientDebtChangedEvent is emitted when the cached debt balance changes
type ClientDebtChangedEvent struct {
	shared.BaseDomainEvent
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

func NewClientDebtChangedEvent(client *Client, oldBalance decimal.Decimal) *ClientDebtChangedEvent {
	return &ClientDebtChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientDebtChanged, AggregateTypeClient, client.ID),
		OldBalance:      oldBalance,
		NewBalance:      client.DebtBalance,
	}
}
