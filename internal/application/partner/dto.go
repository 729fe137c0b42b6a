package partner

import (
	"time"

	"github.com/botecopos/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateClientRequest represents a request to register a new client
type CreateClientRequest struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Phone    string `json:"phone"`
}

// UpdateClientRequest represents a request to update a client.
// Nil fields are left unchanged.
type UpdateClientRequest struct {
	Name     *string `json:"name"`
	Nickname *string `json:"nickname"`
	Phone    *string `json:"phone"`
}

// ListClientsRequest represents query parameters for listing clients
type ListClientsRequest struct {
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Nickname    string          `json:"nickname,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	PhotoPath   string          `json:"photo_path,omitempty"`
	DebtBalance decimal.Decimal `json:"debt_balance"`
	HasDebt     bool            `json:"has_debt"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToClientResponse converts a client aggregate to a response DTO
func ToClientResponse(client *partner.Client) ClientResponse {
	return ClientResponse{
		ID:          client.ID,
		Name:        client.Name,
		Nickname:    client.Nickname,
		Phone:       client.Phone,
		PhotoPath:   client.PhotoPath,
		DebtBalance: client.DebtBalance,
		HasDebt:     client.HasDebt(),
		Active:      client.Active,
		CreatedAt:   client.CreatedAt,
		UpdatedAt:   client.UpdatedAt,
	}
}
