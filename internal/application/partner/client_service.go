package partner

import (
	"context"
	"fmt"

	"github.com/botecopos/backend/internal/domain/partner"
	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleCounter reports how many sales reference a client
type SaleCounter interface {
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
}

// ClientService handles client registration and lookup. Debt changes never
// come through here; the sale coordinator owns the debt cache.
type ClientService struct {
	clientRepo     partner.ClientRepository
	saleCounter    SaleCounter
	eventPublisher shared.EventPublisher
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// SetSaleCounter sets the counter used to block deletion of clients with
// sale history
func (s *ClientService) SetSaleCounter(counter SaleCounter) {
	s.saleCounter = counter
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new client
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(req.Name, req.Nickname, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, client)

	response := ToClientResponse(client)
	return &response, nil
}

// Get retrieves a client by ID
func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients matching the request
func (s *ClientService) List(ctx context.Context, req ListClientsRequest) (*shared.Paginated[ClientResponse], error) {
	filter := shared.DefaultFilter()
	filter.Search = req.Search
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	clients, err := s.clientRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.clientRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, ToClientResponse(&clients[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListDebtors retrieves clients who owe money, largest debt first
func (s *ClientService) ListDebtors(ctx context.Context) ([]ClientResponse, error) {
	clients, err := s.clientRepo.FindDebtors(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, ToClientResponse(&clients[i]))
	}
	return responses, nil
}

// Update changes the fields set in the request
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}

	name := client.Name
	nickname := client.Nickname
	phone := client.Phone
	if req.Name != nil {
		name = *req.Name
	}
	if req.Nickname != nil {
		nickname = *req.Nickname
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if err := client.UpdateContact(name, nickname, phone); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, client)

	response := ToClientResponse(client)
	return &response, nil
}

// SetPhoto records the stored path of a client's photo
func (s *ClientService) SetPhoto(ctx context.Context, id uuid.UUID, path string) error {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return err
	}
	client.SetPhoto(path)
	return s.clientRepo.Save(ctx, client)
}

// Delete removes a client. Clients who still owe money cannot be deleted.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return err
	}
	if client.HasDebt() {
		return shared.NewDomainError("CLIENT_HAS_DEBT",
			fmt.Sprintf("Client %s still owes %s", client.DisplayName(), client.DebtBalance.StringFixed(2)))
	}
	if s.saleCounter != nil {
		salesCount, err := s.saleCounter.CountByClient(ctx, id)
		if err != nil {
			return fmt.Errorf("count client sales: %w", err)
		}
		if salesCount > 0 {
			return shared.NewDomainError("CLIENT_HAS_SALES",
				fmt.Sprintf("Client %s has %d sales on record", client.DisplayName(), salesCount))
		}
	}
	return s.clientRepo.Delete(ctx, id)
}

func (s *ClientService) findClient(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewDomainError(shared.ErrNotFound.Code,
			fmt.Sprintf("Client %s not found", id))
	}
	return client, nil
}

func (s *ClientService) publishEvents(ctx context.Context, client *partner.Client) {
	if s.eventPublisher == nil {
		client.ClearDomainEvents()
		return
	}
	for _, event := range client.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	client.ClearDomainEvents()
}
