package sales

import (
	"context"

	"github.com/botecopos/backend/internal/domain/catalog"
	"github.com/botecopos/backend/internal/domain/partner"
	"github.com/botecopos/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories a sale
// operation touches. Every coordinator operation runs inside exactly one
// Execute call; all repository work inside it commits or rolls back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the sale, product and client
// repositories bound to the same transaction.
//
// Lock ordering inside a transaction is fixed: the sale row first, then
// product rows in ascending ID order, then the client row. Every operation
// follows it so concurrent sales cannot deadlock.
type TransactionalRepositories interface {
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() sales.SaleRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// ClientRepo returns the client repository scoped to the current transaction
	ClientRepo() partner.ClientRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests with mocked repositories.
type NoOpTransactionScope struct {
	saleRepo    sales.SaleRepository
	productRepo catalog.ProductRepository
	clientRepo  partner.ClientRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	clientRepo partner.ClientRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository {
	return s.saleRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// ClientRepo returns the client repository.
func (s *NoOpTransactionScope) ClientRepo() partner.ClientRepository {
	return s.clientRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
