package catalog

import (
	"context"
	"fmt"

	"github.com/botecopos/backend/internal/domain/catalog"
	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/botecopos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SaleReferenceCounter reports how many sale items reference a product
type SaleReferenceCounter interface {
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

// ProductService handles catalog and stock maintenance outside the sale flow
type ProductService struct {
	productRepo    catalog.ProductRepository
	saleRefs       SaleReferenceCounter
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// SetSaleReferenceCounter sets the counter used to block deletion of products
// that appear on sales
func (s *ProductService) SetSaleReferenceCounter(counter SaleReferenceCounter) {
	s.saleRefs = counter
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new product, optionally with opening stock
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(
		req.Name,
		catalog.ProductCategory(req.Category),
		valueobject.NewMoneyBRL(req.SalePrice),
		valueobject.NewMoneyBRL(req.CostPrice),
	)
	if err != nil {
		return nil, err
	}

	if req.InitialQuantity > 0 {
		if err := product.Restock(req.InitialQuantity); err != nil {
			return nil, err
		}
	}
	if req.LowStockThreshold > 0 {
		if err := product.SetLowStockThreshold(req.LowStockThreshold); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products matching the request
func (s *ProductService) List(ctx context.Context, req ListProductsRequest) (*shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	filter.Search = req.Search
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.Category != "" {
		filter.Filters["category"] = req.Category
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListLowStock retrieves active products at or below their threshold
func (s *ProductService) ListLowStock(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses, nil
}

// Update changes the fields set in the request
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		if err := product.SetCategory(catalog.ProductCategory(*req.Category)); err != nil {
			return nil, err
		}
	}
	if req.SalePrice != nil || req.CostPrice != nil {
		salePrice := product.GetSalePriceMoney()
		costPrice := product.GetCostPriceMoney()
		if req.SalePrice != nil {
			salePrice = valueobject.NewMoneyBRL(*req.SalePrice)
		}
		if req.CostPrice != nil {
			costPrice = valueobject.NewMoneyBRL(*req.CostPrice)
		}
		if err := product.UpdatePricing(salePrice, costPrice); err != nil {
			return nil, err
		}
	}
	if req.LowStockThreshold != nil {
		if err := product.SetLowStockThreshold(*req.LowStockThreshold); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Restock adds delivered stock to a product
func (s *ProductService) Restock(ctx context.Context, id uuid.UUID, req RestockRequest) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Restock(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// AdjustStock sets a product's quantity to a counted value
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.AdjustQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Deactivate takes a product off sale, keeping its sale history
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	product.Deactivate()
	return s.productRepo.Save(ctx, product)
}

// Activate puts a product back on sale
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	product.Activate()
	return s.productRepo.Save(ctx, product)
}

// Delete removes a product that no sale references. Products with sale
// history must be deactivated instead so item snapshots keep resolving.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findProduct(ctx, id); err != nil {
		return err
	}
	if s.saleRefs != nil {
		refs, err := s.saleRefs.CountByProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("count sale references: %w", err)
		}
		if refs > 0 {
			return shared.NewDomainError("PRODUCT_IN_USE",
				fmt.Sprintf("Product is referenced by %d sale items", refs))
		}
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewDomainError(shared.ErrNotFound.Code,
			fmt.Sprintf("Product %s not found", id))
	}
	return product, nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		product.ClearDomainEvents()
		return
	}
	for _, event := range product.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	product.ClearDomainEvents()
}
