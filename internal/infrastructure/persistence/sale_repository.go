package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/botecopos/backend/internal/domain/sales"
	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its items and payments
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByIDForUpdate locks the sale header row and loads the sale with its
// items and payments. The sale row is the first lock a sale transaction
// takes; child rows are covered by the header lock because all writers go
// through it.
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", id).
		Order("created_at ASC").
		Find(&sale.Items).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", id).
		Order("created_at ASC").
		Find(&sale.Payments).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// FindOpenByClient finds the client's open sales, oldest first
func (r *GormSaleRepository) FindOpenByClient(ctx context.Context, clientID uuid.UUID) ([]sales.Sale, error) {
	var result []sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("client_id = ? AND status = ?", clientID, sales.SaleStatusOpen).
		Order("created_at ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByStatus finds sales in the given status matching the filter
func (r *GormSaleRepository) FindByStatus(ctx context.Context, status sales.SaleStatus, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := r.applyFilter(
		r.db.WithContext(ctx).
			Preload("Items").
			Preload("Payments").
			Where("status = ?", status),
		filter,
	)
	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByPeriod finds finalized sales updated within [start, end)
func (r *GormSaleRepository) FindByPeriod(ctx context.Context, start, end time.Time) ([]sales.Sale, error) {
	var result []sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("status = ? AND updated_at >= ? AND updated_at < ?", sales.SaleStatusFinalized, start, end).
		Order("updated_at ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := r.applyFilter(
		r.db.WithContext(ctx).Preload("Items").Preload("Payments"),
		filter,
	)
	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Save persists the sale header, its items and its payments, and deletes
// item rows the aggregate no longer carries. Payments are append-only so
// they are never deleted here.
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	db := r.db.WithContext(ctx)

	if err := db.Omit("Items", "Payments").Save(sale).Error; err != nil {
		return err
	}

	keepIDs := make([]uuid.UUID, 0, len(sale.Items))
	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
		keepIDs = append(keepIDs, sale.Items[i].ID)
	}
	cleanup := db.Where("sale_id = ?", sale.ID)
	if len(keepIDs) > 0 {
		cleanup = cleanup.Where("id NOT IN ?", keepIDs)
	}
	if err := cleanup.Delete(&sales.SaleItem{}).Error; err != nil {
		return err
	}
	for i := range sale.Items {
		if err := db.Save(&sale.Items[i]).Error; err != nil {
			return err
		}
	}

	for i := range sale.Payments {
		sale.Payments[i].SaleID = sale.ID
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sale.Payments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a sale and cascades to its items and payments
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("sale_id = ?", id).Delete(&sales.SaleItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("sale_id = ?", id).Delete(&sales.Payment{}).Error; err != nil {
		return err
	}
	result := db.Delete(&sales.Sale{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sales.Sale{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByProduct counts sale items referencing the product
func (r *GormSaleRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&sales.SaleItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByClient counts sales referencing the client, regardless of status
func (r *GormSaleRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}
	return query
}
