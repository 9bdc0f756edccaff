package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pharmasync/backend/internal/domain/shared"
	"github.com/pharmasync/backend/internal/domain/sync"
	"github.com/pharmasync/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its local ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sync.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds an order by its store identifier
func (r *GormOrderRepository) FindByExternalID(ctx context.Context, externalID string) (*sync.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an order. Writes go through an upsert keyed on the
// external ID so a concurrent insert of the same remote order cannot violate
// uniqueness.
func (r *GormOrderRepository) Save(ctx context.Context, order *sync.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "total", "raw_data", "synced", "updated_at",
			}),
		}).
		Create(model).Error
}

// FindAll lists orders matching the filter, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter sync.OrderFilter) ([]sync.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]sync.Order, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, *orderModels[i].ToDomain())
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter sync.OrderFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies the optional filter criteria to a query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter sync.OrderFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Synced != nil {
		query = query.Where("synced = ?", *filter.Synced)
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository interface
var _ sync.OrderRepository = (*GormOrderRepository)(nil)
