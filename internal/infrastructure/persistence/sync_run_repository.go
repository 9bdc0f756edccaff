package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmasync/backend/internal/domain/shared"
	"github.com/pharmasync/backend/internal/domain/sync"
	"github.com/pharmasync/backend/internal/infrastructure/persistence/models"
)

// GormSyncRunRepository implements SyncRunRepository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Create persists a new run
func (r *GormSyncRunRepository) Create(ctx context.Context, run *sync.SyncRun) error {
	model := models.SyncRunModelFromDomain(run)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists run mutations
func (r *GormSyncRunRepository) Update(ctx context.Context, run *sync.SyncRun) error {
	model := models.SyncRunModelFromDomain(run)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a run by ID
func (r *GormSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*sync.SyncRun, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLast returns the most recently started run
func (r *GormSyncRunRepository) FindLast(ctx context.Context) (*sync.SyncRun, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLastCompleted returns the completed run with the latest CompletedAt
func (r *GormSyncRunRepository) FindLastCompleted(ctx context.Context) (*sync.SyncRun, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", sync.RunStatusCompleted).
		Order("completed_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindRecent lists the most recent runs, newest first
func (r *GormSyncRunRepository) FindRecent(ctx context.Context, limit int) ([]sync.SyncRun, error) {
	if limit < 1 {
		limit = 10
	}

	var runModels []models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runModels).Error; err != nil {
		return nil, err
	}

	runs := make([]sync.SyncRun, 0, len(runModels))
	for i := range runModels {
		runs = append(runs, *runModels[i].ToDomain())
	}
	return runs, nil
}

// Ensure GormSyncRunRepository implements SyncRunRepository interface
var _ sync.SyncRunRepository = (*GormSyncRunRepository)(nil)
