package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmasync/backend/internal/domain/sync"
)

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key"`
	ExternalID string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_orders_external_id"`
	Status     sync.OrderStatus `gorm:"type:varchar(20);not null;index:idx_orders_status"`
	Total      decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	RawData    string           `gorm:"type:jsonb;column:raw_data"`
	Synced     bool             `gorm:"not null;default:false;index:idx_orders_synced"`
	CreatedAt  time.Time        `gorm:"not null"`
	UpdatedAt  time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *sync.Order {
	return &sync.Order{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		Status:     m.Status,
		Total:      m.Total,
		RawData:    m.RawData,
		Synced:     m.Synced,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *sync.Order) {
	m.ID = o.ID
	m.ExternalID = o.ExternalID
	m.Status = o.Status
	m.Total = o.Total
	m.RawData = o.RawData
	m.Synced = o.Synced
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *sync.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// SyncRunModel is the persistence model for the SyncRun domain entity.
type SyncRunModel struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key"`
	RunType         sync.RunType   `gorm:"type:varchar(20);not null;column:run_type"`
	Status          sync.RunStatus `gorm:"type:varchar(20);not null;index:idx_sync_runs_status"`
	OrdersProcessed int            `gorm:"not null;default:0"`
	OrdersSynced    int            `gorm:"not null;default:0"`
	ErrorDetails    string         `gorm:"type:text"`
	StartedAt       *time.Time     `gorm:"index:idx_sync_runs_started_at"`
	CompletedAt     *time.Time     `gorm:"index:idx_sync_runs_completed_at"`
	CreatedAt       time.Time      `gorm:"not null"`
	UpdatedAt       time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncRunModel) TableName() string {
	return "sync_runs"
}

// ToDomain converts the persistence model to a domain SyncRun entity.
func (m *SyncRunModel) ToDomain() *sync.SyncRun {
	return &sync.SyncRun{
		ID:              m.ID,
		Type:            m.RunType,
		Status:          m.Status,
		OrdersProcessed: m.OrdersProcessed,
		OrdersSynced:    m.OrdersSynced,
		ErrorDetails:    m.ErrorDetails,
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SyncRun entity.
func (m *SyncRunModel) FromDomain(r *sync.SyncRun) {
	m.ID = r.ID
	m.RunType = r.Type
	m.Status = r.Status
	m.OrdersProcessed = r.OrdersProcessed
	m.OrdersSynced = r.OrdersSynced
	m.ErrorDetails = r.ErrorDetails
	m.StartedAt = r.StartedAt
	m.CompletedAt = r.CompletedAt
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
}

// SyncRunModelFromDomain creates a new persistence model from a domain SyncRun entity.
func SyncRunModelFromDomain(r *sync.SyncRun) *SyncRunModel {
	m := &SyncRunModel{}
	m.FromDomain(r)
	return m
}
