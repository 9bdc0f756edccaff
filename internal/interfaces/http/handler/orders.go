package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	syncapp "github.com/pharmasync/backend/internal/application/sync"
	"github.com/pharmasync/backend/internal/domain/shared"
	"github.com/pharmasync/backend/internal/domain/sync"
	"github.com/pharmasync/backend/internal/interfaces/http/dto"
)

// OrderHandler serves the locally synced orders
type OrderHandler struct {
	BaseHandler
	orders       sync.OrderRepository
	orchestrator *syncapp.Orchestrator
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders sync.OrderRepository, orchestrator *syncapp.Orchestrator) *OrderHandler {
	return &OrderHandler{
		orders:       orders,
		orchestrator: orchestrator,
	}
}

// List lists synced orders with optional status and synced-state filters
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	req := dto.OrderListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	filter := sync.OrderFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Synced:   req.Synced,
	}
	if req.Status != "" {
		status := sync.OrderStatus(req.Status)
		filter.Status = &status
	}

	orders, err := h.orders.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.orders.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.NewOrderListResponse(orders), total, req.Page, req.PageSize)
}

// Get returns one synced order by its store identifier
// GET /api/v1/orders/:external_id
func (h *OrderHandler) Get(c *gin.Context) {
	externalID := c.Param("external_id")

	order, err := h.orders.FindByExternalID(c.Request.Context(), externalID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Order not found: "+externalID)
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewOrderResponse(order))
}

// Resync re-fetches a locally known order from the store and forwards it again.
// Unlike the sync endpoint, the order must already exist locally.
// POST /api/v1/orders/:external_id/resync
func (h *OrderHandler) Resync(c *gin.Context) {
	externalID := c.Param("external_id")

	if _, err := h.orders.FindByExternalID(c.Request.Context(), externalID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Order not found: "+externalID)
			return
		}
		h.HandleError(c, err)
		return
	}

	result, err := h.orchestrator.RunSingle(c.Request.Context(), externalID, true)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.SingleSyncResponse{
		Success: result.Success,
		Message: result.Message,
	})
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.GET("/:external_id", h.Get)
		orders.POST("/:external_id/resync", h.Resync)
	}
}
