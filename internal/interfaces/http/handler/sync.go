package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	syncapp "github.com/pharmasync/backend/internal/application/sync"
	"github.com/pharmasync/backend/internal/domain/shared"
	"github.com/pharmasync/backend/internal/interfaces/http/dto"
)

// SyncHandler handles sync-related API endpoints
type SyncHandler struct {
	BaseHandler
	orchestrator *syncapp.Orchestrator
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(orchestrator *syncapp.Orchestrator) *SyncHandler {
	return &SyncHandler{
		orchestrator: orchestrator,
	}
}

// FullSync triggers a full synchronization of store orders
// POST /api/v1/sync/full
func (h *SyncHandler) FullSync(c *gin.Context) {
	// The body is optional; an absent body means a full-history sync
	var req dto.FullSyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	since, err := req.ParseSince()
	if err != nil {
		h.ValidationError(c, []dto.ValidationDetail{
			{Field: "since", Message: "must be a valid RFC3339 timestamp"},
		})
		return
	}

	result, err := h.orchestrator.RunFull(c.Request.Context(), since)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSyncRunResponse(result))
}

// IncrementalSync triggers a sync from the last completed run's finish time
// POST /api/v1/sync/incremental
func (h *SyncHandler) IncrementalSync(c *gin.Context) {
	result, err := h.orchestrator.RunIncremental(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSyncRunResponse(result))
}

// SingleSync syncs one order by its store identifier. An order that already
// synced is left untouched; the resync endpoint forces a new forward.
// POST /api/v1/sync/orders/:external_id
func (h *SyncHandler) SingleSync(c *gin.Context) {
	externalID := c.Param("external_id")
	if externalID == "" {
		h.BadRequest(c, "external_id is required")
		return
	}

	result, err := h.orchestrator.RunSingle(c.Request.Context(), externalID, false)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.SingleSyncResponse{
		Success: result.Success,
		Message: result.Message,
	})
}

// Status returns the most recently started sync run
// GET /api/v1/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	run, err := h.orchestrator.GetLastRun(c.Request.Context())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "No sync run has been recorded yet")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSyncStatusResponse(run))
}

// History lists the most recent sync runs, newest first
// GET /api/v1/sync/runs
func (h *SyncHandler) History(c *gin.Context) {
	limit := 20
	runs, err := h.orchestrator.GetRecentRuns(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]dto.SyncStatusResponse, 0, len(runs))
	for i := range runs {
		out = append(out, dto.NewSyncStatusResponse(&runs[i]))
	}
	h.Success(c, out)
}

// RegisterRoutes registers all sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	syncGroup := rg.Group("/sync")
	{
		syncGroup.POST("/full", h.FullSync)
		syncGroup.POST("/incremental", h.IncrementalSync)
		syncGroup.POST("/orders/:external_id", h.SingleSync)
		syncGroup.GET("/status", h.Status)
		syncGroup.GET("/runs", h.History)
	}
}
