package http

import (
	"net/http"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/comitanigiacomo/liftbook/internal/core/services"
	"github.com/gin-gonic/gin"
)

// HealthHandler serves bodyweight tracking. Liveness lives on /health in
// the router, outside the API group.
type HealthHandler struct {
	svc *services.HealthService
}

func NewHealthHandler(svc *services.HealthService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

type bodyweightRequest struct {
	Weight float64      `json:"weight"`
	Unit   string       `json:"unit"`
	Date   *domain.Date `json:"date"`
	Notes  string       `json:"notes"`
}

func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	health := router.Group("/health")
	{
		health.GET("/bodyweight", h.History)
		health.POST("/bodyweight", h.Log)
		health.DELETE("/bodyweight/:id", h.Delete)
		health.GET("/overview", h.Overview)
	}
}

func (h *HealthHandler) Log(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req bodyweightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.svc.Log(c.Request.Context(), services.LogBodyweightInput{
		UserID: userID,
		Weight: req.Weight,
		Unit:   req.Unit,
		Date:   req.Date,
		Notes:  req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *HealthHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit := queryDigits(c, "limit", services.DefaultHistoryLimit)
	entries, err := h.svc.History(c.Request.Context(), userID, c.Query("unit"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *HealthHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HealthHandler) Overview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), userID, c.Query("unit"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
