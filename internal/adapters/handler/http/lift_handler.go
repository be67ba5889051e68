package http

import (
	"net/http"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/comitanigiacomo/liftbook/internal/core/services"
	"github.com/gin-gonic/gin"
)

type LiftHandler struct {
	lifts *services.LiftService
	stats *services.StatsService
}

func NewLiftHandler(lifts *services.LiftService, stats *services.StatsService) *LiftHandler {
	return &LiftHandler{
		lifts: lifts,
		stats: stats,
	}
}

type liftRequest struct {
	Name   string       `json:"name"`
	Weight float64      `json:"weight"`
	Reps   float64      `json:"reps"`
	Date   *domain.Date `json:"date"`
}

type updateLiftRequest struct {
	liftRequest
	Version int `json:"version"`
}

type batchLiftRequest struct {
	Date *domain.Date  `json:"date"`
	Sets []liftRequest `json:"sets"`
}

func (h *LiftHandler) RegisterRoutes(router *gin.RouterGroup) {
	lifts := router.Group("/lifts")
	{
		lifts.POST("", h.Create)
		lifts.POST("/batch", h.CreateBatch)
		lifts.GET("", h.List)
		lifts.GET("/names", h.Names)
		lifts.GET("/suggestions", h.Suggestions)
		lifts.GET("/:id", h.Get)
		lifts.PUT("/:id", h.Update)
		lifts.DELETE("/:id", h.Delete)
	}
	router.GET("/logbook", h.Logbook)
}

func (h *LiftHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req liftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.lifts.Create(c.Request.Context(), services.CreateLiftInput{
		UserID: userID,
		Name:   req.Name,
		Weight: req.Weight,
		Reps:   req.Reps,
		Date:   req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

// CreateBatch logs several sets at once. A set without its own date uses
// the batch date, and then today.
func (h *LiftHandler) CreateBatch(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req batchLiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inputs := make([]services.CreateLiftInput, 0, len(req.Sets))
	for _, s := range req.Sets {
		date := s.Date
		if date == nil {
			date = req.Date
		}
		inputs = append(inputs, services.CreateLiftInput{
			Name:   s.Name,
			Weight: s.Weight,
			Reps:   s.Reps,
			Date:   date,
		})
	}

	ms, err := h.lifts.CreateBatch(c.Request.Context(), userID, inputs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ms)
}

func (h *LiftHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	rng, err := queryRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.lifts.List(c.Request.Context(), userID, domain.MeasurementFilter{
		Series: querySeries(c, "series"),
		From:   rng.Start,
		To:     rng.End,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []*domain.Measurement{}
	}

	c.JSON(http.StatusOK, list)
}

func (h *LiftHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	m, err := h.lifts.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

func (h *LiftHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateLiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.lifts.Update(c.Request.Context(), services.UpdateLiftInput{
		ID:      c.Param("id"),
		UserID:  userID,
		Name:    req.Name,
		Weight:  req.Weight,
		Reps:    req.Reps,
		Date:    req.Date,
		Version: req.Version,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

func (h *LiftHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.lifts.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *LiftHandler) Names(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	names, err := h.lifts.Names(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"names": names})
}

// Suggestions completes a partially typed lift name from the user's
// history. Names already picked in the form are passed as exclude.
func (h *LiftHandler) Suggestions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	suggestions, err := h.stats.Suggestions(c.Request.Context(), userID, c.Query("q"), queryList(c, "exclude"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (h *LiftHandler) Logbook(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	date, err := queryDate(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	book, err := h.lifts.Logbook(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}
