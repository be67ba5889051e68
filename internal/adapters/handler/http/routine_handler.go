package http

import (
	"net/http"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/comitanigiacomo/liftbook/internal/core/services"
	"github.com/gin-gonic/gin"
)

type RoutineHandler struct {
	svc *services.RoutineService
}

func NewRoutineHandler(svc *services.RoutineService) *RoutineHandler {
	return &RoutineHandler{svc: svc}
}

type routineRequest struct {
	Name  string               `json:"name"`
	Lifts []domain.RoutineLift `json:"lifts"`
}

type loggedSetRequest struct {
	Name     string  `json:"name"`
	SetIndex int     `json:"set_index"`
	Weight   float64 `json:"weight"`
	Reps     float64 `json:"reps"`
}

type logRoutineRequest struct {
	Date *domain.Date       `json:"date"`
	Sets []loggedSetRequest `json:"sets"`
}

func (h *RoutineHandler) RegisterRoutes(router *gin.RouterGroup) {
	routines := router.Group("/routines")
	{
		routines.GET("", h.List)
		routines.POST("", h.Create)
		routines.GET("/:id", h.Get)
		routines.PUT("/:id", h.Update)
		routines.DELETE("/:id", h.Delete)
		routines.GET("/:id/slots", h.Slots)
		routines.POST("/:id/log", h.Log)
	}
}

func (h *RoutineHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req routineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.svc.Create(c.Request.Context(), services.RoutineInput{
		UserID: userID,
		Name:   req.Name,
		Lifts:  req.Lifts,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, r)
}

func (h *RoutineHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []*domain.Routine{}
	}

	c.JSON(http.StatusOK, list)
}

func (h *RoutineHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	r, err := h.svc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (h *RoutineHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req routineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.svc.Update(c.Request.Context(), services.RoutineInput{
		ID:     c.Param("id"),
		UserID: userID,
		Name:   req.Name,
		Lifts:  req.Lifts,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (h *RoutineHandler) Delete(c *gin.Context) {
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

func (h *RoutineHandler) Slots(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	slots, err := h.svc.Slots(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *RoutineHandler) Log(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req logRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sets := make([]services.LoggedSet, 0, len(req.Sets))
	for _, s := range req.Sets {
		sets = append(sets, services.LoggedSet{
			Name:     s.Name,
			SetIndex: s.SetIndex,
			Weight:   s.Weight,
			Reps:     s.Reps,
		})
	}

	ms, err := h.svc.LogRoutine(c.Request.Context(), services.LogRoutineInput{
		RoutineID: c.Param("id"),
		UserID:    userID,
		Date:      req.Date,
		Sets:      sets,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"logged": len(ms), "sets": ms})
}
