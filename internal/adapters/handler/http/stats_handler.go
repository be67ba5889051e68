package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/chart", h.Chart)
	r.GET("/stats/summary", h.Summary)
}

type chartLinesResponse struct {
	Metric aggregate.Metric             `json:"metric"`
	Mode   aggregate.VolumeMode         `json:"volume_mode"`
	Series []string                     `json:"series"`
	Lines  map[string][]aggregate.Point `json:"lines"`
}

// Chart returns the dense date x lift table. With ?metric= it returns one
// line of points per lift instead, keeping nulls where a lift was skipped.
func (h *StatsHandler) Chart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	rng, err := queryRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if rng.Start != nil && rng.End != nil && rng.Start.After(*rng.End) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start cannot be after end"})
		return
	}

	mode, err := aggregate.ParseVolumeMode(c.Query("volume"))
	if err != nil {
		respondError(c, err)
		return
	}

	table, err := h.svc.Chart(c.Request.Context(), services.ChartInput{
		UserID: userID,
		Series: querySeries(c, "series"),
		Range:  rng,
		Mode:   mode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("metric") == "" {
		c.JSON(http.StatusOK, table)
		return
	}

	metric, err := aggregate.ParseMetric(c.Query("metric"))
	if err != nil {
		respondError(c, err)
		return
	}

	res := chartLinesResponse{
		Metric: metric,
		Mode:   mode,
		Series: table.Series,
		Lines:  make(map[string][]aggregate.Point, len(table.Series)),
	}
	for _, s := range table.Series {
		res.Lines[s] = table.Line(s, metric)
	}

	c.JSON(http.StatusOK, res)
}

func (h *StatsHandler) Summary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	summary, err := h.svc.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
