package http

import (
	"net/http"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/gin-gonic/gin"
)

type normalizeRequest struct {
	Names []string `json:"names" binding:"required"`
}

// NormalizeNames previews how free-text names will be stored, so clients
// can show the canonical spelling while the user types.
func NormalizeNames(c *gin.Context) {
	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := make([]string, len(req.Names))
	for i, n := range req.Names {
		out[i] = domain.NormalizeName(n)
	}

	c.JSON(http.StatusOK, gin.H{"names": out})
}
