package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/comitanigiacomo/liftbook/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// requireUser reads the authenticated user. It writes the 401 itself, so
// handlers just return when ok is false.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrNotAuthenticated.Error()})
		return "", false
	}
	return userID, true
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, key string) (*domain.Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// queryDigits reads a non-negative integer parameter. Everything that is
// not a digit is dropped first, so "30 " and "+30" both read as 30.
func queryDigits(c *gin.Context, key string, fallback int) int {
	digits := domain.SanitizeDigits(c.Query(key))
	if digits == "" {
		return fallback
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return fallback
	}
	return n
}

// queryList accepts both repeated keys and comma separated values.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// querySeries reads series names and normalizes them the way they were
// stored.
func querySeries(c *gin.Context, key string) []string {
	raw := queryList(c, key)
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if n := domain.NormalizeName(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func queryRange(c *gin.Context) (aggregate.DateRange, error) {
	start, err := queryDate(c, "start")
	if err != nil {
		return aggregate.DateRange{}, err
	}
	end, err := queryDate(c, "end")
	if err != nil {
		return aggregate.DateRange{}, err
	}
	return aggregate.DateRange{Start: start, End: end}, nil
}
