package analyze

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"moviehub/internal/movie"
)

// Handler serves ranking and aggregation views over the stored table.
// The table is a configured ID list (a few hundred rows at most), so
// it loads everything and ranks in memory.
type Handler struct {
	Repo *movie.Repo
}

func NewHandler(repo *movie.Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/top", h.top)
	rg.GET("/franchises", h.franchises)
	rg.GET("/directors", h.directors)
	rg.GET("/franchise-comparison", h.franchiseComparison)
}

func (h *Handler) top(c *gin.Context) {
	metric := strings.TrimSpace(c.Query("metric"))
	if metric == "" {
		metric = "revenue_musd"
	}

	n := 5
	if v := c.Query("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be 1-100"})
			return
		}
		n = parsed
	}

	rows, err := h.Repo.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}

	top, err := TopN(rows, metric, n)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metric": metric,
		"n":      n,
		"items":  top,
	})
}

func (h *Handler) franchises(c *gin.Context) {
	rows, err := h.Repo.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": TopFranchises(rows)})
}

func (h *Handler) directors(c *gin.Context) {
	minMovies := 1
	if v := c.Query("min_movies"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_movies must be >= 1"})
			return
		}
		minMovies = parsed
	}

	rows, err := h.Repo.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": TopDirectors(rows, minMovies)})
}

func (h *Handler) franchiseComparison(c *gin.Context) {
	rows, err := h.Repo.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, CompareFranchise(rows))
}
