package viz

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"moviehub/internal/movie"
	"moviehub/pkg/models"
)

type Handler struct {
	Repo *movie.Repo
}

func NewHandler(repo *movie.Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.dashboard)
	rg.GET("/:name", h.single)
}

// renderers maps URL chart names to their builders.
var renderers = map[string]func(io.Writer, []models.Movie) error{
	"revenue-budget":    func(w io.Writer, rows []models.Movie) error { return RevenueBudgetScatter(rows).Render(w) },
	"roi-by-genre":      func(w io.Writer, rows []models.Movie) error { return ROIByGenreBar(rows).Render(w) },
	"popularity-rating": func(w io.Writer, rows []models.Movie) error { return PopularityRatingScatter(rows).Render(w) },
	"yearly-trends":     func(w io.Writer, rows []models.Movie) error { return YearlyTrendsLine(rows).Render(w) },
}

func (h *Handler) dashboard(c *gin.Context) {
	rows, err := h.Repo.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load movies failed"})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := RenderDashboard(c.Writer, rows); err != nil {
		// headers already sent, record for gin's error log
		_ = c.Error(err)
	}
}

func (h *Handler) single(c *gin.Context) {
	render, ok := renderers[c.Param("name")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chart"})
		return
	}

	rows, err := h.Repo.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load movies failed"})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := render(c.Writer, rows); err != nil {
		_ = c.Error(err)
	}
}
