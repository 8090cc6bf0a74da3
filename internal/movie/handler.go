package movie

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"moviehub/internal/query"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)          // GET /movies
	rg.GET("/search", h.search) // GET /movies/search
	rg.GET("/:id", h.getByID)   // GET /movies/:id
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:          c.Query("q"),
		CastMember: c.Query("cast"),
		Collection: c.Query("collection"),
		OrderBy:    c.Query("order_by"),
		Limit:      parseInt(c.Query("limit"), 20),
		Offset:     parseInt(c.Query("offset"), 0),
	}

	// genres=Action,Drama OR genres=Action&genres=Drama
	genres := c.QueryArray("genres")
	if len(genres) == 0 {
		if s := c.Query("genres"); s != "" {
			genres = strings.Split(s, ",")
		}
	}
	q.Genres = genres

	if v := c.Query("min_budget"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MinBudget = &f
		}
	}
	if v := c.Query("max_budget"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MaxBudget = &f
		}
	}

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

// search filters in memory with the full predicate set, including the
// derived columns that have no SQL index (roi, min_votes, franchise).
func (h *Handler) search(c *gin.Context) {
	f := query.Filter{
		Title:         c.Query("title"),
		Director:      c.Query("director"),
		Collection:    c.Query("collection"),
		MinVotes:      int64(parseInt(c.Query("min_votes"), 0)),
		FranchiseOnly: c.Query("franchise_only") == "true",
	}

	if s := c.Query("genres"); s != "" {
		f.Genres = strings.Split(s, ",")
	}
	if s := c.Query("cast"); s != "" {
		f.Cast = strings.Split(s, ",")
	}
	f.MinBudgetMUSD = parseFloatQuery(c, "min_budget")
	f.MaxBudgetMUSD = parseFloatQuery(c, "max_budget")
	f.MinRevenueMUSD = parseFloatQuery(c, "min_revenue")
	f.MinROI = parseFloatQuery(c, "min_roi")

	rows, err := h.Repo.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}

	matched := query.Apply(rows, f)
	c.JSON(http.StatusOK, gin.H{
		"total": len(matched),
		"items": matched,
	})
}

func parseFloatQuery(c *gin.Context, key string) *float64 {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	m, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
