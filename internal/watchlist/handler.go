package watchlist

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"moviehub/internal/auth"
	"moviehub/internal/events"
	"moviehub/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *events.Hub
}

func NewHandler(repo *Repo, hub *events.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/watchlist", h.list)
	rg.POST("/watchlist", h.addOrUpdate)
	rg.PUT("/watchlist/:movie_id", h.addOrUpdate)
	rg.DELETE("/watchlist/:movie_id", h.remove)
	rg.GET("/watchlist/:movie_id", h.getOne)
}

type upsertReq struct {
	MovieID int64  `json:"movie_id"` // required for POST
	Status  string `json:"status"`
}

func (h *Handler) addOrUpdate(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	movieID := req.MovieID
	if movieID == 0 {
		movieID = parseID(c.Param("movie_id"))
	}
	if movieID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id required"})
		return
	}

	status := normalizeStatus(req.Status)
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "status must be one of: planned, watched, favorite",
		})
		return
	}

	item := models.WatchlistItem{
		UserID:  claims.UserID,
		MovieID: movieID,
		Status:  status,
	}
	if err := h.Repo.Upsert(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	// Return canonical stored row including updated_at
	saved, err := h.Repo.Get(c.Request.Context(), claims.UserID, movieID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}
	if saved == nil {
		// should not happen, but safe
		saved = &models.WatchlistItem{
			UserID:    claims.UserID,
			MovieID:   movieID,
			Status:    status,
			UpdatedAt: time.Now().UTC(),
		}
	}

	if h.Hub != nil {
		ev := events.WatchlistEvent{
			Type:    "watchlist.update",
			UserID:  claims.UserID,
			MovieID: movieID,
			Status:  saved.Status,
			At:      time.Now().UTC(),
		}
		go h.Hub.Publish(ev)
	}

	c.JSON(http.StatusOK, saved)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status := strings.TrimSpace(c.Query("status"))
	if status != "" {
		status = normalizeStatus(status)
		if status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
	}

	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	items, total, err := h.Repo.List(c.Request.Context(), claims.UserID, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	movieID := parseID(c.Param("movie_id"))
	if movieID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id required"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, movieID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		ev := events.WatchlistEvent{
			Type:    "watchlist.delete",
			UserID:  claims.UserID,
			MovieID: movieID,
			At:      time.Now().UTC(),
		}
		go h.Hub.Publish(ev)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	movieID := parseID(c.Param("movie_id"))
	if movieID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id required"})
		return
	}

	it, err := h.Repo.Get(c.Request.Context(), claims.UserID, movieID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if it == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, it)
}

func normalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "planned", "plan", "plan_to_watch":
		return "planned"
	case "watched", "seen":
		return "watched"
	case "favorite", "favourite":
		return "favorite"
	default:
		return ""
	}
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
