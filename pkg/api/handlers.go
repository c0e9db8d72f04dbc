package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/unowned-ai/devlog/pkg/logs"
	"github.com/unowned-ai/devlog/pkg/suggest"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// LogStore is the slice of the log store served over HTTP.
type LogStore interface {
	CreateLog(ctx context.Context, params logs.CreateLogParams) (logs.Log, error)
	GetLog(ctx context.Context, id int64) (logs.Log, error)
	ListLogs(ctx context.Context, skip, limit int) ([]logs.Log, error)
	DeleteLog(ctx context.Context, id int64) error
	ListTags(ctx context.Context) ([]logs.Tag, error)
	GetStats(ctx context.Context) (logs.Stats, error)
}

// Insights produces the coaching texts.
type Insights interface {
	GetSuggestion(ctx context.Context) (suggest.Suggestion, error)
	GetMoodInsight(ctx context.Context) (suggest.MoodInsight, error)
}

type Handler struct {
	store    LogStore
	insights Insights
}

func NewHandler(store LogStore, insights Insights) *Handler {
	return &Handler{store: store, insights: insights}
}

// CreateLogRequest is the JSON body of POST /api/logs/.
type CreateLogRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Date      *string  `json:"date"`
	Mood      *string  `json:"mood"`
	TimeSpent *int     `json:"time_spent"`
	Tags      []string `json:"tags"`
}

func (r CreateLogRequest) params() (logs.CreateLogParams, error) {
	params := logs.CreateLogParams{
		Title:     r.Title,
		Content:   r.Content,
		TimeSpent: r.TimeSpent,
		Tags:      r.Tags,
	}
	if r.Mood != nil {
		params.Mood = logs.Mood(*r.Mood)
	}
	if r.Date != nil && *r.Date != "" {
		date, err := logs.ParseDate(*r.Date)
		if err != nil {
			return logs.CreateLogParams{}, err
		}
		params.Date = &date
	}
	return params, nil
}

func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to DevLog API"})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) CreateLog(c *gin.Context) {
	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	params, err := req.params()
	if err != nil {
		abortWithStoreError(c, err)
		return
	}

	created, err := h.store.CreateLog(c.Request.Context(), params)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) ListLogs(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if skip < 0 {
		abortWithError(c, http.StatusUnprocessableEntity, "skip must be greater than or equal to 0")
		return
	}
	if limit < 1 || limit > maxListLimit {
		abortWithError(c, http.StatusUnprocessableEntity, fmt.Sprintf("limit must be between 1 and %d", maxListLimit))
		return
	}

	entries, err := h.store.ListLogs(c.Request.Context(), skip, limit)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) GetLog(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	entry, err := h.store.GetLog(c.Request.Context(), id)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) DeleteLog(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteLog(c.Request.Context(), id); err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.store.ListTags(c.Request.Context())
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.store.GetStats(c.Request.Context())
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetSuggestion(c *gin.Context) {
	suggestion, err := h.insights.GetSuggestion(c.Request.Context())
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

func (h *Handler) GetMoodInsight(c *gin.Context) {
	insight, err := h.insights.GetMoodInsight(c.Request.Context())
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, insight)
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, "log id must be an integer")
		return 0, false
	}
	return id, true
}
