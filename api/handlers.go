package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/MaleyDenis/infoBro/model"
	"github.com/MaleyDenis/infoBro/store"
	"github.com/gin-gonic/gin"
)

// Runner is the slice of the coordinator the HTTP boundary needs.
type Runner interface {
	RunOne(ctx context.Context, id string) (model.Run, error)
	RunAll(ctx context.Context) map[string]model.RunResult
}

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler serves the news and connector endpoints.
type Handler struct {
	store       store.ItemStore
	runner      Runner
	pageSize    int
	pageSizeMax int
}

func NewHandler(itemStore store.ItemStore, runner Runner, pageSize, pageSizeMax int) *Handler {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSizeMax <= 0 {
		pageSizeMax = 100
	}
	return &Handler{
		store:       itemStore,
		runner:      runner,
		pageSize:    pageSize,
		pageSizeMax: pageSizeMax,
	}
}

// GetNewsList answers GET /api/news with a filtered, paginated feed.
// Pages beyond the last return empty items with true totals. Cached
// responses stay valid only until the next run completes for a matching
// source; run-completion events on NATS are the invalidation signal.
func (h *Handler) GetNewsList(c *gin.Context) {
	q := model.Query{
		SourceType: model.SourceType(c.Query("source_type")),
		SourceID:   c.Query("source_id"),
		Text:       c.Query("query"),
		Page:       1,
		PageSize:   h.pageSize,
	}

	if from := c.Query("from_date"); from != "" {
		if date, err := time.Parse(time.RFC3339, from); err == nil {
			q.From = &date
		}
	}
	if to := c.Query("to_date"); to != "" {
		if date, err := time.Parse(time.RFC3339, to); err == nil {
			q.To = &date
		}
	}
	if pageParam := c.Query("page"); pageParam != "" {
		if page, err := strconv.Atoi(pageParam); err == nil && page > 0 {
			q.Page = page
		}
	}
	if sizeParam := c.Query("page_size"); sizeParam != "" {
		if size, err := strconv.Atoi(sizeParam); err == nil && size > 0 && size <= h.pageSizeMax {
			q.PageSize = size
		}
	}

	page, err := h.store.Query(c.Request.Context(), q)
	if err != nil {
		log.Printf("News query failed: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to retrieve news: "+err.Error())
		return
	}

	respondJSON(c, http.StatusOK, page)
}

// GetNewsByID answers GET /api/news/:id.
func (h *Handler) GetNewsByID(c *gin.Context) {
	id := c.Param("id")

	item, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respondError(c, http.StatusNotFound, "News item not found")
			return
		}
		log.Printf("Get news %s failed: %v", id, err)
		respondError(c, http.StatusInternalServerError, "Failed to retrieve news item")
		return
	}

	respondJSON(c, http.StatusOK, item)
}

// RunConnector answers POST /api/connectors/run/:source_id. The run is
// detached from the request context: a client disconnect must not abort
// writes mid-stream, so only the coordinator's own deadline applies.
func (h *Handler) RunConnector(c *gin.Context) {
	id := c.Param("source_id")

	run, err := h.runner.RunOne(context.WithoutCancel(c.Request.Context()), id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			respondError(c, http.StatusNotFound, "Unknown connector: "+id)
		case errors.Is(err, model.ErrAlreadyRunning):
			respondError(c, http.StatusConflict, "Connector "+id+" is already running")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to run connector: "+err.Error())
		}
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"processed": run.Processed,
		"connector": id,
	})
}

// RunAllConnectors answers POST /api/connectors/run-all. Constituent
// failures are reported per connector inside the result map, never as a
// boundary-level error. Like RunConnector, the runs are detached from
// the request context.
func (h *Handler) RunAllConnectors(c *gin.Context) {
	results := h.runner.RunAll(context.WithoutCancel(c.Request.Context()))

	respondJSON(c, http.StatusOK, gin.H{
		"results": results,
	})
}

func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, Response{Success: false, Error: message})
}
