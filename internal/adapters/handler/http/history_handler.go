package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

type HistoryHandler struct {
	svc *services.HistoryService
}

func NewHistoryHandler(svc *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// markRequest is optional; an empty body marks today.
type markRequest struct {
	Date string `json:"date"`
}

type historyEntryResponse struct {
	ID        string `json:"id"`
	HabitID   string `json:"habit_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type streaksResponse struct {
	HabitID       string `json:"habit_id"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

func toHistoryResponse(e *domain.HistoryEntry) historyEntryResponse {
	return historyEntryResponse{
		ID:        e.ID,
		HabitID:   e.HabitID,
		Date:      e.DateString(),
		Completed: e.Completed,
	}
}

func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits/:id")
	{
		habits.POST("/complete", h.Complete)
		habits.POST("/uncomplete", h.Uncomplete)
		habits.GET("/history", h.List)
		habits.GET("/streaks", h.Streaks)
	}
}

// Complete godoc
// @Summary   Mark a habit as done for a day (today by default)
// @Tags      history
// @Security  BearerAuth
// @Param     id    path  string       true   "Habit ID"
// @Param     body  body  markRequest  false  "Optional date (YYYY-MM-DD)"
// @Success   200   {object}  historyEntryResponse
// @Router    /habits/{id}/complete [post]
func (h *HistoryHandler) Complete(c *gin.Context) {
	h.mark(c, h.svc.Complete)
}

// Uncomplete godoc
// @Summary   Mark a habit as not done for a day
// @Tags      history
// @Security  BearerAuth
// @Param     id  path  string  true  "Habit ID"
// @Success   200  {object}  historyEntryResponse
// @Router    /habits/{id}/uncomplete [post]
func (h *HistoryHandler) Uncomplete(c *gin.Context) {
	h.mark(c, h.svc.Uncomplete)
}

type markFunc func(ctx context.Context, input services.MarkInput) (*domain.HistoryEntry, error)

func (h *HistoryHandler) mark(c *gin.Context, fn markFunc) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req markRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	entry, err := fn(c.Request.Context(), services.MarkInput{
		HabitID: c.Param("id"),
		UserID:  userID,
		Date:    req.Date,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHistoryResponse(entry))
}

// List godoc
// @Summary   Full completion history of a habit, oldest day first
// @Tags      history
// @Security  BearerAuth
// @Param     id  path  string  true  "Habit ID"
// @Success   200  {array}  historyEntryResponse
// @Router    /habits/{id}/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	entries, err := h.svc.List(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toHistoryResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}

// Streaks godoc
// @Summary   Current and longest streak as of today
// @Tags      history
// @Security  BearerAuth
// @Param     id  path  string  true  "Habit ID"
// @Success   200  {object}  streaksResponse
// @Router    /habits/{id}/streaks [get]
func (h *HistoryHandler) Streaks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	habitID := c.Param("id")
	stats, err := h.svc.Streaks(c.Request.Context(), habitID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, streaksResponse{
		HabitID:       habitID,
		CurrentStreak: stats.Current,
		LongestStreak: stats.Longest,
	})
}
