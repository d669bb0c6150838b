package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/streak"
)

type StatsHandler struct {
	svc   *services.StatsService
	clock domain.Clock
	loc   *time.Location
}

// NewStatsHandler parses query dates in loc; the default window ends today in loc.
func NewStatsHandler(svc *services.StatsService, clock domain.Clock, loc *time.Location) *StatsHandler {
	if clock == nil {
		clock = domain.SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StatsHandler{svc: svc, clock: clock, loc: loc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/weekly", h.GetWeeklyStats)
}

// GetWeeklyStats godoc
// @Summary   Completion stats for a date range (last 7 days by default)
// @Tags      stats
// @Security  BearerAuth
// @Param     start_date  query  string  false  "YYYY-MM-DD"
// @Param     end_date    query  string  false  "YYYY-MM-DD"
// @Success   200  {object}  domain.WeeklyStats
// @Router    /stats/weekly [get]
func (h *StatsHandler) GetWeeklyStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var endDate, startDate time.Time
	var err error

	if raw := c.Query("end_date"); raw == "" {
		endDate = streak.Midnight(h.clock(), h.loc)
	} else if endDate, err = streak.ParseDay(raw, h.loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, expected YYYY-MM-DD"})
		return
	}

	if raw := c.Query("start_date"); raw == "" {
		startDate = endDate.AddDate(0, 0, -6)
	} else if startDate, err = streak.ParseDay(raw, h.loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, expected YYYY-MM-DD"})
		return
	}

	stats, err := h.svc.GetWeeklyStats(c.Request.Context(), domain.StatsInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
