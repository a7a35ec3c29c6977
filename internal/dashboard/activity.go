package dashboard

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qops/missionctl/internal/activity"
	"github.com/qops/missionctl/internal/calendar"
	"github.com/qops/missionctl/internal/presence"
	"github.com/qops/missionctl/internal/search"
)

func handleActivityList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := intQuery(c, "limit", 50)

		var err error
		var events interface{}
		switch {
		case c.Query("agent_id") != "":
			events, err = activity.ListByAgent(db, c.Query("agent_id"), limit)
		case c.Query("type") != "":
			events, err = activity.ListByType(db, c.Query("type"), intQuery(c, "limit", 20))
		default:
			events, err = activity.List(db, limit)
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

func handleActivityLog(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Type      string `json:"type" binding:"required"`
		Action    string `json:"action" binding:"required"`
		AgentID   string `json:"agentId"`
		AgentName string `json:"agentName"`
		Details   string `json:"details"`
		Metadata  string `json:"metadata"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		id, err := activity.Log(db, body.Type, body.Action, activity.LogOpts{
			AgentID:   body.AgentID,
			AgentName: body.AgentName,
			Details:   body.Details,
			Metadata:  body.Metadata,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

func handleActivityClear(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := intQuery(c, "older_than_days", 0)
		if days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "older_than_days must be a positive integer"})
			return
		}
		deleted, err := activity.Clear(db, days)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}

func handleActivityStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		hours := intQuery(c, "hours", 24)
		count, err := activity.RecentCount(db, hours, c.Query("type"))
		if err != nil {
			fail(c, err)
			return
		}
		buckets, err := activity.ByHour(db, hours)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recentCount": count, "byHour": buckets})
	}
}

func handleStatusAll(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := presence.GetAll(db)
		if err != nil {
			fail(c, err)
			return
		}
		online, err := presence.Online(db, time.Now())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": entries, "online": online})
	}
}

func handleHeartbeat(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Status      string  `json:"status"`
		CurrentTask *string `json:"currentTask"`
	}
	return func(c *gin.Context) {
		var body req
		// An empty body is a plain "I'm alive" ping.
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, err)
			return
		}
		result, err := presence.Heartbeat(db, body.Status, body.CurrentTask)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func handleStatusGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := presence.Get(db, c.Param("key"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
	}
}

func handleStatusSet(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Value string `json:"value" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := presence.Set(db, c.Param("key"), body.Value); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": body.Value})
	}
}

func handleSearch(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := search.Global(db, c.Query("q"), intQuery(c, "limit", search.DefaultLimit))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func handleProfit(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Profit == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "profit: sheet not configured"})
			return
		}
		snap, err := deps.Profit.Fetch()
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func handleCalendar(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Calendar == nil {
			c.JSON(http.StatusNotImplemented, gin.H{
				"error": "calendar: not configured; set calendar credentials in missionctl.yaml",
			})
			return
		}
		events, err := deps.Calendar.Upcoming(c.Request.Context(), intQuery(c, "days", 7))
		if err != nil {
			if errors.Is(err, calendar.ErrNotImplemented) {
				c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
				return
			}
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}
