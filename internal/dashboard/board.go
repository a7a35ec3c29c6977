package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qops/missionctl/internal/agents"
	"github.com/qops/missionctl/internal/lessons"
	"github.com/qops/missionctl/internal/tasks"
)

func handleTaskList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := tasks.List(db, tasks.ListOpts{
			Status:   c.Query("status"),
			Assignee: c.Query("assignee"),
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleTaskCreate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Title       string `json:"title" binding:"required"`
		Assignee    string `json:"assignee" binding:"required"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		DueDate     int64  `json:"dueDate"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		task, err := tasks.Create(db, body.Title, body.Assignee, tasks.CreateOpts{
			Description: body.Description,
			Priority:    body.Priority,
			DueDate:     body.DueDate,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, task)
	}
}

func handleTaskStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := tasks.Stats(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func handleTaskGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := tasks.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func handleTaskUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		DueDate     *int64  `json:"dueDate"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := tasks.Update(db, c.Param("id"), tasks.UpdateOpts{
			Title:       body.Title,
			Description: body.Description,
			Priority:    body.Priority,
			DueDate:     body.DueDate,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleTaskRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := tasks.Remove(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleTaskStatus(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Status string `json:"status" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := tasks.UpdateStatus(db, c.Param("id"), body.Status); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleAgentList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows interface{}
		var err error
		switch {
		case c.Query("working") == "true":
			rows, err = agents.ListWorking(db)
		case c.Query("role") != "":
			rows, err = agents.ListByRole(db, c.Query("role"))
		default:
			rows, err = agents.List(db)
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleAgentCreate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Name             string   `json:"name" binding:"required"`
		Role             string   `json:"role" binding:"required"`
		Responsibilities []string `json:"responsibilities"`
		Avatar           string   `json:"avatar"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		agent, err := agents.Create(db, body.Name, body.Role, body.Responsibilities, body.Avatar)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, agent)
	}
}

func handleAgentGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent, err := agents.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, agent)
	}
}

func handleAgentUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Name             *string  `json:"name"`
		Role             *string  `json:"role"`
		Responsibilities []string `json:"responsibilities"`
		Avatar           *string  `json:"avatar"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := agents.Update(db, c.Param("id"), agents.UpdateOpts{
			Name:             body.Name,
			Role:             body.Role,
			Responsibilities: body.Responsibilities,
			Avatar:           body.Avatar,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleAgentRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := agents.Remove(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleAgentStatus(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Status      string  `json:"status" binding:"required"`
		CurrentTask *string `json:"currentTask"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := agents.UpdateStatus(db, c.Param("id"), body.Status, body.CurrentTask); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleAgentActivity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := agents.Activity(db, c.Param("id"), intQuery(c, "limit", 20))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleLessonList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows interface{}
		var err error
		if category := c.Query("category"); category != "" {
			rows, err = lessons.ByCategory(db, category)
		} else {
			rows, err = lessons.List(db, intQuery(c, "limit", 50))
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleLessonAdd(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Lesson      string `json:"lesson" binding:"required"`
		Category    string `json:"category" binding:"required"`
		Source      string `json:"source" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		lesson, err := lessons.Add(db, body.Title, body.Description, body.Lesson, body.Category, body.Source)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, lesson)
	}
}

func handleLessonStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := lessons.Stats(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func handleLessonUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Lesson      *string `json:"lesson"`
		Category    *string `json:"category"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := lessons.Update(db, c.Param("id"), lessons.UpdateOpts{
			Title:       body.Title,
			Description: body.Description,
			Lesson:      body.Lesson,
			Category:    body.Category,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleLessonRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := lessons.Remove(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleLessonApply(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := lessons.MarkApplied(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
