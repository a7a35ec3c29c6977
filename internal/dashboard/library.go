package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qops/missionctl/internal/content"
	"github.com/qops/missionctl/internal/cronjobs"
	"github.com/qops/missionctl/internal/events"
	"github.com/qops/missionctl/internal/memories"
	"github.com/qops/missionctl/internal/people"
)

func handleMemoryList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows interface{}
		var err error
		switch {
		case c.Query("q") != "":
			rows, err = memories.Search(db, c.Query("q"), intQuery(c, "limit", 20))
		case c.Query("category") != "":
			rows, err = memories.ListByCategory(db, c.Query("category"))
		default:
			rows, err = memories.List(db, intQuery(c, "limit", 50))
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleMemoryCreate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Title    string   `json:"title" binding:"required"`
		Content  string   `json:"content" binding:"required"`
		Category string   `json:"category"`
		Tags     []string `json:"tags"`
		Source   string   `json:"source"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := memories.Create(db, body.Title, body.Content, memories.CreateOpts{
			Category: body.Category,
			Tags:     body.Tags,
			Source:   body.Source,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleMemoryCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := memories.Categories(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cats)
	}
}

func handleMemoryGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := memories.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleMemoryUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Title    *string  `json:"title"`
		Content  *string  `json:"content"`
		Category *string  `json:"category"`
		Tags     []string `json:"tags"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := memories.Update(db, c.Param("id"), memories.UpdateOpts{
			Title:    body.Title,
			Content:  body.Content,
			Category: body.Category,
			Tags:     body.Tags,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleMemoryRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := memories.Remove(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handlePersonList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows interface{}
		var err error
		if q := c.Query("q"); q != "" {
			rows, err = people.Search(db, q, intQuery(c, "limit", 20))
		} else {
			rows, err = people.List(db, c.Query("relationship"))
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handlePersonCreate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Name         string `json:"name" binding:"required"`
		Relationship string `json:"relationship" binding:"required"`
		Company      string `json:"company"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Notes        string `json:"notes"`
		Birthday     int64  `json:"birthday"`
		Avatar       string `json:"avatar"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := people.Create(db, body.Name, body.Relationship, people.CreateOpts{
			Company:  body.Company,
			Email:    body.Email,
			Phone:    body.Phone,
			Notes:    body.Notes,
			Birthday: body.Birthday,
			Avatar:   body.Avatar,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handlePersonBirthdays(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := people.UpcomingBirthdays(db, intQuery(c, "days", 30))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handlePersonGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := people.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handlePersonUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Name         *string `json:"name"`
		Relationship *string `json:"relationship"`
		Company      *string `json:"company"`
		Email        *string `json:"email"`
		Phone        *string `json:"phone"`
		Notes        *string `json:"notes"`
		Birthday     *int64  `json:"birthday"`
		Avatar       *string `json:"avatar"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := people.Update(db, c.Param("id"), people.UpdateOpts{
			Name:         body.Name,
			Relationship: body.Relationship,
			Company:      body.Company,
			Email:        body.Email,
			Phone:        body.Phone,
			Notes:        body.Notes,
			Birthday:     body.Birthday,
			Avatar:       body.Avatar,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handlePersonRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := people.Remove(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handlePersonContact(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := people.RecordContact(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleEventList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows interface{}
		var err error
		switch {
		case c.Query("days") != "":
			rows, err = events.Upcoming(db, intQuery(c, "days", 7))
		case c.Query("type") != "":
			rows, err = events.ListByType(db, c.Query("type"))
		case c.Query("year") != "" && c.Query("month") != "":
			rows, err = events.ForMonth(db, intQuery(c, "year", 0), time.Month(intQuery(c, "month", 0)))
		default:
			rows, err = events.List(db)
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleEventCreate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Title       string `json:"title" binding:"required"`
		Type        string `json:"type" binding:"required"`
		StartTime   int64  `json:"startTime" binding:"required"`
		Description string `json:"description"`
		EndTime     int64  `json:"endTime"`
		Recurring   string `json:"recurring"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := events.Create(db, body.Title, body.Type, body.StartTime, events.CreateOpts{
			Description: body.Description,
			EndTime:     body.EndTime,
			Recurring:   body.Recurring,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleEventGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := events.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleEventUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		StartTime   *int64  `json:"startTime"`
		EndTime     *int64  `json:"endTime"`
		Recurring   *string `json:"recurring"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := events.Update(db, c.Param("id"), events.UpdateOpts{
			Title:       body.Title,
			Description: body.Description,
			StartTime:   body.StartTime,
			EndTime:     body.EndTime,
			Recurring:   body.Recurring,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleEventRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := events.Remove(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleEventComplete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := events.Complete(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleContentList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows interface{}
		var err error
		if stage := c.Query("stage"); stage != "" {
			rows, err = content.ListByStage(db, stage)
		} else {
			rows, err = content.List(db)
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleContentCreate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := content.Create(db, body.Title, body.Description)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleContentGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := content.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleContentUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Title        *string `json:"title"`
		Description  *string `json:"description"`
		Script       *string `json:"script"`
		ThumbnailURL *string `json:"thumbnailUrl"`
		PublishedURL *string `json:"publishedUrl"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := content.Update(db, c.Param("id"), content.UpdateOpts{
			Title:        body.Title,
			Description:  body.Description,
			Script:       body.Script,
			ThumbnailURL: body.ThumbnailURL,
			PublishedURL: body.PublishedURL,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleContentRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := content.Remove(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleContentStage(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Stage string `json:"stage" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := content.UpdateStage(db, c.Param("id"), body.Stage); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleCronList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows interface{}
		var err error
		if c.Query("active") == "true" {
			rows, err = cronjobs.ListActive(db)
		} else {
			rows, err = cronjobs.List(db)
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleCronCreate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Name        string `json:"name" binding:"required"`
		Schedule    string `json:"schedule" binding:"required"`
		Description string `json:"description"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := cronjobs.Create(db, body.Name, body.Schedule, body.Description)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleCronTick(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		updated, err := cronjobs.Tick(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}

func handleCronGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := cronjobs.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleCronUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Name        *string `json:"name"`
		Schedule    *string `json:"schedule"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := cronjobs.Update(db, c.Param("id"), cronjobs.UpdateOpts{
			Name:        body.Name,
			Schedule:    body.Schedule,
			Description: body.Description,
			Status:      body.Status,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleCronRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cronjobs.Remove(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleCronRecordRun(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Success bool   `json:"success"`
		Output  string `json:"output"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := cronjobs.RecordRun(db, c.Param("id"), body.Success, body.Output); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
