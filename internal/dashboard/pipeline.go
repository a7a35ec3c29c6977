package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"github.com/qops/missionctl/internal/email"
	"github.com/qops/missionctl/internal/models"
	"github.com/qops/missionctl/internal/okrs"
	"github.com/qops/missionctl/internal/opportunities"
	"github.com/qops/missionctl/internal/sessions"
	"github.com/qops/missionctl/internal/skills"
)

func handleOKRList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := okrs.List(db, okrs.ListOpts{
			Quarter: c.Query("quarter"),
			Status:  c.Query("status"),
			Owner:   c.Query("owner"),
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleOKRCreate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Objective  string             `json:"objective" binding:"required"`
		Quarter    string             `json:"quarter" binding:"required"`
		Owner      string             `json:"owner" binding:"required"`
		Notes      string             `json:"notes"`
		KeyResults []models.KeyResult `json:"keyResults" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := okrs.Create(db, body.Objective, body.Quarter, body.Owner, body.Notes, body.KeyResults)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleOKRSummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		quarter := c.Query("quarter")
		if quarter == "" {
			quarter = okrs.Quarter(time.Now())
		}
		summary, err := okrs.Summary(db, quarter)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func handleOKRGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := okrs.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleOKRUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Objective  *string            `json:"objective"`
		Notes      *string            `json:"notes"`
		KeyResults []models.KeyResult `json:"keyResults"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := okrs.Update(db, c.Param("id"), okrs.UpdateOpts{
			Objective:  body.Objective,
			Notes:      body.Notes,
			KeyResults: body.KeyResults,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleOKRRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := okrs.Remove(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleOKRProgress(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Index   *int    `json:"index" binding:"required"`
		Current float64 `json:"current"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := okrs.UpdateProgress(db, c.Param("id"), *body.Index, body.Current); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleOpportunityList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows interface{}
		var err error
		if q := c.Query("q"); q != "" {
			rows, err = opportunities.Search(db, q, intQuery(c, "limit", 20))
		} else {
			rows, err = opportunities.List(db, c.Query("stage"))
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleOpportunityCreate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Name          string   `json:"name" binding:"required"`
		Stage         string   `json:"stage" binding:"required"`
		Value         float64  `json:"value"`
		Owner         string   `json:"owner" binding:"required"`
		Source        string   `json:"source"`
		ExternalID    string   `json:"externalId"`
		Contact       string   `json:"contact"`
		Notes         string   `json:"notes"`
		ExpectedClose int64    `json:"expectedClose"`
		Probability   *float64 `json:"probability"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := opportunities.Create(db, body.Name, body.Stage, body.Value, body.Owner, opportunities.CreateOpts{
			Source:        body.Source,
			ExternalID:    body.ExternalID,
			Contact:       body.Contact,
			Notes:         body.Notes,
			ExpectedClose: body.ExpectedClose,
			Probability:   body.Probability,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleOpportunitySummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := opportunities.Summary(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func handleOpportunityBulk(db *gorm.DB) gin.HandlerFunc {
	type record struct {
		ExternalID string  `json:"externalId" binding:"required"`
		Name       string  `json:"name" binding:"required"`
		Stage      string  `json:"stage" binding:"required"`
		Value      float64 `json:"value"`
		Owner      string  `json:"owner"`
		Contact    string  `json:"contact"`
		Source     string  `json:"source"`
	}
	return func(c *gin.Context) {
		var body []record
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		records := make([]opportunities.UpsertRecord, 0, len(body))
		for _, r := range body {
			records = append(records, opportunities.UpsertRecord{
				ExternalID: r.ExternalID,
				Name:       r.Name,
				Stage:      r.Stage,
				Value:      r.Value,
				Owner:      r.Owner,
				Contact:    r.Contact,
				Source:     r.Source,
			})
		}
		result, err := opportunities.BulkUpsert(db, records)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func handleOpportunityGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := opportunities.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleOpportunityUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Name          *string  `json:"name"`
		Value         *float64 `json:"value"`
		Probability   *float64 `json:"probability"`
		Owner         *string  `json:"owner"`
		Contact       *string  `json:"contact"`
		Notes         *string  `json:"notes"`
		ExpectedClose *int64   `json:"expectedClose"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := opportunities.Update(db, c.Param("id"), opportunities.UpdateOpts{
			Name:          body.Name,
			Value:         body.Value,
			Probability:   body.Probability,
			Owner:         body.Owner,
			Contact:       body.Contact,
			Notes:         body.Notes,
			ExpectedClose: body.ExpectedClose,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleOpportunityRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := opportunities.Remove(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleOpportunityStage(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Stage string `json:"stage" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := opportunities.UpdateStage(db, c.Param("id"), body.Stage); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleSkillList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows interface{}
		var err error
		if q := c.Query("q"); q != "" {
			rows, err = skills.Search(db, q, intQuery(c, "limit", 20))
		} else {
			rows, err = skills.List(db, c.Query("type"))
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

type skillDocReq struct {
	Name          string `json:"name" binding:"required"`
	Slug          string `json:"slug" binding:"required"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	Content       string `json:"content"`
	RepoPath      string `json:"repoPath" binding:"required"`
	HasReferences bool   `json:"hasReferences"`
}

func (r skillDocReq) doc() skills.SkillDoc {
	return skills.SkillDoc{
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		Type:          r.Type,
		Content:       r.Content,
		RepoPath:      r.RepoPath,
		HasReferences: r.HasReferences,
	}
}

func handleSkillCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body skillDocReq
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := skills.Create(db, body.doc())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleSkillSync(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []skillDocReq
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		docs := make([]skills.SkillDoc, 0, len(body))
		for _, r := range body {
			docs = append(docs, r.doc())
		}
		result, err := skills.Sync(db, docs)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func handleSkillGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := skills.GetBySlug(db, c.Param("slug"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleSkillUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Content     *string `json:"content"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := skills.Update(db, c.Param("slug"), skills.UpdateOpts{
			Name:        body.Name,
			Description: body.Description,
			Content:     body.Content,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleSkillRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := skills.Remove(db, c.Param("slug")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleEmailDraftList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows interface{}
		var err error
		if thread := c.Query("thread"); thread != "" {
			rows, err = email.ByThread(db, thread)
		} else {
			status := c.Query("status")
			if status == "" {
				status = models.EmailDraftPending
			}
			rows, err = email.ListByStatus(db, status)
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleEmailDraftCreate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		DraftID         string  `json:"draftId" binding:"required"`
		ThreadID        string  `json:"threadId"`
		OriginalEmailID string  `json:"originalEmailId"`
		ToneMatchScore  float64 `json:"toneMatchScore"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := email.CreateDraft(db, body.DraftID, body.ThreadID, body.OriginalEmailID, body.ToneMatchScore)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleEmailDraftStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := intQuery(c, "days", 7)
		stats, err := email.Stats(db, time.Duration(days)*24*time.Hour)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func handleEmailDraftGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := email.GetByDraftID(db, c.Param("draftId"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleEmailDraftStatus(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Status string `json:"status" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := email.UpdateDraftStatus(db, c.Param("draftId"), body.Status); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleEmailDraftRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := email.RemoveDraft(db, c.Param("draftId"))
		if err != nil {
			fail(c, err)
			return
		}
		if !removed {
			c.JSON(http.StatusNotFound, gin.H{"error": "email: draft not found: " + c.Param("draftId")})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleEmailDraftSent(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := email.MarkSent(db, c.Param("draftId")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleClassificationList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows interface{}
		var err error
		if category := c.Query("category"); category != "" {
			rows, err = email.ListByCategory(db, category)
		} else {
			rows, err = email.ListRecent(db, intQuery(c, "limit", 50))
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

type verdictReq struct {
	EmailID         string  `json:"emailId" binding:"required"`
	ThreadID        string  `json:"threadId"`
	Category        string  `json:"category" binding:"required"`
	Confidence      float64 `json:"confidence"`
	Priority        float64 `json:"priority"`
	ShouldAutoReply bool    `json:"shouldAutoReply"`
	Reasoning       string  `json:"reasoning"`
	SenderDomain    string  `json:"senderDomain"`
}

func (r verdictReq) verdict() email.Verdict {
	return email.Verdict{
		EmailID:         r.EmailID,
		ThreadID:        r.ThreadID,
		Category:        r.Category,
		Confidence:      r.Confidence,
		Priority:        r.Priority,
		ShouldAutoReply: r.ShouldAutoReply,
		Reasoning:       r.Reasoning,
		SenderDomain:    r.SenderDomain,
	}
}

func handleClassify(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A JSON array classifies a batch; a single object classifies one.
		var batch []verdictReq
		if err := c.ShouldBindBodyWith(&batch, binding.JSON); err == nil {
			verdicts := make([]email.Verdict, 0, len(batch))
			for _, r := range batch {
				verdicts = append(verdicts, r.verdict())
			}
			n, err := email.ClassifyBatch(db, verdicts)
			if err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"classified": n})
			return
		}

		var single verdictReq
		if err := c.ShouldBindBodyWith(&single, binding.JSON); err != nil {
			badRequest(c, err)
			return
		}
		row, err := email.Classify(db, single.verdict())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleClassificationStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := email.ClassifyStats(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func handleClassificationGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := email.GetByEmailID(db, c.Param("emailId"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleProfileList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := email.ListProfiles(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleProfileGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := email.GetProfile(db, c.Param("userId"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleProfileUpsert(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		ProfileData string `json:"profileData" binding:"required"`
		SampleCount int    `json:"sampleCount"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := email.UpsertProfile(db, c.Param("userId"), body.ProfileData, body.SampleCount)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleGmailConfigGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := email.GetConfig(db, c.Param("userId"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}

func handleGmailConfigUpsert(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		ExcludedDomains []string `json:"excludedDomains"`
		Enabled         bool     `json:"enabled"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		cfg, err := email.UpsertConfig(db, c.Param("userId"), body.ExcludedDomains, body.Enabled)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}

func handleGmailConfigDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := email.DeleteConfig(db, c.Param("userId")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleGmailDomainAdd(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Domain string `json:"domain" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := email.AddExcludedDomain(db, c.Param("userId"), body.Domain); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleGmailDomainRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := email.RemoveExcludedDomain(db, c.Param("userId"), c.Param("domain")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleGmailConfigSync(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := email.UpdateLastSync(db, c.Param("userId")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleSessionList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := sessions.List(db, intQuery(c, "limit", 30))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleSessionStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := sessions.Stats(db, intQuery(c, "days", 7))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func handleSessionToday(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := sessions.GetOrCreateToday(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleSessionByDate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := sessions.ByDate(db, c.Param("date"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleSessionSummary(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Summary string `json:"summary" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := sessions.UpdateSummary(db, c.Param("date"), body.Summary); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleSessionEntries(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := sessions.Entries(db, sessions.EntriesOpts{
			Date:  c.Query("date"),
			Type:  c.Query("type"),
			Limit: intQuery(c, "limit", 50),
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleSessionLogEntry(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Type      string `json:"type" binding:"required"`
		Action    string `json:"action" binding:"required"`
		Reasoning string `json:"reasoning"`
		Outcome   string `json:"outcome"`
		Duration  int    `json:"duration"`
		RelatedTo string `json:"relatedTo"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := sessions.LogEntry(db, body.Type, body.Action, sessions.EntryOpts{
			Reasoning: body.Reasoning,
			Outcome:   body.Outcome,
			Duration:  body.Duration,
			RelatedTo: body.RelatedTo,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}
