package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qops/missionctl/internal/approvals"
	"github.com/qops/missionctl/internal/decisions"
	"github.com/qops/missionctl/internal/drafts"
	"github.com/qops/missionctl/internal/questions"
)

func handleApprovalList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := approvals.List(db, approvals.ListOpts{
			Status: c.Query("status"),
			Type:   c.Query("type"),
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleApprovalRequest(deps Deps) gin.HandlerFunc {
	type req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
		Type        string `json:"type" binding:"required"`
		Priority    string `json:"priority" binding:"required"`
		Content     string `json:"content"`
		Metadata    string `json:"metadata"`
		ExpiresAt   int64  `json:"expiresAt"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := approvals.Request(deps.DB, body.Title, body.Description, body.Type, body.Priority, approvals.RequestOpts{
			Content:   body.Content,
			Metadata:  body.Metadata,
			ExpiresAt: body.ExpiresAt,
			Notifier:  deps.Notifier,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleApprovalCounts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := approvals.PendingCount(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, counts)
	}
}

func handleApprovalGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := approvals.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleApprovalApprove(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Feedback string `json:"feedback"`
	}
	return func(c *gin.Context) {
		var body req
		c.ShouldBindJSON(&body)
		if err := approvals.Approve(db, c.Param("id"), body.Feedback); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleApprovalReject(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Feedback string `json:"feedback"`
	}
	return func(c *gin.Context) {
		var body req
		c.ShouldBindJSON(&body)
		if err := approvals.Reject(db, c.Param("id"), body.Feedback); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleApprovalBatch(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		IDs      []string `json:"ids" binding:"required"`
		Approve  bool     `json:"approve"`
		Feedback string   `json:"feedback"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		decided, err := approvals.BatchDecide(db, body.IDs, body.Approve, body.Feedback)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"decided": decided})
	}
}

func handleQuestionList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := questions.List(db, questions.ListOpts{
			Status:   c.Query("status"),
			Category: c.Query("category"),
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleQuestionAsk(deps Deps) gin.HandlerFunc {
	type req struct {
		Question  string `json:"question" binding:"required"`
		Category  string `json:"category" binding:"required"`
		Priority  string `json:"priority" binding:"required"`
		Context   string `json:"context"`
		RelatedTo string `json:"relatedTo"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := questions.Ask(deps.DB, body.Question, body.Category, body.Priority, questions.AskOpts{
			Context:   body.Context,
			RelatedTo: body.RelatedTo,
			Notifier:  deps.Notifier,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleQuestionCounts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := questions.PendingCount(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, counts)
	}
}

func handleQuestionGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := questions.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleQuestionAnswer(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Answer string `json:"answer" binding:"required"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := questions.Answer(db, c.Param("id"), body.Answer); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleQuestionDismiss(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Reason string `json:"reason"`
	}
	return func(c *gin.Context) {
		var body req
		c.ShouldBindJSON(&body)
		if err := questions.Dismiss(db, c.Param("id"), body.Reason); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleQuestionBatch(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		IDs    []string `json:"ids" binding:"required"`
		Answer string   `json:"answer"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		updated, err := questions.BatchUpdate(db, body.IDs, body.Answer)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}

func handleDecisionList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := decisions.ListOpts{
			Category: c.Query("category"),
			Limit:    intQuery(c, "limit", 0),
		}
		if raw := c.Query("reviewed"); raw != "" {
			reviewed, err := strconv.ParseBool(raw)
			if err != nil {
				badRequest(c, err)
				return
			}
			opts.Reviewed = &reviewed
		}
		rows, err := decisions.List(db, opts)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleDecisionLog(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Title        string `json:"title" binding:"required"`
		Description  string `json:"description" binding:"required"`
		Reasoning    string `json:"reasoning" binding:"required"`
		Category     string `json:"category" binding:"required"`
		Impact       string `json:"impact" binding:"required"`
		Alternatives string `json:"alternatives"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := decisions.Log(db, body.Title, body.Description, body.Reasoning, body.Category, body.Impact, decisions.LogOpts{
			Alternatives: body.Alternatives,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleDecisionStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := decisions.FeedbackStats(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func handleDecisionGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := decisions.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleDecisionFeedback(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Feedback string `json:"feedback" binding:"required"`
		Note     string `json:"note"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := decisions.ProvideFeedback(db, c.Param("id"), body.Feedback, body.Note); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleDecisionReviewed(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := decisions.MarkReviewed(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleDraftList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := drafts.List(db, drafts.ListOpts{
			Status:   c.Query("status"),
			Category: c.Query("category"),
			Limit:    intQuery(c, "limit", 0),
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleDraftCreate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Subject      string `json:"subject" binding:"required"`
		To           string `json:"to" binding:"required"`
		Body         string `json:"body" binding:"required"`
		ThreadID     string `json:"threadId"`
		MessageID    string `json:"messageId"`
		GmailDraftID string `json:"gmailDraftId"`
		Category     string `json:"category"`
		Priority     string `json:"priority"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		row, err := drafts.Create(db, body.Subject, body.To, body.Body, drafts.CreateOpts{
			ThreadID:     body.ThreadID,
			MessageID:    body.MessageID,
			GmailDraftID: body.GmailDraftID,
			Category:     body.Category,
			Priority:     body.Priority,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func handleDraftGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := drafts.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleDraftUpdate(db *gorm.DB) gin.HandlerFunc {
	type req struct {
		Subject *string `json:"subject"`
		To      *string `json:"to"`
		Body    *string `json:"body"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		err := drafts.Update(db, c.Param("id"), drafts.UpdateOpts{
			Subject: body.Subject,
			To:      body.To,
			Body:    body.Body,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleDraftRemove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := drafts.Remove(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleDraftSend(deps Deps) gin.HandlerFunc {
	type req struct {
		DraftID string `json:"draftId" binding:"required"`
		Account string `json:"account"`
	}
	return func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		account := body.Account
		if account == "" {
			account = deps.GmailAccount
		}
		result, err := drafts.Send(c.Request.Context(), deps.DB, body.DraftID, account)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func handleDraftDiscard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := drafts.Discard(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleDraftDiscardAll(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		discarded, err := drafts.DiscardAll(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"discarded": discarded})
	}
}
