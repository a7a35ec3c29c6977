package dashboard

import (
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up the full JSON API on the gin router.
func registerRoutes(router *gin.Engine, deps Deps) {
	api := router.Group("/api")
	db := deps.DB

	// Activity log.
	api.GET("/activity", handleActivityList(db))
	api.POST("/activity", handleActivityLog(db))
	api.DELETE("/activity", handleActivityClear(db))
	api.GET("/activity/stats", handleActivityStats(db))

	// Presence register.
	api.GET("/status", handleStatusAll(db))
	api.POST("/status/heartbeat", handleHeartbeat(db))
	api.GET("/status/:key", handleStatusGet(db))
	api.PUT("/status/:key", handleStatusSet(db))

	// Cross-entity search.
	api.GET("/search", handleSearch(db))

	// Task board.
	api.GET("/tasks", handleTaskList(db))
	api.POST("/tasks", handleTaskCreate(db))
	api.GET("/tasks/stats", handleTaskStats(db))
	api.GET("/tasks/:id", handleTaskGet(db))
	api.PUT("/tasks/:id", handleTaskUpdate(db))
	api.DELETE("/tasks/:id", handleTaskRemove(db))
	api.PUT("/tasks/:id/status", handleTaskStatus(db))

	// Agent roster.
	api.GET("/agents", handleAgentList(db))
	api.POST("/agents", handleAgentCreate(db))
	api.GET("/agents/:id", handleAgentGet(db))
	api.PUT("/agents/:id", handleAgentUpdate(db))
	api.DELETE("/agents/:id", handleAgentRemove(db))
	api.PUT("/agents/:id/status", handleAgentStatus(db))
	api.GET("/agents/:id/activity", handleAgentActivity(db))

	// Lessons learned.
	api.GET("/lessons", handleLessonList(db))
	api.POST("/lessons", handleLessonAdd(db))
	api.GET("/lessons/stats", handleLessonStats(db))
	api.PUT("/lessons/:id", handleLessonUpdate(db))
	api.DELETE("/lessons/:id", handleLessonRemove(db))
	api.POST("/lessons/:id/apply", handleLessonApply(db))

	// Approval queue.
	api.GET("/approvals", handleApprovalList(db))
	api.POST("/approvals", handleApprovalRequest(deps))
	api.GET("/approvals/counts", handleApprovalCounts(db))
	api.GET("/approvals/:id", handleApprovalGet(db))
	api.POST("/approvals/:id/approve", handleApprovalApprove(db))
	api.POST("/approvals/:id/reject", handleApprovalReject(db))
	api.POST("/approvals/batch", handleApprovalBatch(db))

	// Question queue.
	api.GET("/questions", handleQuestionList(db))
	api.POST("/questions", handleQuestionAsk(deps))
	api.GET("/questions/counts", handleQuestionCounts(db))
	api.GET("/questions/:id", handleQuestionGet(db))
	api.POST("/questions/:id/answer", handleQuestionAnswer(db))
	api.POST("/questions/:id/dismiss", handleQuestionDismiss(db))
	api.POST("/questions/batch", handleQuestionBatch(db))

	// Decision journal.
	api.GET("/decisions", handleDecisionList(db))
	api.POST("/decisions", handleDecisionLog(db))
	api.GET("/decisions/stats", handleDecisionStats(db))
	api.GET("/decisions/:id", handleDecisionGet(db))
	api.POST("/decisions/:id/feedback", handleDecisionFeedback(db))
	api.POST("/decisions/:id/reviewed", handleDecisionReviewed(db))

	// Outbound email drafts.
	api.GET("/drafts", handleDraftList(db))
	api.POST("/drafts", handleDraftCreate(db))
	api.POST("/drafts/discard-all", handleDraftDiscardAll(db))
	api.POST("/drafts/send", handleDraftSend(deps))
	api.GET("/drafts/:id", handleDraftGet(db))
	api.PUT("/drafts/:id", handleDraftUpdate(db))
	api.DELETE("/drafts/:id", handleDraftRemove(db))
	api.POST("/drafts/:id/discard", handleDraftDiscard(db))

	// Memory bank.
	api.GET("/memories", handleMemoryList(db))
	api.POST("/memories", handleMemoryCreate(db))
	api.GET("/memories/categories", handleMemoryCategories(db))
	api.GET("/memories/:id", handleMemoryGet(db))
	api.PUT("/memories/:id", handleMemoryUpdate(db))
	api.DELETE("/memories/:id", handleMemoryRemove(db))

	// People book.
	api.GET("/people", handlePersonList(db))
	api.POST("/people", handlePersonCreate(db))
	api.GET("/people/birthdays", handlePersonBirthdays(db))
	api.GET("/people/:id", handlePersonGet(db))
	api.PUT("/people/:id", handlePersonUpdate(db))
	api.DELETE("/people/:id", handlePersonRemove(db))
	api.POST("/people/:id/contact", handlePersonContact(db))

	// Internal calendar events.
	api.GET("/events", handleEventList(db))
	api.POST("/events", handleEventCreate(db))
	api.GET("/events/:id", handleEventGet(db))
	api.PUT("/events/:id", handleEventUpdate(db))
	api.DELETE("/events/:id", handleEventRemove(db))
	api.POST("/events/:id/complete", handleEventComplete(db))

	// Content pipeline.
	api.GET("/content", handleContentList(db))
	api.POST("/content", handleContentCreate(db))
	api.GET("/content/:id", handleContentGet(db))
	api.PUT("/content/:id", handleContentUpdate(db))
	api.DELETE("/content/:id", handleContentRemove(db))
	api.PUT("/content/:id/stage", handleContentStage(db))

	// Cron registry.
	api.GET("/cron", handleCronList(db))
	api.POST("/cron", handleCronCreate(db))
	api.POST("/cron/tick", handleCronTick(db))
	api.GET("/cron/:id", handleCronGet(db))
	api.PUT("/cron/:id", handleCronUpdate(db))
	api.DELETE("/cron/:id", handleCronRemove(db))
	api.POST("/cron/:id/run", handleCronRecordRun(db))

	// OKRs.
	api.GET("/okrs", handleOKRList(db))
	api.POST("/okrs", handleOKRCreate(db))
	api.GET("/okrs/summary", handleOKRSummary(db))
	api.GET("/okrs/:id", handleOKRGet(db))
	api.PUT("/okrs/:id", handleOKRUpdate(db))
	api.DELETE("/okrs/:id", handleOKRRemove(db))
	api.PUT("/okrs/:id/progress", handleOKRProgress(db))

	// Sales pipeline.
	api.GET("/opportunities", handleOpportunityList(db))
	api.POST("/opportunities", handleOpportunityCreate(db))
	api.GET("/opportunities/summary", handleOpportunitySummary(db))
	api.POST("/opportunities/bulk", handleOpportunityBulk(db))
	api.GET("/opportunities/:id", handleOpportunityGet(db))
	api.PUT("/opportunities/:id", handleOpportunityUpdate(db))
	api.DELETE("/opportunities/:id", handleOpportunityRemove(db))
	api.PUT("/opportunities/:id/stage", handleOpportunityStage(db))

	// Skill registry.
	api.GET("/skills", handleSkillList(db))
	api.POST("/skills", handleSkillCreate(db))
	api.POST("/skills/sync", handleSkillSync(db))
	api.GET("/skills/:slug", handleSkillGet(db))
	api.PUT("/skills/:slug", handleSkillUpdate(db))
	api.DELETE("/skills/:slug", handleSkillRemove(db))

	// Inbound email pipeline.
	api.GET("/email/drafts", handleEmailDraftList(db))
	api.POST("/email/drafts", handleEmailDraftCreate(db))
	api.GET("/email/drafts/stats", handleEmailDraftStats(db))
	api.GET("/email/drafts/:draftId", handleEmailDraftGet(db))
	api.PUT("/email/drafts/:draftId", handleEmailDraftStatus(db))
	api.DELETE("/email/drafts/:draftId", handleEmailDraftRemove(db))
	api.POST("/email/drafts/:draftId/sent", handleEmailDraftSent(db))
	api.GET("/email/classifications", handleClassificationList(db))
	api.POST("/email/classifications", handleClassify(db))
	api.GET("/email/classifications/stats", handleClassificationStats(db))
	api.GET("/email/classifications/:emailId", handleClassificationGet(db))
	api.GET("/email/profiles", handleProfileList(db))
	api.GET("/email/profiles/:userId", handleProfileGet(db))
	api.PUT("/email/profiles/:userId", handleProfileUpsert(db))
	api.GET("/email/config/:userId", handleGmailConfigGet(db))
	api.PUT("/email/config/:userId", handleGmailConfigUpsert(db))
	api.DELETE("/email/config/:userId", handleGmailConfigDelete(db))
	api.POST("/email/config/:userId/domains", handleGmailDomainAdd(db))
	api.DELETE("/email/config/:userId/domains/:domain", handleGmailDomainRemove(db))
	api.POST("/email/config/:userId/sync", handleGmailConfigSync(db))

	// Work sessions.
	api.GET("/sessions", handleSessionList(db))
	api.GET("/sessions/stats", handleSessionStats(db))
	api.GET("/sessions/today", handleSessionToday(db))
	api.GET("/sessions/entries", handleSessionEntries(db))
	api.POST("/sessions/entries", handleSessionLogEntry(db))
	api.GET("/sessions/:date", handleSessionByDate(db))
	api.PUT("/sessions/:date/summary", handleSessionSummary(db))

	// External integrations.
	api.GET("/profit", handleProfit(deps))
	api.GET("/calendar", handleCalendar(deps))
}
