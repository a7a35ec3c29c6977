// Package agents manages the AI team roster. Status transitions are reported
// by the workers themselves; nothing here times an agent out.
package agents

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/activity"
	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// List returns the full roster, oldest first.
func List(db *gorm.DB) ([]models.Agent, error) {
	var agents []models.Agent
	if err := db.Order("created_at ASC").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("agents: list: %w", err)
	}
	return agents, nil
}

// ListByRole returns agents with the given role.
func ListByRole(db *gorm.DB, role string) ([]models.Agent, error) {
	var agents []models.Agent
	if err := db.Where("role = ?", role).Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("agents: list by role: %w", err)
	}
	return agents, nil
}

// ListWorking returns agents currently in the working state.
func ListWorking(db *gorm.DB) ([]models.Agent, error) {
	var agents []models.Agent
	if err := db.Where("status = ?", models.AgentWorking).Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("agents: list working: %w", err)
	}
	return agents, nil
}

// Get returns one agent by id.
func Get(db *gorm.DB, id string) (*models.Agent, error) {
	var agent models.Agent
	err := db.Where("id = ?", id).First(&agent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("agents: agent not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("agents: get: %w", err)
	}
	return &agent, nil
}

// Create registers a new agent in the idle state. Responsibilities are
// stored as a JSON array.
func Create(db *gorm.DB, name, role string, responsibilities []string, avatar string) (*models.Agent, error) {
	if name == "" || role == "" {
		return nil, fmt.Errorf("agents: name and role are required")
	}
	resp, err := json.Marshal(responsibilities)
	if err != nil {
		return nil, fmt.Errorf("agents: encode responsibilities: %w", err)
	}
	id, err := models.NewID("agent")
	if err != nil {
		return nil, err
	}
	agent := models.Agent{
		ID:               id,
		Name:             name,
		Role:             role,
		Responsibilities: string(resp),
		Status:           models.AgentIdle,
		Avatar:           avatar,
		CreatedAt:        time.Now().UnixMilli(),
	}
	if err := db.Create(&agent).Error; err != nil {
		return nil, fmt.Errorf("agents: create: %w", err)
	}
	return &agent, nil
}

// UpdateStatus records an agent's self-reported state. Entering the working
// state with a task description logs a task_started activity event.
func UpdateStatus(db *gorm.DB, id, status string, currentTask *string) error {
	if !models.ValidAgentStatus(status) {
		return fmt.Errorf("agents: invalid status %q", status)
	}
	agent, err := Get(db, id)
	if err != nil {
		return err
	}

	changes := map[string]interface{}{"status": status}
	if currentTask != nil {
		changes["current_task"] = *currentTask
	}
	if err := db.Model(agent).Updates(changes).Error; err != nil {
		return fmt.Errorf("agents: update status: %w", err)
	}

	if status == models.AgentWorking && currentTask != nil && *currentTask != "" {
		if _, err := activity.Log(db, models.ActivityTaskStarted, "started_task", activity.LogOpts{
			AgentID:   agent.ID,
			AgentName: agent.Name,
			Details:   *currentTask,
		}); err != nil {
			return err
		}
	}
	return nil
}

// UpdateOpts holds the mutable agent fields. Nil means leave unchanged.
type UpdateOpts struct {
	Name             *string
	Role             *string
	Responsibilities []string
	Avatar           *string
}

// Update patches an agent's profile fields.
func Update(db *gorm.DB, id string, opts UpdateOpts) error {
	agent, err := Get(db, id)
	if err != nil {
		return err
	}
	changes := map[string]interface{}{}
	if opts.Name != nil {
		if *opts.Name == "" {
			return fmt.Errorf("agents: name is required")
		}
		changes["name"] = *opts.Name
	}
	if opts.Role != nil {
		changes["role"] = *opts.Role
	}
	if opts.Responsibilities != nil {
		resp, err := json.Marshal(opts.Responsibilities)
		if err != nil {
			return fmt.Errorf("agents: encode responsibilities: %w", err)
		}
		changes["responsibilities"] = string(resp)
	}
	if opts.Avatar != nil {
		changes["avatar"] = *opts.Avatar
	}
	if len(changes) == 0 {
		return nil
	}
	if err := db.Model(agent).Updates(changes).Error; err != nil {
		return fmt.Errorf("agents: update: %w", err)
	}
	return nil
}

// Remove deletes an agent and that agent's activity rows.
func Remove(db *gorm.DB, id string) error {
	if _, err := Get(db, id); err != nil {
		return err
	}
	if err := db.Where("agent_id = ?", id).Delete(&models.ActivityEvent{}).Error; err != nil {
		return fmt.Errorf("agents: remove activity: %w", err)
	}
	if err := db.Where("id = ?", id).Delete(&models.Agent{}).Error; err != nil {
		return fmt.Errorf("agents: remove: %w", err)
	}
	return nil
}

// Activity returns recent events, optionally narrowed to one agent.
func Activity(db *gorm.DB, agentID string, limit int) ([]models.ActivityEvent, error) {
	if agentID != "" {
		return activity.ListByAgent(db, agentID, limit)
	}
	return activity.List(db, limit)
}

// LogActivity appends one event attributed to an agent.
func LogActivity(db *gorm.DB, agentID, eventType, action, details string) (string, error) {
	agent, err := Get(db, agentID)
	if err != nil {
		return "", err
	}
	return activity.Log(db, eventType, action, activity.LogOpts{
		AgentID:   agent.ID,
		AgentName: agent.Name,
		Details:   details,
	})
}

// Responsibilities decodes an agent's stored responsibility list.
func Responsibilities(agent *models.Agent) ([]string, error) {
	if agent.Responsibilities == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(agent.Responsibilities), &out); err != nil {
		return nil, fmt.Errorf("agents: decode responsibilities: %w", err)
	}
	return out, nil
}
