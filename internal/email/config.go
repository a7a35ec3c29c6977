package email

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/qops/missionctl/internal/models"
	"gorm.io/gorm"
)

// GetConfig returns the watcher config for one account.
func GetConfig(db *gorm.DB, userID string) (*models.GmailConfig, error) {
	var row models.GmailConfig
	err := db.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("email: config not found for user: %s", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("email: get config: %w", err)
	}
	return &row, nil
}

// UpsertConfig creates or replaces the watcher config for one account.
func UpsertConfig(db *gorm.DB, userID string, excludedDomains []string, enabled bool) (*models.GmailConfig, error) {
	if userID == "" {
		return nil, fmt.Errorf("email: user id is required")
	}
	domains, err := json.Marshal(excludedDomains)
	if err != nil {
		return nil, fmt.Errorf("email: encode excluded domains: %w", err)
	}

	var existing models.GmailConfig
	err = db.Where("user_id = ?", userID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		id, idErr := models.NewID("gconf")
		if idErr != nil {
			return nil, idErr
		}
		row := models.GmailConfig{
			ID:              id,
			UserID:          userID,
			ExcludedDomains: string(domains),
			Enabled:         enabled,
		}
		if err := db.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("email: upsert config: %w", err)
		}
		return &row, nil
	case err != nil:
		return nil, fmt.Errorf("email: upsert config: %w", err)
	default:
		err := db.Model(&existing).Updates(map[string]interface{}{
			"excluded_domains": string(domains),
			"enabled":          enabled,
		}).Error
		if err != nil {
			return nil, fmt.Errorf("email: upsert config: %w", err)
		}
		return GetConfig(db, userID)
	}
}

// ExcludedDomains decodes a config's excluded-domain list.
func ExcludedDomains(cfg *models.GmailConfig) ([]string, error) {
	if cfg.ExcludedDomains == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(cfg.ExcludedDomains), &out); err != nil {
		return nil, fmt.Errorf("email: decode excluded domains: %w", err)
	}
	return out, nil
}

// AddExcludedDomain appends a domain to the account's exclusion list,
// ignoring duplicates.
func AddExcludedDomain(db *gorm.DB, userID, domain string) error {
	cfg, err := GetConfig(db, userID)
	if err != nil {
		return err
	}
	domains, err := ExcludedDomains(cfg)
	if err != nil {
		return err
	}
	for _, d := range domains {
		if d == domain {
			return nil
		}
	}
	domains = append(domains, domain)
	encoded, err := json.Marshal(domains)
	if err != nil {
		return fmt.Errorf("email: encode excluded domains: %w", err)
	}
	if err := db.Model(cfg).Update("excluded_domains", string(encoded)).Error; err != nil {
		return fmt.Errorf("email: add excluded domain: %w", err)
	}
	return nil
}

// RemoveExcludedDomain drops a domain from the account's exclusion list.
func RemoveExcludedDomain(db *gorm.DB, userID, domain string) error {
	cfg, err := GetConfig(db, userID)
	if err != nil {
		return err
	}
	domains, err := ExcludedDomains(cfg)
	if err != nil {
		return err
	}
	kept := domains[:0]
	for _, d := range domains {
		if d != domain {
			kept = append(kept, d)
		}
	}
	encoded, err := json.Marshal(kept)
	if err != nil {
		return fmt.Errorf("email: encode excluded domains: %w", err)
	}
	if err := db.Model(cfg).Update("excluded_domains", string(encoded)).Error; err != nil {
		return fmt.Errorf("email: remove excluded domain: %w", err)
	}
	return nil
}

// UpdateLastSync stamps the watcher's last successful sync.
func UpdateLastSync(db *gorm.DB, userID string) error {
	cfg, err := GetConfig(db, userID)
	if err != nil {
		return err
	}
	if err := db.Model(cfg).Update("last_sync_at", time.Now().UnixMilli()).Error; err != nil {
		return fmt.Errorf("email: update last sync: %w", err)
	}
	return nil
}

// DeleteConfig removes the account's watcher config.
func DeleteConfig(db *gorm.DB, userID string) error {
	if _, err := GetConfig(db, userID); err != nil {
		return err
	}
	if err := db.Where("user_id = ?", userID).Delete(&models.GmailConfig{}).Error; err != nil {
		return fmt.Errorf("email: delete config: %w", err)
	}
	return nil
}
