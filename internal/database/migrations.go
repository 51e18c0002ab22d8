package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Initiative indexes for lifecycle queries and sweeps
		{"initiatives", "idx_initiatives_company_id", "company_id"},
		{"initiatives", "idx_initiatives_status", "status"},
		{"initiatives", "idx_initiatives_company_period", "company_id, month, year"},
		{"initiatives", "idx_initiatives_voting_end_date", "voting_end_date"},
		{"initiatives", "idx_initiatives_auto_delete_date", "auto_delete_date"},
		{"initiatives", "idx_initiatives_creator_id", "creator_id"},

		// Vote indexes
		{"votes", "idx_votes_initiative_id", "initiative_id"},

		// Progress indexes
		{"progresses", "idx_progresses_initiative_id", "initiative_id"},

		// Company members indexes
		{"company_members", "idx_company_members_company_id", "company_id"},
		{"company_members", "idx_company_members_user_id", "user_id"},

		// Company invite code index
		{"companies", "idx_companies_invite_code", "invite_code"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}
