// SPDX-License-Identifier: MIT
package search

import (
	"fmt"

	"github.com/madrona-research/madrona/internal/models"
	"gorm.io/gorm"
)

// InitFTSIndex creates the FTS5 virtual table for preprint search
func InitFTSIndex(db *gorm.DB) error {
	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Create FTS5 virtual table
	// Note: We use the default tokenizer instead of 'porter unicode61' for
	// better compatibility with SQLite builds that don't have the porter
	// extension
	_, err = sqlDB.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS preprints_fts USING fts5(
			preprint_id UNINDEXED,
			provider_id UNINDEXED,
			title,
			description
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create FTS index: %w", err)
	}

	return nil
}

// IndexPreprint adds or updates a preprint in the FTS index
func IndexPreprint(db *gorm.DB, preprint *models.Preprint) error {
	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Delete existing entry if any
	_, err = sqlDB.Exec(`DELETE FROM preprints_fts WHERE preprint_id = ?`, preprint.ID)
	if err != nil {
		return fmt.Errorf("failed to delete old index entry: %w", err)
	}

	// Only index published preprints
	if preprint.DatePublished == nil {
		return nil
	}

	// Insert new entry
	_, err = sqlDB.Exec(`
		INSERT INTO preprints_fts (preprint_id, provider_id, title, description)
		VALUES (?, ?, ?, ?)
	`, preprint.ID, preprint.ProviderID, preprint.Title, preprint.Description)
	if err != nil {
		return fmt.Errorf("failed to insert index entry: %w", err)
	}

	return nil
}

// RemovePreprintFromIndex removes a preprint from the FTS index
func RemovePreprintFromIndex(db *gorm.DB, preprintID uint) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	_, err = sqlDB.Exec(`DELETE FROM preprints_fts WHERE preprint_id = ?`, preprintID)
	if err != nil {
		return fmt.Errorf("failed to remove from index: %w", err)
	}

	return nil
}

// SearchResult represents a single search result
type SearchResult struct {
	PreprintID uint    `json:"preprint_id"`
	GUID       string  `json:"guid"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	Rank       float64 `json:"rank"`
}

// Search performs a full-text search over published preprints
func Search(db *gorm.DB, query string) ([]SearchResult, error) {
	if query == "" {
		return []SearchResult{}, nil
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Perform FTS5 search with snippet generation
	rows, err := sqlDB.Query(`
		SELECT
			fts.preprint_id,
			p.guid,
			p.title,
			snippet(preprints_fts, 3, '<mark>', '</mark>', '...', 50) as snippet,
			rank
		FROM preprints_fts fts
		INNER JOIN preprints p ON fts.preprint_id = p.id
		WHERE preprints_fts MATCH ?
		ORDER BY rank
		LIMIT 50
	`, query)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var result SearchResult
		if err := rows.Scan(&result.PreprintID, &result.GUID, &result.Title, &result.Snippet, &result.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}

// RebuildIndex rebuilds the entire FTS index from published preprints
func RebuildIndex(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if _, err := sqlDB.Exec(`DELETE FROM preprints_fts`); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	var published []models.Preprint
	if err := db.Where("date_published IS NOT NULL").Find(&published).Error; err != nil {
		return fmt.Errorf("failed to load published preprints: %w", err)
	}

	for i := range published {
		if err := IndexPreprint(db, &published[i]); err != nil {
			return err
		}
	}

	return nil
}
