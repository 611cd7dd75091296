package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ioozy/scamwatch/internal/domain"
)

// HistoryRepository persists one audit row per produced classification
// result. It backs the stats API; losing a row degrades reporting only,
// never classification.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record inserts an audit row for a classification result.
func (r *HistoryRepository) Record(ctx context.Context, result *domain.ClassificationResult) error {
	labels, err := json.Marshal(result.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	query := `
		INSERT INTO classification_history (
			conversation_id, stage, labels, origin,
			classifier_version, processing_time_ms, classified_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(
		ctx,
		query,
		result.ConversationID,
		int(result.Stage),
		string(labels),
		string(result.Origin),
		result.ClassifierVersion,
		result.ProcessingTimeMs,
		result.ClassifiedAt,
	)
	if err != nil {
		return fmt.Errorf("record classification: %w", err)
	}
	return nil
}

// HistoryRow is one persisted classification audit entry.
type HistoryRow struct {
	ID                int64     `db:"id"                 json:"id"`
	ConversationID    string    `db:"conversation_id"    json:"conversation_id"`
	Stage             int       `db:"stage"              json:"stage"`
	Labels            string    `db:"labels"             json:"labels"`
	Origin            string    `db:"origin"             json:"origin"`
	ClassifierVersion string    `db:"classifier_version" json:"classifier_version"`
	ProcessingTimeMs  int64     `db:"processing_time_ms" json:"processing_time_ms"`
	ClassifiedAt      time.Time `db:"classified_at"      json:"classified_at"`
}

// ListByConversation returns a conversation's audit rows, oldest first.
func (r *HistoryRepository) ListByConversation(ctx context.Context, conversationID string, limit int) ([]HistoryRow, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []HistoryRow
	query := `
		SELECT id, conversation_id, stage, labels, origin,
		       classifier_version, processing_time_ms, classified_at
		FROM classification_history
		WHERE conversation_id = ?
		ORDER BY id ASC
		LIMIT ?
	`
	if err := r.db.SelectContext(ctx, &rows, query, conversationID, limit); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return rows, nil
}

// Stats summarizes the audit trail for the stats endpoint.
type Stats struct {
	TotalClassified int            `json:"total_classified"`
	FallbackCount   int            `json:"fallback_count"`
	HighStageCount  int            `json:"high_stage_count"`
	StageCounts     map[string]int `json:"stage_counts"`
}

// GetStats aggregates overall classification statistics.
func (r *HistoryRepository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{StageCounts: make(map[string]int)}

	summary := struct {
		Total     int `db:"total"`
		Fallback  int `db:"fallback"`
		HighStage int `db:"high_stage"`
	}{}
	query := `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN origin = 'fallback' THEN 1 ELSE 0 END), 0) AS fallback,
		       COALESCE(SUM(CASE WHEN stage >= 3 THEN 1 ELSE 0 END), 0) AS high_stage
		FROM classification_history
	`
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("stats summary: %w", err)
	}
	stats.TotalClassified = summary.Total
	stats.FallbackCount = summary.Fallback
	stats.HighStageCount = summary.HighStage

	type stageCount struct {
		Stage int `db:"stage"`
		Count int `db:"count"`
	}
	var perStage []stageCount
	stageQuery := `
		SELECT stage, COUNT(*) AS count
		FROM classification_history
		GROUP BY stage
		ORDER BY stage
	`
	if err := r.db.SelectContext(ctx, &perStage, stageQuery); err != nil {
		return nil, fmt.Errorf("stats per stage: %w", err)
	}
	for _, sc := range perStage {
		stats.StageCounts[domain.Stage(sc.Stage).String()] = sc.Count
	}

	return stats, nil
}
