package api

import (
	"time"

	"github.com/ioozy/scamwatch/internal/domain"
	"github.com/ioozy/scamwatch/internal/rules"
)

// ClassifyRequest represents a single classification request.
type ClassifyRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Message        string `json:"message" binding:"required"`
}

// ClassifyResponse represents a classification response.
type ClassifyResponse struct {
	ConversationID    string     `json:"conversation_id"`
	Stage             int        `json:"stage"`
	StageName         string     `json:"stage_name"`
	Labels            []string   `json:"labels"`
	Origin            string     `json:"origin"`
	Hits              []MatchHit `json:"hits,omitempty"`
	Warning           string     `json:"warning,omitempty"`
	ClassifierVersion string     `json:"classifier_version"`
	ProcessingTimeMs  int64      `json:"processing_time_ms"`
	ClassifiedAt      time.Time  `json:"classified_at"`
}

// MatchHit is the wire form of a rule match.
type MatchHit struct {
	Category string `json:"category"`
	Token    string `json:"token"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// HistoryResponse represents a conversation's stored message history.
type HistoryResponse struct {
	ConversationID string   `json:"conversation_id"`
	Messages       []string `json:"messages"`
	Total          int      `json:"total"`
}

// AdviceResponse carries rendered explanation or prevention text.
type AdviceResponse struct {
	ConversationID string `json:"conversation_id"`
	Stage          int    `json:"stage"`
	Text           string `json:"text"`
}

// RuleResponse represents a single rule for inspection.
type RuleResponse struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
	Patterns []string `json:"patterns,omitempty"`
}

// RulesListResponse represents the full rule table with metadata.
type RulesListResponse struct {
	Rules []RuleResponse `json:"rules"`
	Total int            `json:"total"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toClassifyResponse(r *domain.ClassificationResult) ClassifyResponse {
	labels := make([]string, 0, len(r.Labels))
	for _, l := range r.Labels {
		labels = append(labels, string(l))
	}
	hits := make([]MatchHit, 0, len(r.Hits))
	for _, h := range r.Hits {
		hits = append(hits, MatchHit{
			Category: string(h.Category),
			Token:    h.Token,
			Start:    h.Start,
			End:      h.End,
		})
	}
	return ClassifyResponse{
		ConversationID:    r.ConversationID,
		Stage:             int(r.Stage),
		StageName:         r.Stage.String(),
		Labels:            labels,
		Origin:            string(r.Origin),
		Hits:              hits,
		ClassifierVersion: r.ClassifierVersion,
		ProcessingTimeMs:  r.ProcessingTimeMs,
		ClassifiedAt:      r.ClassifiedAt,
	}
}

func toRuleResponse(rule *rules.Rule) RuleResponse {
	return RuleResponse{
		Name:     rule.Name,
		Category: string(rule.Category),
		Keywords: rule.Keywords,
		Patterns: rule.Patterns,
	}
}
