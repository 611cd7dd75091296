// Package domain holds the core types shared by the classification engine.
package domain

import "time"

// Category is a manipulation-tactic label. The set is closed; extending it
// means redefining the rule table alongside it.
type Category string

// Tactic categories, in rule-table evaluation order.
const (
	CategoryAuthority  Category = "authority"
	CategorySimilarity Category = "similarity"
	CategoryScarcity   Category = "scarcity"
	CategoryUrgency    Category = "urgency"
	CategoryRomance    Category = "romance"
	CategoryCrisis     Category = "crisis"
	CategoryPayment    Category = "payment"
)

// LabelNoSignal is the canonical marker for a result where neither the rule
// path nor the fallback produced any label. Results never carry an empty
// label set; downstream code can rely on at least one entry.
const LabelNoSignal Category = "no_signal"

// Categories returns the closed tactic set in evaluation order.
func Categories() []Category {
	return []Category{
		CategoryAuthority,
		CategorySimilarity,
		CategoryScarcity,
		CategoryUrgency,
		CategoryRomance,
		CategoryCrisis,
		CategoryPayment,
	}
}

// ParseCategory maps a raw label string onto the closed category set.
// Unknown labels return false; callers at the fallback boundary drop them.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	for _, known := range Categories() {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Stage is a discrete milestone describing how far a manipulative
// conversation has progressed toward financial extraction.
type Stage int

// Stage semantics are fixed; the ordering is monotonic in severity and the
// warning policy depends on it.
const (
	StageDiscovery       Stage = 0
	StageGrooming        Stage = 1
	StageTestingTrust    Stage = 2
	StageCrisisStory     Stage = 3
	StagePaymentCoaching Stage = 4
	StageAftermath       Stage = 5
)

// MinStage and MaxStage bound the valid stage range.
const (
	MinStage Stage = StageDiscovery
	MaxStage Stage = StageAftermath
)

// ClampStage forces an arbitrary integer into the valid stage range.
// Out-of-range fallback output is clamped rather than rejected.
func ClampStage(v int) Stage {
	if v < int(MinStage) {
		return MinStage
	}
	if v > int(MaxStage) {
		return MaxStage
	}
	return Stage(v)
}

// String returns the human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageDiscovery:
		return "discovery"
	case StageGrooming:
		return "bonding_grooming"
	case StageTestingTrust:
		return "testing_trust"
	case StageCrisisStory:
		return "crisis_story"
	case StagePaymentCoaching:
		return "payment_coaching"
	case StageAftermath:
		return "aftermath_repeat"
	default:
		return "unknown"
	}
}

// MatchHit records one pattern-rule hit within a message. Hits only live for
// the duration of a single classification call.
type MatchHit struct {
	Category Category `json:"category"`
	Token    string   `json:"token"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
}

// Origin identifies which path produced a classification.
type Origin string

// Classification origins.
const (
	OriginRuleBased Origin = "rule_based"
	OriginFallback  Origin = "fallback"
)

// ClassificationResult is the unified output of one classification call.
// It is immutable after creation and stored as the conversation's last
// result.
type ClassificationResult struct {
	ConversationID string `json:"conversation_id"`

	Stage  Stage      `json:"stage"`
	Labels []Category `json:"labels"`
	Origin Origin     `json:"origin"`

	// Hits carries the rule-path match evidence; empty on the fallback path.
	Hits []MatchHit `json:"hits,omitempty"`

	ClassifierVersion string    `json:"classifier_version"`
	ProcessingTimeMs  int64     `json:"processing_time_ms"`
	ClassifiedAt      time.Time `json:"classified_at"`
}

// HasLabel reports whether the result carries the given category.
func (r *ClassificationResult) HasLabel(c Category) bool {
	for _, l := range r.Labels {
		if l == c {
			return true
		}
	}
	return false
}

// NoSignal reports whether the result is the canonical no-signal outcome.
func (r *ClassificationResult) NoSignal() bool {
	return len(r.Labels) == 1 && r.Labels[0] == LabelNoSignal
}

// NormalizeLabels substitutes the no-signal marker for an empty label set so
// downstream consumers never see an ambiguous empty slice.
func NormalizeLabels(labels []Category) []Category {
	if len(labels) == 0 {
		return []Category{LabelNoSignal}
	}
	return labels
}

// ShouldWarn is the high-risk warning policy: stage 3 or beyond, or any
// payment label, flags the conversation. A no-signal result never warns.
func ShouldWarn(r *ClassificationResult) bool {
	if r == nil || r.NoSignal() {
		return false
	}
	return r.Stage >= StageCrisisStory || r.HasLabel(CategoryPayment)
}
