// Package classifier orchestrates the classification of inbound messages:
// local pattern matching first, the semantic fallback when local signal is
// weak, and the per-conversation state commit.
package classifier

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ioozy/scamwatch/internal/conversation"
	"github.com/ioozy/scamwatch/internal/domain"
	"github.com/ioozy/scamwatch/internal/llm"
	"github.com/ioozy/scamwatch/internal/logger"
	"github.com/ioozy/scamwatch/internal/rules"
	"github.com/ioozy/scamwatch/internal/stage"
	"github.com/ioozy/scamwatch/internal/telemetry"
)

// minDistinctCategories is the local-sufficiency bar: one repeated keyword
// is weak evidence, breadth of distinct tactics is strong evidence and
// saves a fallback call.
const minDistinctCategories = 2

// FallbackGateway is the fallback-path capability. llm.Gateway implements
// it; tests substitute a deterministic stub.
type FallbackGateway interface {
	Classify(ctx context.Context, message string) *llm.Result
}

// AuditLog records produced results for reporting. Failures degrade
// reporting only.
type AuditLog interface {
	Record(ctx context.Context, result *domain.ClassificationResult) error
}

// Config holds orchestrator configuration.
type Config struct {
	Version   string
	Audit     AuditLog
	Telemetry *telemetry.Provider
}

// Classifier is the single entry point the transport layer calls.
type Classifier struct {
	matcher   *rules.Engine
	fallback  FallbackGateway
	store     *conversation.Store
	audit     AuditLog
	telemetry *telemetry.Provider
	logger    logger.Logger
	version   string
}

// New creates the orchestrator. The store is injected, never ambient.
func New(
	log logger.Logger,
	matcher *rules.Engine,
	fallback FallbackGateway,
	store *conversation.Store,
	cfg Config,
) *Classifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &Classifier{
		matcher:   matcher,
		fallback:  fallback,
		store:     store,
		audit:     cfg.Audit,
		telemetry: cfg.Telemetry,
		logger:    log,
		version:   cfg.Version,
	}
}

// Classify classifies one inbound message and commits it as the
// conversation's last result, appending the message to history in the same
// per-conversation critical section. It never fails visibly: every path,
// including fallback breakage, yields a well-formed result.
//
// The conversation lock is held across the fallback round trip, so two
// messages from the same conversation are fully serialized; the latency
// cost is bounded by the gateway timeout. If ctx is already cancelled when
// the fallback returns, nothing is committed and the caller gets the safe
// default.
func (c *Classifier) Classify(ctx context.Context, conversationID, message string) *domain.ClassificationResult {
	start := time.Now()
	ctx, span := c.telemetry.StartSpan(ctx, "classifier.Classify")
	defer span.End()

	var result *domain.ClassificationResult
	c.store.Update(conversationID, func(tx *conversation.Tx) {
		hits := c.matcher.Match(message)
		distinct := rules.DistinctCategories(hits)

		if len(distinct) >= minDistinctCategories {
			counts := stage.Counts(rules.Tally(hits))
			result = &domain.ClassificationResult{
				Stage:  stage.Infer(counts),
				Labels: distinct,
				Origin: domain.OriginRuleBased,
				Hits:   hits,
			}
		} else {
			c.logger.Debug("local signal insufficient, invoking fallback",
				logger.String("conversation_id", conversationID),
				logger.Int("distinct_categories", len(distinct)))
			fb := c.fallback.Classify(ctx, message)
			result = &domain.ClassificationResult{
				Stage:  fb.Stage,
				Labels: fb.Labels,
				Origin: domain.OriginFallback,
			}
		}

		result.ConversationID = conversationID
		result.Labels = domain.NormalizeLabels(result.Labels)
		result.ClassifierVersion = c.version
		result.ProcessingTimeMs = time.Since(start).Milliseconds()
		result.ClassifiedAt = time.Now()

		if ctx.Err() != nil {
			// Caller is gone: discard, commit nothing.
			return
		}
		tx.Append(message)
		tx.SetLastResult(result)
	})

	if ctx.Err() != nil {
		return result
	}

	span.SetAttributes(
		attribute.String("classification.origin", string(result.Origin)),
		attribute.Int("classification.stage", int(result.Stage)),
	)

	c.telemetry.RecordClassification(result)
	if c.audit != nil {
		if err := c.audit.Record(ctx, result); err != nil {
			c.logger.Warn("failed to record classification history",
				logger.String("conversation_id", conversationID),
				logger.Error(err))
		}
	}

	c.logger.Info("message classified",
		logger.String("conversation_id", conversationID),
		logger.Int("stage", int(result.Stage)),
		logger.String("origin", string(result.Origin)),
		logger.Bool("warn", domain.ShouldWarn(result)),
		logger.Int64("processing_time_ms", result.ProcessingTimeMs))

	return result
}

// LastResult returns the conversation's stored last result.
func (c *Classifier) LastResult(conversationID string) (*domain.ClassificationResult, bool) {
	return c.store.LastResult(conversationID)
}

// History returns the conversation's messages in submission order.
func (c *Classifier) History(conversationID string) []string {
	return c.store.History(conversationID)
}

// Rules exposes the static rule table for the listing endpoint.
func (c *Classifier) Rules() []rules.Rule {
	return c.matcher.Rules()
}
