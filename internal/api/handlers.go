package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ioozy/scamwatch/internal/advice"
	"github.com/ioozy/scamwatch/internal/classifier"
	"github.com/ioozy/scamwatch/internal/database"
	"github.com/ioozy/scamwatch/internal/domain"
	"github.com/ioozy/scamwatch/internal/logger"
	"github.com/ioozy/scamwatch/internal/telemetry"
)

// StatsProvider reports aggregate classification statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) (*database.Stats, error)
}

// Handler handles HTTP requests for the classification API.
type Handler struct {
	classifier *classifier.Classifier
	stats      StatsProvider
	telemetry  *telemetry.Provider
	log        logger.Logger
}

// NewHandler creates a new API handler. stats and tp may be nil when the
// corresponding subsystem is disabled.
func NewHandler(c *classifier.Classifier, stats StatsProvider, tp *telemetry.Provider, log logger.Logger) *Handler {
	return &Handler{
		classifier: c,
		stats:      stats,
		telemetry:  tp,
		log:        log,
	}
}

// Classify handles POST /api/v1/classify.
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid classification request", logger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result := h.classifier.Classify(c.Request.Context(), req.ConversationID, req.Message)

	resp := toClassifyResponse(result)
	if domain.ShouldWarn(result) {
		resp.Warning = advice.Warning()
	}

	h.log.Info("message classified",
		logger.String("conversation_id", result.ConversationID),
		logger.Int("stage", int(result.Stage)),
		logger.String("origin", string(result.Origin)),
	)

	c.JSON(http.StatusOK, resp)
}

// GetLastResult handles GET /api/v1/conversations/:id/result.
func (h *Handler) GetLastResult(c *gin.Context) {
	result, ok := h.classifier.LastResult(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, toClassifyResponse(result))
}

// GetHistory handles GET /api/v1/conversations/:id/history.
func (h *Handler) GetHistory(c *gin.Context) {
	id := c.Param("id")
	history := h.classifier.History(id)
	if history == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{
		ConversationID: id,
		Messages:       history,
		Total:          len(history),
	})
}

// GetExplanation handles GET /api/v1/conversations/:id/explanation.
func (h *Handler) GetExplanation(c *gin.Context) {
	id := c.Param("id")
	result, ok := h.classifier.LastResult(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, AdviceResponse{
		ConversationID: id,
		Stage:          int(result.Stage),
		Text:           advice.Explain(result),
	})
}

// GetPrevention handles GET /api/v1/conversations/:id/prevention.
func (h *Handler) GetPrevention(c *gin.Context) {
	id := c.Param("id")
	result, ok := h.classifier.LastResult(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, AdviceResponse{
		ConversationID: id,
		Stage:          int(result.Stage),
		Text:           advice.Prevent(result),
	})
}

// ListRules handles GET /api/v1/rules.
func (h *Handler) ListRules(c *gin.Context) {
	table := h.classifier.Rules()
	resp := RulesListResponse{
		Rules: make([]RuleResponse, 0, len(table)),
		Total: len(table),
	}
	for i := range table {
		resp.Rules = append(resp.Rules, toRuleResponse(&table[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetStats handles GET /api/v1/stats.
func (h *Handler) GetStats(c *gin.Context) {
	if h.stats == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "statistics unavailable"})
		return
	}
	stats, err := h.stats.GetStats(c.Request.Context())
	if err != nil {
		h.log.Error("failed to load statistics", logger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ReadyCheck handles GET /ready.
func (h *Handler) ReadyCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Metrics handles GET /metrics.
func (h *Handler) Metrics(c *gin.Context) {
	if h.telemetry == nil {
		c.Status(http.StatusNotFound)
		return
	}
	h.telemetry.Handler().ServeHTTP(c.Writer, c.Request)
}
