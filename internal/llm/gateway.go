package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/ioozy/scamwatch/internal/domain"
	"github.com/ioozy/scamwatch/internal/logger"
	"github.com/ioozy/scamwatch/internal/telemetry"
)

// Gateway call bounds.
const (
	// DefaultTimeout bounds one fallback round trip.
	DefaultTimeout = 5 * time.Second

	defaultRPS   = 10
	defaultBurst = 20
)

// Result is the validated fallback output: a clamped stage and labels mapped
// onto the closed category set. Internal code never sees the raw wire shape.
type Result struct {
	Stage  domain.Stage
	Labels []domain.Category
}

// GatewayConfig configures the fallback gateway.
type GatewayConfig struct {
	Timeout time.Duration
	// RPS and Burst bound the request rate to the external service.
	RPS   int
	Burst int
}

// Gateway invokes the external semantic classifier and degrades to a safe
// default on any failure. Classify never returns an error: timeout,
// transport failure, rate exhaustion and malformed responses all collapse
// into {stage 0, no labels}, logged as warnings.
type Gateway struct {
	client    Client
	limiter   *rate.Limiter
	timeout   time.Duration
	logger    logger.Logger
	telemetry *telemetry.Provider
}

// NewGateway wraps a classifier client with the invocation policy.
func NewGateway(client Client, cfg GatewayConfig, log logger.Logger, tp *telemetry.Provider) *Gateway {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RPS
	}

	return &Gateway{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		timeout:   cfg.Timeout,
		logger:    log,
		telemetry: tp,
	}
}

// SafeDefault is the result substituted when the fallback path fails.
func SafeDefault() *Result {
	return &Result{Stage: domain.StageDiscovery}
}

// Classify delegates the message to the external classifier.
func (g *Gateway) Classify(ctx context.Context, message string) *Result {
	if g.client == nil {
		return SafeDefault()
	}

	// Never block the caller's per-conversation critical section waiting
	// for rate-limit tokens.
	if !g.limiter.Allow() {
		g.logger.Warn("fallback classifier rate limit exceeded, using safe default")
		g.telemetry.RecordFallback(0, true)
		return SafeDefault()
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := g.client.Classify(callCtx, message)
	duration := time.Since(start)

	if err != nil {
		g.logger.Warn("fallback classifier failed, using safe default",
			logger.Error(err),
			logger.Duration("duration", duration))
		g.telemetry.RecordFallback(duration, true)
		return SafeDefault()
	}

	g.telemetry.RecordFallback(duration, false)
	return validate(raw, g.logger)
}

// validate is the single boundary where loose fallback output becomes the
// closed internal shape: the stage is clamped into [0,5] and label strings
// outside the category set are dropped.
func validate(raw *RawResult, log logger.Logger) *Result {
	result := &Result{Stage: domain.ClampStage(raw.Stage)}

	seen := make(map[domain.Category]bool, len(raw.Labels))
	for _, s := range raw.Labels {
		c, ok := domain.ParseCategory(s)
		if !ok {
			log.Warn("fallback classifier returned unknown label", logger.String("label", s))
			continue
		}
		if !seen[c] {
			seen[c] = true
			result.Labels = append(result.Labels, c)
		}
	}

	return result
}
