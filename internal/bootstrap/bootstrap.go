// Package bootstrap wires configuration into running components for the
// HTTP server entrypoint.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/ioozy/scamwatch/internal/api"
	"github.com/ioozy/scamwatch/internal/classifier"
	"github.com/ioozy/scamwatch/internal/config"
	"github.com/ioozy/scamwatch/internal/conversation"
	"github.com/ioozy/scamwatch/internal/database"
	"github.com/ioozy/scamwatch/internal/llm"
	"github.com/ioozy/scamwatch/internal/logger"
	"github.com/ioozy/scamwatch/internal/rules"
	"github.com/ioozy/scamwatch/internal/telemetry"
)

// HTTPComponents holds all components needed for the HTTP server.
type HTTPComponents struct {
	DB     *sqlx.DB
	Server *api.Server
	Log    logger.Logger
}

// LoadConfig resolves the config path and loads configuration. A missing
// file falls back to environment overrides and defaults.
func LoadConfig() (*config.Config, error) {
	path := os.Getenv("SCAMWATCH_CONFIG")
	if path == "" {
		path = "config.yml"
	}
	return config.Load(path)
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development || cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// NewHTTPComponents creates all components for the HTTP server.
func NewHTTPComponents(cfg *config.Config, log logger.Logger) (*HTTPComponents, error) {
	tp := telemetry.NewProvider()

	engine, err := rules.NewEngine(rules.DefaultRules(), log, tp)
	if err != nil {
		return nil, fmt.Errorf("build rule engine: %w", err)
	}

	gateway, err := setupFallback(cfg, log, tp)
	if err != nil {
		return nil, err
	}

	var (
		db    *sqlx.DB
		audit classifier.AuditLog
		stats api.StatsProvider
	)
	if cfg.Database.Enabled {
		db, err = database.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open audit database: %w", err)
		}
		repo := database.NewHistoryRepository(db)
		audit = repo
		stats = repo
	}

	store := conversation.NewStore(tp)
	cls := classifier.New(log, engine, gateway, store, classifier.Config{
		Version:   cfg.Service.Version,
		Audit:     audit,
		Telemetry: tp,
	})

	handler := api.NewHandler(cls, stats, tp, log)
	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, log)

	return &HTTPComponents{DB: db, Server: server, Log: log}, nil
}

// setupFallback builds the LLM gateway. Without an API key the gateway runs
// with no client and serves safe defaults only.
func setupFallback(cfg *config.Config, log logger.Logger, tp *telemetry.Provider) (*llm.Gateway, error) {
	gwCfg := llm.GatewayConfig{
		Timeout: cfg.Fallback.Timeout,
		RPS:     cfg.Fallback.RPS,
		Burst:   cfg.Fallback.Burst,
	}

	if !cfg.Fallback.Enabled || cfg.Fallback.APIKey == "" {
		log.Warn("fallback classifier disabled, low-signal messages get the safe default")
		return llm.NewGateway(nil, gwCfg, log, tp), nil
	}

	client, err := llm.NewChatClient(llm.ChatConfig{
		APIKey:      cfg.Fallback.APIKey,
		BaseURL:     cfg.Fallback.BaseURL,
		Model:       cfg.Fallback.Model,
		Temperature: cfg.Fallback.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("build fallback client: %w", err)
	}
	return llm.NewGateway(client, gwCfg, log, tp), nil
}

// Close releases resources held by the components.
func (c *HTTPComponents) Close() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Log.Warn("closing audit database", logger.Error(err))
		}
	}
}
