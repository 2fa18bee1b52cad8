// Package container provides dependency injection for the application.
// It centralizes the creation and wiring of all dependencies, making them
// explicit and testable.
package container

import (
	"context"
	"fmt"
	"time"

	"hornerito/internal/ai"
	"hornerito/internal/bot"
	"hornerito/internal/classifier"
	"hornerito/internal/config"
	"hornerito/internal/logging"
	"hornerito/internal/parse"
	"hornerito/internal/session"
	"hornerito/internal/store"
	"hornerito/internal/taxonomy"
	"hornerito/internal/web"
)

// Container holds all application dependencies. Immutable after creation;
// fields are private and reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      *store.Store
	sessions   *session.Store
	aiClient   ai.Client
	classifier *classifier.Classifier
	parser     *parse.Parser
	taxonomy   *taxonomy.Taxonomy
	controller *bot.Controller
	web        *web.Server
}

// NewContainer creates and wires all application dependencies.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	st, err := store.Open(cfg.Data.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sessions := session.NewStore(st.DB(), logger)

	var aiClient ai.Client
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		client, err := ai.NewGeminiClient(ctx, ai.GeminiConfig{
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Timeout:     time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
			Temperature: float32(cfg.AI.Temperature),
			MaxTokens:   int32(cfg.AI.MaxTokens),
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
		aiClient = client
		logger.Info("AI classification enabled")
	} else {
		logger.Info("AI classification disabled")
	}

	tax := taxonomy.New()
	learned := classifier.NewLearnedStore(cfg.Data.LearnedFile)
	cl := classifier.New(tax, aiClient, learned, logger)
	p := parse.New(aiClient, logger)

	controller := bot.NewController(st, sessions, cl, p, tax, cfg.Web.DashboardURL, logger)

	var webServer *web.Server
	if cfg.Web.Enabled {
		webServer = web.NewServer(cfg.Web.ListenAddr, st, logger)
	}

	logger.Info("Container initialized successfully",
		logging.Field{Key: "ai_enabled", Value: cfg.AI.Enabled},
		logging.Field{Key: "web_enabled", Value: cfg.Web.Enabled})

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      st,
		sessions:   sessions,
		aiClient:   aiClient,
		classifier: cl,
		parser:     p,
		taxonomy:   tax,
		controller: controller,
		web:        webServer,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the expense store.
func (c *Container) GetStore() *store.Store {
	return c.store
}

// GetSessions returns the session store.
func (c *Container) GetSessions() *session.Store {
	return c.sessions
}

// GetClassifier returns the layered classifier.
func (c *Container) GetClassifier() *classifier.Classifier {
	return c.classifier
}

// GetController returns the conversation controller.
func (c *Container) GetController() *bot.Controller {
	return c.controller
}

// GetWebServer returns the dashboard API server, or nil when disabled.
func (c *Container) GetWebServer() *web.Server {
	return c.web
}

// NewSweeper builds the recurring-expense sweeper with the configured
// interval. notifier may be nil.
func (c *Container) NewSweeper(notifier bot.Notifier) *bot.Sweeper {
	interval := time.Duration(c.config.Recurring.SweepIntervalMinutes) * time.Minute
	return bot.NewSweeper(c.store, notifier, interval, c.logger)
}

// Close flushes learned mappings and releases container resources.
func (c *Container) Close() error {
	if err := c.classifier.Flush(); err != nil {
		c.logger.WithError(err).Warn("Failed to flush learned mappings")
	}
	if closer, ok := c.aiClient.(interface{ Close() error }); ok && closer != nil {
		if err := closer.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close AI client")
		}
	}
	err := c.store.Close()
	c.logger.Info("Container closed")
	return err
}
