// Package container provides dependency injection for the taxstmt application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/taxstmt/internal/batch"
	"fjacquet/taxstmt/internal/config"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/normalizer"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/parsers"
	"fjacquet/taxstmt/internal/pdftext"
	"fjacquet/taxstmt/internal/statementdate"
	"fjacquet/taxstmt/internal/transform"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	registry   *parser.Registry
	maps       transform.Maps
	normalizer *normalizer.Normalizer
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	extractor, err := pdftext.New(cfg.PDF.Extractor, cfg.PDF.PdftotextPath, logger)
	if err != nil {
		return nil, fmt.Errorf("creating pdf extractor: %w", err)
	}

	deps := parser.Dependencies{
		Logger:    logger,
		Extractor: extractor,
		Dates:     statementdate.NewResolver(pdftext.NewSecondaryExtractor(logger), logger),
	}
	registry := parsers.Bootstrap(deps)

	maps := transform.Builtin()
	if cfg.Transform.MapFile != "" {
		overlay, err := transform.LoadMapFile(cfg.Transform.MapFile)
		if err != nil {
			return nil, err
		}
		maps = maps.Merge(overlay)
		logger.Info("Loaded transformation maps",
			logging.F(logging.FieldFile, cfg.Transform.MapFile),
			logging.F(logging.FieldCount, len(overlay)))
	}

	n := normalizer.New(registry, maps, logger)
	n.MissingDateSentinel = cfg.Parsers.MissingDateSentinel

	logger.Debug("Container initialized",
		logging.F("parsers_count", registry.Len()),
		logging.F("pdf_extractor", cfg.PDF.Extractor))

	return &Container{
		logger:     logger,
		config:     cfg,
		registry:   registry,
		maps:       maps,
		normalizer: n,
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

// GetRegistry returns the parser registry.
func (c *Container) GetRegistry() *parser.Registry {
	return c.registry
}

// GetMaps returns the effective transformation maps.
func (c *Container) GetMaps() transform.Maps {
	return c.maps
}

// GetNormalizer returns the normalization orchestrator.
func (c *Container) GetNormalizer() *normalizer.Normalizer {
	return c.normalizer
}

// ParseConfig returns the parse hints taken from configuration.
func (c *Container) ParseConfig() models.ParseConfig {
	return models.ParseConfig{StatementDate: c.config.Parsers.StatementDate}
}

// NewRunner returns a batch runner configured from the container.
func (c *Container) NewRunner() *batch.Runner {
	runner := batch.NewRunner(c.normalizer, c.registry, c.logger)
	runner.Config = c.ParseConfig()
	runner.AccountFromFilename = c.config.Parsers.AccountFromFilename
	return runner
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
