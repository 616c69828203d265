package cli

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/brdify/internal/adapters/driven/ai"
	"github.com/custodia-labs/brdify/internal/adapters/driven/config/file"
	"github.com/custodia-labs/brdify/internal/adapters/driven/render"
	"github.com/custodia-labs/brdify/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/services"
	"github.com/custodia-labs/brdify/internal/logger"
	"github.com/custodia-labs/brdify/internal/normalisers"
	"github.com/custodia-labs/brdify/internal/normalisers/docx"
	"github.com/custodia-labs/brdify/internal/normalisers/eml"
	"github.com/custodia-labs/brdify/internal/normalisers/html"
	"github.com/custodia-labs/brdify/internal/normalisers/markdown"
	"github.com/custodia-labs/brdify/internal/normalisers/plaintext"
	"github.com/custodia-labs/brdify/internal/postprocessors"
)

// configDir overrides ~/.brdify; empty uses the default.
var configDir string

func ensureSettings() error {
	if settingsService != nil {
		return nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService = services.NewSettingsService(store, ai.NewConfigValidator())
	return nil
}

// ensureServices builds the document services from the saved settings.
func ensureServices() error {
	if brdService != nil {
		return nil
	}
	if err := ensureSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	dataDir := settings.DataDir
	promptDir := ""
	if configDir != "" {
		if dataDir == "" {
			dataDir = configDir
		}
		promptDir = filepath.Join(configDir, "prompts")
	}

	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	aiResult, err := ai.Init(&settings.LLM, prompts)
	if err != nil {
		return err
	}
	for _, w := range aiResult.Warnings {
		logger.Debug("%s", w)
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		aiResult.Close()
		return fmt.Errorf("open document store: %w", err)
	}
	logger.Debug("document store: %s", store.Path())

	procs := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(procs)
	pipeline, err := procs.BuildPipeline(domain.PipelineConfigFor(settings.Pipeline))
	if err != nil {
		aiResult.Close()
		_ = store.Close()
		return fmt.Errorf("build pipeline: %w", err)
	}

	registry := normalisers.NewRegistry(
		plaintext.New(),
		markdown.New(),
		eml.New(),
		docx.New(),
		html.New(),
	)

	brd := services.NewBrdService(
		store.BrdStore(),
		aiResult.Extractor,
		pipeline,
		registry,
		render.NewDefaultRegistry(),
	)

	brdService = brd
	ingestService = services.NewIngestService(brd, settings.Ingest.Concurrency)
	fileFilter = registry
	closeServices = func() {
		aiResult.Close()
		if err := store.Close(); err != nil {
			logger.Warn("closing document store: %v", err)
		}
	}
	return nil
}
