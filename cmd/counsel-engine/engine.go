// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/counsel-engine/internal/executor"
	"github.com/pdiddy/counsel-engine/internal/history"
	"github.com/pdiddy/counsel-engine/internal/lawdb"
	"github.com/pdiddy/counsel-engine/internal/llm"
	"github.com/pdiddy/counsel-engine/internal/orchestrator"
	"github.com/pdiddy/counsel-engine/internal/rank"
	"github.com/pdiddy/counsel-engine/internal/secrets"
	"github.com/pdiddy/counsel-engine/internal/staticdoc"
	"github.com/pdiddy/counsel-engine/internal/synthesis"
	"github.com/pdiddy/counsel-engine/internal/websearch"
	"github.com/pdiddy/counsel-engine/pkg/types"
)

// engineConfig assembles the full configuration from viper, with API keys
// resolved through the loaded secrets.
func engineConfig() types.EngineConfig {
	viper.SetDefault("llm.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.max_retries", 3)
	viper.SetDefault("web_search.timeout", 20*time.Second)
	viper.SetDefault("web_search.user_agent", "counsel-engine/"+version)
	viper.SetDefault("web_search.max_results", 5)
	viper.SetDefault("law.databases_dir", "lawdb")
	viper.SetDefault("static.documents_dir", "documents")
	viper.SetDefault("history.db_path", "counsel/history.db")
	viper.SetDefault("history.prompt_save_delay", 2*time.Second)
	viper.SetDefault("orchestrator.reveal_interval", 30*time.Millisecond)
	viper.SetDefault("orchestrator.tool_timeout", 30*time.Second)

	return types.EngineConfig{
		LLM: types.LLMConfig{
			Model:      viper.GetString("llm.model"),
			APIKey:     loadedSecrets.Get(secrets.AnthropicAPIKey, viper.GetString("llm.api_key")),
			MaxTokens:  viper.GetInt("llm.max_tokens"),
			MaxRetries: viper.GetInt("llm.max_retries"),
		},
		WebSearch: types.WebSearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("web_search.timeout"),
				UserAgent: viper.GetString("web_search.user_agent"),
			},
			APIKey:     loadedSecrets.Get(secrets.BraveAPIKey, viper.GetString("web_search.api_key")),
			MaxResults: viper.GetInt("web_search.max_results"),
		},
		Law: types.LawConfig{
			DatabasesDir: viper.GetString("law.databases_dir"),
			Databases:    viper.GetStringSlice("law.databases"),
			CacheTTL:     viper.GetDuration("law.cache_ttl"),
			Watch:        viper.GetBool("law.watch"),
		},
		Static: types.StaticConfig{
			DocumentsDir: viper.GetString("static.documents_dir"),
			Documents:    viper.GetStringSlice("static.documents"),
		},
		History: types.HistoryConfig{
			DBPath:          viper.GetString("history.db_path"),
			PromptSaveDelay: viper.GetDuration("history.prompt_save_delay"),
		},
		Orchestrator: types.OrchestratorConfig{
			DisableTools:    viper.GetBool("orchestrator.disable_tools"),
			RevealInterval:  viper.GetDuration("orchestrator.reveal_interval"),
			ToolTimeout:     viper.GetDuration("orchestrator.tool_timeout"),
			StreamSynthesis: viper.GetBool("orchestrator.stream_synthesis"),
		},
	}
}

// newLogger builds the CLI logger. Verbose mode shows the full pipeline;
// otherwise only warnings and errors reach the terminal.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

// engineContext bundles the wired engine with the collaborators a command
// may need directly.
type engineContext struct {
	cfg     types.EngineConfig
	engine  *orchestrator.Engine
	store   *history.Store
	saver   *history.PromptSaver
	catalog *lawdb.Catalog
	log     *zap.Logger
}

// Close releases the store, the database watcher, and the logger.
func (ec *engineContext) Close() {
	ec.catalog.Close()
	ec.store.Close()
	ec.log.Sync()
}

// buildEngine wires every pipeline stage from configuration.
func buildEngine(cmd *cobra.Command) (*engineContext, error) {
	cfg := engineConfig()

	log, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return nil, err
	}

	catalog, err := lawdb.NewCatalog(cfg.Law, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	docs, err := staticdoc.LoadStore(cfg.Static)
	if err != nil {
		catalog.Close()
		store.Close()
		return nil, err
	}

	client := llm.NewClaudeClient(cfg.LLM)
	toolCatalog := rank.NewCatalog(cfg.Law.Databases, cfg.Static.Documents)

	executors := []executor.Executor{
		executor.NewNoToolExecutor(client),
		executor.NewWebSearchExecutor(websearch.NewClient(cfg.WebSearch)),
	}
	for _, name := range cfg.Law.Databases {
		executors = append(executors, executor.NewDatabaseExecutor(name, catalog))
	}
	for _, name := range cfg.Static.Documents {
		executors = append(executors, executor.NewStaticExecutor(name, docs))
	}

	engine := orchestrator.NewEngine(cfg.Orchestrator, orchestrator.Deps{
		Ranker:      rank.NewRanker(client, toolCatalog, log),
		Synthesizer: synthesis.NewSynthesizer(client, log),
		Store:       store,
		Executors:   executors,
		AgentOff:    executor.NewAgentModeOffExecutor(client),
		Log:         log,
	})

	return &engineContext{
		cfg:     cfg,
		engine:  engine,
		store:   store,
		saver:   history.NewPromptSaver(store, cfg.History.PromptSaveDelay, log),
		catalog: catalog,
		log:     log,
	}, nil
}
