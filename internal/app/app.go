package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/football-stats/external/vertexai"
	"github.com/riskibarqy/football-stats/internal/config"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	cacherepo "github.com/riskibarqy/football-stats/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-stats/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/football-stats/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-stats/internal/observability"
	"github.com/riskibarqy/football-stats/internal/platform/cache"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/platform/resilience"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

// Container holds the wired services shared by the HTTP server, the CLI and
// the MCP server.
type Container struct {
	Config    config.Config
	Logger    *logging.Logger
	Schema    nlquery.SchemaDescriptor
	Questions *usecase.QuestionService
	Players   *usecase.PlayerService

	db *sqlx.DB
}

func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := OpenDB(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}

	model, err := newLanguageModel(ctx, cfg, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var playerRepo player.Repository = postgres.NewPlayerRepository(db)
	if cfg.CacheEnabled {
		playerRepo = cacherepo.NewPlayerRepository(playerRepo, cache.NewStore(cfg.CacheTTL))
	}

	schema := nlquery.DefaultSchema()
	questions := usecase.NewQuestionService(
		schema,
		usecase.NewQuerySynthesizer(model, cfg.LLMTimeout),
		usecase.NewStatementGuard(cfg.QueryGuardEnabled, schema),
		postgres.NewSessionManager(db),
		postgres.NewExecutionGateway(cfg.DB.QueryTimeout, postgres.WithReadOnlyTransactions(cfg.QueryGuardEnabled)),
		usecase.NewResultFormatter(model, cfg.LLMTimeout),
		observability.NewPipelineMetrics(),
		logger,
		usecase.QuestionServiceConfig{
			MaxRows:           cfg.QueryMaxRows,
			MaxQuestionLength: cfg.QueryMaxQuestionLength,
			BatchWorkers:      cfg.QueryBatchWorkers,
		},
	)

	logger.Info("services wired",
		"vertex_model", cfg.VertexModel,
		"guard_enabled", cfg.QueryGuardEnabled,
		"cache_enabled", cfg.CacheEnabled,
		"max_rows", cfg.QueryMaxRows,
	)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Schema:    schema,
		Questions: questions,
		Players:   usecase.NewPlayerService(playerRepo, logger),
		db:        db,
	}, nil
}

func newLanguageModel(ctx context.Context, cfg config.Config, logger *logging.Logger) (*vertexai.Client, error) {
	tokenSource, err := vertexai.NewTokenSource(ctx, cfg.VertexAccessToken, cfg.GoogleCredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("build vertex token source: %w", err)
	}

	client, err := vertexai.NewClient(vertexai.ClientConfig{
		ProjectID:       cfg.VertexProjectID,
		Location:        cfg.VertexLocation,
		Model:           cfg.VertexModel,
		BaseURL:         cfg.VertexBaseURL,
		Temperature:     cfg.LLMTemperature,
		MaxOutputTokens: cfg.LLMMaxOutputTokens,
		Timeout:         cfg.LLMTimeout,
		TokenSource:     tokenSource,
		Logger:          logger,
		CircuitBreaker: resilience.LanguageModelBreaker(
			cfg.LLMCircuitEnabled,
			cfg.LLMCircuitFailureCount,
			cfg.LLMCircuitOpenTimeout,
			cfg.LLMCircuitHalfOpenMaxReq,
		),
	})
	if err != nil {
		return nil, fmt.Errorf("build vertex client: %w", err)
	}

	return client, nil
}

// Close releases the connection pool.
func (c *Container) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func NewHTTPServer(c *Container) (*http.Server, error) {
	handler := httpapi.NewHandler(c.Questions, c.Players, c.Logger)
	router := httpapi.NewRouter(handler, promhttp.Handler(), c.Logger, c.Config.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         c.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  c.Config.ReadTimeout,
		WriteTimeout: c.Config.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
