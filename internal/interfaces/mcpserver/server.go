package mcpserver

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

const (
	serverName     = "football-stats-mcp"
	schemaURI      = "football-stats://schema"
	schemaMIMEType = "text/plain"
)

type QuestionAnswerer interface {
	Answer(ctx context.Context, question string) (usecase.Answer, error)
}

type PlayerReader interface {
	ListPlayers(ctx context.Context, limit int) ([]player.Player, error)
	GetProfile(ctx context.Context, playerID int64) (player.Profile, error)
	GetPlayer(ctx context.Context, playerID int64) (player.Player, error)
	GetAdditionalInfo(ctx context.Context, playerID int64) (player.AdditionalInfo, error)
}

// Deps holds what the tools need from the app layer.
type Deps struct {
	Questions QuestionAnswerer
	Players   PlayerReader
	Schema    nlquery.SchemaDescriptor
	Logger    *logging.Logger
	Version   string
}

// Server exposes the question pipeline and the player catalog as MCP tools.
type Server struct {
	mcp       *server.MCPServer
	questions QuestionAnswerer
	players   PlayerReader
	schema    nlquery.SchemaDescriptor
	logger    *logging.Logger
}

func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		questions: deps.Questions,
		players:   deps.Players,
		schema:    deps.Schema,
		logger:    logger,
	}

	s.mcp = server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithRecovery(),
	)

	s.registerQuestionTools()
	s.registerPlayerTools()
	s.registerResources()

	return s
}

// ServeStdio blocks serving requests on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting mcp stdio server", "name", serverName)
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.NewResource(
		schemaURI,
		"Football stats schema",
		mcp.WithResourceDescription("Tables and columns the question tool can query"),
		mcp.WithMIMEType(schemaMIMEType),
	), s.handleSchemaResource)
}

func (s *Server) handleSchemaResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      schemaURI,
			MIMEType: schemaMIMEType,
			Text:     s.schema.Describe(),
		},
	}, nil
}

func textResult(text string) *mcp.CallToolResult {
	return mcp.NewToolResultText(text)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// errorResult reports a failure to the calling agent instead of failing the
// protocol request.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
