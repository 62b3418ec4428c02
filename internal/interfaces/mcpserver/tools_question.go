package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
)

type answerPayload struct {
	InvocationID string `json:"invocation_id"`
	SQL          string `json:"sql"`
	RowCount     int    `json:"row_count"`
	Truncated    bool   `json:"truncated"`
	Answer       string `json:"answer"`
}

func (s *Server) registerQuestionTools() {
	s.mcp.AddTool(mcp.NewTool("ask_question",
		mcp.WithDescription("Answer a natural-language question about football players by querying the stats database"),
		mcp.WithString("question", mcp.Description("Question in plain English"), mcp.Required()),
	), s.handleAskQuestion)
}

func (s *Server) handleAskQuestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question := strings.TrimSpace(req.GetString("question", ""))
	if question == "" {
		return mcp.NewToolResultError("question is required"), nil
	}

	answer, err := s.questions.Answer(ctx, question)
	if err != nil {
		stage, _ := nlquery.StageOf(err)
		s.logger.WarnContext(ctx, "mcp ask_question failed",
			"invocation_id", answer.InvocationID,
			"stage", stage,
			"error", err,
		)
		return errorResult(err), nil
	}

	return jsonResult(answerPayload{
		InvocationID: answer.InvocationID,
		SQL:          answer.SQL,
		RowCount:     answer.RowCount,
		Truncated:    answer.Truncated,
		Answer:       answer.Text,
	})
}
