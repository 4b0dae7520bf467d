package server

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

type knowledgeBaseInput struct{}

type askInput struct {
	Message string `json:"message" jsonschema:"the customer's question about medicines or pharmacies"`
}

// NewMCPServer expõe a base de conhecimento e o assistente como ferramentas MCP
func NewMCPServer(assistant Assistant, logger *logrus.Entry) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "medzo-pharmacy-assistant",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_knowledge_base",
		Description: "Returns the current list of pharmacies and in-stock medicines.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ knowledgeBaseInput) (*mcp.CallToolResult, any, error) {
		return textResult(assistant.KnowledgeBase(ctx), false), nil, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "ask_pharmacy_assistant",
		Description: "Answers a question about available medicines and pharmacies.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in askInput) (*mcp.CallToolResult, any, error) {
		answer, err := assistant.Ask(ctx, in.Message)
		if err != nil {
			logger.WithError(err).Error("MCP ask failed")
			return textResult(err.Error(), true), nil, nil
		}
		return textResult(answer, false), nil, nil
	})

	return srv
}

// NewMCPHandler serve o servidor MCP via streamable HTTP
func NewMCPHandler(assistant Assistant, logger *logrus.Entry) http.Handler {
	srv := NewMCPServer(assistant, logger)
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return srv
	}, nil)
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}
