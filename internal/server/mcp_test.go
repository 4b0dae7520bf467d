package server

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssistant struct {
	answer string
	err    error
	kb     string
	asked  []string
}

func (s *stubAssistant) Ask(ctx context.Context, message string) (string, error) {
	s.asked = append(s.asked, message)
	return s.answer, s.err
}

func (s *stubAssistant) KnowledgeBase(ctx context.Context) string {
	return s.kb
}

func connect(t *testing.T, assistant Assistant) *mcp.ClientSession {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	srv := NewMCPServer(assistant, logger.WithField("test", "mcp"))
	ss, err := srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPGetKnowledgeBase(t *testing.T) {
	cs := connect(t, &stubAssistant{kb: "AVAILABLE PHARMACIES:\n"})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_knowledge_base",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "AVAILABLE PHARMACIES:\n", resultText(t, res))
}

func TestMCPAsk(t *testing.T) {
	stub := &stubAssistant{answer: "Calpol is in stock."}
	cs := connect(t, stub)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "ask_pharmacy_assistant",
		Arguments: map[string]any{"message": "Do you have paracetamol?"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Calpol is in stock.", resultText(t, res))
	assert.Equal(t, []string{"Do you have paracetamol?"}, stub.asked)
}

func TestMCPAskFailure(t *testing.T) {
	cs := connect(t, &stubAssistant{err: errors.New("quota exceeded")})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "ask_pharmacy_assistant",
		Arguments: map[string]any{"message": "hi"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "quota exceeded", resultText(t, res))
}
