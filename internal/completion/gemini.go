package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// ErrEmptyResponse é retornado quando o modelo não gera nenhum texto
var ErrEmptyResponse = errors.New("model returned no text")

// Completer gera um texto a partir de uma instrução de sistema e de uma
// única mensagem do usuário
type Completer interface {
	Complete(ctx context.Context, systemInstruction, message string) (string, error)
}

// Gemini executa completions single-turn sobre um model.LLM do ADK
type Gemini struct {
	llm         model.LLM
	modelName   string
	temperature float32
}

// NewGemini cria o modelo Gemini com a API key informada
func NewGemini(ctx context.Context, apiKey, modelName string, temperature float32) (*Gemini, error) {
	llm, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return NewWithModel(llm, modelName, temperature), nil
}

// NewWithModel usa um model.LLM já construído
func NewWithModel(llm model.LLM, modelName string, temperature float32) *Gemini {
	return &Gemini{
		llm:         llm,
		modelName:   modelName,
		temperature: temperature,
	}
}

// Complete faz exatamente uma chamada ao modelo, sem histórico, sem
// streaming e sem ferramentas
func (g *Gemini) Complete(ctx context.Context, systemInstruction, message string) (string, error) {
	temperature := g.temperature
	req := &model.LLMRequest{
		Model: g.modelName,
		Contents: []*genai.Content{
			{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: message}},
			},
		},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: systemInstruction}},
			},
			Temperature: &temperature,
		},
	}

	var responseText strings.Builder
	for response, err := range g.llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", err
		}
		if response == nil || response.Content == nil {
			continue
		}
		for _, part := range response.Content.Parts {
			if part != nil && part.Text != "" {
				responseText.WriteString(part.Text)
			}
		}
	}

	if responseText.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return responseText.String(), nil
}
