package service

import (
	"context"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/vitormoschetta/go-pharmacy-assistant/internal/apperr"
	"github.com/vitormoschetta/go-pharmacy-assistant/internal/completion"
	"github.com/vitormoschetta/go-pharmacy-assistant/internal/knowledge"
)

var instructionTemplate = template.Must(template.New("instruction").Parse(`
You are a helpful pharmacy assistant for Medzo Shop.
Use the following knowledge base to answer questions about available medicines and pharmacies.

KNOWLEDGE BASE:
{{.}}

Rules:
1. Be polite and professional.
2. Only recommend medicines found in the knowledge base.
3. If a medicine is out of stock, suggest alternatives if available in the same category.
4. Do not give medical advice beyond what is in the data.
`))

// BuildInstruction insere a base de conhecimento no template fixo
func BuildInstruction(knowledgeBase string) (string, error) {
	var sb strings.Builder
	if err := instructionTemplate.Execute(&sb, knowledgeBase); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Assistant responde perguntas usando a base de conhecimento atual
type Assistant struct {
	knowledge knowledge.Source
	llm       completion.Completer
	strict    bool
	logger    *logrus.Entry
}

// Option ajusta o Assistant
type Option func(*Assistant)

// WithStrictKnowledge faz Ask falhar quando a base está indisponível, em
// vez de enviar a mensagem de erro ao modelo
func WithStrictKnowledge(strict bool) Option {
	return func(a *Assistant) {
		a.strict = strict
	}
}

// NewAssistant cria o Assistant com as dependências injetadas
func NewAssistant(source knowledge.Source, llm completion.Completer, logger *logrus.Entry, opts ...Option) *Assistant {
	a := &Assistant{
		knowledge: source,
		llm:       llm,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask monta o contexto, a instrução e faz uma única chamada ao modelo
func (a *Assistant) Ask(ctx context.Context, message string) (string, error) {
	snap := a.knowledge.Build(ctx)
	if !snap.Available() {
		if a.strict {
			return "", apperr.New(apperr.KindDatastore, "loading knowledge base", snap.Err)
		}
		a.logger.WithError(snap.Err).Warn("Proceeding with degraded knowledge base")
	}

	instruction, err := BuildInstruction(snap.String())
	if err != nil {
		return "", apperr.New(apperr.KindInternal, "rendering instruction", err)
	}

	a.logger.WithField("message", message).Info("Processing question")

	answer, err := a.llm.Complete(ctx, instruction, message)
	if err != nil {
		return "", apperr.New(apperr.KindCompletion, "", err)
	}

	a.logger.WithField("chars", len(answer)).Debug("Assistant response generated")
	return answer, nil
}

// KnowledgeBase expõe o texto atual da base (usado pelo MCP e pela CLI)
func (a *Assistant) KnowledgeBase(ctx context.Context) string {
	return a.knowledge.Build(ctx).String()
}
