package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vitormoschetta/go-pharmacy-assistant/internal/apperr"
	"github.com/vitormoschetta/go-pharmacy-assistant/internal/model"
	"github.com/vitormoschetta/go-pharmacy-assistant/internal/server"
)

const maxBodyBytes = 1 << 20

// Handler contém as dependências necessárias para os handlers HTTP
type Handler struct {
	server *server.Server
	logger *logrus.Entry
}

// NewHandler cria uma nova instância do Handler
func NewHandler(srv *server.Server) *Handler {
	return &Handler{
		server: srv,
		logger: srv.Logger.WithField("component", "handler"),
	}
}

// HandleRoot retorna informações sobre o serviço
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"service": "Medzo Shop pharmacy assistant",
		"endpoints": map[string]interface{}{
			"ask": map[string]interface{}{
				"url":         "/ask",
				"method":      "POST",
				"description": "Ask a question about available medicines and pharmacies",
				"example": map[string]string{
					"message": "Do you have paracetamol?",
				},
			},
			"health": map[string]interface{}{
				"url":         "/health",
				"method":      "GET",
				"description": "Health check endpoint",
			},
			"mcp": map[string]interface{}{
				"url":         "/mcp",
				"method":      "POST",
				"description": "Model Context Protocol endpoint (streamable HTTP)",
			},
		},
	}

	jsonResponse(w, http.StatusOK, response)
}

// HandleHealth retorna o status de saúde do servidor
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		h.logger.WithError(err).Warn("Failed to write response")
	}
}

// HandleAsk responde a pergunta do usuário usando a base de conhecimento
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		jsonResponse(w, http.StatusRequestEntityTooLarge, model.ErrorResponse{Detail: "Request body too large"})
		return
	}

	if !json.Valid(body) {
		jsonResponse(w, http.StatusBadRequest, model.ErrorResponse{Detail: "Invalid JSON format"})
		return
	}

	if err := validateAskRequest(body); err != nil {
		h.writeError(w, apperr.New(apperr.KindValidation, "", err))
		return
	}

	var req model.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, apperr.New(apperr.KindValidation, "", err))
		return
	}

	answer, err := h.server.Assistant.Ask(r.Context(), req.Message)
	if err != nil {
		h.writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, model.ChatResponse{Response: answer})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	h.logger.WithError(err).WithField("kind", kind.String()).Error("Request failed")

	detail := err.Error()
	if h.server.RedactErrors {
		detail = kind.PublicMessage()
	}
	jsonResponse(w, kind.Status(), model.ErrorResponse{Detail: detail})
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
