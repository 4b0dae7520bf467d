package model

// ChatRequest representa a requisição para o endpoint /ask
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse representa a resposta do endpoint /ask
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse é o corpo retornado em qualquer falha
type ErrorResponse struct {
	Detail string `json:"detail"`
}
