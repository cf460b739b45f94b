// Package httpapi exposes the assistant over HTTP. It registers the
// ingest and chat endpoints on a gin router group and maps domain errors
// to status codes.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/finassist-cli/internal/logger"
)

// Handler serves the assistant HTTP API.
type Handler struct {
	ingest driving.IngestService
	answer driving.AnswerService
}

// NewHandler creates a new HTTP handler.
func NewHandler(ingest driving.IngestService, answer driving.AnswerService) *Handler {
	return &Handler{
		ingest: ingest,
		answer: answer,
	}
}

// Register registers the assistant endpoints under the provided router
// group:
//
//	POST /api/assistant/ingest
//	POST /api/assistant/ingest/remote
//	POST /api/assistant/chat
func (h *Handler) Register(r *gin.RouterGroup) {
	assistant := r.Group("/api/assistant")
	assistant.POST("/ingest", h.handleIngest)
	assistant.POST("/ingest/remote", h.handleIngestRemote)
	assistant.POST("/chat", h.handleChat)
}

// ingestRequest is the body of POST /api/assistant/ingest.
type ingestRequest struct {
	Path string `json:"path"`
}

func (h *Handler) handleIngest(c *gin.Context) {
	var req ingestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	count, err := h.ingest.IngestFile(c.Request.Context(), req.Path)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingestedChunks": count,
		"source":         req.Path,
	})
}

// remoteIngestRequest is the body of POST /api/assistant/ingest/remote.
// Endpoint fields override the configured defaults; username and password
// are required.
type remoteIngestRequest struct {
	TokenURL        string `json:"tokenUrl"`
	ClientID        string `json:"clientId"`
	ClientSecret    string `json:"clientSecret"`
	Scope           string `json:"scope"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	AccountsURL     string `json:"accountsUrl"`
	TransactionsURL string `json:"transactionsUrl"`
}

func (h *Handler) handleIngestRemote(c *gin.Context) {
	var req remoteIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	count, err := h.ingest.IngestRemote(c.Request.Context(), driving.RemoteIngestParams{
		TokenURL:        req.TokenURL,
		ClientID:        req.ClientID,
		ClientSecret:    req.ClientSecret,
		Scope:           req.Scope,
		Username:        req.Username,
		Password:        req.Password,
		AccountsURL:     req.AccountsURL,
		TransactionsURL: req.TransactionsURL,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingestedChunks": count,
		"source":         "apis",
	})
}

// chatRequest is the body of POST /api/assistant/chat.
type chatRequest struct {
	Text string `json:"text"`
	TopK int    `json:"topK"`
	Mode string `json:"mode"`
}

func (h *Handler) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	answer, err := h.answer.Ask(c.Request.Context(), req.Text, req.TopK, domain.AnswerMode(req.Mode))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// writeError maps domain errors to HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUpstream),
		errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrLLMUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
