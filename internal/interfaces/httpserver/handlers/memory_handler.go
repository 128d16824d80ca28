package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"custodia-server/services/ledger-api/internal/domain/clock"
	domain "custodia-server/services/ledger-api/internal/domain/memory"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/requests"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/responses"
)

// MemoryHandler exposes memory endpoints. The clock is needed to render the
// derived expiry flag on reads.
type MemoryHandler struct {
	service domain.Service
	clock   clock.Source
	log     zerolog.Logger
}

// NewMemoryHandler wires dependencies for memory routes.
func NewMemoryHandler(service domain.Service, clk clock.Source, log zerolog.Logger) *MemoryHandler {
	return &MemoryHandler{
		service: service,
		clock:   clk,
		log:     log.With().Str("component", "memory-handler").Logger(),
	}
}

// Create godoc
// @Summary      Create memory
// @Description  Records a memory referencing externally stored content.
// @Tags         memories
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateMemoryRequest  true  "Memory to create"
// @Success      201      {object}  responses.MemoryResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/memories [post]
func (h *MemoryHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.CreateMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.Create(c.Request.Context(), caller, req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "failed to create memory")
		return
	}
	c.JSON(http.StatusCreated, responses.NewMemoryResponse(record, h.clock.Now(c.Request.Context())))
}

// UpdateAI godoc
// @Summary      Update AI enrichment
// @Description  Replaces the memory's AI summary and suggestions wholesale.
// @Tags         memories
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Memory ID (mem_*)"
// @Param        request  body      requests.UpdateMemoryAIRequest  true  "AI enrichment"
// @Success      200      {object}  responses.MemoryResponse
// @Failure      403      {object}  responses.ErrorResponse
// @Failure      409      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/memories/{id}/ai [put]
func (h *MemoryHandler) UpdateAI(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.UpdateMemoryAIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.UpdateWithAI(c.Request.Context(), caller, c.Param("id"), req.AISummary, req.AISuggestions)
	if err != nil {
		responses.HandleError(c, err, "failed to update memory")
		return
	}
	c.JSON(http.StatusOK, responses.NewMemoryResponse(record, h.clock.Now(c.Request.Context())))
}

// AddTags godoc
// @Summary      Add tags
// @Description  Appends tags to the memory. Repeats are kept.
// @Tags         memories
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Memory ID (mem_*)"
// @Param        request  body      requests.AddTagsRequest  true  "Tags to append"
// @Success      200      {object}  responses.MemoryResponse
// @Failure      403      {object}  responses.ErrorResponse
// @Failure      409      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/memories/{id}/tags [post]
func (h *MemoryHandler) AddTags(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.AddTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.AddTags(c.Request.Context(), caller, c.Param("id"), req.Tags)
	if err != nil {
		responses.HandleError(c, err, "failed to add tags")
		return
	}
	c.JSON(http.StatusOK, responses.NewMemoryResponse(record, h.clock.Now(c.Request.Context())))
}

// Archive godoc
// @Summary      Archive memory
// @Description  Moves the memory to archived. Archived memories accept no further mutation.
// @Tags         memories
// @Produce      json
// @Param        id   path      string  true  "Memory ID (mem_*)"
// @Success      200  {object}  responses.MemoryResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/memories/{id}/archive [post]
func (h *MemoryHandler) Archive(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	record, err := h.service.Archive(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to archive memory")
		return
	}
	c.JSON(http.StatusOK, responses.NewMemoryResponse(record, h.clock.Now(c.Request.Context())))
}

// Get godoc
// @Summary      Get memory
// @Tags         memories
// @Produce      json
// @Param        id   path      string  true  "Memory ID (mem_*)"
// @Success      200  {object}  responses.MemoryResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/memories/{id} [get]
func (h *MemoryHandler) Get(c *gin.Context) {
	record, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get memory")
		return
	}
	c.JSON(http.StatusOK, responses.NewMemoryResponse(record, h.clock.Now(c.Request.Context())))
}
