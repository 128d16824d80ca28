package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "custodia-server/services/ledger-api/internal/domain/portfolio"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/requests"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/responses"
)

// PortfolioHandler exposes portfolio endpoints.
type PortfolioHandler struct {
	service domain.Service
	log     zerolog.Logger
}

// NewPortfolioHandler wires dependencies for portfolio routes.
func NewPortfolioHandler(service domain.Service, log zerolog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		service: service,
		log:     log.With().Str("component", "portfolio-handler").Logger(),
	}
}

// Create godoc
// @Summary      Create portfolio
// @Description  Initializes an empty portfolio for an identity.
// @Tags         portfolios
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreatePortfolioRequest  true  "Portfolio to create"
// @Success      201      {object}  responses.PortfolioResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/portfolios [post]
func (h *PortfolioHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.Create(c.Request.Context(), caller, req.IdentityID)
	if err != nil {
		responses.HandleError(c, err, "failed to create portfolio")
		return
	}
	c.JSON(http.StatusCreated, responses.NewPortfolioResponse(record))
}

// AddPermission godoc
// @Summary      Register permission
// @Description  Registers a permission in the portfolio's ordered permission index.
// @Tags         portfolios
// @Accept       json
// @Produce      json
// @Param        id       path      string                              true  "Portfolio ID (pfl_*)"
// @Param        request  body      requests.AddPermissionEntryRequest  true  "Permission to register"
// @Success      200      {object}  responses.PortfolioResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      403      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/portfolios/{id}/permissions [post]
func (h *PortfolioHandler) AddPermission(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.AddPermissionEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.AddPermission(c.Request.Context(), caller, c.Param("id"), req.PermissionID)
	if err != nil {
		responses.HandleError(c, err, "failed to register permission")
		return
	}
	c.JSON(http.StatusOK, responses.NewPortfolioResponse(record))
}

// AddMemory godoc
// @Summary      Register memory
// @Description  Registers a memory in the portfolio's ordered memory index.
// @Tags         portfolios
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Portfolio ID (pfl_*)"
// @Param        request  body      requests.AddMemoryEntryRequest  true  "Memory to register"
// @Success      200      {object}  responses.PortfolioResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      403      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/portfolios/{id}/memories [post]
func (h *PortfolioHandler) AddMemory(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.AddMemoryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.AddMemory(c.Request.Context(), caller, c.Param("id"), req.MemoryID)
	if err != nil {
		responses.HandleError(c, err, "failed to register memory")
		return
	}
	c.JSON(http.StatusOK, responses.NewPortfolioResponse(record))
}

// AddAutomation godoc
// @Summary      Register automation
// @Description  Registers an automation in the portfolio's ordered automation index.
// @Tags         portfolios
// @Accept       json
// @Produce      json
// @Param        id       path      string                              true  "Portfolio ID (pfl_*)"
// @Param        request  body      requests.AddAutomationEntryRequest  true  "Automation to register"
// @Success      200      {object}  responses.PortfolioResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      403      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/portfolios/{id}/automations [post]
func (h *PortfolioHandler) AddAutomation(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.AddAutomationEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.AddAutomation(c.Request.Context(), caller, c.Param("id"), req.AutomationID)
	if err != nil {
		responses.HandleError(c, err, "failed to register automation")
		return
	}
	c.JSON(http.StatusOK, responses.NewPortfolioResponse(record))
}

// Get godoc
// @Summary      Get portfolio
// @Tags         portfolios
// @Produce      json
// @Param        id   path      string  true  "Portfolio ID (pfl_*)"
// @Success      200  {object}  responses.PortfolioResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/portfolios/{id} [get]
func (h *PortfolioHandler) Get(c *gin.Context) {
	record, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get portfolio")
		return
	}
	c.JSON(http.StatusOK, responses.NewPortfolioResponse(record))
}

// GetByIdentity godoc
// @Summary      Get portfolio by identity
// @Tags         portfolios
// @Produce      json
// @Param        id   path      string  true  "Identity ID (idn_*)"
// @Success      200  {object}  responses.PortfolioResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/identities/{id}/portfolio [get]
func (h *PortfolioHandler) GetByIdentity(c *gin.Context) {
	record, err := h.service.GetByIdentity(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get portfolio")
		return
	}
	c.JSON(http.StatusOK, responses.NewPortfolioResponse(record))
}

// ListEntries godoc
// @Summary      List index entries
// @Description  Returns one category's index slots in sequence order.
// @Tags         portfolios
// @Produce      json
// @Param        id        path      string  true  "Portfolio ID (pfl_*)"
// @Param        category  path      string  true  "Category (permission, memory, automation)"
// @Success      200       {array}   responses.PortfolioEntryResponse
// @Failure      400       {object}  responses.ErrorResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/portfolios/{id}/entries/{category} [get]
func (h *PortfolioHandler) ListEntries(c *gin.Context) {
	entries, err := h.service.ListEntries(c.Request.Context(), c.Param("id"), domain.Category(c.Param("category")))
	if err != nil {
		responses.HandleError(c, err, "failed to list portfolio entries")
		return
	}
	c.JSON(http.StatusOK, responses.NewPortfolioEntriesResponse(entries))
}
