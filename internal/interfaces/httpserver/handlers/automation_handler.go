package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "custodia-server/services/ledger-api/internal/domain/automation"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/requests"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/responses"
)

// AutomationHandler exposes automation endpoints.
type AutomationHandler struct {
	service domain.Service
	log     zerolog.Logger
}

// NewAutomationHandler wires dependencies for automation routes.
func NewAutomationHandler(service domain.Service, log zerolog.Logger) *AutomationHandler {
	return &AutomationHandler{
		service: service,
		log:     log.With().Str("component", "automation-handler").Logger(),
	}
}

// Create godoc
// @Summary      Create automation
// @Description  Registers a pending automation. The trigger time may not lie in the past.
// @Tags         automations
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateAutomationRequest  true  "Automation to create"
// @Success      201      {object}  responses.AutomationResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/automations [post]
func (h *AutomationHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.CreateAutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.Create(c.Request.Context(), caller, req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "failed to create automation")
		return
	}
	c.JSON(http.StatusCreated, responses.NewAutomationResponse(record))
}

// Approve godoc
// @Summary      Approve automation
// @Description  Moves a pending automation to approved.
// @Tags         automations
// @Produce      json
// @Param        id   path      string  true  "Automation ID (aut_*)"
// @Success      200  {object}  responses.AutomationResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/automations/{id}/approve [post]
func (h *AutomationHandler) Approve(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	record, err := h.service.Approve(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to approve automation")
		return
	}
	c.JSON(http.StatusOK, responses.NewAutomationResponse(record))
}

// Execute godoc
// @Summary      Execute automation
// @Description  Runs an approved automation once its trigger time has come.
// @Tags         automations
// @Produce      json
// @Param        id   path      string  true  "Automation ID (aut_*)"
// @Success      200  {object}  responses.AutomationResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Failure      412  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/automations/{id}/execute [post]
func (h *AutomationHandler) Execute(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	record, err := h.service.Execute(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to execute automation")
		return
	}
	c.JSON(http.StatusOK, responses.NewAutomationResponse(record))
}

// Cancel godoc
// @Summary      Cancel automation
// @Description  Terminates a pending or approved automation.
// @Tags         automations
// @Produce      json
// @Param        id   path      string  true  "Automation ID (aut_*)"
// @Success      200  {object}  responses.AutomationResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/automations/{id}/cancel [post]
func (h *AutomationHandler) Cancel(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	record, err := h.service.Cancel(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to cancel automation")
		return
	}
	c.JSON(http.StatusOK, responses.NewAutomationResponse(record))
}

// Get godoc
// @Summary      Get automation
// @Tags         automations
// @Produce      json
// @Param        id   path      string  true  "Automation ID (aut_*)"
// @Success      200  {object}  responses.AutomationResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/automations/{id} [get]
func (h *AutomationHandler) Get(c *gin.Context) {
	record, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get automation")
		return
	}
	c.JSON(http.StatusOK, responses.NewAutomationResponse(record))
}
