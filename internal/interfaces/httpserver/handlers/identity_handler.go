package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/requests"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/responses"
)

// IdentityHandler exposes identity endpoints.
type IdentityHandler struct {
	service domain.Service
	log     zerolog.Logger
}

// NewIdentityHandler wires dependencies for identity routes.
func NewIdentityHandler(service domain.Service, log zerolog.Logger) *IdentityHandler {
	return &IdentityHandler{
		service: service,
		log:     log.With().Str("component", "identity-handler").Logger(),
	}
}

// Create godoc
// @Summary      Create identity
// @Description  Registers a delegated identity owned by the caller.
// @Tags         identities
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateIdentityRequest  true  "Identity to create"
// @Success      201      {object}  responses.IdentityResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/identities [post]
func (h *IdentityHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.CreateIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.Create(c.Request.Context(), caller, req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "failed to create identity")
		return
	}
	c.JSON(http.StatusCreated, responses.NewIdentityResponse(record))
}

// Verify godoc
// @Summary      Verify identity
// @Description  Marks the identity verified. Verifying twice is a no-op.
// @Tags         identities
// @Produce      json
// @Param        id   path      string  true  "Identity ID (idn_*)"
// @Success      200  {object}  responses.IdentityResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/identities/{id}/verify [post]
func (h *IdentityHandler) Verify(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	record, err := h.service.Verify(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to verify identity")
		return
	}
	c.JSON(http.StatusOK, responses.NewIdentityResponse(record))
}

// UpdateEmail godoc
// @Summary      Update identity email
// @Description  Replaces the identity's email. A null email clears it.
// @Tags         identities
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Identity ID (idn_*)"
// @Param        request  body      requests.UpdateEmailRequest  true  "New email"
// @Success      200      {object}  responses.IdentityResponse
// @Failure      403      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/identities/{id}/email [put]
func (h *IdentityHandler) UpdateEmail(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.UpdateEmail(c.Request.Context(), caller, c.Param("id"), req.Email)
	if err != nil {
		responses.HandleError(c, err, "failed to update identity email")
		return
	}
	c.JSON(http.StatusOK, responses.NewIdentityResponse(record))
}

// Get godoc
// @Summary      Get identity
// @Tags         identities
// @Produce      json
// @Param        id   path      string  true  "Identity ID (idn_*)"
// @Success      200  {object}  responses.IdentityResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/identities/{id} [get]
func (h *IdentityHandler) Get(c *gin.Context) {
	record, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get identity")
		return
	}
	c.JSON(http.StatusOK, responses.NewIdentityResponse(record))
}
