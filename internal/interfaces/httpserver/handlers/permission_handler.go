package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "custodia-server/services/ledger-api/internal/domain/permission"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/requests"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/responses"
)

// PermissionHandler exposes permission endpoints.
type PermissionHandler struct {
	service domain.Service
	log     zerolog.Logger
}

// NewPermissionHandler wires dependencies for permission routes.
func NewPermissionHandler(service domain.Service, log zerolog.Logger) *PermissionHandler {
	return &PermissionHandler{
		service: service,
		log:     log.With().Str("component", "permission-handler").Logger(),
	}
}

// Grant godoc
// @Summary      Grant permission
// @Description  Grants app access delegated by an identity. Scope repeats are collapsed.
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        request  body      requests.GrantPermissionRequest  true  "Permission to grant"
// @Success      201      {object}  responses.PermissionResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/permissions [post]
func (h *PermissionHandler) Grant(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.GrantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.Create(c.Request.Context(), caller, req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "failed to grant permission")
		return
	}
	c.JSON(http.StatusCreated, responses.NewPermissionResponse(record))
}

// Revoke godoc
// @Summary      Revoke permission
// @Description  Deactivates the permission. The transition is one-way.
// @Tags         permissions
// @Produce      json
// @Param        id   path      string  true  "Permission ID (prm_*)"
// @Success      200  {object}  responses.PermissionResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      409  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/permissions/{id}/revoke [post]
func (h *PermissionHandler) Revoke(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	record, err := h.service.Revoke(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to revoke permission")
		return
	}
	c.JSON(http.StatusOK, responses.NewPermissionResponse(record))
}

// AddScope godoc
// @Summary      Add scope
// @Description  Inserts a scope into the permission's scope set and refreshes last_used_at.
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Permission ID (prm_*)"
// @Param        request  body      requests.AddScopeRequest  true  "Scope to add"
// @Success      200      {object}  responses.PermissionResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      403      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/permissions/{id}/scopes [post]
func (h *PermissionHandler) AddScope(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.AddScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.AddScope(c.Request.Context(), caller, c.Param("id"), req.Scope)
	if err != nil {
		responses.HandleError(c, err, "failed to add scope")
		return
	}
	c.JSON(http.StatusOK, responses.NewPermissionResponse(record))
}

// HasScope godoc
// @Summary      Check scope
// @Description  Reports whether the permission's scope set contains the scope.
// @Tags         permissions
// @Produce      json
// @Param        id     path      string  true  "Permission ID (prm_*)"
// @Param        scope  query     string  true  "Scope to check"
// @Success      200    {object}  map[string]bool
// @Failure      404    {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/permissions/{id}/scopes/check [get]
func (h *PermissionHandler) HasScope(c *gin.Context) {
	scope := c.Query("scope")
	if scope == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope query parameter is required"})
		return
	}

	has, err := h.service.HasScope(c.Request.Context(), c.Param("id"), scope)
	if err != nil {
		responses.HandleError(c, err, "failed to check scope")
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_scope": has})
}

// Get godoc
// @Summary      Get permission
// @Tags         permissions
// @Produce      json
// @Param        id   path      string  true  "Permission ID (prm_*)"
// @Success      200  {object}  responses.PermissionResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/permissions/{id} [get]
func (h *PermissionHandler) Get(c *gin.Context) {
	record, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get permission")
		return
	}
	c.JSON(http.StatusOK, responses.NewPermissionResponse(record))
}
