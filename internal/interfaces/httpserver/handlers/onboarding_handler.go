package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "custodia-server/services/ledger-api/internal/domain/onboarding"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/requests"
	"custodia-server/services/ledger-api/internal/interfaces/httpserver/responses"
)

// OnboardingHandler exposes the composed orchestration endpoints.
type OnboardingHandler struct {
	service domain.Service
	log     zerolog.Logger
}

// NewOnboardingHandler wires dependencies for onboarding routes.
func NewOnboardingHandler(service domain.Service, log zerolog.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		service: service,
		log:     log.With().Str("component", "onboarding-handler").Logger(),
	}
}

type initializeUserResponse struct {
	Identity  responses.IdentityResponse  `json:"identity"`
	Portfolio responses.PortfolioResponse `json:"portfolio"`
}

// InitializeUser godoc
// @Summary      Initialize user
// @Description  Creates an identity and its portfolio in one call.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateIdentityRequest  true  "Identity to initialize"
// @Success      201      {object}  initializeUserResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/onboarding/users [post]
func (h *OnboardingHandler) InitializeUser(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.CreateIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, pf, err := h.service.InitializeUser(c.Request.Context(), caller, req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "failed to initialize user")
		return
	}
	c.JSON(http.StatusCreated, initializeUserResponse{
		Identity:  responses.NewIdentityResponse(record),
		Portfolio: responses.NewPortfolioResponse(pf),
	})
}

// GrantAppPermission godoc
// @Summary      Grant app permission
// @Description  Grants app access for an identity through the orchestration layer.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        request  body      requests.GrantPermissionRequest  true  "Permission to grant"
// @Success      201      {object}  responses.PermissionResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/onboarding/permissions [post]
func (h *OnboardingHandler) GrantAppPermission(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req requests.GrantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.GrantAppPermission(c.Request.Context(), caller, req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "failed to grant permission")
		return
	}
	c.JSON(http.StatusCreated, responses.NewPermissionResponse(record))
}
