package v1

import (
	"github.com/gin-gonic/gin"

	"custodia-server/services/ledger-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	group.POST("/identities", r.handlers.Identity.Create)
	group.GET("/identities/:id", r.handlers.Identity.Get)
	group.POST("/identities/:id/verify", r.handlers.Identity.Verify)
	group.PUT("/identities/:id/email", r.handlers.Identity.UpdateEmail)
	group.GET("/identities/:id/portfolio", r.handlers.Portfolio.GetByIdentity)
	group.GET("/identities/:id/events", r.handlers.Event.ListByIdentity)

	group.POST("/permissions", r.handlers.Permission.Grant)
	group.GET("/permissions/:id", r.handlers.Permission.Get)
	group.POST("/permissions/:id/revoke", r.handlers.Permission.Revoke)
	group.POST("/permissions/:id/scopes", r.handlers.Permission.AddScope)
	group.GET("/permissions/:id/scopes/check", r.handlers.Permission.HasScope)

	group.POST("/memories", r.handlers.Memory.Create)
	group.GET("/memories/:id", r.handlers.Memory.Get)
	group.PUT("/memories/:id/ai", r.handlers.Memory.UpdateAI)
	group.POST("/memories/:id/tags", r.handlers.Memory.AddTags)
	group.POST("/memories/:id/archive", r.handlers.Memory.Archive)

	group.POST("/automations", r.handlers.Automation.Create)
	group.GET("/automations/:id", r.handlers.Automation.Get)
	group.POST("/automations/:id/approve", r.handlers.Automation.Approve)
	group.POST("/automations/:id/execute", r.handlers.Automation.Execute)
	group.POST("/automations/:id/cancel", r.handlers.Automation.Cancel)

	group.POST("/portfolios", r.handlers.Portfolio.Create)
	group.GET("/portfolios/:id", r.handlers.Portfolio.Get)
	group.POST("/portfolios/:id/permissions", r.handlers.Portfolio.AddPermission)
	group.POST("/portfolios/:id/memories", r.handlers.Portfolio.AddMemory)
	group.POST("/portfolios/:id/automations", r.handlers.Portfolio.AddAutomation)
	group.GET("/portfolios/:id/entries/:category", r.handlers.Portfolio.ListEntries)

	group.POST("/onboarding/users", r.handlers.Onboarding.InitializeUser)
	group.POST("/onboarding/permissions", r.handlers.Onboarding.GrantAppPermission)
}
