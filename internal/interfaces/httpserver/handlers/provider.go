package handlers

import (
	"github.com/rs/zerolog"

	"custodia-server/services/ledger-api/internal/domain/automation"
	"custodia-server/services/ledger-api/internal/domain/clock"
	"custodia-server/services/ledger-api/internal/domain/event"
	"custodia-server/services/ledger-api/internal/domain/identity"
	"custodia-server/services/ledger-api/internal/domain/memory"
	"custodia-server/services/ledger-api/internal/domain/onboarding"
	"custodia-server/services/ledger-api/internal/domain/permission"
	"custodia-server/services/ledger-api/internal/domain/portfolio"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Identity   *IdentityHandler
	Permission *PermissionHandler
	Memory     *MemoryHandler
	Automation *AutomationHandler
	Portfolio  *PortfolioHandler
	Event      *EventHandler
	Onboarding *OnboardingHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	identities identity.Service,
	permissions permission.Service,
	memories memory.Service,
	automations automation.Service,
	portfolios portfolio.Service,
	onboardingSvc onboarding.Service,
	stream event.Log,
	clk clock.Source,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Identity:   NewIdentityHandler(identities, log),
		Permission: NewPermissionHandler(permissions, log),
		Memory:     NewMemoryHandler(memories, clk, log),
		Automation: NewAutomationHandler(automations, log),
		Portfolio:  NewPortfolioHandler(portfolios, log),
		Event:      NewEventHandler(stream, log),
		Onboarding: NewOnboardingHandler(onboardingSvc, log),
	}
}
