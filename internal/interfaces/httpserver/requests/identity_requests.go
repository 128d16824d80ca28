package requests

import (
	"custodia-server/services/ledger-api/internal/domain/identity"
)

// CreateIdentityRequest registers a new identity record.
type CreateIdentityRequest struct {
	Provider   string  `json:"provider" binding:"required"`
	ProviderID string  `json:"provider_id" binding:"required"`
	Email      *string `json:"email"`
	FullName   *string `json:"full_name"`
}

// ToDomain converts request to domain parameters
func (r *CreateIdentityRequest) ToDomain() identity.CreateParams {
	return identity.CreateParams{
		Provider:   r.Provider,
		ProviderID: r.ProviderID,
		Email:      r.Email,
		FullName:   r.FullName,
	}
}

// UpdateEmailRequest replaces an identity's email. A null email clears it.
type UpdateEmailRequest struct {
	Email *string `json:"email"`
}
