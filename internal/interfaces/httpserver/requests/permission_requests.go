package requests

import (
	"custodia-server/services/ledger-api/internal/domain/permission"
)

// GrantPermissionRequest grants app access delegated by an identity.
type GrantPermissionRequest struct {
	IdentityID      string   `json:"identity_id" binding:"required"`
	AppName         string   `json:"app_name" binding:"required"`
	AppID           string   `json:"app_id" binding:"required"`
	Scopes          []string `json:"scopes"`
	AccessTokenHash string   `json:"access_token_hash"`
	ExpiresAt       uint64   `json:"expires_at"`
}

// ToDomain converts request to domain parameters
func (r *GrantPermissionRequest) ToDomain() permission.CreateParams {
	return permission.CreateParams{
		IdentityID:      r.IdentityID,
		AppName:         r.AppName,
		AppID:           r.AppID,
		Scopes:          r.Scopes,
		AccessTokenHash: r.AccessTokenHash,
		ExpiresAt:       r.ExpiresAt,
	}
}

// AddScopeRequest inserts one scope into a permission's scope set.
type AddScopeRequest struct {
	Scope string `json:"scope" binding:"required"`
}
