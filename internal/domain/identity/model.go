package identity

// Identity is the root record of the ledger: a verified user anchored to an
// external auth provider. All other record types back-reference it by id.
type Identity struct {
	ID         string  `json:"id"`
	Owner      string  `json:"owner"`
	Provider   string  `json:"provider"`
	ProviderID string  `json:"provider_id"`
	Email      *string `json:"email,omitempty"`
	FullName   *string `json:"full_name,omitempty"`
	IsVerified bool    `json:"is_verified"`
	CreatedAt  uint64  `json:"created_at"`
	UpdatedAt  uint64  `json:"updated_at"`

	// Version backs the optimistic concurrency check on updates.
	Version uint `json:"-"`
}
