package requests

// CreatePortfolioRequest initializes a portfolio for an identity.
type CreatePortfolioRequest struct {
	IdentityID string `json:"identity_id" binding:"required"`
}

// AddPermissionEntryRequest registers a permission in a portfolio index.
type AddPermissionEntryRequest struct {
	PermissionID string `json:"permission_id" binding:"required"`
}

// AddMemoryEntryRequest registers a memory in a portfolio index.
type AddMemoryEntryRequest struct {
	MemoryID string `json:"memory_id" binding:"required"`
}

// AddAutomationEntryRequest registers an automation in a portfolio index.
type AddAutomationEntryRequest struct {
	AutomationID string `json:"automation_id" binding:"required"`
}
