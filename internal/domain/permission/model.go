package permission

// Permission is a scoped, revocable grant allowing a named third-party
// application to act on an identity's data. Scopes form a set: duplicate
// inserts are absorbed, insertion order is not significant.
type Permission struct {
	ID              string   `json:"id"`
	IdentityID      string   `json:"identity_id"`
	Owner           string   `json:"owner"`
	AppName         string   `json:"app_name"`
	AppID           string   `json:"app_id"`
	Scopes          []string `json:"scopes"`
	AccessTokenHash string   `json:"access_token_hash"`
	ExpiresAt       uint64   `json:"expires_at"`
	CreatedAt       uint64   `json:"created_at"`
	LastUsedAt      uint64   `json:"last_used_at"`
	IsActive        bool     `json:"is_active"`

	Version uint `json:"-"`
}

// HasScope reports set membership.
func (p *Permission) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// addScope inserts scope into the set; duplicates are a no-op.
func (p *Permission) addScope(scope string) {
	if !p.HasScope(scope) {
		p.Scopes = append(p.Scopes, scope)
	}
}

// dedupeScopes builds a scope set from a raw list, keeping first occurrence
// order.
func dedupeScopes(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
