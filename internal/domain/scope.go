package domain

// TenantScope is the immutable organization scope bound to one retrieval
// engine instance. An unscoped value matches documents of every tenant.
// Callers wanting a different scope build a new engine instance rather
// than mutating this value mid-call.
type TenantScope struct {
	org    string
	scoped bool
}

// ScopeTo returns a scope restricted to the given organization ID.
func ScopeTo(orgID string) TenantScope {
	return TenantScope{org: orgID, scoped: orgID != ""}
}

// Unscoped returns a scope with no tenant restriction.
func Unscoped() TenantScope {
	return TenantScope{}
}

// OrgID returns the organization ID and whether the scope is set.
func (s TenantScope) OrgID() (string, bool) { return s.org, s.scoped }

// IsScoped reports whether the scope restricts to a single tenant.
func (s TenantScope) IsScoped() bool { return s.scoped }
