package auth

// Scope is a coarse permission carried in the access token.
type Scope string

const (
	ScopeAll Scope = "*"

	ScopeJobsRead  Scope = "jobs:read"
	ScopeJobsWrite Scope = "jobs:write"
	ScopeJobsAll   Scope = "jobs:*"

	ScopeApplicationsRead   Scope = "applications:read"
	ScopeApplicationsWrite  Scope = "applications:write"
	ScopeApplicationsReview Scope = "applications:review"
	ScopeApplicationsAll    Scope = "applications:*"

	ScopeNotificationsRead Scope = "notifications:read"

	ScopeDispatchRead Scope = "dispatch:read"
)

// ApplicantScopes is the default scope set minted for applicant tokens.
func ApplicantScopes() []Scope {
	return []Scope{
		ScopeJobsRead,
		ScopeApplicationsRead,
		ScopeApplicationsWrite,
		ScopeNotificationsRead,
	}
}

// CompanyScopes is the default scope set minted for company tokens.
func CompanyScopes() []Scope {
	return []Scope{
		ScopeJobsRead,
		ScopeJobsWrite,
		ScopeApplicationsRead,
		ScopeApplicationsReview,
		ScopeNotificationsRead,
	}
}

func scopeStrings(scopes []Scope) []string {
	out := make([]string, len(scopes))
	for i, s := range scopes {
		out[i] = string(s)
	}
	return out
}

func scopesFromStrings(raw []string) []Scope {
	out := make([]Scope, len(raw))
	for i, s := range raw {
		out[i] = Scope(s)
	}
	return out
}
