package api

// NavigationEntry is one item in the UI navigation tree. Entries with an
// empty AllowedRoles list are visible to every authenticated user.
//
// swagger:model
type NavigationEntry struct {
	Label        string   `json:"label"`
	Path         string   `json:"path"`
	Icon         string   `json:"icon,omitempty"`
	AllowedRoles []string `json:"-"`
}

// swagger:model
type NavigationEntries []NavigationEntry

// Navigation is the filtered navigation tree for the current user, plus the
// route the UI should land on when it denies access to a page.
//
// swagger:model
type Navigation struct {
	Entries      NavigationEntries `json:"entries"`
	FallbackPath string            `json:"fallback_path"`
}

// FilterNavigation returns the entries the given roles may see, preserving
// the input order. A user with no recognized roles gets only unrestricted
// entries.
func FilterNavigation(roles []string, entries NavigationEntries) NavigationEntries {
	filtered := make(NavigationEntries, 0, len(entries))
	for _, e := range entries {
		if len(e.AllowedRoles) == 0 || hasAnyRole(roles, e.AllowedRoles) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func hasAnyRole(roles, allowed []string) bool {
	for _, r := range roles {
		for _, a := range allowed {
			if r == a {
				return true
			}
		}
	}
	return false
}
