package identity

type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var (
	navPublic = []NavItem{
		{Label: "Explore", Path: "/explore"},
		{Label: "Venues", Path: "/venues"},
		{Label: "Events", Path: "/events"},
	}
	navGuest = []NavItem{
		{Label: "Sign in", Path: "/login"},
		{Label: "Register", Path: "/register"},
	}
	navBooker = []NavItem{
		{Label: "Dashboard", Path: "/dashboard"},
		{Label: "My bookings", Path: "/my-bookings"},
		{Label: "Profile", Path: "/profile"},
		{Label: "Become a partner", Path: "/partner-application"},
	}
	navProvider = []NavItem{
		{Label: "Provider dashboard", Path: "/provider/dashboard"},
		{Label: "Add venue", Path: "/create-venue"},
		{Label: "Create event", Path: "/create-event"},
		{Label: "Profile", Path: "/profile"},
	}
	navAdmin = []NavItem{
		{Label: "Admin", Path: "/admin"},
		{Label: "Profile", Path: "/profile"},
	}
)

// Navigation lists the menu for the session's effective role. Entries the
// caller could not open anyway are dropped, so a user acting as provider is
// pointed at the partner application instead of partner-only pages.
func Navigation(s Session) []NavItem {
	out := append([]NavItem(nil), navPublic...)

	var extra []NavItem
	switch s.EffectiveRole() {
	case RoleGuest:
		extra = navGuest
	case RoleUser:
		extra = navBooker
	case RoleProvider:
		extra = navProvider
	case RoleAdmin:
		extra = navAdmin
	}
	needApply, hasApply := false, false
	for _, item := range extra {
		if s.Identity != nil {
			if d := Gate(s.Identity, item.Path); !d.Allowed {
				needApply = needApply || d.Redirect == RedirectPartnerApplication
				continue
			}
		}
		hasApply = hasApply || item.Path == RedirectPartnerApplication
		out = append(out, item)
	}
	if needApply && !hasApply {
		out = append(out, NavItem{Label: "Become a partner", Path: RedirectPartnerApplication})
	}
	return out
}
