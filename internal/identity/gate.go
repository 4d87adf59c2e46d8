package identity

import "strings"

const (
	RedirectLogin              = "/login"
	RedirectPartnerApplication = "/partner-application"
	RedirectHome               = "/"
)

type Decision struct {
	Destination string `json:"destination"`
	Allowed     bool   `json:"allowed"`
	Redirect    string `json:"redirect,omitempty"`
}

type protectedRoute struct {
	prefix   string
	exact    bool
	required Capability
}

// Longest prefixes first so /provider/dashboard wins over anything shorter.
var protectedRoutes = []protectedRoute{
	{prefix: "/provider/add-venue", exact: true, required: CapPartnerApproved},
	{prefix: "/provider/dashboard", exact: true, required: CapPartnerApproved},
	{prefix: "/create-event", exact: true, required: CapPartnerApproved},
	{prefix: "/create-venue", exact: true, required: CapPartnerApproved},
	{prefix: "/my-bookings", exact: true, required: CapAnyAuthenticated},
	{prefix: "/dashboard", exact: true, required: CapAnyAuthenticated},
	{prefix: "/checkout", exact: true, required: CapAnyAuthenticated},
	{prefix: "/profile", exact: true, required: CapAnyAuthenticated},
	{prefix: "/admin", exact: true, required: CapReviewBookings},
	{prefix: "/book/", required: CapAnyAuthenticated},
}

// RequiredCapability returns the capability guarding destination, or false
// when the destination is public.
func RequiredCapability(destination string) (Capability, bool) {
	d := normalizePath(destination)
	for _, r := range protectedRoutes {
		if r.exact && d == r.prefix {
			return r.required, true
		}
		if !r.exact && strings.HasPrefix(d, r.prefix) && len(d) > len(r.prefix) {
			return r.required, true
		}
	}
	return "", false
}

// Gate decides whether the caller may open destination and where to send them
// when not: the login prompt when signed out, the partner application when a
// partner-only page is requested without partner approval, home otherwise.
func Gate(id *Identity, destination string) Decision {
	d := normalizePath(destination)
	required, ok := RequiredCapability(d)
	if !ok || Authorize(id, required) {
		return Decision{Destination: d, Allowed: true}
	}
	switch {
	case id == nil:
		return Decision{Destination: d, Redirect: RedirectLogin}
	case required == CapPartnerApproved:
		return Decision{Destination: d, Redirect: RedirectPartnerApplication}
	default:
		return Decision{Destination: d, Redirect: RedirectHome}
	}
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
