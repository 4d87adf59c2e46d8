package identity

type Capability string

const (
	CapAnyAuthenticated Capability = "any-authenticated"
	CapPartnerApproved  Capability = "partner-approved"
	CapReviewBookings   Capability = "review-bookings"
)

var capabilities = map[Role]map[Capability]bool{
	RoleGuest:    {},
	RoleUser:     {CapAnyAuthenticated: true},
	RoleProvider: {CapAnyAuthenticated: true, CapPartnerApproved: true},
	RoleAdmin:    {CapAnyAuthenticated: true, CapPartnerApproved: true, CapReviewBookings: true},
}

// Authorize reports whether id holds capability c. It always uses the stored
// role; the selected acting role is ignored.
func Authorize(id *Identity, c Capability) bool {
	if id == nil {
		return false
	}
	return capabilities[id.Role][c]
}

func Capabilities(r Role) []Capability {
	var out []Capability
	for _, c := range []Capability{CapAnyAuthenticated, CapPartnerApproved, CapReviewBookings} {
		if capabilities[r][c] {
			out = append(out, c)
		}
	}
	return out
}
