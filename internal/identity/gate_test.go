package identity

import "testing"

func TestGate_UnauthenticatedRedirectsToLogin(t *testing.T) {
	d := Gate(nil, "/create-event")
	if d.Allowed || d.Redirect != RedirectLogin {
		t.Fatalf("expected login redirect, got %+v", d)
	}
	d = Gate(nil, "/book/1")
	if d.Allowed || d.Redirect != RedirectLogin {
		t.Fatalf("expected login redirect for booking page, got %+v", d)
	}
}

func TestGate_UserOnPartnerRouteRedirectsToApplication(t *testing.T) {
	user := &Identity{ID: "2", Role: RoleUser}
	for _, dest := range []string{"/create-event", "/create-venue/", "/provider/dashboard?tab=x"} {
		d := Gate(user, dest)
		if d.Allowed {
			t.Fatalf("%s: expected denied", dest)
		}
		if d.Redirect != RedirectPartnerApplication {
			t.Fatalf("%s: expected partner application redirect, got %q", dest, d.Redirect)
		}
	}
}

func TestGate_AdminOnlyRedirectsHome(t *testing.T) {
	provider := &Identity{ID: "4", Role: RoleProvider}
	d := Gate(provider, "/admin")
	if d.Allowed || d.Redirect != RedirectHome {
		t.Fatalf("expected home redirect, got %+v", d)
	}
	if !Gate(&Identity{ID: "1", Role: RoleAdmin}, "/admin").Allowed {
		t.Fatalf("expected admin allowed")
	}
}

func TestGate_PublicDestinations(t *testing.T) {
	for _, dest := range []string{"/", "/events", "/event/1", "/venues", "", "/book"} {
		if !Gate(nil, dest).Allowed {
			t.Fatalf("%q: expected public", dest)
		}
	}
}

func TestNavigation_UserActingAsProviderGetsApplyLink(t *testing.T) {
	s := Session{Identity: &Identity{ID: "2", Role: RoleUser}, Selected: SelectedProvider}
	items := Navigation(s)

	var sawApply bool
	for _, it := range items {
		if it.Path == "/create-event" || it.Path == "/provider/dashboard" {
			t.Fatalf("partner-only entry leaked: %+v", it)
		}
		if it.Path == RedirectPartnerApplication {
			sawApply = true
		}
	}
	if !sawApply {
		t.Fatalf("expected partner application entry, got %+v", items)
	}
}

func TestNavigation_Guest(t *testing.T) {
	items := Navigation(Session{})
	last := items[len(items)-1]
	if last.Path != "/register" {
		t.Fatalf("expected guest menu to end with register, got %+v", items)
	}
}
