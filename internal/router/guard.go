package router

import (
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
)

// Decision is the outcome of a route guard. Redirect is empty when the
// page may render.
type Decision struct {
	Redirect string
}

func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Guard applies the access rules: every page except login and register
// needs a session for the route's portal, and mama-only staff pages send
// other roles to the dashboard. A signed-in user hitting login is sent to
// the default page.
func Guard(route Route, s *session.Session) Decision {
	if s != nil && s.Portal != route.Portal {
		s = nil
	}
	if IsPublic(route.Page) {
		if s != nil {
			return Decision{Redirect: PagePath(route.Portal, DefaultPage(route.Portal))}
		}
		return Decision{}
	}
	if s == nil {
		return Decision{Redirect: PagePath(route.Portal, PageLogin)}
	}
	if route.Portal == enums.PortalStaff && MamaOnly(route.Page) && !s.IsMama() {
		return Decision{Redirect: PagePath(enums.PortalStaff, PageDashboard)}
	}
	return Decision{}
}
