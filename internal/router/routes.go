package router

import (
	"net/url"
	"strings"

	"github.com/angelmondragon/bottle-amigo/pkg/enums"
)

// Route is a resolved page plus its path parameters.
type Route struct {
	Portal enums.Portal
	Page   Page
	Params map[string]string
}

// Param returns a path parameter or "".
func (r Route) Param(name string) string {
	return r.Params[name]
}

type pattern struct {
	page     Page
	segments []string
}

func compile(page Page, path string) pattern {
	return pattern{page: page, segments: splitPath(path)}
}

var consumerRoutes = []pattern{
	compile(PageLogin, "/login"),
	compile(PageRegister, "/register"),
	compile(PageProfileSetup, "/profile-setup"),
	compile(PageHome, "/home"),
	compile(PageProfile, "/profile"),
	compile(PageBottles, "/bottles"),
	compile(PageBottleDetail, "/bottles/{id}"),
	compile(PageStoreDetail, "/stores/{id}"),
	compile(PageCheckin, "/checkin"),
	compile(PageUserProfile, "/users/{id}"),
	compile(PageAmigos, "/amigos"),
	compile(PageNotifications, "/notifications"),
	compile(PageShare, "/shares/{id}"),
}

var staffRoutes = []pattern{
	compile(PageLogin, "/login"),
	compile(PageDashboard, "/dashboard"),
	compile(PageCustomers, "/customers"),
	compile(PageCustomerDetail, "/customers/{id}"),
	compile(PagePosts, "/posts"),
	compile(PageMaster, "/master"),
	compile(PageMaster, "/master/{tab}"),
	compile(PageGifts, "/gifts"),
	compile(PageBottleKeeps, "/bottle-keeps"),
}

func routesFor(portal enums.Portal) []pattern {
	if portal == enums.PortalStaff {
		return staffRoutes
	}
	return consumerRoutes
}

// Resolve maps a request path to a route. Unknown paths fall back to the
// portal's default page rather than erroring. Staff paths may be passed with
// or without the /staff prefix.
func Resolve(portal enums.Portal, path string) Route {
	if portal == enums.PortalStaff {
		path = strings.TrimPrefix(path, StaffPrefix)
	}
	segments := splitPath(path)
	for _, p := range routesFor(portal) {
		if params, ok := p.match(segments); ok {
			return Route{Portal: portal, Page: p.page, Params: params}
		}
	}
	return Route{Portal: portal, Page: DefaultPage(portal), Params: map[string]string{}}
}

// Path builds the URL of a page. Missing parameters select the shorter
// pattern, so Path(staff, master, nil) yields /staff/master.
func Path(portal enums.Portal, page Page, params map[string]string) string {
	var best *pattern
	for i := range routesFor(portal) {
		p := &routesFor(portal)[i]
		if p.page != page || !p.satisfiedBy(params) {
			continue
		}
		if best == nil || len(p.segments) > len(best.segments) {
			best = p
		}
	}
	prefix := ""
	if portal == enums.PortalStaff {
		prefix = StaffPrefix
	}
	if best == nil {
		return prefix + "/" + string(DefaultPage(portal))
	}
	parts := make([]string, 0, len(best.segments))
	for _, seg := range best.segments {
		if name, ok := paramName(seg); ok {
			parts = append(parts, url.PathEscape(params[name]))
			continue
		}
		parts = append(parts, seg)
	}
	return prefix + "/" + strings.Join(parts, "/")
}

// PagePath is Path for pages without parameters.
func PagePath(portal enums.Portal, page Page) string {
	return Path(portal, page, nil)
}

func (p pattern) match(segments []string) (map[string]string, bool) {
	if len(segments) != len(p.segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range p.segments {
		if name, ok := paramName(seg); ok {
			value, err := url.PathUnescape(segments[i])
			if err != nil || value == "" {
				return nil, false
			}
			params[name] = value
			continue
		}
		if seg != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func (p pattern) satisfiedBy(params map[string]string) bool {
	for _, seg := range p.segments {
		if name, ok := paramName(seg); ok && params[name] == "" {
			return false
		}
	}
	return true
}

func paramName(seg string) (string, bool) {
	if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}

func splitPath(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	raw := strings.Split(path, "/")
	out := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
