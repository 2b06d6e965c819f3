package router

import "github.com/angelmondragon/bottle-amigo/pkg/enums"

// Page names a screen in one of the portals.
type Page string

const (
	PageLogin    Page = "login"
	PageRegister Page = "register"

	PageProfileSetup  Page = "profile-setup"
	PageHome          Page = "home"
	PageProfile       Page = "profile"
	PageBottles       Page = "bottles"
	PageBottleDetail  Page = "bottle-detail"
	PageStoreDetail   Page = "store-detail"
	PageCheckin       Page = "checkin"
	PageUserProfile   Page = "user-profile"
	PageAmigos        Page = "amigos"
	PageNotifications Page = "notifications"
	PageShare         Page = "share"

	PageDashboard      Page = "dashboard"
	PageCustomers      Page = "customers"
	PageCustomerDetail Page = "customer-detail"
	PagePosts          Page = "posts"
	PageMaster         Page = "master"
	PageGifts          Page = "gifts"
	PageBottleKeeps    Page = "bottle-keeps"
)

// StaffPrefix is where the staff portal is mounted.
const StaffPrefix = "/staff"

// DefaultPage is where unknown paths and post-login redirects land.
func DefaultPage(portal enums.Portal) Page {
	if portal == enums.PortalStaff {
		return PageDashboard
	}
	return PageHome
}

// IsPublic reports whether the page is reachable without a session.
func IsPublic(page Page) bool {
	return page == PageLogin || page == PageRegister
}

// MamaOnly reports whether the staff page requires the mama role.
func MamaOnly(page Page) bool {
	return page == PageMaster || page == PageGifts
}
