package views

import (
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
)

// Layout is the chrome shared by every page.
type Layout struct {
	Title   string
	Portal  enums.Portal
	Page    router.Page
	Session *session.Session
	Toasts  []Toast
	Nav     []NavItem
}

type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// Document is what a page template executes against.
type Document struct {
	Layout
	Data any
}

type navEntry struct {
	page  router.Page
	label string
	mama  bool
}

var consumerNav = []navEntry{
	{page: router.PageHome, label: "ホーム"},
	{page: router.PageBottles, label: "ボトル"},
	{page: router.PageCheckin, label: "チェックイン"},
	{page: router.PageAmigos, label: "Amigo"},
	{page: router.PageNotifications, label: "通知"},
	{page: router.PageProfile, label: "プロフィール"},
}

var staffNav = []navEntry{
	{page: router.PageDashboard, label: "ダッシュボード"},
	{page: router.PageCustomers, label: "顧客"},
	{page: router.PageBottleKeeps, label: "ボトルキープ"},
	{page: router.PagePosts, label: "投稿"},
	{page: router.PageGifts, label: "プレゼント", mama: true},
	{page: router.PageMaster, label: "マスタ", mama: true},
}

// NavFor lists the navigation links a session may follow. Signed-out
// visitors get none and mama-only pages are hidden from other roles.
func NavFor(portal enums.Portal, s *session.Session, current router.Page) []NavItem {
	if s == nil || s.Portal != portal {
		return nil
	}
	entries := consumerNav
	if portal == enums.PortalStaff {
		entries = staffNav
	}
	out := make([]NavItem, 0, len(entries))
	for _, e := range entries {
		if e.mama && !s.IsMama() {
			continue
		}
		out = append(out, NavItem{
			Label:  e.label,
			Href:   router.PagePath(portal, e.page),
			Active: e.page == current,
		})
	}
	return out
}
