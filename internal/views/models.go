package views

import (
	"github.com/angelmondragon/bottle-amigo/internal/amigos"
	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/internal/checkin"
	"github.com/angelmondragon/bottle-amigo/internal/customers"
	"github.com/angelmondragon/bottle-amigo/internal/dashboard"
	"github.com/angelmondragon/bottle-amigo/internal/notifications"
	"github.com/angelmondragon/bottle-amigo/internal/posts"
	"github.com/angelmondragon/bottle-amigo/internal/profile"
	"github.com/angelmondragon/bottle-amigo/internal/staff"
	"github.com/angelmondragon/bottle-amigo/internal/stores"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

// AuthForm re-renders a login or register form after a failed submit.
type AuthForm struct {
	Email    string
	Name     string
	Nickname string
	StoreID  string
}

type HomeView struct {
	Stores []stores.HomeCard
	Active *bff.ActiveCheckin
}

// ProfileView backs both profile-setup and profile pages.
type ProfileView struct {
	User     *bff.User
	Birthday string
	Month    int
	Day      int
	Notify   bff.NotificationSettings
	Months   []int
	Days     []int
	Setup    bool
}

// NewProfileView prefills the form. Both notifications default to on
// until the user saves a choice.
func NewProfileView(u *bff.User, setup bool) ProfileView {
	v := ProfileView{
		User:   u,
		Setup:  setup,
		Notify: bff.NotificationSettings{AmigoCheckinNotify: true, StorePostNotify: true},
		Months: seq(1, 12),
		Days:   seq(1, 31),
	}
	if u == nil {
		return v
	}
	v.Birthday = profile.Birthday(u.BirthdayMonth, u.BirthdayDay)
	if u.BirthdayMonth != nil && u.BirthdayDay != nil {
		v.Month, v.Day = *u.BirthdayMonth, *u.BirthdayDay
	}
	if u.NotificationSettings != nil {
		v.Notify = *u.NotificationSettings
	}
	return v
}

type UserProfileView struct {
	Profile  *bff.PublicProfile
	Birthday string
}

func NewUserProfileView(p *bff.PublicProfile) UserProfileView {
	v := UserProfileView{Profile: p}
	if p != nil {
		v.Birthday = profile.Birthday(p.BirthdayMonth, p.BirthdayDay)
	}
	return v
}

// BottleDetailView adds the controls the caller may use on a bottle.
type BottleDetailView struct {
	Detail   *bottles.Detail
	CanShare bool
}

// NewBottleDetailView allows sharing only for the owner's own bottle.
func NewBottleDetailView(d *bottles.Detail, userID string) BottleDetailView {
	v := BottleDetailView{Detail: d}
	if d != nil && userID != "" {
		owner := d.OwnerUserID
		if owner == "" {
			owner = d.Owner.ID
		}
		v.CanShare = owner == userID
	}
	return v
}

// ShareView is the share target picker for one bottle.
type ShareView struct {
	Bottle  bottles.Card
	Targets []bff.Amigo
}

// ScannerLinks are the endpoints the camera scanner script talks to.
type ScannerLinks struct {
	Acquire string
	Scan    string
}

type CheckinView struct {
	Scanner     ScannerLinks
	Input       string
	Resolution  *checkin.Resolution
	Candidates  []checkin.Candidate
	Active      *bff.ActiveCheckin
	AlreadyHere bool
}

// NewCheckinView disables the submit button when the caller is already
// checked in at the resolved store.
func NewCheckinView(input string, res *checkin.Resolution, active *bff.ActiveCheckin) CheckinView {
	v := CheckinView{
		Scanner:    ScannerLinks{Acquire: "/checkin/scanner", Scan: "/checkin/scan"},
		Input:      input,
		Resolution: res,
		Active:     active,
	}
	if res != nil {
		if res.Selection != nil {
			v.Candidates = res.Selection.Candidates()
		}
		v.AlreadyHere = checkin.CheckedInAt(active, res.Store.ID)
	}
	return v
}

// AmigoSection is one group of the amigo list.
type AmigoSection struct {
	Label     string
	Items     []bff.Amigo
	CanAccept bool
}

type AmigosView struct {
	Scanner   ScannerLinks
	StoreID   string
	StoreName string
	Sections  []AmigoSection
	QR        *QRCard
	Query     string
	Results   []bff.UserSummary

	// CheckinRequired replaces the page with a prompt to check in first.
	CheckinRequired bool
}

// NewAmigosView lists the non-empty groups in render order: received
// requests, sent requests, then active amigos.
func NewAmigosView(storeID string, g amigos.Groups) AmigosView {
	v := AmigosView{
		Scanner: ScannerLinks{Acquire: "/amigos/scanner", Scan: "/amigos/scan"},
		StoreID: storeID,
	}
	add := func(label string, items []bff.Amigo, canAccept bool) {
		if len(items) == 0 {
			return
		}
		v.Sections = append(v.Sections, AmigoSection{Label: label, Items: items, CanAccept: canAccept})
	}
	add(i18n.T(i18n.LabelAmigoPendingIn), g.PendingReceived, true)
	add(i18n.T(i18n.LabelAmigoPendingUp), g.PendingSent, false)
	add(i18n.T(i18n.LabelAmigoActive), g.Active, false)
	return v
}

type NotificationsView struct {
	Items       []notifications.Item
	UnreadCount int
}

func NewNotificationsView(feed *notifications.Feed) NotificationsView {
	if feed == nil {
		return NotificationsView{}
	}
	return NotificationsView{Items: feed.Items, UnreadCount: feed.UnreadCount}
}

type DashboardView struct {
	Snapshot    *dashboard.Snapshot
	FeedURL     string
	PollSeconds int
}

type CustomersView struct {
	Query     string
	Customers []bff.Customer
}

// CustomerView is the staff customer detail. Checkout is set right after a
// check-in was ended so the remaining pass can be entered.
type CustomerView struct {
	Detail   *customers.Detail
	Checkout *customers.Checkout
	IsMama   bool
}

// TypeOption is one entry of the post type select.
type TypeOption struct {
	Value    enums.PostType
	Label    string
	Selected bool
}

type PostsView struct {
	Posts   []posts.Line
	Types   []TypeOption
	Editing *posts.Line
}

// NewPostsView marks editing as the post being edited, if any.
func NewPostsView(lines []posts.Line, editingID string) PostsView {
	v := PostsView{Posts: lines}
	current := enums.PostTypeMessage
	for i := range lines {
		if lines[i].ID == editingID && editingID != "" {
			v.Editing = &lines[i]
			current = lines[i].Type
			break
		}
	}
	for _, t := range enums.PostTypes() {
		v.Types = append(v.Types, TypeOption{Value: t, Label: posts.TypeLabel(t), Selected: t == current})
	}
	return v
}

// Master tabs.
const (
	TabBottles  = "bottles"
	TabStaff    = "staff"
	TabSettings = "settings"
)

// MasterTab normalises the tab path parameter.
func MasterTab(raw string) string {
	switch raw {
	case TabStaff, TabSettings:
		return raw
	default:
		return TabBottles
	}
}

type RoleOption struct {
	Value enums.StaffRole
	Label string
}

type MasterView struct {
	Tab      string
	Masters  []bff.BottleMaster
	Accounts []staff.Account
	Settings *bff.StoreSettings
	StoreQR  string
	Roles    []RoleOption
}

func NewMasterView(tab string) MasterView {
	return MasterView{
		Tab: MasterTab(tab),
		Roles: []RoleOption{
			{Value: enums.StaffRoleBartender, Label: staff.RoleLabel(enums.StaffRoleBartender)},
			{Value: enums.StaffRoleMama, Label: staff.RoleLabel(enums.StaffRoleMama)},
		},
	}
}

// GiftBottle is a bottle offered as a gift target.
type GiftBottle struct {
	bff.StoreBottle
	Pct int
}

type GiftsView struct {
	Customers []bff.Customer
	Selected  string
	Summary   *bff.CustomerSummary
	Bottles   []GiftBottle
	Steps     []int
}

// NewGiftsView lists the selected customer's bottles with their current
// percentage. Steps are the quick-pick gift sizes.
func NewGiftsView(list []bff.Customer, selected string, summary *bff.CustomerSummary) GiftsView {
	v := GiftsView{Customers: list, Selected: selected, Summary: summary, Steps: []int{10, 25, 50, 100}}
	if summary != nil {
		for _, b := range summary.Bottles {
			v.Bottles = append(v.Bottles, GiftBottle{StoreBottle: b, Pct: bottles.PctOf(b.RemainingMl, b.CapacityMl)})
		}
	}
	return v
}

type KeepsView struct {
	Keeps []bottles.Keep
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
