package bff

import (
	"encoding/json"

	"github.com/angelmondragon/bottle-amigo/pkg/enums"
)

// auth

type User struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	Email                string                `json:"email"`
	Nickname             string                `json:"nickname,omitempty"`
	AvatarBase64         string                `json:"avatarBase64,omitempty"`
	BirthdayMonth        *int                  `json:"birthdayMonth,omitempty"`
	BirthdayDay          *int                  `json:"birthdayDay,omitempty"`
	BirthdayPublic       Flag                  `json:"birthdayPublic"`
	Bio                  string                `json:"bio,omitempty"`
	NotificationSettings *NotificationSettings `json:"notificationSettings,omitempty"`
}

// DisplayName prefers the nickname the way every BFF listing does.
func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}

type NotificationSettings struct {
	AmigoCheckinNotify Flag `json:"amigoCheckinNotify"`
	StorePostNotify    Flag `json:"storePostNotify"`
}

type Staff struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Role    enums.StaffRole `json:"role"`
	StoreID string          `json:"storeId"`
}

type UserAuth struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type StaffAuth struct {
	Token string `json:"token"`
	Staff Staff  `json:"staff"`
}

type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname,omitempty"`
}

type StaffLoginRequest struct {
	StoreID string `json:"storeId"`
	PIN     string `json:"pin"`
}

// consumer

type AmigoBadge struct {
	Name         string `json:"name"`
	AvatarBase64 string `json:"avatarBase64,omitempty"`
}

type HomeStore struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	LogoBase64      string       `json:"logoBase64,omitempty"`
	BottleCount     int          `json:"bottleCount"`
	ActiveAmigos    []AmigoBadge `json:"activeAmigos"`
	UserCheckedIn   bool         `json:"userCheckedIn"`
	LastCheckinDate Time         `json:"lastCheckinDate"`
}

// Bottle is a kept bottle as the consumer endpoints return it.
type Bottle struct {
	ID                  string `json:"id"`
	StoreID             string `json:"storeId"`
	StoreName           string `json:"storeName,omitempty"`
	OwnerUserID         string `json:"ownerUserId"`
	BottleType          string `json:"bottleType"`
	RemainingPercentage int    `json:"remainingPercentage"`
	CapacityMl          int    `json:"capacityMl"`
	RemainingMl         int    `json:"remainingMl"`
	CreatedAt           Time   `json:"created_at"`
	UpdatedAt           Time   `json:"updated_at"`
	ShareID             string `json:"share_id,omitempty"`
	SharedByUserName    string `json:"sharedByUserName,omitempty"`
}

// Shared reports whether the bottle was shared to the caller by someone else.
func (b Bottle) Shared() bool {
	return b.ShareID != ""
}

type Ref struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type BottleShareRef struct {
	ID             string `json:"id"`
	SharedToUserID string `json:"shared_to_user_id"`
	User           Ref    `json:"user"`
}

type BottleDetail struct {
	Bottle
	Owner            Ref              `json:"owner"`
	Store            Ref              `json:"store"`
	Shares           []BottleShareRef `json:"shares"`
	IsSharedToOthers bool             `json:"isSharedToOthers"`
}

type ShiftMember struct {
	Name string `json:"name"`
}

type StorePost struct {
	ID        string         `json:"id"`
	Type      enums.PostType `json:"type"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	CreatedAt Time           `json:"createdAt"`
}

type StoreAmigo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AvatarBase64 string `json:"avatarBase64,omitempty"`
	IsCheckedIn  bool   `json:"isCheckedIn"`
}

type Store struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Address         string        `json:"address,omitempty"`
	Lat             *float64      `json:"lat,omitempty"`
	Lng             *float64      `json:"lng,omitempty"`
	LogoBase64      string        `json:"logoBase64,omitempty"`
	TodayShift      []ShiftMember `json:"todayShift"`
	MessageOfTheDay string        `json:"messageOfTheDay"`
	RecentPosts     []StorePost   `json:"recentPosts"`
	Amigos          []StoreAmigo  `json:"amigos"`
	MyBottles       []Bottle      `json:"myBottles"`
	LastCheckinDate Time          `json:"lastCheckinDate"`
}

type CheckinRequest struct {
	StoreID         string   `json:"storeId"`
	NotifyToUserIDs []string `json:"notifyToUserIds"`
}

type Checkin struct {
	ID              string              `json:"id"`
	StoreID         string              `json:"store_id"`
	UserID          string              `json:"user_id"`
	NotifyToUserIDs []string            `json:"notify_to_user_ids"`
	Status          enums.CheckinStatus `json:"status"`
	CreatedAt       Time                `json:"created_at"`
	User            Ref                 `json:"user"`
}

type ActiveCheckin struct {
	ID        string `json:"id"`
	StoreID   string `json:"storeId"`
	StoreName string `json:"storeName"`
	CreatedAt Time   `json:"createdAt"`
}

type Amigo struct {
	ID              string            `json:"id"`
	StoreID         string            `json:"store_id"`
	StoreName       string            `json:"storeName"`
	RequesterUserID string            `json:"requester_user_id"`
	TargetUserID    string            `json:"target_user_id"`
	Status          enums.AmigoStatus `json:"status"`
	CreatedAt       Time              `json:"created_at"`
	AcceptedAt      Time              `json:"accepted_at"`
	UserID          string            `json:"userId"`
	Name            string            `json:"name"`
	AvatarBase64    string            `json:"avatarBase64,omitempty"`
	CanAccept       bool              `json:"canAccept"`
}

type AmigoRequest struct {
	TargetUserID string `json:"targetUserId"`
	StoreID      string `json:"storeId,omitempty"`
}

type MyQR struct {
	Token        string `json:"token"`
	Name         string `json:"name"`
	AvatarBase64 string `json:"avatarBase64,omitempty"`
	StoreName    string `json:"storeName"`
}

type ScanResult struct {
	Success      bool   `json:"success"`
	AmigoID      string `json:"amigoId"`
	Name         string `json:"name"`
	AvatarBase64 string `json:"avatarBase64,omitempty"`
	StoreName    string `json:"storeName"`
}

type UserSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AvatarBase64 string `json:"avatarBase64,omitempty"`
}

type PublicProfile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AvatarBase64  string `json:"avatarBase64,omitempty"`
	Bio           string `json:"bio"`
	SharedStores  []Ref  `json:"sharedStores"`
	BirthdayMonth *int   `json:"birthdayMonth,omitempty"`
	BirthdayDay   *int   `json:"birthdayDay,omitempty"`
}

type ProfileUpdate struct {
	Nickname             *string               `json:"nickname,omitempty"`
	AvatarBase64         *string               `json:"avatarBase64,omitempty"`
	BirthdayMonth        *int                  `json:"birthdayMonth,omitempty"`
	BirthdayDay          *int                  `json:"birthdayDay,omitempty"`
	BirthdayPublic       *Flag                 `json:"birthdayPublic,omitempty"`
	Bio                  *string               `json:"bio,omitempty"`
	NotificationSettings *NotificationSettings `json:"notificationSettings,omitempty"`
}

type ShareRequest struct {
	BottleID       string `json:"bottleId"`
	SharedToUserID string `json:"sharedToUserId"`
}

type Share struct {
	ID             string `json:"id"`
	BottleID       string `json:"bottle_id"`
	SharedToUserID string `json:"shared_to_user_id"`
	Active         Flag   `json:"active"`
	CreatedAt      Time   `json:"created_at"`
	EndedAt        Time   `json:"ended_at"`
}

type Notification struct {
	ID        string                 `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Data      map[string]any         `json:"data"`
	Message   string                 `json:"message,omitempty"`
	CreatedAt Time                   `json:"createdAt"`
	ReadAt    *Time                  `json:"readAt"`
}

// Unread reports whether the server had not marked the entry read.
func (n Notification) Unread() bool {
	return n.ReadAt == nil || n.ReadAt.IsZero()
}

// store

// StoreBottle is a bottle as the staff endpoints return it. Those endpoints
// are inconsistent about snake and camel case for a few fields.
type StoreBottle struct {
	ID           string `json:"id"`
	StoreID      string `json:"storeId,omitempty"`
	OwnerUserID  string `json:"ownerUserId,omitempty"`
	Type         string `json:"type"`
	CapacityMl   int    `json:"capacityMl"`
	RemainingMl  int    `json:"remainingMl"`
	RemainingPct int    `json:"remainingPct"`
	CreatedAt    Time   `json:"createdAt"`
	UpdatedAt    Time   `json:"updatedAt"`
}

func (b *StoreBottle) UnmarshalJSON(data []byte) error {
	type plain StoreBottle
	var wire struct {
		plain
		StoreIDSnake      string `json:"store_id"`
		OwnerUserIDSnake  string `json:"owner_user_id"`
		RemainingPctSnake *int   `json:"remaining_pct"`
		CreatedAtSnake    Time   `json:"created_at"`
		UpdatedAtSnake    Time   `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*b = StoreBottle(wire.plain)
	if b.StoreID == "" {
		b.StoreID = wire.StoreIDSnake
	}
	if b.OwnerUserID == "" {
		b.OwnerUserID = wire.OwnerUserIDSnake
	}
	if b.RemainingPct == 0 && wire.RemainingPctSnake != nil {
		b.RemainingPct = *wire.RemainingPctSnake
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = wire.CreatedAtSnake
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = wire.UpdatedAtSnake
	}
	return nil
}

// HistoryEntry is one append-only consumption record.
type HistoryEntry struct {
	ID          string                 `json:"id"`
	PreviousMl  int                    `json:"previousMl"`
	NewMl       int                    `json:"newMl"`
	PreviousPct int                    `json:"previousPct"`
	NewPct      int                    `json:"newPct"`
	ChangeType  enums.BottleChangeType `json:"changeType"`
	StaffName   string                 `json:"staffName"`
	CreatedAt   Time                   `json:"createdAt"`
}

func (h *HistoryEntry) UnmarshalJSON(data []byte) error {
	type plain HistoryEntry
	var wire struct {
		plain
		PreviousMlSnake  *int                   `json:"previous_ml"`
		NewMlSnake       *int                   `json:"new_ml"`
		PreviousPctSnake *int                   `json:"previous_pct"`
		NewPctSnake      *int                   `json:"new_pct"`
		ChangeTypeSnake  enums.BottleChangeType `json:"change_type"`
		StaffNameSnake   string                 `json:"staff_name"`
		CreatedAtSnake   Time                   `json:"created_at"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*h = HistoryEntry(wire.plain)
	if wire.PreviousMlSnake != nil {
		h.PreviousMl = *wire.PreviousMlSnake
	}
	if wire.NewMlSnake != nil {
		h.NewMl = *wire.NewMlSnake
	}
	if wire.PreviousPctSnake != nil {
		h.PreviousPct = *wire.PreviousPctSnake
	}
	if wire.NewPctSnake != nil {
		h.NewPct = *wire.NewPctSnake
	}
	if h.ChangeType == "" {
		h.ChangeType = wire.ChangeTypeSnake
	}
	if h.StaffName == "" {
		h.StaffName = wire.StaffNameSnake
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = wire.CreatedAtSnake
	}
	return nil
}

type DashboardCheckin struct {
	ID                  string              `json:"id"`
	UserID              string              `json:"userId"`
	UserName            string              `json:"userName"`
	UserAvatar          string              `json:"userAvatar,omitempty"`
	CheckinTime         Time                `json:"checkinTime"`
	PreviousCheckinDate Time                `json:"previousCheckinDate"`
	Status              enums.CheckinStatus `json:"status"`
	Bottles             []StoreBottle       `json:"bottles"`
}

type MemoSummary struct {
	Body      string `json:"body"`
	StaffName string `json:"staffName"`
	CreatedAt Time   `json:"createdAt"`
}

type Customer struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Nickname        string       `json:"nickname,omitempty"`
	AvatarBase64    string       `json:"avatarBase64,omitempty"`
	BirthdayMonth   *int         `json:"birthdayMonth,omitempty"`
	BirthdayDay     *int         `json:"birthdayDay,omitempty"`
	BirthdayPublic  Flag         `json:"birthdayPublic"`
	BottleCount     int          `json:"bottleCount"`
	LastCheckinDate Time         `json:"lastCheckinDate"`
	IsCheckedIn     bool         `json:"isCheckedIn"`
	LatestMemo      *MemoSummary `json:"latestMemo,omitempty"`
}

func (c Customer) DisplayName() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	return c.Name
}

type CustomerShare struct {
	ID               string `json:"id"`
	BottleID         string `json:"bottleId"`
	BottleType       string `json:"bottleType,omitempty"`
	Type             string `json:"type,omitempty"`
	SharedToID       string `json:"sharedToId"`
	SharedToName     string `json:"sharedToName"`
	SharedToNickname string `json:"sharedToNickname,omitempty"`
	Active           Flag   `json:"active"`
	CreatedAt        Time   `json:"created_at"`
	EndedAt          Time   `json:"ended_at"`
}

type Memo struct {
	ID            string `json:"id"`
	Body          string `json:"body"`
	AuthorStaffID string `json:"authorStaffId"`
	StaffName     string `json:"staffName"`
	CreatedAt     Time   `json:"created_at"`
}

type CheckinRecord struct {
	ID          string              `json:"id"`
	CheckinTime Time                `json:"checkinTime"`
	Status      enums.CheckinStatus `json:"status"`
	EndedAt     Time                `json:"endedAt"`
}

type CustomerAmigo struct {
	ID            string            `json:"id"`
	OtherUserID   string            `json:"otherUserId"`
	OtherUserName string            `json:"otherUserName"`
	Status        enums.AmigoStatus `json:"status"`
	CreatedAt     Time              `json:"createdAt"`
	AcceptedAt    Time              `json:"acceptedAt"`
}

type CustomerDetail struct {
	ID              string                    `json:"id"`
	Name            string                    `json:"name"`
	Nickname        string                    `json:"nickname,omitempty"`
	AvatarBase64    string                    `json:"avatar_base64,omitempty"`
	Email           string                    `json:"email"`
	BirthdayMonth   *int                      `json:"birthdayMonth,omitempty"`
	BirthdayDay     *int                      `json:"birthdayDay,omitempty"`
	BirthdayPublic  Flag                      `json:"birthdayPublic"`
	Bio             string                    `json:"bio,omitempty"`
	Bottles         []StoreBottle             `json:"bottles"`
	Shares          []CustomerShare           `json:"shares"`
	Memos           []Memo                    `json:"memos"`
	RecentCheckins  []CheckinRecord           `json:"recentCheckins"`
	IsCheckedIn     bool                      `json:"isCheckedIn"`
	ShareHistory    []CustomerShare           `json:"shareHistory"`
	BottleHistories map[string][]HistoryEntry `json:"bottleHistories"`
	Amigos          []CustomerAmigo           `json:"amigos"`
}

func (c CustomerDetail) DisplayName() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	return c.Name
}

type SummaryShare struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	SharedToName string `json:"shared_to_name"`
}

type CustomerSummary struct {
	User         Ref            `json:"user"`
	Bottles      []StoreBottle  `json:"bottles"`
	ActiveShares []SummaryShare `json:"activeShares"`
	RecentMemos  []Memo         `json:"recentMemos"`
}

type MemoRequest struct {
	StoreID string `json:"storeId"`
	UserID  string `json:"userId"`
	Body    string `json:"body"`
}

type StaffCheckinRequest struct {
	StoreID string `json:"storeId"`
	UserID  string `json:"userId"`
}

type StaffCheckin struct {
	ID       string              `json:"id"`
	UserID   string              `json:"userId"`
	UserName string              `json:"userName"`
	Status   enums.CheckinStatus `json:"status"`
}

type EndedCheckin struct {
	ID      string              `json:"id"`
	UserID  string              `json:"userId"`
	Status  enums.CheckinStatus `json:"status"`
	EndedAt Time                `json:"ended_at"`
	Bottles []StoreBottle       `json:"bottles"`
}

// RemainingUpdate sets the remaining volume in ml; the server clamps.
type RemainingUpdate struct {
	StoreID     string `json:"storeId"`
	RemainingMl int    `json:"remainingMl"`
}

type NewBottleRequest struct {
	StoreID     string `json:"storeId"`
	OwnerUserID string `json:"ownerUserId"`
	Type        string `json:"type"`
	CapacityMl  int    `json:"capacityMl,omitempty"`
	RemainingMl *int   `json:"remainingMl,omitempty"`
}

type GiftRequest struct {
	StoreID      string `json:"storeId"`
	TargetUserID string `json:"targetUserId"`
	BottleID     string `json:"bottleId"`
	AddPct       int    `json:"addPct"`
	Reason       string `json:"reason"`
}

type Gift struct {
	ID           string `json:"id"`
	StoreID      string `json:"store_id"`
	TargetUserID string `json:"target_user_id"`
	BottleID     string `json:"bottle_id"`
	AddPct       int    `json:"add_pct"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	AppliedAt    Time   `json:"applied_at"`
}

type Post struct {
	ID        string         `json:"id"`
	StoreID   string         `json:"store_id,omitempty"`
	Type      enums.PostType `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	CreatedAt Time           `json:"created_at"`
}

type PostRequest struct {
	StoreID string         `json:"storeId"`
	Type    enums.PostType `json:"type"`
	Title   string         `json:"title,omitempty"`
	Body    string         `json:"body"`
}

type BottleMaster struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	Variety     string `json:"variety,omitempty"`
	CapacityMl  int    `json:"capacityMl"`
	ImageBase64 string `json:"imageBase64,omitempty"`
	CreatedAt   Time   `json:"createdAt"`
}

type BottleMasterRequest struct {
	StoreID     string `json:"storeId"`
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	Variety     string `json:"variety,omitempty"`
	CapacityMl  int    `json:"capacityMl"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

type KeepShare struct {
	ID           string `json:"id"`
	Active       Flag   `json:"active"`
	SharedToID   string `json:"sharedToId"`
	SharedToName string `json:"sharedToName"`
	CreatedAt    Time   `json:"createdAt"`
	EndedAt      Time   `json:"endedAt"`
}

type BottleKeep struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	CapacityMl   int            `json:"capacityMl"`
	RemainingMl  int            `json:"remainingMl"`
	RemainingPct int            `json:"remainingPct"`
	CreatedAt    Time           `json:"createdAt"`
	OwnerID      string         `json:"ownerId"`
	OwnerName    string         `json:"ownerName"`
	OwnerAvatar  string         `json:"ownerAvatar,omitempty"`
	ActiveShares []KeepShare    `json:"activeShares"`
	ShareHistory []KeepShare    `json:"shareHistory"`
	Consumption  []HistoryEntry `json:"consumption"`
}

type StaffAccount struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Role        enums.StaffRole `json:"role"`
	PIN         string          `json:"pin,omitempty"`
	LastLoginAt Time            `json:"lastLoginAt"`
	IsActive    Flag            `json:"isActive"`
}

type StaffAccountRequest struct {
	StoreID string          `json:"storeId"`
	Name    string          `json:"name,omitempty"`
	Role    enums.StaffRole `json:"role,omitempty"`
	PIN     string          `json:"pin,omitempty"`
}

type StoreSettings struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	LogoBase64 string   `json:"logoBase64,omitempty"`
}

type SettingsUpdate struct {
	StoreID    string  `json:"storeId"`
	Address    *string `json:"address,omitempty"`
	LogoBase64 *string `json:"logoBase64,omitempty"`
}

type storeScoped struct {
	StoreID string `json:"storeId"`
}
