package bff

import (
	"context"
	"net/url"
)

func storeQuery(path, storeID string) string {
	return path + "?" + url.Values{"storeId": {storeID}}.Encode()
}

func (c *Client) ActiveStoreCheckins(ctx context.Context, storeID string) ([]DashboardCheckin, error) {
	var out struct {
		Checkins []DashboardCheckin `json:"checkins"`
	}
	if err := c.get(ctx, storeQuery("/store/checkins/active", storeID), &out); err != nil {
		return nil, err
	}
	return out.Checkins, nil
}

// CreateStoreCheckin checks a customer in on their behalf. A 409 means the
// customer is already checked in.
func (c *Client) CreateStoreCheckin(ctx context.Context, req StaffCheckinRequest) (*StaffCheckin, error) {
	var out StaffCheckin
	if err := c.post(ctx, "/store/checkins/create", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndStoreCheckin ends a check-in and returns the customer's bottles for the
// post-checkout remaining-volume pass.
func (c *Client) EndStoreCheckin(ctx context.Context, checkinID string) (*EndedCheckin, error) {
	var out EndedCheckin
	if err := c.post(ctx, "/store/checkins/"+url.PathEscape(checkinID)+"/end", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Customers(ctx context.Context, storeID string) ([]Customer, error) {
	var out []Customer
	if err := c.get(ctx, storeQuery("/store/customers", storeID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CustomerDetail(ctx context.Context, storeID, userID string) (*CustomerDetail, error) {
	var out CustomerDetail
	if err := c.get(ctx, storeQuery("/store/customers/"+url.PathEscape(userID)+"/detail", storeID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CustomerSummary(ctx context.Context, storeID, userID string) (*CustomerSummary, error) {
	var out CustomerSummary
	if err := c.get(ctx, storeQuery("/store/customers/"+url.PathEscape(userID)+"/summary", storeID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateMemo(ctx context.Context, req MemoRequest) (*Memo, error) {
	var out Memo
	if err := c.post(ctx, "/store/memos", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRemaining(ctx context.Context, bottleID string, req RemainingUpdate) (*StoreBottle, error) {
	var out StoreBottle
	if err := c.post(ctx, "/store/bottles/"+url.PathEscape(bottleID)+"/updateRemainingPct", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RefillToFull(ctx context.Context, storeID, bottleID string) (*StoreBottle, error) {
	var out StoreBottle
	if err := c.post(ctx, "/store/bottles/"+url.PathEscape(bottleID)+"/refillToFull", storeScoped{StoreID: storeID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddBottle(ctx context.Context, req NewBottleRequest) (*StoreBottle, error) {
	var out StoreBottle
	if err := c.post(ctx, "/store/bottles/addNew", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateGift(ctx context.Context, req GiftRequest) (*Gift, error) {
	var out Gift
	if err := c.post(ctx, "/store/gifts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BottleKeeps(ctx context.Context, storeID string) ([]BottleKeep, error) {
	var out struct {
		Bottles []BottleKeep `json:"bottles"`
	}
	if err := c.get(ctx, storeQuery("/store/bottle-keeps", storeID), &out); err != nil {
		return nil, err
	}
	return out.Bottles, nil
}

func (c *Client) Posts(ctx context.Context, storeID string) ([]Post, error) {
	var out struct {
		Posts []Post `json:"posts"`
	}
	if err := c.get(ctx, storeQuery("/store/posts", storeID), &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

func (c *Client) CreatePost(ctx context.Context, req PostRequest) (*Post, error) {
	var out Post
	if err := c.post(ctx, "/store/posts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePost(ctx context.Context, postID string, req PostRequest) (*Post, error) {
	var out Post
	if err := c.post(ctx, "/store/posts/"+url.PathEscape(postID)+"/update", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, storeID, postID string) error {
	return c.post(ctx, "/store/posts/"+url.PathEscape(postID)+"/delete", storeScoped{StoreID: storeID}, nil)
}

func (c *Client) BottleMasters(ctx context.Context, storeID string) ([]BottleMaster, error) {
	var out struct {
		Masters []BottleMaster `json:"masters"`
	}
	if err := c.get(ctx, storeQuery("/store/bottle-masters", storeID), &out); err != nil {
		return nil, err
	}
	return out.Masters, nil
}

func (c *Client) CreateBottleMaster(ctx context.Context, req BottleMasterRequest) (*BottleMaster, error) {
	var out BottleMaster
	if err := c.post(ctx, "/store/bottle-masters", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBottleMaster(ctx context.Context, masterID string, req BottleMasterRequest) (*BottleMaster, error) {
	var out BottleMaster
	if err := c.post(ctx, "/store/bottle-masters/"+url.PathEscape(masterID)+"/update", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBottleMaster(ctx context.Context, storeID, masterID string) error {
	return c.post(ctx, "/store/bottle-masters/"+url.PathEscape(masterID)+"/delete", storeScoped{StoreID: storeID}, nil)
}

func (c *Client) StoreSettings(ctx context.Context, storeID string) (*StoreSettings, error) {
	var out StoreSettings
	if err := c.get(ctx, storeQuery("/store/settings", storeID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStoreSettings(ctx context.Context, req SettingsUpdate) (*StoreSettings, error) {
	var out StoreSettings
	if err := c.post(ctx, "/store/settings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StaffAccounts(ctx context.Context, storeID string) ([]StaffAccount, error) {
	var out struct {
		Accounts []StaffAccount `json:"accounts"`
	}
	if err := c.get(ctx, storeQuery("/store/staff-accounts", storeID), &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

func (c *Client) CreateStaffAccount(ctx context.Context, req StaffAccountRequest) (*StaffAccount, error) {
	var out StaffAccount
	if err := c.post(ctx, "/store/staff-accounts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStaffAccount(ctx context.Context, accountID string, req StaffAccountRequest) error {
	return c.post(ctx, "/store/staff-accounts/"+url.PathEscape(accountID)+"/update", req, nil)
}

func (c *Client) DeleteStaffAccount(ctx context.Context, storeID, accountID string) error {
	return c.post(ctx, "/store/staff-accounts/"+url.PathEscape(accountID)+"/delete", storeScoped{StoreID: storeID}, nil)
}

// ToggleStaffAccount flips the active flag and returns the new value.
func (c *Client) ToggleStaffAccount(ctx context.Context, storeID, accountID string) (bool, error) {
	var out struct {
		IsActive Flag `json:"isActive"`
	}
	if err := c.post(ctx, "/store/staff-accounts/"+url.PathEscape(accountID)+"/toggle-active", storeScoped{StoreID: storeID}, &out); err != nil {
		return false, err
	}
	return out.IsActive.Bool(), nil
}
