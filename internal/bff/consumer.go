package bff

import (
	"context"
	"net/url"
)

func (c *Client) Home(ctx context.Context) ([]HomeStore, error) {
	var out []HomeStore
	if err := c.get(ctx, "/consumer/home", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Bottles lists the caller's own bottles followed by bottles shared to them.
func (c *Client) Bottles(ctx context.Context) ([]Bottle, error) {
	var out []Bottle
	if err := c.get(ctx, "/consumer/bottles", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BottleDetail(ctx context.Context, bottleID string) (*BottleDetail, error) {
	var out BottleDetail
	if err := c.get(ctx, "/consumer/bottles/"+url.PathEscape(bottleID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StoreDetail(ctx context.Context, storeID string) (*Store, error) {
	var out Store
	if err := c.get(ctx, "/consumer/stores/"+url.PathEscape(storeID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCheckin(ctx context.Context, req CheckinRequest) (*Checkin, error) {
	if req.NotifyToUserIDs == nil {
		req.NotifyToUserIDs = []string{}
	}
	var out Checkin
	if err := c.post(ctx, "/consumer/checkins", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActiveCheckin returns nil when the caller is not checked in anywhere.
func (c *Client) ActiveCheckin(ctx context.Context) (*ActiveCheckin, error) {
	var out *ActiveCheckin
	if err := c.get(ctx, "/consumer/checkins/active", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out User
	if err := c.get(ctx, "/consumer/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdate) (*User, error) {
	var out User
	if err := c.post(ctx, "/consumer/profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserProfile(ctx context.Context, userID string) (*PublicProfile, error) {
	var out PublicProfile
	if err := c.get(ctx, "/consumer/users/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]UserSummary, error) {
	var out []UserSummary
	if err := c.get(ctx, "/consumer/users/search?"+url.Values{"q": {query}}.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Amigos lists the caller's amigos, scoped to storeID when it is set.
func (c *Client) Amigos(ctx context.Context, storeID string) ([]Amigo, error) {
	path := "/consumer/amigos"
	if storeID != "" {
		path += "?" + url.Values{"storeId": {storeID}}.Encode()
	}
	var out []Amigo
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RequestAmigo(ctx context.Context, req AmigoRequest) (*Amigo, error) {
	var out Amigo
	if err := c.post(ctx, "/consumer/amigos/request", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AcceptAmigo(ctx context.Context, amigoID string) (*Amigo, error) {
	var out Amigo
	if err := c.post(ctx, "/consumer/amigos/"+url.PathEscape(amigoID)+"/accept", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyQR(ctx context.Context) (*MyQR, error) {
	var out MyQR
	if err := c.get(ctx, "/consumer/amigos/myqr", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ScanAmigoQR(ctx context.Context, token string) (*ScanResult, error) {
	var out ScanResult
	body := struct {
		Token string `json:"token"`
	}{Token: token}
	if err := c.post(ctx, "/consumer/amigos/scan", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateShare(ctx context.Context, req ShareRequest) (*Share, error) {
	var out Share
	if err := c.post(ctx, "/consumer/shares", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EndShare(ctx context.Context, shareID string) (*Share, error) {
	var out Share
	if err := c.post(ctx, "/consumer/shares/"+url.PathEscape(shareID)+"/end", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Notifications fetches the feed. The server marks entries read as a side
// effect of this call.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var out []Notification
	if err := c.get(ctx, "/consumer/notifications", &out); err != nil {
		return nil, err
	}
	return out, nil
}
