package bff

import "context"

// LoginUser exchanges consumer credentials for a BFF token.
func (c *Client) LoginUser(ctx context.Context, req UserLoginRequest) (*UserAuth, error) {
	var out UserAuth
	if err := c.post(ctx, "/auth/user/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterUser creates a consumer account and returns its token.
func (c *Client) RegisterUser(ctx context.Context, req UserRegisterRequest) (*UserAuth, error) {
	var out UserAuth
	if err := c.post(ctx, "/auth/user/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginStaff exchanges a store id and PIN for a staff token.
func (c *Client) LoginStaff(ctx context.Context, req StaffLoginRequest) (*StaffAuth, error) {
	var out StaffAuth
	if err := c.post(ctx, "/auth/staff/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
