package auth

import (
	"time"

	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
)

// ConsumerLogin captures the consumer login form.
type ConsumerLogin struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Register captures the consumer sign-up form.
type Register struct {
	Name     string `form:"name" validate:"required,max=64"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	Nickname string `form:"nickname" validate:"max=32"`
}

// StaffLogin captures the staff login form.
type StaffLogin struct {
	StoreID string `form:"store_id" validate:"required"`
	PIN     string `form:"pin" validate:"required"`
}

// Result is a fresh portal session and the signed cookie value that
// references it.
type Result struct {
	Session   *session.Session
	Cookie    string
	ExpiresAt time.Time
}
