package models

import "time"

// Identity represents the authenticated user's account together with the
// session token issued at login or signup.
//
// The local cache holds at most one Identity row at any time. Saving a new
// session purges the previous row first; logout hard-deletes it.
type Identity struct {
	// UserID is the unique identifier of the account on the remote service.
	UserID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique, used for login).
	Email string

	// Phone is the user's phone number.
	Phone string

	// Token is the Bearer token attached to every authenticated call.
	Token string

	// CreatedAt is when this session was cached locally.
	CreatedAt time.Time
}
