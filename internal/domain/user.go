package domain

import "time"

// User represents a registered storefront account.
type User struct {
	ID            int64      `json:"id"`
	FullName      string     `json:"fullname"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PhoneNo       string     `json:"phoneNo,omitempty"`
	Address       string     `json:"address,omitempty"`
	PasswordHash  string     `json:"-"`
	Role          string     `json:"role"`
	GoogleID      string     `json:"-"`
	ProfileImage  []byte     `json:"-"`
	EmailVerified bool       `json:"emailVerified"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// IsAdmin reports whether the user may manage the catalog.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}
