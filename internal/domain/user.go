package domain

import "time"

// User is a registered shopper. Password is stored as entered.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Password        string    `json:"-"`
	ProfileImageRef string    `json:"profileImageRef,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Identity is who the current request acts as. The zero value is an anonymous visitor.
type Identity struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

func (i Identity) Authenticated() bool {
	return i.UserID > 0
}
