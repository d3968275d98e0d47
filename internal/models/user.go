package models

import "time"

// User is a registered account.
//
// PasswordHash never crosses the API boundary; handlers serialize users
// through api.UserResponse instead.
type User struct {
	ID            string    `json:"id"`
	UserName      string    `json:"user_name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	IsAdmin       bool      `json:"is_admin"`
	ProfilePicKey string    `json:"profile_pic_key"`
	CreatedAt     time.Time `json:"created_at"`
}

// Identity is a copy of a user's public identity frozen at write time.
// Posts and comments embed it instead of a live foreign key; later profile
// edits do not propagate to historical records.
type Identity struct {
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name"`
	ProfilePicKey string `json:"profile_pic_key"`
}

// Snapshot returns the user's identity snapshot.
func (u *User) Snapshot() Identity {
	return Identity{
		UserID:        u.ID,
		UserName:      u.UserName,
		ProfilePicKey: u.ProfilePicKey,
	}
}
