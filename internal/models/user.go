package models

import "time"

// DefaultProfilePicture is assigned at signup until the user sets their own.
const DefaultProfilePicture = "https://www.pngall.com/wp-content/uploads/5/Profile-PNG-File.png"

// User is the persisted account record.
type User struct {
	ID             string    `bson:"_id" json:"id"`
	Username       string    `bson:"username" json:"username"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"password_hash" json:"-"`
	ProfilePicture string    `bson:"profile_picture" json:"profilePicture"`
	IsAdmin        bool      `bson:"is_admin" json:"isAdmin"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// Sanitize returns a copy of the user without sensitive fields populated.
// The password hash must never appear in a response body.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	return u
}
