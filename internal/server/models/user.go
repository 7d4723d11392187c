// Package models defines server-side data models persisted in the store.
package models

import "time"

// User is a registered account. Password holds the protected password blob
// and is never serialized.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Identifier     string    `json:"identifier"`
	Name           string    `json:"name"`
	ProfilePicture string    `json:"profile_picture"`
	Password       []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
