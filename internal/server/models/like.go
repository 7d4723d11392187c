package models

import "time"

// Like is keyed by (PostID, UsernameIdentifier); the store holds at most one
// row per pair.
type Like struct {
	PostID             string    `json:"post_id"`
	UsernameIdentifier string    `json:"username_identifier"`
	CreatedAt          time.Time `json:"created_at"`
}
