package models

import "time"

// Post is a short text post owned by a user handle. Seq is assigned by the
// store and defines listing order.
type Post struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	TextContent        string    `json:"text_content"`
	UsernameIdentifier string    `json:"username_identifier"`
	Seq                int64     `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}
