package model

import "time"

type Profile struct {
	Id             string    `json:"_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Role           string    `json:"role,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Followers      []string  `json:"followers,omitempty"`
	Following      []string  `json:"following,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BookmarkItem is an element of GET /bookmarks, a flattened cross-type view
// of the viewer's bookmarked entities.
type BookmarkItem struct {
	Id        string     `json:"_id"`
	Type      EntityType `json:"type"`
	Title     string     `json:"title"`
	Author    *Author    `json:"author,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
