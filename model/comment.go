package model

import (
	"time"

	"github.com/debatify/debatify-go/utils"
)

const (
	StanceWith    = "with"
	StanceAgainst = "against"
)

// Comment is append-only on the backend: text, author and timestamp never
// change after creation, only likes/likedBy move.
type Comment struct {
	Id        string    `json:"_id"`
	Text      string    `json:"text"`
	User      *Author   `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
	LikedBy   []string  `json:"likedBy"`
	// Stance is only set on debate comments.
	Stance string `json:"stance,omitempty"`
}

func (c *Comment) AuthoredBy(viewerId string) bool {
	return viewerId != "" && c.User != nil && c.User.Id == viewerId
}

func (c *Comment) LikedByViewer(viewerId string) bool {
	return viewerId != "" && utils.ContainsString(c.LikedBy, viewerId)
}

func ValidStance(stance string) bool {
	return stance == StanceWith || stance == StanceAgainst
}
