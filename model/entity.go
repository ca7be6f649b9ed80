package model

import (
	"time"

	"github.com/debatify/debatify-go/utils"
)

// EntityType distinguishes the three content types the platform serves. The
// backend mounts each type under its own REST prefix.
type EntityType string

const (
	EntityDiscussion EntityType = "discussion"
	EntityDebate     EntityType = "debate"
	EntityBlog       EntityType = "blog"
)

// PathPrefix returns the REST collection segment for the type, e.g.
// "debates" for GET /debates/:id.
func (t EntityType) PathPrefix() string {
	switch t {
	case EntityDiscussion:
		return "discussions"
	case EntityDebate:
		return "debates"
	case EntityBlog:
		return "blogs"
	}
	return ""
}

func (t EntityType) Valid() bool {
	return t.PathPrefix() != ""
}

type Author struct {
	Id       string `json:"_id"`
	Username string `json:"username"`
}

/*

Entity is the client-side projection of a discussion, debate or blog as
returned by the backend. The client treats it as read-mostly: counters and
voter lists are patched from poll and mutation responses, everything else is
immutable after the initial fetch.

Id: backend identifier, stable across polls
Upvotes/Downvotes: authoritative counts, patched from responses
UpvotedBy/DownvotedBy: viewer-id membership lists backing the tri-state vote
IsBookmarked: viewer-relative flag, only meaningful on authenticated fetches
IsPrivate: passcode-gated access, the passcode itself is never in the body

*/

type Entity struct {
	Id              string     `json:"_id"`
	Type            EntityType `json:"type,omitempty"`
	Title           string     `json:"title"`
	Content         string     `json:"content,omitempty"`
	OpeningArgument string     `json:"openingArgument,omitempty"`
	Category        string     `json:"category,omitempty"`
	Author          *Author    `json:"author,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	Upvotes         int        `json:"upvotes"`
	Downvotes       int        `json:"downvotes"`
	UpvotedBy       []string   `json:"upvotedBy"`
	DownvotedBy     []string   `json:"downvotedBy"`
	Views           int        `json:"views"`
	BookmarkCount   int        `json:"bookmarkCount"`
	IsBookmarked    bool       `json:"isBookmarked"`
	IsPrivate       bool       `json:"isPrivate"`
	MediaUrls       []string   `json:"mediaUrls,omitempty"`
	Comments        []Comment  `json:"comments"`
}

// NetScore is the displayed score, upvotes minus downvotes.
func (e *Entity) NetScore() int {
	return e.Upvotes - e.Downvotes
}

func (e *Entity) UpvotedByViewer(viewerId string) bool {
	return viewerId != "" && utils.ContainsString(e.UpvotedBy, viewerId)
}

func (e *Entity) DownvotedByViewer(viewerId string) bool {
	return viewerId != "" && utils.ContainsString(e.DownvotedBy, viewerId)
}
