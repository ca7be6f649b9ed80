package model

import "time"

// Notification types emitted by the backend.
const (
	NotificationFollow      = "follow"
	NotificationUnfollow    = "unfollow"
	NotificationUpvote      = "upvote"
	NotificationDownvote    = "downvote"
	NotificationComment     = "comment"
	NotificationCommentLike = "comment_like"
)

type NotificationTarget struct {
	Type  string `json:"type"`
	Id    string `json:"id"`
	Title string `json:"title"`
}

// CommentPreview is the comment payload embedded in comment notifications.
type CommentPreview struct {
	Text string `json:"text"`
}

type Notification struct {
	Id      string              `json:"_id"`
	Type    string              `json:"type"`
	User    *Author             `json:"user,omitempty"`
	Target  *NotificationTarget `json:"target,omitempty"`
	Comment *CommentPreview     `json:"comment,omitempty"`
	Message string              `json:"message,omitempty"`
	// RedirectTo is filled in client-side from the target, never sent by
	// the backend.
	RedirectTo string    `json:"redirectTo,omitempty"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}
