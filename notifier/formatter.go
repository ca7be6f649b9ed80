package notifier

import (
	"fmt"
	"time"

	"github.com/debatify/debatify-go/model"
)

const (
	fallbackMessage = "New notification"
	fallbackActor   = "Someone"
	fallbackTitle   = "Untitled"
	fallbackTarget  = "post"
)

// FormatMessage renders a raw notification into the human-readable line
// shown in the navbar dropdown, using a fixed per-type template table.
// Unknown types fall back to the notification's own message field, then to
// a generic line.
func FormatMessage(n model.Notification) string {
	actor := fallbackActor
	if n.User != nil && n.User.Username != "" {
		actor = n.User.Username
	}
	targetTitle := fallbackTitle
	targetType := fallbackTarget
	if n.Target != nil {
		if n.Target.Title != "" {
			targetTitle = n.Target.Title
		}
		if n.Target.Type != "" {
			targetType = n.Target.Type
		}
	}

	switch n.Type {
	case model.NotificationFollow:
		return fmt.Sprintf("%s followed you", actor)
	case model.NotificationUnfollow:
		return fmt.Sprintf("%s unfollowed you", actor)
	case model.NotificationUpvote:
		return fmt.Sprintf("%s upvoted your %s %q", actor, targetType, targetTitle)
	case model.NotificationDownvote:
		return fmt.Sprintf("%s downvoted your %s %q", actor, targetType, targetTitle)
	case model.NotificationComment:
		commentText := "something"
		if n.Comment != nil && n.Comment.Text != "" {
			commentText = n.Comment.Text
		}
		return fmt.Sprintf("%s commented %q on your %s %q", actor, commentText, targetType, targetTitle)
	case model.NotificationCommentLike:
		return fmt.Sprintf("%s liked your comment at %s %q", actor, targetType, targetTitle)
	}
	if n.Message != "" {
		return n.Message
	}
	return fallbackMessage
}

// RedirectPath builds the in-app route a notification click navigates to.
// Follow events go to the viewer's own profile; unknown targets fall back
// to root.
func RedirectPath(n model.Notification, viewerUsername string) string {
	switch n.Type {
	case model.NotificationFollow, model.NotificationUnfollow:
		return "/profile/" + viewerUsername
	case model.NotificationUpvote, model.NotificationDownvote:
		return entityPage(n, true)
	case model.NotificationComment, model.NotificationCommentLike:
		return entityPage(n, false)
	}
	return "/"
}

func entityPage(n model.Notification, includeBlogs bool) string {
	if n.Target == nil {
		return "/"
	}
	switch n.Target.Type {
	case string(model.EntityDebate):
		return "/debatepage/" + n.Target.Id
	case string(model.EntityDiscussion):
		return "/discussionpage/" + n.Target.Id
	case string(model.EntityBlog):
		// Blog comments do not have a detail anchor to land on.
		if includeBlogs {
			return "/blogpage/" + n.Target.Id
		}
	}
	return "/"
}

// Group is a display bucket computed from the calendar-day distance
// between now and the notification's creation time.
type Group string

const (
	GroupToday     Group = "Today"
	GroupYesterday Group = "Yesterday"
	GroupThisWeek  Group = "This week"
	GroupThisMonth Group = "This month"
	GroupOlder     Group = "Older"
)

// GroupOrder is the render order of buckets.
var GroupOrder = []Group{GroupToday, GroupYesterday, GroupThisWeek, GroupThisMonth, GroupOlder}

// GroupFor buckets by rounded-up day difference: <=1 today, <=2 yesterday,
// <=7 this week, <=30 this month.
func GroupFor(createdAt, now time.Time) Group {
	diff := now.Sub(createdAt)
	days := int(diff.Hours() / 24)
	if diff.Hours() > float64(days*24) {
		days++
	}
	switch {
	case days <= 1:
		return GroupToday
	case days <= 2:
		return GroupYesterday
	case days <= 7:
		return GroupThisWeek
	case days <= 30:
		return GroupThisMonth
	}
	return GroupOlder
}

// GroupNotifications partitions a list into display buckets, preserving
// the input order inside each bucket.
func GroupNotifications(items []model.Notification, now time.Time) map[Group][]model.Notification {
	grouped := map[Group][]model.Notification{}
	for _, n := range items {
		g := GroupFor(n.CreatedAt, now)
		grouped[g] = append(grouped[g], n)
	}
	return grouped
}
