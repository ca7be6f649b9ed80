package synchronizer

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/debatify/debatify-go/model"
)

// mergeEntity patches the poll-refreshable fields of local from incoming,
// field by field, touching a field only when the incoming value differs.
// Returns whether anything changed so an unchanged poll tick publishes
// nothing. Title, body, author and timestamps are immutable post-fetch and
// deliberately not merged.
func mergeEntity(local, incoming *model.Entity) bool {
	changed := false

	if local.Upvotes != incoming.Upvotes {
		local.Upvotes = incoming.Upvotes
		changed = true
	}
	if local.Downvotes != incoming.Downvotes {
		local.Downvotes = incoming.Downvotes
		changed = true
	}
	if local.Views != incoming.Views {
		local.Views = incoming.Views
		changed = true
	}
	if local.BookmarkCount != incoming.BookmarkCount {
		local.BookmarkCount = incoming.BookmarkCount
		changed = true
	}
	if local.IsBookmarked != incoming.IsBookmarked {
		local.IsBookmarked = incoming.IsBookmarked
		changed = true
	}
	// A response that omits a voter list keeps the local one; nil and empty
	// compare equal so an empty poll response does not churn state.
	if incoming.UpvotedBy != nil && !cmp.Equal(local.UpvotedBy, incoming.UpvotedBy, cmpopts.EquateEmpty()) {
		local.UpvotedBy = incoming.UpvotedBy
		changed = true
	}
	if incoming.DownvotedBy != nil && !cmp.Equal(local.DownvotedBy, incoming.DownvotedBy, cmpopts.EquateEmpty()) {
		local.DownvotedBy = incoming.DownvotedBy
		changed = true
	}

	merged, commentsChanged := mergeComments(local.Comments, incoming.Comments)
	if commentsChanged {
		local.Comments = merged
	}

	return changed || commentsChanged
}

// mergeComments reconciles a polled comment list against the local one.
// Comments are append-only: incoming comments with unseen ids are appended
// in their incoming order, existing comments keep their position and are
// patched only on likes/likedBy. A comment that disappeared server-side
// stays locally until a full reload; that staleness window is accepted.
func mergeComments(local, incoming []model.Comment) ([]model.Comment, bool) {
	if len(incoming) == 0 {
		return local, false
	}

	changed := false
	byId := make(map[string]*model.Comment, len(incoming))
	for i := range incoming {
		byId[incoming[i].Id] = &incoming[i]
	}

	existing := make(map[string]bool, len(local))
	merged := make([]model.Comment, 0, len(local))
	for _, prev := range local {
		existing[prev.Id] = true
		if update, ok := byId[prev.Id]; ok {
			if prev.Likes != update.Likes || !cmp.Equal(prev.LikedBy, update.LikedBy, cmpopts.EquateEmpty()) {
				prev.Likes = update.Likes
				prev.LikedBy = update.LikedBy
				changed = true
			}
		}
		merged = append(merged, prev)
	}

	for _, in := range incoming {
		if !existing[in.Id] {
			merged = append(merged, in)
			changed = true
		}
	}

	if !changed {
		return local, false
	}
	return merged, true
}
