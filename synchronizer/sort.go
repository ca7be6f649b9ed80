package synchronizer

import (
	"sort"

	"github.com/debatify/debatify-go/model"
)

// CommentOrder mirrors the page sort selector.
type CommentOrder string

const (
	OrderLatest    CommentOrder = "latest"
	OrderEarliest  CommentOrder = "earliest"
	OrderMostLiked CommentOrder = "mostLiked"
)

// SortComments returns a sorted copy; the synchronizer's own list keeps
// arrival order so the append-only merge stays stable.
func SortComments(comments []model.Comment, order CommentOrder) []model.Comment {
	sorted := make([]model.Comment, len(comments))
	copy(sorted, comments)

	switch order {
	case OrderMostLiked:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Likes > sorted[j].Likes
		})
	case OrderEarliest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	}
	return sorted
}
