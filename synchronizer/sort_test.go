package synchronizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debatify/debatify-go/model"
)

func TestSortComments(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	comments := []model.Comment{
		{Id: "a", CreatedAt: t0, Likes: 2},
		{Id: "b", CreatedAt: t0.Add(time.Hour), Likes: 5},
		{Id: "c", CreatedAt: t0.Add(2 * time.Hour), Likes: 2},
	}

	t.Run("latest first by default", func(t *testing.T) {
		sorted := SortComments(comments, OrderLatest)
		assert.Equal(t, []string{"c", "b", "a"}, commentIds(sorted))
	})

	t.Run("earliest first", func(t *testing.T) {
		sorted := SortComments(comments, OrderEarliest)
		assert.Equal(t, []string{"a", "b", "c"}, commentIds(sorted))
	})

	t.Run("most liked keeps arrival order on ties", func(t *testing.T) {
		sorted := SortComments(comments, OrderMostLiked)
		assert.Equal(t, []string{"b", "a", "c"}, commentIds(sorted))
	})

	t.Run("input slice is never reordered", func(t *testing.T) {
		_ = SortComments(comments, OrderLatest)
		require.Equal(t, []string{"a", "b", "c"}, commentIds(comments))
	})
}

func commentIds(comments []model.Comment) []string {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.Id)
	}
	return ids
}
