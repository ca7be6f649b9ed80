package synchronizer

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debatify/debatify-go/model"
)

func TestVote(t *testing.T) {
	ctx := context.Background()

	t.Run("response is applied to local state immediately", func(t *testing.T) {
		store := newTestStore(t)
		loginAs(t, store, "u7", "grace")
		s := newTestSync(t, store, model.EntityDebate, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				require.Equal(t, "/debates/e1/upvote", r.URL.Path)
				writeJson(t, w, map[string]interface{}{
					"upvotes":     6,
					"downvotes":   1,
					"upvotedBy":   []string{"u1", "u2", "u3", "u4", "u5", "u7"},
					"downvotedBy": []string{"u6"},
				})
				return
			}
			writeJson(t, w, baseEntity())
		}))

		s.fetch(ctx, "")
		require.NoError(t, s.Vote(ctx, Upvote))

		snap := s.Snapshot()
		require.NotNil(t, snap.Entity)
		assert.Equal(t, 6, snap.Entity.Upvotes)
		assert.Equal(t, 5, snap.Entity.NetScore())
		assert.True(t, snap.Entity.UpvotedByViewer("u7"))
	})

	t.Run("login required before any request", func(t *testing.T) {
		var requests int32
		store := newTestStore(t)
		s := newTestSync(t, store, model.EntityDebate, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				atomic.AddInt32(&requests, 1)
			}
			writeJson(t, w, baseEntity())
		}))

		s.fetch(ctx, "")
		require.ErrorIs(t, s.Vote(ctx, Upvote), ErrLoginRequired)
		assert.Zero(t, atomic.LoadInt32(&requests))
	})

	t.Run("second vote fails fast while one is in flight", func(t *testing.T) {
		store := newTestStore(t)
		loginAs(t, store, "u7", "grace")

		arrived := make(chan struct{}, 1)
		proceed := make(chan struct{})
		s := newTestSync(t, store, model.EntityDebate, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				select {
				case arrived <- struct{}{}:
				default:
				}
				<-proceed
				writeJson(t, w, map[string]interface{}{"upvotes": 6, "downvotes": 1})
				return
			}
			writeJson(t, w, baseEntity())
		}))

		s.fetch(ctx, "")

		firstDone := make(chan error, 1)
		go func() {
			firstDone <- s.Vote(ctx, Upvote)
		}()

		select {
		case <-arrived:
		case <-time.After(2 * time.Second):
			t.Fatal("first vote never reached the server")
		}
		require.ErrorIs(t, s.Vote(ctx, Downvote), ErrActionInFlight)

		close(proceed)
		require.NoError(t, <-firstDone)

		// The busy flag is released, the next vote goes through.
		require.NoError(t, s.Vote(ctx, Downvote))
	})

	t.Run("busy flag is released on failure too", func(t *testing.T) {
		store := newTestStore(t)
		loginAs(t, store, "u7", "grace")
		var attempts int32
		s := newTestSync(t, store, model.EntityDebate, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				if atomic.AddInt32(&attempts, 1) == 1 {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				writeJson(t, w, map[string]interface{}{"upvotes": 6, "downvotes": 1})
				return
			}
			writeJson(t, w, baseEntity())
		}))

		s.fetch(ctx, "")
		require.Error(t, s.Vote(ctx, Upvote))
		require.NoError(t, s.Vote(ctx, Upvote))
	})
}

func TestToggleBookmark(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	loginAs(t, store, "u7", "grace")
	s := newTestSync(t, store, model.EntityBlog, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.Equal(t, "/blogs/e1/bookmark", r.URL.Path)
			writeJson(t, w, map[string]interface{}{"bookmarkCount": 3, "isBookmarked": true})
			return
		}
		writeJson(t, w, baseEntity())
	}))

	s.fetch(ctx, "")
	require.NoError(t, s.ToggleBookmark(ctx))

	snap := s.Snapshot()
	require.NotNil(t, snap.Entity)
	assert.Equal(t, 3, snap.Entity.BookmarkCount)
	assert.True(t, snap.Entity.IsBookmarked)
}

func TestPostComment(t *testing.T) {
	ctx := context.Background()

	t.Run("empty text is rejected locally", func(t *testing.T) {
		store := newTestStore(t)
		loginAs(t, store, "u7", "grace")
		s := newTestSync(t, store, model.EntityDiscussion, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJson(t, w, baseEntity())
		}))
		require.ErrorIs(t, s.PostComment(ctx, "   ", ""), ErrEmptyComment)
	})

	t.Run("debate comment without a stance is rejected", func(t *testing.T) {
		store := newTestStore(t)
		loginAs(t, store, "u7", "grace")
		s := newTestSync(t, store, model.EntityDebate, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJson(t, w, baseEntity())
		}))
		s.fetch(ctx, "")
		require.ErrorIs(t, s.PostComment(ctx, "hot take", ""), ErrMissingStance)
	})

	t.Run("new comment is appended and locks the stance", func(t *testing.T) {
		store := newTestStore(t)
		loginAs(t, store, "u7", "grace")
		s := newTestSync(t, store, model.EntityDebate, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, model.StanceWith, body["stance"])
				writeJson(t, w, map[string]interface{}{
					"comments": []model.Comment{
						{Id: "c1", Text: "yes"},
						{Id: "c2", Text: "no"},
						{Id: "c9", Text: body["text"], Stance: body["stance"], User: &model.Author{Id: "u7", Username: "grace"}},
					},
				})
				return
			}
			writeJson(t, w, baseEntity())
		}))

		s.fetch(ctx, "")
		require.NoError(t, s.PostComment(ctx, "hot take", model.StanceWith))

		snap := s.Snapshot()
		require.NotNil(t, snap.Entity)
		require.Len(t, snap.Entity.Comments, 3)
		assert.Equal(t, "c9", snap.Entity.Comments[2].Id)
		assert.Equal(t, model.StanceWith, s.StanceLocked())
	})

	t.Run("locked stance overrides the submitted one", func(t *testing.T) {
		store := newTestStore(t)
		loginAs(t, store, "u1", "alice")

		entity := baseEntity()
		entity.Comments = append(entity.Comments, model.Comment{
			Id:     "c3",
			User:   &model.Author{Id: "u1", Username: "alice"},
			Stance: model.StanceAgainst,
		})
		var mu sync.Mutex
		var sentStance string
		s := newTestSync(t, store, model.EntityDebate, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				mu.Lock()
				sentStance = body["stance"]
				mu.Unlock()
				writeJson(t, w, map[string]interface{}{
					"comments": []model.Comment{{Id: "c9", Text: body["text"], Stance: body["stance"]}},
				})
				return
			}
			writeJson(t, w, entity)
		}))

		s.fetch(ctx, "")
		require.Equal(t, model.StanceAgainst, s.StanceLocked())
		require.NoError(t, s.PostComment(ctx, "still no", model.StanceWith))
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, model.StanceAgainst, sentStance)
	})
}

func TestLikeComment(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	loginAs(t, store, "u7", "grace")
	s := newTestSync(t, store, model.EntityDiscussion, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.Equal(t, "/discussions/e1/comment/c2/like", r.URL.Path)
			writeJson(t, w, map[string]interface{}{"likes": 1, "likedBy": []string{"u7"}})
			return
		}
		writeJson(t, w, baseEntity())
	}))

	s.fetch(ctx, "")
	require.NoError(t, s.LikeComment(ctx, "c2"))

	snap := s.Snapshot()
	require.NotNil(t, snap.Entity)
	assert.Equal(t, 1, snap.Entity.Comments[1].Likes)
	assert.Equal(t, []string{"u7"}, snap.Entity.Comments[1].LikedBy)
	// The other comment is untouched.
	assert.Equal(t, 1, snap.Entity.Comments[0].Likes)
}
