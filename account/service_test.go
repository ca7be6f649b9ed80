package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debatify/debatify-go/api"
	"github.com/debatify/debatify-go/model"
	"github.com/debatify/debatify-go/session"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, *session.Store) {
	store, err := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewService(api.NewClient(ts.URL, store), store), store
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("installs the session on success", func(t *testing.T) {
		svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/login", r.URL.Path)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "alice", body["identifier"])
			assert.Equal(t, "hunter2", body["password"])
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-abc", "username": "alice"})
		}))

		require.NoError(t, svc.Login(ctx, "alice", "hunter2"))
		assert.True(t, store.Authenticated())
		assert.Equal(t, "tok-abc", store.Token())
		assert.Equal(t, "alice", store.Username())
	})

	t.Run("bad credentials leave the store untouched", func(t *testing.T) {
		svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
		}))

		err := svc.Login(ctx, "alice", "wrong")
		require.Error(t, err)
		assert.Equal(t, "Invalid credentials", api.ErrorMessage(err, "fallback"))
		assert.False(t, store.Authenticated())
	})

	t.Run("tokenless success response is rejected", func(t *testing.T) {
		svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		}))

		require.Error(t, svc.Login(ctx, "alice", "hunter2"))
		assert.False(t, store.Authenticated())
	})
}

func TestLogout(t *testing.T) {
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	require.NoError(t, store.Set("tok-abc", "alice"))
	require.NoError(t, svc.Logout())
	assert.False(t, store.Authenticated())
}

func TestProfileEndpoints(t *testing.T) {
	ctx := context.Background()
	var paths []string
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/users/profile/bob":
			json.NewEncoder(w).Encode(model.Profile{Username: "bob"})
		case "/users/profile/bob/debates":
			json.NewEncoder(w).Encode([]model.Entity{{Id: "e1"}})
		default:
			w.Write([]byte(`{}`))
		}
	}))

	profile, err := svc.Profile(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Username)

	entities, err := svc.ProfileEntities(ctx, "bob", model.EntityDebate)
	require.NoError(t, err)
	require.Len(t, entities, 1)

	require.NoError(t, svc.Follow(ctx, "bob"))
	require.NoError(t, svc.Unfollow(ctx, "bob"))
	require.NoError(t, svc.UpdateBio(ctx, "likes long walks"))

	assert.Contains(t, paths, "POST /users/profile/bob/follow")
	assert.Contains(t, paths, "POST /users/profile/bob/unfollow")
	assert.Contains(t, paths, "PUT /users/profile/update-bio")
}

func TestCreateEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("validation runs before any request", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request %s", r.URL.Path)
		}))

		_, err := svc.CreateEntity(ctx, CreateEntityInput{Type: model.EntityBlog, Body: "text"})
		require.ErrorIs(t, err, ErrMissingTitle)

		_, err = svc.CreateEntity(ctx, CreateEntityInput{Type: model.EntityBlog, Title: "t", Body: "  "})
		require.ErrorIs(t, err, ErrMissingBody)
	})

	t.Run("debates carry the body as the opening argument", func(t *testing.T) {
		var body map[string]interface{}
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/debates", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			json.NewEncoder(w).Encode(model.Entity{Id: "e9", Title: "new debate"})
		}))

		created, err := svc.CreateEntity(ctx, CreateEntityInput{
			Type:  model.EntityDebate,
			Title: "new debate",
			Body:  "opening statement",
		})
		require.NoError(t, err)
		assert.Equal(t, "e9", created.Id)
		assert.Equal(t, model.EntityDebate, created.Type)
		assert.Equal(t, "opening statement", body["openingArgument"])
		assert.Nil(t, body["content"])
		assert.Nil(t, body["passcode"])
	})

	t.Run("private entities carry the passcode", func(t *testing.T) {
		var body map[string]interface{}
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/blogs", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			json.NewEncoder(w).Encode(model.Entity{Id: "e10"})
		}))

		_, err := svc.CreateEntity(ctx, CreateEntityInput{
			Type:      model.EntityBlog,
			Title:     "secret diary",
			Body:      "dear diary",
			IsPrivate: true,
			Passcode:  "open-sesame",
		})
		require.NoError(t, err)
		assert.Equal(t, "dear diary", body["content"])
		assert.Equal(t, true, body["isPrivate"])
		assert.Equal(t, "open-sesame", body["passcode"])
	})
}

func TestBookmarks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bookmarks", r.URL.Path)
		json.NewEncoder(w).Encode([]model.BookmarkItem{{Id: "e1", Type: model.EntityDebate, Title: "Tabs vs spaces"}})
	}))

	items, err := svc.Bookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "e1", items[0].Id)
	assert.Equal(t, model.EntityDebate, items[0].Type)
}
