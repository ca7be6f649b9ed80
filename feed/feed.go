package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/debatify/debatify-go/api"
	"github.com/debatify/debatify-go/model"
	Logger "github.com/debatify/debatify-go/utils/log"
)

const DefaultPollInterval = 5 * time.Second

// Feed keeps a hub list (all debates, all blogs, ...) fresh with the same
// append-only poll the detail pages use for comments: entities whose id is
// already present stay as-is, new ones are appended. Entities deleted
// server-side linger until the next Refresh, an accepted staleness window.
type Feed struct {
	api        *api.Client
	entityType model.EntityType
	following  bool
	interval   time.Duration

	mu    sync.Mutex
	items []model.Entity
	ids   map[string]bool
}

func New(client *api.Client, entityType model.EntityType) *Feed {
	return &Feed{
		api:        client,
		entityType: entityType,
		interval:   DefaultPollInterval,
		ids:        map[string]bool{},
	}
}

// Following restricts the feed to entities from followed authors.
func (f *Feed) Following() *Feed {
	f.following = true
	return f
}

func (f *Feed) SetInterval(d time.Duration) *Feed {
	f.interval = d
	return f
}

func (f *Feed) path() string {
	p := "/" + f.entityType.PathPrefix()
	if f.following {
		p += "/following"
	}
	return p
}

// Refresh replaces the whole list from the backend; used for the initial
// load and for explicit reloads that drop stale entries.
func (f *Feed) Refresh(ctx context.Context) error {
	var items []model.Entity
	if err := f.api.Get(ctx, f.path(), &items); err != nil {
		return errors.Wrapf(err, "fetching %s feed", f.entityType)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
	f.ids = make(map[string]bool, len(items))
	for i := range items {
		f.ids[items[i].Id] = true
	}
	return nil
}

// Start loads the list and then polls, appending unseen entities. Poll
// failures are logged and swallowed.
func (f *Feed) Start(ctx context.Context) error {
	if err := f.Refresh(ctx); err != nil {
		Logger.LogV2.Errorf(fmt.Sprintf("initial %s feed load failed:", f.entityType), err)
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			f.poll(ctx)
		}
	}
}

func (f *Feed) poll(ctx context.Context) {
	var incoming []model.Entity
	err := f.api.Get(ctx, f.path(), &incoming, api.WithTimeout(5*time.Second))
	if err != nil {
		Logger.LogV2.Errorf(fmt.Sprintf("polling %s feed:", f.entityType), err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range incoming {
		if !f.ids[incoming[i].Id] {
			f.items = append(f.items, incoming[i])
			f.ids[incoming[i].Id] = true
		}
	}
}

// Items returns a copy of the current list in arrival order.
func (f *Feed) Items() []model.Entity {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Entity, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
