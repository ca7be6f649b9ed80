package notifier

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/debatify/debatify-go/api"
	"github.com/debatify/debatify-go/model"
	"github.com/debatify/debatify-go/session"
	Logger "github.com/debatify/debatify-go/utils/log"
)

const (
	DefaultPollInterval = 5 * time.Second
	requestTimeout      = 5 * time.Second
)

// Navbar is the navigation-bar poller: it re-checks auth state against the
// profile endpoint and refreshes the notification list on a fixed cadence.
// Poll failures are logged and swallowed. Opening the list marks every
// notification read in one batched request.
type Navbar struct {
	api      *api.Client
	session  *session.Store
	interval time.Duration
	timeout  time.Duration

	mu            sync.Mutex
	username      string
	authenticated bool
	items         []model.Notification
	unread        int
	lastLatestId  string
	lastSearch    []model.Profile
}

func NewNavbar(client *api.Client, sess *session.Store) *Navbar {
	return &Navbar{
		api:      client,
		session:  sess,
		interval: DefaultPollInterval,
		timeout:  requestTimeout,
	}
}

// SetInterval overrides the poll cadence; tests poll fast.
func (n *Navbar) SetInterval(d time.Duration) *Navbar {
	n.interval = d
	return n
}

// SetRequestTimeout overrides the per-call timeout bound.
func (n *Navbar) SetRequestTimeout(d time.Duration) *Navbar {
	n.timeout = d
	return n
}

// Start refreshes immediately and then on every tick until ctx is
// cancelled.
func (n *Navbar) Start(ctx context.Context) error {
	n.RefreshOnce(ctx)

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			Logger.LogV2.Info("navbar poller stopped")
			return nil
		case <-ticker.C:
			n.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce runs one auth check plus, when authenticated, one
// notification fetch.
func (n *Navbar) RefreshOnce(ctx context.Context) {
	n.checkAuth(ctx)
	if n.Authenticated() {
		n.fetchNotifications(ctx)
	}
}

// checkAuth validates the stored token against /users/profile/me. A 401
// clears the session (expired or revoked token); other failures only mark
// this tick unauthenticated.
func (n *Navbar) checkAuth(ctx context.Context) {
	if !n.session.Authenticated() {
		n.setAuth("", false)
		return
	}

	var profile model.Profile
	err := n.api.Get(ctx, "/users/profile/me", &profile, api.WithTimeout(n.timeout))
	if err != nil {
		if api.IsUnauthorized(err) {
			if clearErr := n.session.Clear(); clearErr != nil {
				Logger.LogV2.Errorf("clearing stale session:", clearErr)
			}
		} else {
			Logger.LogV2.Errorf("auth check failed:", err)
		}
		n.setAuth("", false)
		return
	}
	n.setAuth(profile.Username, true)
}

// fetchNotifications refreshes the list, newest first. The list state only
// moves when the newest notification id changed, which keeps steady-state
// ticks from churning consumers.
func (n *Navbar) fetchNotifications(ctx context.Context) {
	var items []model.Notification
	err := n.api.Get(ctx, "/notifications", &items, api.WithTimeout(n.timeout))
	if err != nil {
		if !api.IsTimeout(err) {
			Logger.LogV2.Errorf("fetching notifications:", err)
		}
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	username := n.Username()
	for i := range items {
		items[i].Message = FormatMessage(items[i])
		items[i].RedirectTo = RedirectPath(items[i], username)
	}

	latestId := ""
	if len(items) > 0 {
		latestId = items[0].Id
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.lastLatestId == latestId && latestId != "" {
		return
	}
	n.items = items
	n.lastLatestId = latestId
	n.unread = 0
	for _, item := range items {
		if !item.Read {
			n.unread++
		}
	}
}

// Open marks every notification read with one batched request, the
// client-side list included. Called when the viewer opens the dropdown
// with unread items present.
func (n *Navbar) Open(ctx context.Context) error {
	if n.Unread() == 0 {
		return nil
	}
	if err := n.api.Put(ctx, "/notifications/mark-read", struct{}{}, nil, api.WithTimeout(n.timeout)); err != nil {
		Logger.LogV2.Errorf("marking notifications read:", err)
		return errors.Wrap(err, "mark read failed")
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.items {
		n.items[i].Read = true
	}
	n.unread = 0
	return nil
}

// Notifications returns a copy of the current list, newest first.
func (n *Navbar) Notifications() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.Notification, len(n.items))
	copy(out, n.items)
	return out
}

// Grouped returns the current list partitioned into display buckets.
func (n *Navbar) Grouped(now time.Time) map[Group][]model.Notification {
	return GroupNotifications(n.Notifications(), now)
}

func (n *Navbar) Unread() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.unread
}

func (n *Navbar) Username() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.username
}

func (n *Navbar) Authenticated() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.authenticated
}

func (n *Navbar) setAuth(username string, authenticated bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.username = username
	n.authenticated = authenticated
}
