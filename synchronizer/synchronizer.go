package synchronizer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/debatify/debatify-go/api"
	"github.com/debatify/debatify-go/config"
	"github.com/debatify/debatify-go/model"
	"github.com/debatify/debatify-go/session"
	Logger "github.com/debatify/debatify-go/utils/log"
)

// Statsd counter names for poll outcomes.
const (
	StatsdPollTickCounter    = "debatify.sync.poll_tick"
	StatsdPollFailureCounter = "debatify.sync.poll_failure"
	StatsdPollMergedCounter  = "debatify.sync.poll_merged"
)

const (
	msgIncorrectPasscode = "Incorrect passcode. Please try again."
	msgPrivateEntity     = "This is a private %s. Enter the passcode to view it."
)

var ErrEmptyPasscode = errors.New("please enter a passcode")

// Synchronizer keeps one entity's local state converged with the backend:
// initial fetch, background poll with field-level diff/merge, and the
// optimistic mutation handlers in mutations.go. Snapshots are published to
// the event bus topic for this entity; any number of consumers can
// Subscribe. Races between a mutation response and an in-flight poll
// resolve last-write-wins by arrival order, which is accepted for a social
// feed where a few seconds of staleness is tolerable.
type Synchronizer struct {
	api        *api.Client
	session    *session.Store
	entityType model.EntityType
	id         string
	interval   time.Duration
	bus        *gochannel.GoChannel
	statsd     *statsd.Client
	ownsBus    bool

	mu           sync.Mutex
	state        State
	entity       *model.Entity
	passcode     string
	stanceLocked string
	message      string

	voting      bool
	bookmarking bool
	commenting  bool
	liking      bool
}

type Option func(*Synchronizer)

// WithInterval overrides the poll cadence (tests poll fast).
func WithInterval(d time.Duration) Option {
	return func(s *Synchronizer) {
		s.interval = d
	}
}

// WithEventBus shares one gochannel bus across synchronizers so a single
// subscriber can fan in several entities.
func WithEventBus(bus *gochannel.GoChannel) Option {
	return func(s *Synchronizer) {
		s.bus = bus
		s.ownsBus = false
	}
}

// WithStatsd enables poll outcome counters. Nil-safe: without it all
// reporting is skipped.
func WithStatsd(client *statsd.Client) Option {
	return func(s *Synchronizer) {
		s.statsd = client
	}
}

func New(client *api.Client, sess *session.Store, entityType model.EntityType, id string, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		api:        client,
		session:    sess,
		entityType: entityType,
		id:         id,
		interval:   config.DefaultPollIntervalFor(entityType),
		state:      StateLoading,
		ownsBus:    true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, newBusLogger())
	}
	return s
}

// Start performs the initial fetch and then polls until ctx is cancelled.
// Run it on its own goroutine; the accessors and mutation handlers are safe
// to call concurrently. Each synchronizer owns exactly one timer, created
// here and stopped on return.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.fetch(ctx, "")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			Logger.LogV2.Infof("synchronizer stopped for", Topic(s.entityType, s.id))
			if s.ownsBus {
				return s.bus.Close()
			}
			return nil
		case <-ticker.C:
			if s.State() != StateReady {
				continue
			}
			s.poll(ctx)
		}
	}
}

// Subscribe returns a stream of snapshots for this entity. The channel
// closes when ctx is cancelled or the bus shuts down. Subscribers only see
// snapshots published after they subscribe; read Snapshot() first for the
// current state.
func (s *Synchronizer) Subscribe(ctx context.Context) (<-chan EntitySnapshot, error) {
	msgs, err := s.bus.Subscribe(ctx, Topic(s.entityType, s.id))
	if err != nil {
		return nil, errors.Wrap(err, "subscribing to entity topic")
	}

	out := make(chan EntitySnapshot, 16)
	go func() {
		defer close(out)
		for msg := range msgs {
			var snap EntitySnapshot
			if err := json.Unmarshal(msg.Payload, &snap); err != nil {
				Logger.LogV2.Errorf("dropping undecodable snapshot:", err)
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// SubmitPasscode retries the fetch with the given passcode. On success the
// passcode is cached in memory and attached to every subsequent poll; it is
// never persisted.
func (s *Synchronizer) SubmitPasscode(ctx context.Context, passcode string) error {
	if passcode == "" {
		return ErrEmptyPasscode
	}
	s.setState(StateLoading, "")
	s.fetch(ctx, passcode)
	if s.State() == StatePasscodeRequired {
		return errors.New(msgIncorrectPasscode)
	}
	return nil
}

func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the current state with a deep copy of the entity.
func (s *Synchronizer) Snapshot() EntitySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EntitySnapshot{
		State:        s.state,
		Entity:       deepCopyEntity(s.entity),
		StanceLocked: s.stanceLocked,
		Message:      s.message,
	}
}

// StanceLocked reports the stance the viewer is locked to on this debate,
// empty when unlocked or not a debate. Callers hide the stance selector
// when non-empty.
func (s *Synchronizer) StanceLocked() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stanceLocked
}

// fetch is the Loading-state transition: GET the entity, optionally with a
// passcode, and settle into Ready, PasscodeRequired or Failed.
func (s *Synchronizer) fetch(ctx context.Context, enteredPasscode string) {
	passcode := enteredPasscode
	if passcode == "" {
		passcode = s.currentPasscode()
	}

	var fetched model.Entity
	err := s.api.Get(ctx, s.entityPath(), &fetched, s.fetchOptions(passcode, false)...)
	if err != nil {
		if api.IsUnauthorized(err) {
			// Auth-denied on a private entity. First encounter renders the
			// prompt; a wrong passcode keeps the prompt with an error line.
			msg := fmt.Sprintf(msgPrivateEntity, s.entityType)
			if enteredPasscode != "" {
				msg = msgIncorrectPasscode
			}
			s.setState(StatePasscodeRequired, msg)
			s.publishSnapshot()
			return
		}
		Logger.LogV2.Errorf("initial fetch failed for", Topic(s.entityType, s.id), err)
		s.setState(StateFailed, api.ErrorMessage(err, fmt.Sprintf("Failed to load %s.", s.entityType)))
		s.publishSnapshot()
		return
	}

	s.mu.Lock()
	fetched.Type = s.entityType
	s.entity = &fetched
	s.state = StateReady
	s.message = ""
	if enteredPasscode != "" {
		s.passcode = enteredPasscode
	}
	s.refreshStanceLockLocked()
	s.mu.Unlock()
	s.publishSnapshot()
}

// poll is the Ready-state background refresh. Failures are logged and
// swallowed: a transient poll error must never interrupt a user mid-read.
func (s *Synchronizer) poll(ctx context.Context) {
	s.incr(StatsdPollTickCounter)

	var incoming model.Entity
	err := s.api.Get(ctx, s.entityPath(), &incoming, s.fetchOptions(s.currentPasscode(), true)...)
	if err != nil {
		s.incr(StatsdPollFailureCounter)
		Logger.LogV2.Errorf("poll error for", Topic(s.entityType, s.id), err)
		return
	}

	s.mu.Lock()
	if s.entity == nil {
		s.mu.Unlock()
		return
	}
	changed := mergeEntity(s.entity, &incoming)
	if changed {
		s.refreshStanceLockLocked()
	}
	s.mu.Unlock()

	if changed {
		s.incr(StatsdPollMergedCounter)
		s.publishSnapshot()
	}
}

func (s *Synchronizer) entityPath() string {
	return fmt.Sprintf("/%s/%s", s.entityType.PathPrefix(), s.id)
}

func (s *Synchronizer) fetchOptions(passcode string, isPoll bool) []api.RequestOption {
	opts := []api.RequestOption{}
	if passcode != "" {
		opts = append(opts, api.WithQuery("passcode", passcode))
	}
	if isPoll {
		// Convention marker only; the response shape is identical.
		opts = append(opts, api.WithQuery("poll", "true"))
		opts = append(opts, api.WithTimeout(5*time.Second))
	}
	return opts
}

func (s *Synchronizer) currentPasscode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passcode
}

func (s *Synchronizer) setState(state State, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.message = message
}

// refreshStanceLockLocked scans loaded comments for one authored by the
// viewer and locks the stance to it. Mirrors the backend's lack of an
// explicit viewer-stance field; only currently-loaded comments are seen.
// Caller holds s.mu.
func (s *Synchronizer) refreshStanceLockLocked() {
	if s.entityType != model.EntityDebate || s.stanceLocked != "" || s.entity == nil {
		return
	}
	viewerId := s.session.ViewerId()
	if viewerId == "" {
		return
	}
	for i := range s.entity.Comments {
		if s.entity.Comments[i].AuthoredBy(viewerId) && s.entity.Comments[i].Stance != "" {
			s.stanceLocked = s.entity.Comments[i].Stance
			return
		}
	}
}

func (s *Synchronizer) publishSnapshot() {
	snap := s.Snapshot()
	payload, err := json.Marshal(snap)
	if err != nil {
		Logger.LogV2.Errorf("snapshot encode failed:", err)
		return
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	if err := s.bus.Publish(Topic(s.entityType, s.id), msg); err != nil {
		Logger.LogV2.Errorf("snapshot publish failed:", err)
	}
}

func (s *Synchronizer) incr(name string) {
	if s.statsd == nil {
		return
	}
	tags := []string{string(s.entityType), s.id}
	if err := s.statsd.Incr(name, tags, 1); err != nil {
		Logger.LogV2.Info("cannot report poll counter " + name)
	}
}
