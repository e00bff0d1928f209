package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davidnwogucodes/sadaora/model"
)

// Messages of the error signal
const (
	ErrorFetchProfiles = "Error fetching profiles"
	ErrorFollow        = "Error following user"
	ErrorUnfollow      = "Error unfollowing user"
)

// ErrRunning is returned by Run when the engine already runs
var ErrRunning = errors.New("feed engine already running")

// Source is the part of the discover API used by the engine
type Source interface {
	FollowLookup
	Feed(ctx context.Context, page int) (model.FeedPage, error)
	FilteredFeed(ctx context.Context, page int, interests string) (model.FeedPage, error)
	Follow(ctx context.Context, id string) error
	Unfollow(ctx context.Context, id string) error
}

// State is an immutable view of the feed
type State struct {
	Profiles []model.Profile
	Page     int
	HasMore  bool
	Filter   string
	Loading  bool
	// Err is the user visible error, empty when the last operation succeeded
	Err string
	// LastID is the profile the viewport should observe
	LastID  string
	Trigger TriggerState
}

// Options configures an Engine
type Options struct {
	// Lookups bounds the concurrent follow lookups of a page (default 8)
	Lookups int
	// Timeout bounds every fetch and follow action, zero means none
	Timeout time.Duration
	Logger  *slog.Logger
}

// Engine synchronizes the feed. Create it with New and start it with Run.
type Engine struct {
	src     Source
	timeout time.Duration
	logger  *slog.Logger

	pager      *Pager
	filter     *Filter
	reconciler *Reconciler
	trigger    *Trigger

	// owned by the loop goroutine
	ctx        context.Context
	generation uint64
	errMsg     string
	seq        uint64
	actions    map[string]uint64

	cmds     chan func()
	done     chan struct{}
	running  atomic.Bool
	workers  sync.WaitGroup
	snapshot atomic.Pointer[State]
	changes  chan State
}

// New creates an engine reading from src
func New(src Source, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		src:        src,
		timeout:    opts.Timeout,
		logger:     logger,
		pager:      NewPager(),
		filter:     &Filter{},
		reconciler: NewReconciler(src, opts.Lookups, logger),
		trigger:    &Trigger{},
		actions:    make(map[string]uint64),
		cmds:       make(chan func(), 64),
		done:       make(chan struct{}),
		changes:    make(chan State, 1),
	}
	e.publish()

	return e
}

// Run fetches the first page and processes commands until ctx is done
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer func() {
		close(e.done)
		e.workers.Wait()
	}()

	e.ctx = ctx
	e.fetch()
	e.publish()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-e.cmds:
			fn()
			e.publish()
		}
	}
}

// SetFilter changes the interest filter. A new value resets the feed and
// fetches page 1; the active value is a no-op.
func (e *Engine) SetFilter(text string) {
	e.post(func() {
		if _, changed := e.filter.Set(text); !changed {
			return
		}
		e.reset()
	})
}

// Visible delivers a viewport event
func (e *Engine) Visible(ev Visibility) {
	e.post(func() {
		if !e.trigger.Visible(ev, e.pager.HasMore(), e.pager.Loading()) {
			return
		}

		if !e.pager.Advance() {
			e.trigger.Settle(e.reconciler.LastID())
			return
		}
		e.fetch()
	})
}

// Watch forwards the events of vp until ctx is done or the
// event channel is closed
func (e *Engine) Watch(ctx context.Context, vp Viewport) {
	events := vp.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			e.Visible(ev)
		}
	}
}

// Retry fetches the page whose fetch failed last
func (e *Engine) Retry() {
	e.post(func() {
		if e.pager.Retry() {
			e.fetch()
		}
	})
}

// Follow marks the profile as followed and sends the follow request
func (e *Engine) Follow(id string) {
	e.post(func() { e.act(id, true) })
}

// Unfollow marks the profile as not followed and sends the unfollow request
func (e *Engine) Unfollow(id string) {
	e.post(func() { e.act(id, false) })
}

// Snapshot returns the last published state
func (e *Engine) Snapshot() State {
	return *e.snapshot.Load()
}

// Changes delivers the latest state after each change. Intermediate
// states are dropped when the reader is slow.
func (e *Engine) Changes() <-chan State {
	return e.changes
}

// post queues fn for the loop. It gives up once the loop is gone.
func (e *Engine) post(fn func()) {
	select {
	case e.cmds <- fn:
	case <-e.done:
	}
}

func (e *Engine) reset() {
	e.generation++
	e.pager.Reset()
	e.reconciler.Clear()
	e.trigger.Settle("")
	e.fetch()
}

// fetch loads the current page on a worker and hands the enriched
// result back to the loop
func (e *Engine) fetch() {
	generation := e.generation
	page := e.pager.Page()
	filter := e.filter.Active()
	e.pager.Begin()

	e.workers.Add(1)
	go func() {
		defer e.workers.Done()

		ctx, cancel := e.withTimeout()
		defer cancel()

		var (
			res model.FeedPage
			err error
		)
		if filter == "" {
			res, err = e.src.Feed(ctx, page)
		} else {
			res, err = e.src.FilteredFeed(ctx, page, filter)
		}

		var profiles []model.Profile
		if err == nil {
			profiles = e.reconciler.Enrich(ctx, res.Profiles)
		}

		e.post(func() {
			e.complete(generation, page, res.Pagination, profiles, err)
		})
	}()
}

func (e *Engine) complete(generation uint64, page int, pagination model.Pagination, profiles []model.Profile, err error) {
	if generation != e.generation || page != e.pager.Page() {
		e.logger.Debug("dropping stale page", "page", page, "generation", generation)
		return
	}

	if err != nil {
		e.logger.Warn("cannot fetch profiles", "page", page, "filter", e.filter.Active(), "error", err)
		e.pager.Fail()
		e.errMsg = ErrorFetchProfiles
	} else {
		e.reconciler.Append(profiles)
		e.pager.Complete(pagination)
		e.errMsg = ""
	}

	e.trigger.Settle(e.reconciler.LastID())
}

// act applies an optimistic follow mark and sends the request. A failed
// request rolls the mark back unless a later action or a reset superseded it.
func (e *Engine) act(id string, following bool) {
	prev, found := e.reconciler.mark(id, following)
	e.seq++
	seq := e.seq
	e.actions[id] = seq
	generation := e.generation

	e.workers.Add(1)
	go func() {
		defer e.workers.Done()

		ctx, cancel := e.withTimeout()
		defer cancel()

		var err error
		if following {
			err = e.src.Follow(ctx, id)
		} else {
			err = e.src.Unfollow(ctx, id)
		}

		e.post(func() {
			latest := e.actions[id] == seq
			if latest {
				delete(e.actions, id)
			}

			if err == nil {
				e.errMsg = ""
				return
			}

			e.logger.Warn("follow action failed", "profile", id, "follow", following, "error", err)
			if following {
				e.errMsg = ErrorFollow
			} else {
				e.errMsg = ErrorUnfollow
			}

			if latest && found && generation == e.generation {
				e.reconciler.mark(id, prev)
			}
		})
	}()
}

func (e *Engine) withTimeout() (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(e.ctx, e.timeout)
	}
	return context.WithCancel(e.ctx)
}

// publish stores a copy of the state for readers
func (e *Engine) publish() {
	e.trigger.Observe(e.reconciler.LastID())

	st := &State{
		Profiles: e.reconciler.Profiles(),
		Page:     e.pager.Page(),
		HasMore:  e.pager.HasMore(),
		Filter:   e.filter.Active(),
		Loading:  e.pager.Loading(),
		Err:      e.errMsg,
		LastID:   e.reconciler.LastID(),
		Trigger:  e.trigger.State(),
	}
	e.snapshot.Store(st)

	select {
	case <-e.changes:
	default:
	}
	select {
	case e.changes <- *st:
	default:
	}
}
