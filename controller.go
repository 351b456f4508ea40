package shopkit

import (
	"context"
	"reflect"
	"sync"

	"github.com/goliatone/go-errors"
)

// Signal is a typed dependency value a FetchController binds to. The
// controller compares snapshots by value, never by notification timing.
type Signal interface {
	Value() any
	OnChange(fn func()) (cancel func())
}

// Var is a comparable dependency signal (page number, filter text, ...).
type Var[T comparable] struct {
	mu    sync.Mutex
	value T
	watch watchList
}

var _ Signal = (*Var[int])(nil)

func NewVar[T comparable](value T) *Var[T] {
	return &Var[T]{value: value}
}

func (v *Var[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set updates the value and notifies watchers. Setting an equal value is a
// no-op so incidental re-renders never re-trigger fetches.
func (v *Var[T]) Set(next T) {
	v.mu.Lock()
	if v.value == next {
		v.mu.Unlock()
		return
	}
	v.value = next
	v.mu.Unlock()

	v.watch.notify()
}

func (v *Var[T]) Value() any {
	return v.Get()
}

func (v *Var[T]) OnChange(fn func()) (cancel func()) {
	return v.watch.add(fn)
}

// RefreshFlag is the one-shot "force refresh" dependency. It is edge
// triggered: a Trigger causes exactly one re-fetch cycle and is consumed
// atomically with that cycle's issuance, so a later Trigger always arms a
// fresh edge.
type RefreshFlag struct {
	mu    sync.Mutex
	armed bool
	watch watchList
}

func NewRefreshFlag() *RefreshFlag {
	return &RefreshFlag{}
}

// Trigger arms the flag and wakes any bound controller.
func (f *RefreshFlag) Trigger() {
	f.mu.Lock()
	f.armed = true
	f.mu.Unlock()

	f.watch.notify()
}

// Armed reports whether a trigger is pending consumption.
func (f *RefreshFlag) Armed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.armed
}

// consume atomically reads and clears a pending trigger. A Trigger landing
// after consumption always arms a fresh edge and causes its own cycle.
func (f *RefreshFlag) consume() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	armed := f.armed
	f.armed = false
	return armed
}

func (f *RefreshFlag) onChange(fn func()) (cancel func()) {
	return f.watch.add(fn)
}

// FetchState is the readable state a controller publishes.
type FetchState[T any] struct {
	Data    T
	Err     error
	Loading bool
}

// FetchFunc is one logical data fetch. It must honor ctx cancellation.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// FetchController binds one logical fetch to a component's visible lifetime
// and a declared set of dependency signals.
//
// Every issued fetch carries a generation number, the lifecycle token for
// that attempt. At most one generation is active per controller; issuing a
// new fetch supersedes and cancels the previous one. A result is applied only
// if its generation is still the active one and the controller has not been
// stopped — last request wins, regardless of response arrival order.
type FetchController[T any] struct {
	mu       sync.Mutex
	fetch    FetchFunc[T]
	deps     []Signal
	refresh  *RefreshFlag
	unwatch  []func()
	snapshot []any
	active   uint64
	cancel   context.CancelFunc
	base     context.Context
	state    FetchState[T]
	subs     watchList
	started  bool
	stopped  bool
	logger   Logger
}

func NewFetchController[T any](fetch FetchFunc[T]) *FetchController[T] {
	return &FetchController[T]{
		fetch:  fetch,
		logger: defLogger{},
	}
}

func (c *FetchController[T]) WithLogger(logger Logger) *FetchController[T] {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// DependsOn declares the dependency signals. Call before Start.
func (c *FetchController[T]) DependsOn(deps ...Signal) *FetchController[T] {
	c.deps = append(c.deps, deps...)
	return c
}

// WithRefresh binds the one-shot force-refresh flag. Call before Start.
func (c *FetchController[T]) WithRefresh(flag *RefreshFlag) *FetchController[T] {
	c.refresh = flag
	return c
}

// Start corresponds to component mount: it subscribes to the dependency
// signals and issues the initial fetch.
func (c *FetchController[T]) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.base = ctx

	for _, dep := range c.deps {
		c.unwatch = append(c.unwatch, dep.OnChange(c.reevaluate))
	}
	if c.refresh != nil {
		c.unwatch = append(c.unwatch, c.refresh.onChange(c.reevaluate))
	}

	c.snapshot = c.captureSnapshot()
	if c.refresh != nil {
		// The initial fetch covers a trigger armed before mount.
		c.refresh.consume()
	}
	c.launchLocked()
	c.mu.Unlock()
}

// Stop corresponds to component unmount. It cancels in-flight work and
// unconditionally suppresses any later result application.
func (c *FetchController[T]) Stop() {
	c.mu.Lock()
	c.stopped = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	unwatch := c.unwatch
	c.unwatch = nil
	c.mu.Unlock()

	for _, cancel := range unwatch {
		cancel()
	}
}

// Snapshot returns the current published state.
func (c *FetchController[T]) Snapshot() FetchState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnChange registers a state observer. Observers re-read Snapshot.
func (c *FetchController[T]) OnChange(fn func()) (cancel func()) {
	return c.subs.add(fn)
}

// reevaluate runs whenever a dependency or the refresh flag fires. It
// compares the dependency snapshot by value and fetches only on a real
// change, or exactly once per refresh trigger.
func (c *FetchController[T]) reevaluate() {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return
	}

	next := c.captureSnapshot()
	changed := !snapshotsEqual(c.snapshot, next)

	// Consuming clears the flag in the same step that decides to fetch, so a
	// trigger is never cleared without its fetch, and a consumed trigger
	// cannot re-arm a loop.
	forced := c.refresh != nil && c.refresh.consume()

	if !changed && !forced {
		c.mu.Unlock()
		return
	}

	c.snapshot = next
	c.launchLocked()
	c.mu.Unlock()

	c.subs.notify()
}

// launchLocked supersedes the active generation and issues a new fetch.
// Caller holds c.mu.
func (c *FetchController[T]) launchLocked() {
	if c.cancel != nil {
		c.cancel()
	}

	c.active++
	gen := c.active

	base := c.base
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	c.cancel = cancel

	c.state.Loading = true
	c.state.Err = nil

	go c.run(ctx, gen)
}

func (c *FetchController[T]) run(ctx context.Context, gen uint64) {
	data, err := c.fetch(ctx)

	c.mu.Lock()
	if c.stopped || gen != c.active {
		// Superseded or unmounted: the result must never reach shared state.
		c.mu.Unlock()
		return
	}

	var zero T
	switch {
	case err == nil:
		c.state = FetchState[T]{Data: data}
	case IsCancelledError(err) || errors.Is(err, context.Canceled):
		// Cancellation is expected, not exceptional: defined empty state,
		// no user-visible error.
		c.state = FetchState[T]{Data: zero}
	default:
		c.logger.Warn("fetch failed", "error", err)
		c.state = FetchState[T]{Data: zero, Err: err}
	}
	c.mu.Unlock()

	c.subs.notify()
}

func (c *FetchController[T]) captureSnapshot() []any {
	snap := make([]any, len(c.deps))
	for i, dep := range c.deps {
		snap[i] = dep.Value()
	}
	return snap
}

func snapshotsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
