package shopkit_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	shopkit "github.com/shopkit/go-shopkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func TestLastRequestWins(t *testing.T) {
	page := shopkit.NewVar(1)
	entered := make(chan int, 4)
	release := map[int]chan struct{}{
		1: make(chan struct{}),
		2: make(chan struct{}),
	}

	// The fetch deliberately ignores ctx: it simulates a transport that
	// cannot be aborted in time, so supersession alone must protect state.
	fetch := func(ctx context.Context) (string, error) {
		p := page.Get()
		entered <- p
		<-release[p]
		return fmt.Sprintf("page-%d", p), nil
	}

	ctl := shopkit.NewFetchController(fetch).DependsOn(page)
	ctl.Start(context.Background())
	defer ctl.Stop()

	require.Equal(t, 1, <-entered, "initial fetch sees page 1")

	page.Set(2)
	require.Equal(t, 2, <-entered, "dependency change issues a superseding fetch")

	// B (page 2) responds first.
	close(release[2])
	waitFor(t, func() bool {
		snap := ctl.Snapshot()
		return !snap.Loading && snap.Data == "page-2"
	}, "latest request's result must be published")

	// A (page 1) responds after B. Its result must be discarded even though
	// it resolves successfully.
	close(release[1])
	time.Sleep(50 * time.Millisecond)

	snap := ctl.Snapshot()
	assert.Equal(t, "page-2", snap.Data, "an earlier in-flight request must never overwrite a later result")
	assert.NoError(t, snap.Err)
}

func TestStopSuppressesWrite(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	fetch := func(ctx context.Context) (string, error) {
		close(entered)
		<-release
		return "late", nil
	}

	ctl := shopkit.NewFetchController(fetch)
	publishes := 0
	ctl.OnChange(func() { publishes++ })

	ctl.Start(context.Background())
	<-entered

	ctl.Stop()
	close(release)
	time.Sleep(50 * time.Millisecond)

	snap := ctl.Snapshot()
	assert.Empty(t, snap.Data, "a result resolving after unmount must not be written")
	assert.Equal(t, 0, publishes, "no publish may happen after Stop")
}

func TestCancelledFetchLeavesEmptyState(t *testing.T) {
	entered := make(chan struct{})

	fetch := func(ctx context.Context) (string, error) {
		close(entered)
		<-ctx.Done()
		return "", shopkit.NewCancelledError(ctx.Err())
	}

	ctx, cancel := context.WithCancel(context.Background())
	ctl := shopkit.NewFetchController(fetch)
	ctl.Start(ctx)
	defer ctl.Stop()

	<-entered
	cancel()

	waitFor(t, func() bool {
		snap := ctl.Snapshot()
		return !snap.Loading && snap.Err == nil && snap.Data == ""
	}, "cancellation must settle into a defined empty state with no user-visible error")
}

func TestFetchErrorPopulatesState(t *testing.T) {
	fetch := func(ctx context.Context) ([]string, error) {
		return []string{"stale"}, shopkit.NewServerError(500, []byte(`boom`))
	}

	ctl := shopkit.NewFetchController(fetch)
	ctl.Start(context.Background())
	defer ctl.Stop()

	waitFor(t, func() bool {
		snap := ctl.Snapshot()
		return !snap.Loading && snap.Err != nil
	}, "failure must clear loading and surface the error")

	snap := ctl.Snapshot()
	assert.True(t, shopkit.IsServerError(snap.Err))
	assert.Nil(t, snap.Data, "failures must not render stale data")
}

func TestDependencyChangeRefetches(t *testing.T) {
	query := shopkit.NewVar("lamp")
	var calls atomic.Int32

	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return query.Get(), nil
	}

	ctl := shopkit.NewFetchController(fetch).DependsOn(query)
	ctl.Start(context.Background())
	defer ctl.Stop()

	waitFor(t, func() bool { return calls.Load() == 1 }, "mount issues one fetch")

	// Setting an equal value is not a dependency change.
	query.Set("lamp")
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	query.Set("desk")
	waitFor(t, func() bool {
		return calls.Load() == 2 && ctl.Snapshot().Data == "desk"
	}, "a real value change re-fetches")
}

func TestRefreshFlagTriggersExactlyOnce(t *testing.T) {
	var calls atomic.Int32
	fetch := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	flag := shopkit.NewRefreshFlag()
	ctl := shopkit.NewFetchController(fetch).WithRefresh(flag)
	ctl.Start(context.Background())
	defer ctl.Stop()

	waitFor(t, func() bool { return calls.Load() == 1 }, "mount issues one fetch")

	flag.Trigger()

	// Ordering contract: by the time Trigger returns, the forced fetch has
	// been issued and the flag is reset, so it cannot loop.
	assert.False(t, flag.Armed())

	waitFor(t, func() bool { return calls.Load() == 2 }, "trigger causes exactly one re-fetch")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load(), "a consumed trigger must not re-fire")

	flag.Trigger()
	waitFor(t, func() bool { return calls.Load() == 3 }, "each trigger is one cycle")
}

func TestRefreshTriggerWhileRefreshInFlight(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan int, 8)
	release := make(chan struct{})

	fetch := func(ctx context.Context) (int, error) {
		n := int(calls.Add(1))
		entered <- n
		if n > 1 {
			<-release
		}
		return n, nil
	}

	flag := shopkit.NewRefreshFlag()
	ctl := shopkit.NewFetchController(fetch).WithRefresh(flag)
	ctl.Start(context.Background())
	defer ctl.Stop()

	require.Equal(t, 1, <-entered, "mount issues one fetch")

	flag.Trigger()
	require.Equal(t, 2, <-entered, "trigger issues a forced fetch")
	assert.False(t, flag.Armed(), "the trigger is consumed with its fetch")

	// A trigger landing while the forced fetch is still in flight must arm a
	// fresh edge and cause its own cycle; it can never be cleared unfetched.
	flag.Trigger()
	require.Equal(t, 3, <-entered, "a post-consumption trigger is a new edge")

	close(release)
	waitFor(t, func() bool {
		snap := ctl.Snapshot()
		return !snap.Loading && snap.Data == 3
	}, "the latest cycle's result wins")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(3), calls.Load(), "consumed triggers must not loop")
}

func TestRefreshFlagArmedBeforeMount(t *testing.T) {
	var calls atomic.Int32
	fetch := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	flag := shopkit.NewRefreshFlag()
	flag.Trigger()

	ctl := shopkit.NewFetchController(fetch).WithRefresh(flag)
	ctl.Start(context.Background())
	defer ctl.Stop()

	waitFor(t, func() bool { return calls.Load() == 1 }, "initial fetch covers a pre-mount trigger")
	assert.False(t, flag.Armed())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "pre-mount trigger must not double-fetch")
}

func TestControllerPublishesToObservers(t *testing.T) {
	fetch := func(ctx context.Context) (string, error) {
		return "ready", nil
	}

	ctl := shopkit.NewFetchController(fetch)

	published := make(chan struct{}, 4)
	cancel := ctl.OnChange(func() { published <- struct{}{} })
	defer cancel()

	ctl.Start(context.Background())
	defer ctl.Stop()

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("observer was not notified")
	}

	assert.Equal(t, "ready", ctl.Snapshot().Data)
}
