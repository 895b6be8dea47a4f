package arbiter

import (
	"bytes"
	"errors"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRights emulates DRM master shared with a peer process.
type fakeRights struct {
	peerHolds  bool
	presentErr error
	releaseErr error

	held     bool
	acquires int
	releases int
	presents int
	attempts int
}

func (f *fakeRights) Acquire() error {
	if f.peerHolds {
		return syscall.EBUSY
	}
	if f.held {
		return errors.New("acquired twice")
	}
	f.held = true
	f.acquires++
	return nil
}

func (f *fakeRights) Release() error {
	if !f.held {
		return errors.New("release without acquire")
	}
	f.held = false
	f.releases++
	return f.releaseErr
}

func (f *fakeRights) Present() error {
	f.attempts++
	if !f.held {
		return errors.New("present without rights")
	}
	if f.presentErr != nil {
		return f.presentErr
	}
	f.presents++
	return nil
}

func newTestArbiter(r Rights) (*Arbiter, *clockwork.FakeClock, *bytes.Buffer) {
	clock := clockwork.NewFakeClock()
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	a := New(r,
		WithClock(clock),
		WithLogger(logger),
		WithHoldDuration(10*time.Second),
		WithRetryInterval(time.Second),
		WithThrottle(time.Hour),
	)
	return a, clock, &buf
}

func TestRequestPresentsAndReleases(t *testing.T) {
	r := &fakeRights{}
	a, _, _ := newTestArbiter(r)

	a.Request(false)

	assert.Equal(t, Idle, a.State())
	assert.Equal(t, 1, r.presents)
	assert.Equal(t, 1, a.Presented())
	assert.False(t, r.held)
	assert.Equal(t, r.acquires, r.releases)
}

func TestReleaseOnPresentFailure(t *testing.T) {
	r := &fakeRights{presentErr: syscall.EINVAL}
	a, _, _ := newTestArbiter(r)

	a.Request(false)

	assert.Equal(t, PresentPending, a.State())
	assert.False(t, r.held, "rights must be dropped after a failed present")
	assert.Equal(t, 1, r.releases)
	assert.Zero(t, a.Presented())
}

func TestContentionRetriesEverySecond(t *testing.T) {
	r := &fakeRights{peerHolds: true}
	a, clock, _ := newTestArbiter(r)

	a.Request(false)
	assert.Equal(t, PresentPending, a.State())
	assert.Zero(t, r.attempts)

	// nothing happens before the retry interval
	clock.Advance(500 * time.Millisecond)
	a.Tick()
	assert.Equal(t, PresentPending, a.State())

	// retried and re-armed while still contended
	clock.Advance(600 * time.Millisecond)
	a.Tick()
	assert.Equal(t, PresentPending, a.State())
	assert.Zero(t, r.presents)

	r.peerHolds = false
	clock.Advance(time.Second)
	a.Tick()
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, 1, r.presents)
	assert.False(t, r.held)
}

func TestTickNeverBlocks(t *testing.T) {
	r := &fakeRights{peerHolds: true}
	a, _, _ := newTestArbiter(r)
	a.Request(true)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			a.Tick()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Tick blocked")
	}
}

func TestHoldExpires(t *testing.T) {
	r := &fakeRights{}
	a, clock, _ := newTestArbiter(r)

	a.Request(true)
	require.Equal(t, HoldingAfterPresent, a.State())
	assert.Equal(t, 1, r.presents)

	// probes while holding do not present
	for i := 0; i < 10; i++ {
		clock.Advance(250 * time.Millisecond)
		a.Tick()
	}
	assert.Equal(t, HoldingAfterPresent, a.State())
	assert.Equal(t, 1, r.presents)
	assert.False(t, r.held)

	clock.Advance(10 * time.Second)
	a.Tick()
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, 2, r.presents)
}

func TestHoldExpiryWhileContendedFallsBackToRetry(t *testing.T) {
	r := &fakeRights{peerHolds: true}
	a, clock, _ := newTestArbiter(r)

	a.Request(true)
	clock.Advance(11 * time.Second)
	a.Tick()
	assert.Equal(t, PresentPending, a.State())

	r.peerHolds = false
	clock.Advance(time.Second)
	a.Tick()
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, 1, r.presents)
}

func TestHoldEndsOnReleaseEdge(t *testing.T) {
	r := &fakeRights{}
	a, clock, _ := newTestArbiter(r)

	a.Request(true)
	require.Equal(t, HoldingAfterPresent, a.State())

	// the frontend grabs the display and keeps it for a few seconds
	r.peerHolds = true
	for i := 0; i < 8; i++ {
		clock.Advance(250 * time.Millisecond)
		a.Tick()
		require.Equal(t, HoldingAfterPresent, a.State())
	}

	// it lets go mid-window: the very next poll re-presents
	r.peerHolds = false
	clock.Advance(250 * time.Millisecond)
	a.Tick()

	assert.Equal(t, Idle, a.State())
	assert.Equal(t, 2, r.presents)
	assert.False(t, r.held)
}

func TestHoldNeedsBusyBeforeAvailable(t *testing.T) {
	r := &fakeRights{}
	a, clock, _ := newTestArbiter(r)

	a.Request(true)

	// rights stay available: no edge, the hold runs its course
	for i := 0; i < 20; i++ {
		clock.Advance(250 * time.Millisecond)
		a.Tick()
	}
	assert.Equal(t, HoldingAfterPresent, a.State())
	assert.Equal(t, 1, r.presents)
}

func TestContendedRequestCountsAsBusy(t *testing.T) {
	r := &fakeRights{peerHolds: true}
	a, clock, _ := newTestArbiter(r)

	a.Request(true)
	require.Equal(t, HoldingAfterPresent, a.State())

	r.peerHolds = false
	clock.Advance(250 * time.Millisecond)
	a.Tick()
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, 1, r.presents)
}

func TestRequestCancelsHold(t *testing.T) {
	r := &fakeRights{}
	a, clock, _ := newTestArbiter(r)

	a.Request(true)
	clock.Advance(2 * time.Second)

	a.Request(false)
	assert.Equal(t, Idle, a.State())

	clock.Advance(20 * time.Second)
	a.Tick()
	assert.Equal(t, 2, r.presents, "cancelled hold must not present again")
}

func TestCancelDropsHoldAndRetry(t *testing.T) {
	r := &fakeRights{}
	a, clock, _ := newTestArbiter(r)

	a.Request(true)
	require.Equal(t, HoldingAfterPresent, a.State())
	a.Cancel()
	assert.Equal(t, Idle, a.State())

	r.peerHolds = true
	a.Request(false)
	require.Equal(t, PresentPending, a.State())
	a.Cancel()
	assert.Equal(t, Idle, a.State())

	r.peerHolds = false
	clock.Advance(time.Minute)
	a.Tick()
	assert.Equal(t, 1, r.presents, "a cancelled cycle never presents again")
	assert.Equal(t, r.acquires, r.releases)
}

func TestRequestRestartsHoldWindow(t *testing.T) {
	r := &fakeRights{}
	a, clock, _ := newTestArbiter(r)

	a.Request(true)
	clock.Advance(8 * time.Second)
	a.Request(true)
	clock.Advance(8 * time.Second)
	a.Tick()
	assert.Equal(t, HoldingAfterPresent, a.State())

	clock.Advance(3 * time.Second)
	a.Tick()
	assert.Equal(t, Idle, a.State())
}

func TestProbeLeavesOwnershipUnchanged(t *testing.T) {
	r := &fakeRights{}
	a, _, _ := newTestArbiter(r)

	assert.True(t, a.Probe())
	assert.False(t, r.held)
	assert.Equal(t, 1, r.acquires)
	assert.Equal(t, 1, r.releases)

	r.peerHolds = true
	assert.False(t, a.Probe())
	assert.Zero(t, r.presents)
}

func TestPresentFailuresAreThrottled(t *testing.T) {
	r := &fakeRights{presentErr: syscall.EINVAL}
	a, clock, buf := newTestArbiter(r)

	for i := 0; i < 5; i++ {
		a.Request(false)
		clock.Advance(time.Second)
		a.Tick()
	}

	assert.Equal(t, 1, strings.Count(buf.String(), "present failed"))
	assert.Equal(t, PresentPending, a.State())
	assert.Equal(t, r.acquires, r.releases)
}

func TestThrottleWindowFollowsClock(t *testing.T) {
	r := &fakeRights{presentErr: syscall.EINVAL}
	var buf bytes.Buffer
	clock := clockwork.NewFakeClock()
	a := New(r, WithClock(clock), WithLogger(log.New(&buf)), WithThrottle(5*time.Second))

	a.Request(false)
	a.Request(false)
	assert.Equal(t, 1, strings.Count(buf.String(), "present failed"))

	clock.Advance(4 * time.Second)
	a.Request(false)
	assert.Equal(t, 1, strings.Count(buf.String(), "present failed"))

	clock.Advance(time.Second)
	a.Request(false)
	assert.Equal(t, 2, strings.Count(buf.String(), "present failed"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "present-pending", PresentPending.String())
	assert.Equal(t, "holding", HoldingAfterPresent.String())
}
