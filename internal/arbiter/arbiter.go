// Package arbiter negotiates short, repeatable access to DRM master with a
// peer process that also wants the display.
//
// The daemon never keeps master between commands. Each present takes master,
// sets the CRTC and drops master again straight away. When the peer is
// expected to grab the display next (RetroArch starting a game) the arbiter
// holds off for a while so both processes do not fight over the mode set,
// then re-presents once the peer has settled.
package arbiter

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// ErrContended means master is currently held by another process.
var ErrContended = errors.New("display rights held by another process")

// Rights are the display operations the arbiter brackets.
type Rights interface {
	Acquire() error
	Release() error
	Present() error
}

type State int

const (
	Idle State = iota
	PresentPending
	HoldingAfterPresent
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PresentPending:
		return "present-pending"
	case HoldingAfterPresent:
		return "holding"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	DefaultHoldDuration     = 10 * time.Second
	DefaultRetryInterval    = 1 * time.Second
	DefaultThrottleInterval = 5 * time.Second
)

type Arbiter struct {
	rights Rights
	clock  clockwork.Clock
	logger *log.Logger

	holdDuration  time.Duration
	retryInterval time.Duration
	throttle      *rate.Limiter

	state     State
	deadline  time.Time
	sawBusy   bool
	presented int
}

type Option func(*Arbiter)

func WithClock(c clockwork.Clock) Option {
	return func(a *Arbiter) { a.clock = c }
}

func WithLogger(l *log.Logger) Option {
	return func(a *Arbiter) { a.logger = l }
}

func WithHoldDuration(d time.Duration) Option {
	return func(a *Arbiter) {
		if d > 0 {
			a.holdDuration = d
		}
	}
}

func WithRetryInterval(d time.Duration) Option {
	return func(a *Arbiter) {
		if d > 0 {
			a.retryInterval = d
		}
	}
}

// WithThrottle limits present failure logging to one line per interval,
// measured on the arbiter's clock.
func WithThrottle(d time.Duration) Option {
	return func(a *Arbiter) {
		if d > 0 {
			a.throttle = newThrottle(d)
		}
	}
}

func newThrottle(d time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(d), 1)
}

func New(rights Rights, opts ...Option) *Arbiter {
	a := &Arbiter{
		rights:        rights,
		clock:         clockwork.NewRealClock(),
		logger:        log.Default(),
		holdDuration:  DefaultHoldDuration,
		retryInterval: DefaultRetryInterval,
		throttle:      newThrottle(DefaultThrottleInterval),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Arbiter) State() State {
	return a.state
}

// Presented counts successful presents since startup.
func (a *Arbiter) Presented() int {
	return a.presented
}

// Request presents new content. Whatever hold or retry was in progress is
// dropped. With hold set the arbiter then waits for the peer to settle
// before presenting again, whatever the outcome of this attempt.
func (a *Arbiter) Request(hold bool) {
	a.sawBusy = false
	err := a.attempt()

	switch {
	case hold:
		a.state = HoldingAfterPresent
		a.deadline = a.clock.Now().Add(a.holdDuration)
		a.sawBusy = errors.Is(err, ErrContended)
		a.logger.Infof("holding for up to %v while the frontend takes the display", a.holdDuration)
	case err != nil:
		a.schedule()
	default:
		a.state = Idle
	}
}

// Cancel drops any hold or pending retry without presenting.
func (a *Arbiter) Cancel() {
	if a.state != Idle {
		a.logger.Debugf("cancelling %s", a.state)
	}
	a.state = Idle
	a.deadline = time.Time{}
	a.sawBusy = false
}

// Tick services hold and retry timers. It is called once per idle poll and
// never blocks.
func (a *Arbiter) Tick() {
	switch a.state {
	case HoldingAfterPresent:
		if a.clock.Now().Before(a.deadline) {
			busy := !a.Probe()
			released := a.sawBusy && !busy
			a.sawBusy = a.sawBusy || busy
			if !released {
				return
			}
			a.logger.Info("display rights released by frontend, ending hold")
		} else {
			a.logger.Debug("hold expired")
		}
		a.retry()

	case PresentPending:
		if a.clock.Now().Before(a.deadline) {
			return
		}
		a.retry()
	}
}

// Probe reports whether display rights could be taken right now. It takes and
// immediately gives back master, so ownership is unchanged when it returns.
func (a *Arbiter) Probe() bool {
	if err := a.rights.Acquire(); err != nil {
		return false
	}
	if err := a.rights.Release(); err != nil {
		a.logger.Warnf("release after probe: %v", err)
	}
	return true
}

func (a *Arbiter) retry() {
	a.sawBusy = false
	if err := a.attempt(); err != nil {
		a.schedule()
		return
	}
	a.state = Idle
}

func (a *Arbiter) schedule() {
	a.state = PresentPending
	a.deadline = a.clock.Now().Add(a.retryInterval)
}

// attempt runs one acquire, present, release cycle. Release happens on every
// path once acquire has succeeded.
func (a *Arbiter) attempt() (err error) {
	if err := a.rights.Acquire(); err != nil {
		a.logger.Debugf("display rights unavailable: %v", err)
		return fmt.Errorf("%w: %w", ErrContended, err)
	}
	defer func() {
		if rerr := a.rights.Release(); rerr != nil {
			a.logger.Warnf("release display rights: %v", rerr)
		}
	}()

	if err := a.rights.Present(); err != nil {
		if a.throttle.AllowN(a.clock.Now(), 1) {
			a.logger.Errorf("present failed: %v", err)
		}
		return err
	}

	a.presented++
	a.logger.Debug("framebuffer presented")
	return nil
}
