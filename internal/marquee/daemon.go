package marquee

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/danc/dmarquees/internal/command"
	"github.com/danc/dmarquees/internal/types"
)

const DefaultPollInterval = 250 * time.Millisecond

// Status is a snapshot of the daemon published after every loop iteration.
type Status struct {
	Frontend  types.FrontendMode
	Current   string
	State     string
	Presented int
	Output    string
	Mode      string
	Commands  int
}

// Daemon runs the single goroutine that owns the session. Producers only
// hand it lines through Enqueue or the queue it reads.
type Daemon struct {
	sync.Mutex
	session    *Session
	dispatcher *Dispatcher
	queue      *command.Queue
	poll       time.Duration

	status   Status
	stop     chan struct{}
	stopOnce sync.Once
}

func NewDaemon(s *Session, queue *command.Queue, poll time.Duration) *Daemon {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Daemon{
		session:    s,
		dispatcher: NewDispatcher(s),
		queue:      queue,
		poll:       poll,
		stop:       make(chan struct{}),
	}
}

// Enqueue hands a command line to the loop. It reports false when the queue
// is full.
func (d *Daemon) Enqueue(line string) bool {
	return d.queue.Push(line)
}

// Stop ends Run at its next wait. Safe to call more than once and from any
// goroutine.
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

func (d *Daemon) Status() Status {
	d.Lock()
	defer d.Unlock()
	return d.status
}

// Run shows the default marquee and then serves commands until EXIT, Stop or
// ctx ends. Any hold or retry in progress is abandoned on the way out.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-d.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Infof("Starting marquee daemon in %s mode...", d.session.Mode())
	d.session.ShowDefault()
	d.publish(0)

	handled := 0
	for {
		line, err := d.queue.Next(ctx, d.poll)
		switch {
		case errors.Is(err, command.ErrTimeout):
			d.session.Arbiter().Tick()
			d.publish(handled)
			continue
		case err != nil && ctx.Err() != nil:
			log.Info("Stopping marquee daemon ...")
			return nil
		case err != nil:
			return err
		}

		cmd := command.Parse(line)
		log.Debugf("command %q (%s)", line, cmd.Kind)
		handled++

		if d.dispatcher.Dispatch(cmd) {
			d.publish(handled)
			log.Info("Marquee daemon stopped.")
			return nil
		}
		d.publish(handled)
	}
}

func (d *Daemon) publish(handled int) {
	s := d.session
	screen := s.Screen()

	d.Lock()
	defer d.Unlock()
	d.status = Status{
		Frontend:  s.Mode(),
		Current:   s.Current(),
		State:     s.Arbiter().State().String(),
		Presented: s.Arbiter().Presented(),
		Output:    screen.Output().Name,
		Mode:      screen.Mode().String(),
		Commands:  handled,
	}
}
