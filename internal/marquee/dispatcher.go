package marquee

import (
	"github.com/charmbracelet/log"
	"github.com/danc/dmarquees/internal/command"
)

type Dispatcher struct {
	session *Session
}

func NewDispatcher(s *Session) *Dispatcher {
	return &Dispatcher{session: s}
}

// Dispatch performs cmd and reports whether the loop should stop.
func (d *Dispatcher) Dispatch(cmd command.Command) bool {
	s := d.session

	switch cmd.Kind {
	case command.Exit:
		log.Info("exit requested")
		return true

	case command.Clear:
		s.ShowDefault()

	case command.SetFrontend:
		log.Infof("frontend mode %s", cmd.Frontend)
		s.SetMode(cmd.Frontend)
		s.ShowDefault()

	case command.Reset:
		s.Arbiter().Request(false)

	case command.Asset:
		if s.lookup.HasMultipleScreens(cmd.Asset) {
			log.Infof("%s uses more than one screen, leaving the marquee alone", cmd.Asset)
			s.Arbiter().Cancel()
			return false
		}
		s.ShowAsset(cmd.Asset)

	default:
		log.Warnf("unhandled command %v", cmd.Kind)
	}

	return false
}
