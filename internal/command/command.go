// Package command parses marquee commands and delivers them to the daemon
// loop.
package command

import (
	"strings"

	"github.com/danc/dmarquees/internal/types"
)

type Kind int

const (
	// Asset is any line that is not a keyword: a title shortname.
	Asset Kind = iota
	Exit
	Clear
	SetFrontend
	Reset
)

func (k Kind) String() string {
	switch k {
	case Asset:
		return "asset"
	case Exit:
		return "exit"
	case Clear:
		return "clear"
	case SetFrontend:
		return "frontend"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Command is one resolved input line. Frontend is set for SetFrontend, Asset
// for Asset.
type Command struct {
	Kind     Kind
	Frontend types.FrontendMode
	Asset    string
}

// Parse resolves a trimmed line. Keywords match case-insensitively; anything
// else, including unknown words, is an asset identifier kept as typed.
func Parse(line string) Command {
	switch strings.ToUpper(line) {
	case "EXIT":
		return Command{Kind: Exit}
	case "CLEAR":
		return Command{Kind: Clear}
	case "RESET":
		return Command{Kind: Reset}
	case "RA":
		return Command{Kind: SetFrontend, Frontend: types.FrontendRetroArch}
	case "SA":
		return Command{Kind: SetFrontend, Frontend: types.FrontendStandalone}
	case "NA":
		return Command{Kind: SetFrontend, Frontend: types.FrontendNone}
	default:
		return Command{Kind: Asset, Asset: line}
	}
}

func (c Command) String() string {
	switch c.Kind {
	case Asset:
		return c.Asset
	case SetFrontend:
		return c.Frontend.String()
	default:
		return strings.ToUpper(c.Kind.String())
	}
}
