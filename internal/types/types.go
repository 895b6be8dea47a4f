package types

import (
	"fmt"
	"strings"
)

// FrontendMode is the launcher the marquee is running alongside. It picks the
// default marquee and whether the daemon backs off after showing a game.
type FrontendMode string

const (
	FrontendNone       FrontendMode = "NA"
	FrontendStandalone FrontendMode = "SA"
	FrontendRetroArch  FrontendMode = "RA"
)

// ParseFrontendMode accepts NA, SA or RA in any case.
func ParseFrontendMode(s string) (FrontendMode, error) {
	switch m := FrontendMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case FrontendNone, FrontendStandalone, FrontendRetroArch:
		return m, nil
	case "":
		return FrontendNone, nil
	default:
		return FrontendNone, fmt.Errorf("unknown frontend mode %q (want NA, SA or RA)", s)
	}
}

func (m FrontendMode) String() string {
	if m == "" {
		return string(FrontendNone)
	}
	return string(m)
}

// HoldsAfterPresent reports whether the peer is expected to take the display
// over right after a game marquee is shown.
func (m FrontendMode) HoldsAfterPresent() bool {
	return m == FrontendRetroArch
}

type Placement string

const (
	PlacementBottomCenter Placement = "bottom-center"
	PlacementBottomHalf   Placement = "bottom-half"
)

func ParsePlacement(s string) (Placement, error) {
	switch p := Placement(strings.ToLower(strings.TrimSpace(s))); p {
	case PlacementBottomCenter, PlacementBottomHalf:
		return p, nil
	case "":
		return PlacementBottomCenter, nil
	default:
		return PlacementBottomCenter, fmt.Errorf("unknown placement %q (want bottom-center or bottom-half)", s)
	}
}
