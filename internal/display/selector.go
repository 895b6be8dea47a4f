package display

// SelectOutput picks the output and mode to drive. Every connected output is
// searched for the preferred resolution first; only when none offers it does
// the first connected output with any mode win, using its first mode. Ties go
// to the lowest connector index in both passes.
func SelectOutput(outputs []Output, preferredW, preferredH int) (Output, Mode, error) {
	for _, out := range outputs {
		if !out.Connected {
			continue
		}
		for _, m := range out.Modes {
			if m.Width == preferredW && m.Height == preferredH {
				return out, m, nil
			}
		}
	}

	for _, out := range outputs {
		if !out.Connected || len(out.Modes) == 0 {
			continue
		}
		return out, out.Modes[0], nil
	}

	return Output{}, Mode{}, ErrNoDisplayFound
}
