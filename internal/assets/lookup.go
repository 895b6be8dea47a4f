package assets

import (
	"bufio"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// ScreenLookup reads MAME per-game ini files to find titles that drive more
// than one screen.
type ScreenLookup struct {
	fs  afero.Fs
	dir string
}

func NewScreenLookup(fsys afero.Fs, dir string) *ScreenLookup {
	return &ScreenLookup{fs: fsys, dir: dir}
}

// HasMultipleScreens reports whether <dir>/<id>.ini declares numscreens > 1.
// Only the first line keyed exactly numscreens counts. A missing file means
// one screen.
func (l *ScreenLookup) HasMultipleScreens(id string) bool {
	if l.dir == "" || id == "" || strings.ContainsAny(id, `/\`) {
		return false
	}

	path := filepath.Join(l.dir, id+".ini")
	f, err := l.fs.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "numscreens" {
			continue
		}
		if len(fields) < 2 {
			return false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			log.Debugf("unreadable numscreens in %s: %q", path, scanner.Text())
			return false
		}
		return n > 1
	}

	return false
}
