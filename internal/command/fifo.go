package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// FIFO is the named pipe frontend plugins write commands into, one per line.
type FIFO struct {
	path string
	file *os.File
}

// OpenFIFO creates the pipe if needed, makes it writable by everyone and
// opens it. The pipe is opened read/write so that writers coming and going
// never produce end of file.
func OpenFIFO(path string) (*FIFO, error) {
	if err := unix.Mkfifo(path, 0o666); err != nil && !errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("%w: mkfifo %s: %w", ErrSourceUnavailable, path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if info.Mode()&fs.ModeNamedPipe == 0 {
		return nil, fmt.Errorf("%w: %s exists and is not a named pipe", ErrSourceUnavailable, path)
	}

	// mkfifo is subject to the umask
	if err := os.Chmod(path, 0o666); err != nil {
		log.Warnf("chmod %s: %v", path, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrSourceUnavailable, path, err)
	}

	return &FIFO{path: path, file: file}, nil
}

func (f *FIFO) Path() string {
	return f.path
}

// MaxLineLength bounds one command line. Longer lines are dropped whole and
// reading carries on with the next one.
const MaxLineLength = 4096

// Pump copies lines from the pipe into q until the FIFO is closed.
func (f *FIFO) Pump(q *Queue) {
	r := bufio.NewReaderSize(f.file, MaxLineLength)
	for {
		line, err := r.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			log.Warnf("dropping command line longer than %d bytes", MaxLineLength)
			err = skipLine(r)
			line = nil
		}
		if len(line) > 0 && !q.Push(string(line)) {
			log.Warnf("command queue full, dropped %q", line)
		}
		if err != nil {
			if !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.EOF) {
				log.Errorf("reading %s: %v", f.path, err)
			}
			return
		}
	}
}

// skipLine discards input up to and including the next newline.
func skipLine(r *bufio.Reader) error {
	for {
		_, err := r.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}

// Close stops Pump and removes the pipe.
func (f *FIFO) Close() error {
	err := f.file.Close()
	if rerr := os.Remove(f.path); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
		err = errors.Join(err, rerr)
	}
	return err
}
