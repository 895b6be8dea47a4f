package command

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrTimeout           = errors.New("no command before timeout")
	ErrSourceUnavailable = errors.New("command source unavailable")
)

// Source yields trimmed, non-empty command lines.
type Source interface {
	Next(ctx context.Context, timeout time.Duration) (string, error)
}

// Queue is a bounded Source fed by any number of producers.
type Queue struct {
	lines chan string
}

func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{lines: make(chan string, size)}
}

// Push trims line and queues it. Empty lines are dropped. It reports false
// when the queue is full and the line was discarded.
func (q *Queue) Push(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}

	select {
	case q.lines <- line:
		return true
	default:
		return false
	}
}

// Next waits at most timeout for a line. It returns ErrTimeout when nothing
// arrived and the context error when ctx ends first.
func (q *Queue) Next(ctx context.Context, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line := <-q.lines:
		return line, nil
	case <-timer.C:
		return "", ErrTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (q *Queue) Len() int {
	return len(q.lines)
}
