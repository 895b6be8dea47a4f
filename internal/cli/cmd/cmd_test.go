package cmd

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/danc/dmarquees/internal/ipc"
	"github.com/danc/dmarquees/internal/marquee"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	lines   []string
	stopped bool
}

func (r *recorder) Status() marquee.Status { return marquee.Status{State: "idle"} }

func (r *recorder) Enqueue(line string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
	return true
}

func (r *recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
}

func startServer(t *testing.T) *recorder {
	t.Helper()

	path := filepath.Join(t.TempDir(), "d.sock")
	viper.Set("socket", path)
	t.Cleanup(func() { viper.Set("socket", "") })

	rec := &recorder{}
	srv, err := ipc.Listen(rec, ipc.Info{Socket: path})
	require.NoError(t, err)
	go srv.Serve()
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return rec
}

func TestSendStatusStopCommands(t *testing.T) {
	rec := startServer(t)

	send := NewSendCmd()
	send.SetArgs([]string{"sf2"})
	require.NoError(t, send.Execute())

	status := NewStatusCmd()
	status.SetArgs([]string{})
	require.NoError(t, status.Execute())

	stop := NewStopCmd()
	stop.SetArgs([]string{})
	require.NoError(t, stop.Execute())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{"sf2"}, rec.lines)
	assert.True(t, rec.stopped)
}

func TestSendWithoutDaemon(t *testing.T) {
	viper.Set("socket", filepath.Join(t.TempDir(), "none.sock"))
	t.Cleanup(func() { viper.Set("socket", "") })

	send := NewSendCmd()
	send.SetArgs([]string{"CLEAR"})
	send.SilenceUsage = true
	send.SilenceErrors = true
	assert.Error(t, send.Execute())
}
