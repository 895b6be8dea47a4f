package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/danc/dmarquees/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Info is reported by GET /status alongside the daemon state.
type Info struct {
	Socket string
	Config string
}

type Server struct {
	echo *echo.Echo
	path string
}

// Listen binds the control socket at info.Socket, replacing a stale socket
// file left by a previous run.
func Listen(ctl Controller, info Info) (*Server, error) {
	if _, err := os.Stat(info.Socket); err == nil {
		_ = os.Remove(info.Socket)
	}

	listener, err := net.Listen("unix", info.Socket)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", info.Socket, err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Listener = listener

	e.Use(middleware.CharmLog())

	RegisterRoutes(e, ctl, info)

	return &Server{echo: e, path: info.Socket}, nil
}

func (s *Server) Path() string {
	return s.path
}

// Serve blocks until Shutdown.
func (s *Server) Serve() error {
	server := new(http.Server)
	if err := s.echo.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("socket server: %w", err)
	}
	return nil
}

// Shutdown stops the server and removes the socket file.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	// the listener is only closed by Shutdown once Serve has run
	_ = s.echo.Listener.Close()
	if rerr := os.Remove(s.path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
		log.Warnf("remove %s: %v", s.path, rerr)
	}
	return err
}
