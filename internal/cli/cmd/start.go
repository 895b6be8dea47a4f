package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/danc/dmarquees/internal/arbiter"
	"github.com/danc/dmarquees/internal/assets"
	"github.com/danc/dmarquees/internal/command"
	"github.com/danc/dmarquees/internal/config"
	"github.com/danc/dmarquees/internal/display"
	"github.com/danc/dmarquees/internal/ipc"
	"github.com/danc/dmarquees/internal/marquee"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sevlyar/go-daemon"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const commandQueueSize = 32

// StartDaemon runs the marquee daemon in the foreground until EXIT, a stop
// request or a termination signal.
func StartDaemon(ctx context.Context, cfg *config.Config) error {
	log.Infof("StartDaemon() started in PID: %d", os.Getpid())

	if os.Getenv("BACKGROUND_PROCESS") == "1" {
		if err := setupRotatingLogger(cfg.LogDir, cfg.Debug); err != nil {
			return err
		}
	}

	socket := cfg.SocketPath()
	if _, err := ipc.SendStatus(socket); err == nil {
		log.Infof("dmarquees is already running, exiting")
		return nil
	}

	card, err := display.OpenCard(cfg.Device)
	if err != nil {
		return err
	}
	defer card.Close()
	log.Infof("Opened %s, driver %s", card.Path(), card.DriverName())

	fsys := afero.NewOsFs()
	session, err := marquee.NewSession(card, marquee.Options{
		PreferredWidth:  cfg.PreferredWidth,
		PreferredHeight: cfg.PreferredHeight,
		Placement:       cfg.PlacementMode(),
		Frontend:        cfg.FrontendMode(),
		Library: assets.NewLibrary(fsys, assets.LibraryConfig{
			ImageDir:   cfg.ImageDir,
			DefaultDir: cfg.DefaultDir,
			Defaults:   cfg.DefaultNames(),
		}),
		Lookup: assets.NewScreenLookup(fsys, cfg.IniDir),
		ArbiterOptions: []arbiter.Option{
			arbiter.WithHoldDuration(cfg.HoldDuration),
			arbiter.WithRetryInterval(cfg.RetryInterval),
			arbiter.WithThrottle(cfg.LogThrottle),
		},
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Errorf("Failed to release framebuffer: %v", err)
		}
	}()

	queue := command.NewQueue(commandQueueSize)

	fifo, err := command.OpenFIFO(cfg.FIFO)
	if err != nil {
		return err
	}
	defer fifo.Close()
	go fifo.Pump(queue)
	log.Infof("Listening for commands on %s", fifo.Path())

	loop := marquee.NewDaemon(session, queue, cfg.PollInterval)

	server, err := ipc.Listen(loop, ipc.Info{Socket: socket, Config: viper.ConfigFileUsed()})
	if err != nil {
		log.Warnf("Control socket disabled: %v", err)
	} else {
		go func() {
			log.Infof("Starting socket server on %s", server.Path())
			if err := server.Serve(); err != nil {
				log.Error(err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Warnf("Socket server shutdown: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = loop.Run(ctx)
	log.Infof("dmarquees exited")
	return err
}

// Daemonize re-executes the process in the background. It reports true in
// the parent, which should then exit.
func Daemonize(cfg *config.Config) (bool, error) {
	cntxt := &daemon.Context{
		WorkDir: "/",
		Umask:   0o022,
		Args:    os.Args,
		Env:     append(os.Environ(), "BACKGROUND_PROCESS=1"),
	}

	child, err := cntxt.Reborn()
	if err != nil {
		return false, fmt.Errorf("unable to run in background: %w", err)
	}
	if child != nil {
		log.Infof("dmarquees started in the background, PID %d, logging to %s", child.Pid, cfg.LogDir)
		return true, nil
	}
	return false, nil
}

func setupRotatingLogger(logDir string, debug bool) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logPath := filepath.Join(logDir, "dmarquees.log")

	writer, err := rotatelogs.New(
		logPath+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(logPath),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationSize(10*1024*1024),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("failed to configure log rotation: %w", err)
	}

	log.SetOutput(writer)
	log.SetLevel(log.InfoLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	return nil
}
