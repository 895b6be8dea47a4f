package ipc

import (
	"net/http"
	"os"
	"strings"
	"unicode"

	"github.com/danc/dmarquees"
	"github.com/labstack/echo/v4"
)

// GET /status
func statusHandler(ctl Controller, info Info) echo.HandlerFunc {
	return func(c echo.Context) error {
		st := ctl.Status()
		return c.JSONPretty(http.StatusOK, StatusResponse{
			Status:    "ok",
			Message:   "dmarquees is running",
			Version:   strings.Trim(dmarquees.Version, "\n\r "),
			PID:       os.Getpid(),
			Socket:    info.Socket,
			Config:    info.Config,
			Frontend:  st.Frontend.String(),
			Current:   st.Current,
			State:     st.State,
			Presented: st.Presented,
			Commands:  st.Commands,
			Output:    st.Output,
			Mode:      st.Mode,
		}, "  ")
	}
}

// POST /command
func commandHandler(ctl Controller) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req CommandRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "invalid command request"})
		}

		line := strings.TrimSpace(req.Command)
		if line == "" {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "empty command"})
		}
		if strings.ContainsFunc(line, unicode.IsSpace) {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "command must be a single word"})
		}

		if !ctl.Enqueue(line) {
			return c.JSON(http.StatusServiceUnavailable, Response{Status: "error", Message: "command queue full"})
		}

		return c.JSON(http.StatusOK, Response{Status: "ok", Message: line})
	}
}

// POST /stop
func stopHandler(ctl Controller) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctl.Stop()
		return c.JSON(http.StatusOK, Response{Status: "ok"})
	}
}
