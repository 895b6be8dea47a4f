package ipc

import "github.com/danc/dmarquees/internal/marquee"

// Controller is the part of the daemon the control socket drives.
type Controller interface {
	Status() marquee.Status
	Enqueue(line string) bool
	Stop()
}

type CommandRequest struct {
	Command string `json:"command"`
}

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type StatusResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Version   string `json:"version"`
	PID       int    `json:"pid"`
	Socket    string `json:"socket"`
	Config    string `json:"config"`
	Frontend  string `json:"frontend"`
	Current   string `json:"current"`
	State     string `json:"state"`
	Presented int    `json:"presented"`
	Commands  int    `json:"commands"`
	Output    string `json:"output"`
	Mode      string `json:"mode"`
}
