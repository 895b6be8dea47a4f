package ipc

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"resty.dev/v3"
)

func newClient(path string) *resty.Client {
	client := resty.NewWithClient(&http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", path)
			},
		},
	})

	client.SetBaseURL("http://dmarquees")
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "dmarquees")

	return client
}

// SendCommand queues one command line on the daemon listening at path.
func SendCommand(path, line string) (*Response, error) {
	client := newClient(path)
	defer client.Close()

	result := Response{}
	response, err := client.R().
		SetBody(CommandRequest{Command: line}).
		SetResult(&result).
		Post("/command")
	if err != nil {
		return nil, err
	}

	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("error sending command: %s", response.Status())
	}

	return &result, nil
}

func SendStatus(path string) (*StatusResponse, error) {
	client := newClient(path)
	defer client.Close()

	result := StatusResponse{}
	response, err := client.R().SetResult(&result).Get("/status")
	if err != nil {
		return nil, fmt.Errorf("error pinging socket: %w", err)
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("error pinging socket: %s", response.Status())
	}

	return &result, nil
}

func SendStop(path string) error {
	client := newClient(path)
	defer client.Close()

	response, err := client.R().Post("/stop")
	if err != nil {
		return err
	}
	if response.StatusCode() != http.StatusOK {
		return fmt.Errorf("error sending stop: %s", response.Status())
	}
	return nil
}
