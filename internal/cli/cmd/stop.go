package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/danc/dmarquees/internal/ipc"
	"github.com/spf13/cobra"
)

func NewStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the dmarquees daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ipc.SendStop(socketPath()); err != nil {
				return err
			}
			log.Info("Stop command sent")
			return nil
		},
	}
}
