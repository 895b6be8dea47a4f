package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/danc/dmarquees/internal/ipc"
	"github.com/spf13/cobra"
)

func NewSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <command>",
		Short: "Send a command to the running daemon",
		Long: `Queues one command on the running daemon through its control socket.
A command is EXIT, CLEAR, RESET, RA, SA, NA or a game shortname.`,
		Args:    cobra.ExactArgs(1),
		Example: "  dmarquees send sf2\n  dmarquees send RA",
		RunE: func(cmd *cobra.Command, args []string) error {
			line := args[0]
			if _, err := ipc.SendCommand(socketPath(), line); err != nil {
				return err
			}
			log.Infof("Sent %q", line)
			return nil
		},
	}
}
