package cmd

import (
	"github.com/danc/dmarquees/internal/ipc"
	"github.com/danc/dmarquees/internal/cli/cmd/utils"
	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get dmarquees status",
		Long:  `Returns the current status of the dmarquees process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			response, err := ipc.SendStatus(socketPath())
			if err != nil {
				return err
			}

			utils.PrintJSONColored(response)
			return nil
		},
	}
}
