package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/danc/dmarquees"
	commands "github.com/danc/dmarquees/internal/cli/cmd"
	"github.com/danc/dmarquees/internal/cli/cmd/utils"
	"github.com/danc/dmarquees/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dmarquees",
	Short: "A DRM marquee daemon for arcade cabinets",
	Long: `dmarquees shows a still marquee image on a second display driven
through DRM/KMS. Frontends tell it which game is running through a named
pipe; it shares the display with emulators that take it over.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, err := cmd.Flags().GetBool("show-config"); err == nil && v {
			log.Infof("Using config file: %v", viper.ConfigFileUsed())
			log.Infof("All settings:")
			utils.PrintJSONColored(viper.AllSettings())
			return nil
		}

		if v, err := cmd.Flags().GetBool("version"); err == nil && v {
			printVersion()
			return nil
		}

		if v, err := cmd.Flags().GetBool("installconfig"); err == nil && v {
			return utils.InstallDefaultConfig()
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		if cfg.Debug {
			log.SetLevel(log.DebugLevel)
		}

		if v, err := cmd.Flags().GetBool("background"); err == nil && v && os.Getenv("BACKGROUND_PROCESS") != "1" {
			child, err := commands.Daemonize(cfg)
			if err != nil {
				return err
			}
			if child {
				return nil
			}
		}

		return commands.StartDaemon(cmd.Context(), cfg)
	},
}

func printVersion() {
	babyBlue := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
	log.Infof("%v version %v",
		babyBlue.Render("dmarquees"),
		green.Render(strings.Trim(dmarquees.Version, "\n\r ")))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Error(err)
		os.Exit(ExitCode(err))
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	RegisterFlags(rootCmd)

	rootCmd.AddCommand(commands.NewSendCmd())
	rootCmd.AddCommand(commands.NewStatusCmd())
	rootCmd.AddCommand(commands.NewStopCmd())
	rootCmd.AddCommand(commands.NewPreviewCmd())
	rootCmd.AddCommand(commands.NewGenManCmd(rootCmd))
}
