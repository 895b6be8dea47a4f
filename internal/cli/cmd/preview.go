package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/danc/dmarquees/internal/assets"
	"github.com/danc/dmarquees/internal/config"
	"github.com/danc/dmarquees/internal/preview"
	"github.com/danc/dmarquees/internal/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewPreviewCmd() *cobra.Command {
	var (
		width, height int
		placement     string
		output        string
		outline       bool
	)

	cmd := &cobra.Command{
		Use:   "preview <shortname|image.png>",
		Short: "Render a marquee to a PNG without a display",
		Long: `Composites a marquee exactly as the daemon would for a screen of the
given size and writes the result to a PNG. The argument is a shortname
looked up in image_dir, or a path to an image file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			if width == 0 {
				width = cfg.PreferredWidth
			}
			if height == 0 {
				height = cfg.PreferredHeight
			}
			p := cfg.PlacementMode()
			if placement != "" {
				if p, err = types.ParsePlacement(placement); err != nil {
					return err
				}
			}

			img, err := loadPreviewImage(cfg, args[0])
			if err != nil {
				return err
			}

			r, err := preview.Save(output, img, preview.Options{
				Width:     width,
				Height:    height,
				Placement: p,
				Outline:   outline,
			})
			if err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			log.Infof("Wrote %s (%dx%d, marquee at %v)", output, width, height, r)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "screen width (default preferred_width)")
	cmd.Flags().IntVar(&height, "height", 0, "screen height (default preferred_height)")
	cmd.Flags().StringVar(&placement, "placement", "", "bottom-center or bottom-half (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "preview.png", "output PNG file")
	cmd.Flags().BoolVar(&outline, "outline", false, "outline the drawn rectangle")

	return cmd
}

func loadPreviewImage(cfg *config.Config, arg string) (*assets.Image, error) {
	fsys := afero.NewOsFs()

	if ok, _ := afero.Exists(fsys, arg); ok {
		return assets.NewDecoder(fsys).Decode(arg)
	}

	library := assets.NewLibrary(fsys, assets.LibraryConfig{
		ImageDir:   cfg.ImageDir,
		DefaultDir: cfg.DefaultDir,
		Defaults:   cfg.DefaultNames(),
	})
	return library.LoadAsset(arg)
}
