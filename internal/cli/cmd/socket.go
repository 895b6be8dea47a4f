package cmd

import (
	"github.com/danc/dmarquees/internal/config"
	"github.com/spf13/viper"
)

func socketPath() string {
	if s := viper.GetString("socket"); s != "" {
		return config.CanonicalPath(s)
	}
	return config.DefaultSocketPath()
}
