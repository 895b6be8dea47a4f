package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/danc/dmarquees/internal/config"
	"github.com/spf13/viper"
)

var errConfig = errors.New("configuration error")

func InitConfig() {
	v := viper.GetViper()

	config.SetDefaults(v)
	config.AddConfigPaths(v, cfgFile)

	if err := config.Read(v); err != nil {
		log.Fatal(fmt.Errorf("%w: %w", errConfig, err))
	}

	if v.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
}
