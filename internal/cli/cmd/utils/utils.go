package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/danc/dmarquees"
	"github.com/tidwall/pretty"
)

func PrintJSONColored(data interface{}) {
	j, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Errorf("Error marshalling JSON: %v", err)
		return
	}

	jPretty := pretty.Color(j, nil)
	log.Info(string(jPretty))
}

// ConfigInstallPath is where --installconfig writes: /etc/dmarquees when
// running as root, the user's config directory otherwise.
func ConfigInstallPath() string {
	if os.Geteuid() == 0 {
		return "/etc/dmarquees/dmarquees.toml"
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "dmarquees", "dmarquees.toml")
}

func InstallDefaultConfig() error {
	return InstallConfigAt(ConfigInstallPath())
}

// InstallConfigAt writes the embedded default config to configPath. An
// existing file is left alone.
func InstallConfigAt(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		log.Warnf("Config file already exists at %v", configPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(dmarquees.DefaultConfig), 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	log.Infof("Installed default config file at %v", configPath)
	return nil
}
