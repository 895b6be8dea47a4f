package dmarquees

import (
	_ "embed"
)

//go:embed VERSION
var Version string

//go:embed dmarquees.toml
var DefaultConfig string
