package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danc/dmarquees/internal/types"
	"github.com/spf13/afero"
)

const imageExt = ".png"

// Library resolves marquee identifiers and frontend defaults to files.
type Library struct {
	fs         afero.Fs
	decoder    *Decoder
	imageDir   string
	defaultDir string
	defaults   map[types.FrontendMode]string
}

type LibraryConfig struct {
	ImageDir   string
	DefaultDir string
	Defaults   map[types.FrontendMode]string
}

func NewLibrary(fsys afero.Fs, cfg LibraryConfig) *Library {
	defaults := map[types.FrontendMode]string{
		types.FrontendNone:       "RetroPieMarquee",
		types.FrontendStandalone: "MAMELogoR",
		types.FrontendRetroArch:  "RetroArch_logo",
	}
	for m, name := range cfg.Defaults {
		if name != "" {
			defaults[m] = name
		}
	}

	return &Library{
		fs:         fsys,
		decoder:    NewDecoder(fsys),
		imageDir:   cfg.ImageDir,
		defaultDir: cfg.DefaultDir,
		defaults:   defaults,
	}
}

func (l *Library) DefaultName(m types.FrontendMode) string {
	if name, ok := l.defaults[m]; ok {
		return name
	}
	return l.defaults[types.FrontendNone]
}

func (l *Library) AssetPath(id string) string {
	return filepath.Join(l.imageDir, id+imageExt)
}

func (l *Library) DefaultPath(m types.FrontendMode) string {
	return filepath.Join(l.defaultDir, l.DefaultName(m)+imageExt)
}

// LoadAsset decodes the marquee for a title shortname.
func (l *Library) LoadAsset(id string) (*Image, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("%w: invalid identifier %q", ErrNotFound, id)
	}
	return l.decoder.Decode(l.AssetPath(id))
}

func (l *Library) LoadDefault(m types.FrontendMode) (*Image, error) {
	return l.decoder.Decode(l.DefaultPath(m))
}
