package assets

import (
	"image/color"
	"testing"

	"github.com/danc/dmarquees/internal/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLibrary(fsys afero.Fs) *Library {
	return NewLibrary(fsys, LibraryConfig{
		ImageDir:   "/marquees",
		DefaultDir: "/defaults",
		Defaults:   map[types.FrontendMode]string{types.FrontendStandalone: "MAMELogoR"},
	})
}

func TestDecode(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePNG(t, fsys, "/marquees/sf2.png", 3, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	img, err := NewDecoder(fsys).Decode("/marquees/sf2.png")
	require.NoError(t, err)

	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	require.Len(t, img.Pix, 3*2*4)
	// non-premultiplied: colour survives a translucent alpha
	assert.Equal(t, []byte{10, 20, 30, 128}, img.Pix[:4])
}

func TestDecodeErrors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/marquees/broken.png", []byte("not a png"), 0o644))

	d := NewDecoder(fsys)

	_, err := d.Decode("/marquees/missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.Decode("/marquees/broken.png")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLibraryPaths(t *testing.T) {
	lib := newTestLibrary(afero.NewMemMapFs())

	assert.Equal(t, "/marquees/pacman.png", lib.AssetPath("pacman"))
	assert.Equal(t, "/defaults/RetroPieMarquee.png", lib.DefaultPath(types.FrontendNone))
	assert.Equal(t, "/defaults/MAMELogoR.png", lib.DefaultPath(types.FrontendStandalone))
	assert.Equal(t, "/defaults/RetroArch_logo.png", lib.DefaultPath(types.FrontendRetroArch))
}

func TestLibraryLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePNG(t, fsys, "/marquees/galaga.png", 8, 2, color.NRGBA{R: 255, A: 255})
	writePNG(t, fsys, "/defaults/RetroArch_logo.png", 4, 4, color.NRGBA{B: 255, A: 255})
	lib := newTestLibrary(fsys)

	img, err := lib.LoadAsset("galaga")
	require.NoError(t, err)
	assert.Equal(t, 8, img.Width)

	img, err = lib.LoadDefault(types.FrontendRetroArch)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Height)

	_, err = lib.LoadAsset("sf2")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, id := range []string{"", "..", "../etc/passwd", `a\b`} {
		_, err = lib.LoadAsset(id)
		assert.ErrorIs(t, err, ErrNotFound, id)
	}
}

func TestScreenLookup(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/ini/pacman.ini":   "# pacman\nrotate 0\nnumscreens 2\n",
		"/ini/galaga.ini":   "numscreens 1\n",
		"/ini/darius.ini":   "NumScreens    3\nnumscreens 1\n",
		"/ini/ddragon.ini":  "numscreens_x 3\nnumscreens    2\n",
		"/ini/wide.ini":     "numscreens_x 3\n",
		"/ini/garbage.ini":  "numscreens two\n",
		"/ini/noscreen.ini": "rotate 90\n",
	}
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(body), 0o644))
	}

	lookup := NewScreenLookup(fsys, "/ini")

	tests := map[string]bool{
		"pacman":   true,
		"galaga":   false,
		"darius":   false,
		"ddragon":  true,
		"wide":     false,
		"garbage":  false,
		"noscreen": false,
		"missing":  false,
		"":         false,
	}
	for id, want := range tests {
		assert.Equal(t, want, lookup.HasMultipleScreens(id), id)
	}

	assert.False(t, NewScreenLookup(fsys, "").HasMultipleScreens("pacman"))
}
