package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontendMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FrontendMode
		wantErr bool
	}{
		{"NA", FrontendNone, false},
		{"sa", FrontendStandalone, false},
		{" Ra ", FrontendRetroArch, false},
		{"", FrontendNone, false},
		{"mame", FrontendNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFrontendMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHoldsAfterPresent(t *testing.T) {
	assert.True(t, FrontendRetroArch.HoldsAfterPresent())
	assert.False(t, FrontendStandalone.HoldsAfterPresent())
	assert.False(t, FrontendNone.HoldsAfterPresent())
}

func TestParsePlacement(t *testing.T) {
	p, err := ParsePlacement("Bottom-Half")
	require.NoError(t, err)
	assert.Equal(t, PlacementBottomHalf, p)

	p, err = ParsePlacement("")
	require.NoError(t, err)
	assert.Equal(t, PlacementBottomCenter, p)

	_, err = ParsePlacement("stretched")
	assert.Error(t, err)
}
