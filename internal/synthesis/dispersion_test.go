package synthesis

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galsed/sedfit/internal/fiterr"
)

func writeCurve(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disp.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDispersionASCII(t *testing.T) {
	// Unsorted rows, a comment, a blank line, and a three-column grating
	// row whose middle field must be ignored.
	path := writeCurve(t, `# wave dlds R
2.0 0.001 200

1.0 100
3.0 300
`)

	c, err := LoadDispersion(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, c.Wave)
	assert.Equal(t, []float64{100, 200, 300}, c.R)
}

func TestResolutionAt(t *testing.T) {
	c := &DispersionCurve{Wave: []float64{1, 2, 3}, R: []float64{100, 200, 300}}

	cases := []struct {
		name string
		wave float64
		want float64
	}{
		{"interior", 1.5, 150},
		{"exact knot", 2.0, 200},
		{"first knot", 1.0, 100},
		{"below range extrapolates", 0.5, 50},
		{"above range extrapolates", 3.5, 350},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, c.ResolutionAt(tc.wave), 1e-12)
		})
	}
}

func TestInterpLinearDuplicateKnot(t *testing.T) {
	got := interpLinear([]float64{1, 1, 2}, []float64{5, 7, 9}, 1.0)
	assert.Equal(t, 5.0, got)
}

func TestLoadDispersionMissing(t *testing.T) {
	_, err := LoadDispersion(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, fiterr.IsMissingResource(err))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadDispersionTooFewSamples(t *testing.T) {
	path := writeCurve(t, "1.0 100\n")
	_, err := LoadDispersion(context.Background(), path)
	require.Error(t, err)
	assert.True(t, fiterr.IsDataShape(err))
}

func TestLoadDispersionBadRows(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		path := writeCurve(t, "1.0 100\n2.5\n")
		_, err := LoadDispersion(context.Background(), path)
		require.Error(t, err)
		assert.True(t, fiterr.IsDataShape(err))
	})

	t.Run("non-numeric field", func(t *testing.T) {
		path := writeCurve(t, "1.0 100\ntwo 200\n")
		_, err := LoadDispersion(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}
