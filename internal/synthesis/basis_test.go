package synthesis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galsed/sedfit/internal/fiterr"
	"github.com/galsed/sedfit/internal/params"
)

func graphWith(names ...string) *params.Graph {
	g := params.NewGraph()
	for _, n := range names {
		g.Set(params.Node{Name: n, Arity: 1, Status: params.Fixed, Init: params.Num(1)})
	}
	return g
}

func TestSelect(t *testing.T) {
	ctx := context.Background()

	t.Run("agebins picks the step basis", func(t *testing.T) {
		h, err := Select(ctx, graphWith("agebins", "mass"), 1)
		require.NoError(t, err)
		assert.Equal(t, BasisFastStep, h.Kind)
		assert.Equal(t, 1, h.ZContinuous)
		assert.False(t, h.SmoothLSF)
	})

	t.Run("tau picks the parametric basis", func(t *testing.T) {
		h, err := Select(ctx, graphWith("tau", "tage"), 2)
		require.NoError(t, err)
		assert.Equal(t, BasisCSP, h.Kind)
		assert.Equal(t, 2, h.ZContinuous)
	})

	t.Run("agebins wins over tau", func(t *testing.T) {
		h, err := Select(ctx, graphWith("tau", "agebins"), 1)
		require.NoError(t, err)
		assert.Equal(t, BasisFastStep, h.Kind)
	})

	t.Run("neither is a configuration error", func(t *testing.T) {
		_, err := Select(ctx, graphWith("logmass"), 1)
		require.Error(t, err)
		assert.True(t, fiterr.IsConfiguration(err))
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "FastStepBasis", BasisFastStep.String())
	assert.Equal(t, "CSPSpecBasis", BasisCSP.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestHandleSetLSF(t *testing.T) {
	h := &Handle{Kind: BasisFastStep}

	h.SetLSF(&Kernel{Wave: []float64{4000, 5000}, DeltaSigma: []float64{90, 70}})
	assert.True(t, h.SmoothLSF)
	assert.Equal(t, []float64{4000, 5000}, h.LSFWave)
	assert.Equal(t, []float64{90, 70}, h.LSFSigma)

	h.SetLSF(&Kernel{})
	assert.False(t, h.SmoothLSF)
	assert.Nil(t, h.LSFWave)
	assert.Nil(t, h.LSFSigma)

	h.SetLSF(&Kernel{Wave: []float64{4500}, DeltaSigma: []float64{10}})
	require.True(t, h.SmoothLSF)
	h.SetLSF(nil)
	assert.False(t, h.SmoothLSF)
}
