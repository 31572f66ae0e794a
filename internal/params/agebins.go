package params

import "math"

// Universe-age approximation and bin-edge anchors for the continuity SFH,
// all in log10 years unless noted. The first bin is pinned to [0, 10^7.48]
// yr and the second starts at 10^8 yr; interior edges spread evenly up to
// 85% of the universe age, with a final bin reaching the full age.
const (
	universeAgeGyr = 13.7
	firstBinEdge   = 7.4772
	secondBinEdge  = 8.0
)

// ContinuityAgeLims returns the nbins+1 time-bin edges in log10 years for
// an nbins continuity SFH. nbins must be at least 2.
func ContinuityAgeLims(nbins int) []float64 {
	tbinmax := universeAgeGyr * 0.85 * 1e9

	edges := make([]float64, 0, nbins+1)
	edges = append(edges, 0, firstBinEdge)
	edges = append(edges, linspace(secondBinEdge, math.Log10(tbinmax), nbins-2)...)
	edges = append(edges, math.Log10(universeAgeGyr*1e9))
	return edges
}

// AdjustAgeBins re-spaces the continuity template's time bins for the
// requested bin count: agebins gets nbins [lo, hi] rows, mass becomes an
// nbins vector, and logsfr_ratios shrinks or grows to nbins-1 zeros with
// its prior kept.
func AdjustAgeBins(g *Graph, nbins int) {
	edges := ContinuityAgeLims(nbins)
	rows := make([][2]float64, nbins)
	for i := 0; i < nbins; i++ {
		rows[i] = [2]float64{edges[i], edges[i+1]}
	}

	if n, ok := g.Get("agebins"); ok {
		n.Arity = nbins
		n.Init = Pairs(rows)
		g.Set(n)
	}
	if n, ok := g.Get("mass"); ok {
		n.Arity = nbins
		g.Set(n)
	}
	if n, ok := g.Get("logsfr_ratios"); ok {
		n.Arity = nbins - 1
		n.Init = Zeros(nbins - 1)
		g.Set(n)
	}
}

// linspace returns num evenly spaced values from start to stop inclusive.
// num <= 0 yields an empty slice; num == 1 yields just start.
func linspace(start, stop float64, num int) []float64 {
	if num <= 0 {
		return nil
	}
	if num == 1 {
		return []float64{start}
	}
	step := (stop - start) / float64(num-1)
	out := make([]float64, num)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[num-1] = stop
	return out
}
