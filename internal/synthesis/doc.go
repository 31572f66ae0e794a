// Package synthesis selects the stellar population engine matching a
// parameter graph and prepares instrument resolution kernels for it.
//
// Engine choice follows the graph shape: time-binned graphs (an agebins
// node) run on the piecewise-constant basis, parametric graphs (a tau
// node) on the composite population basis. Resolution kernels are built
// from tabulated dispersion curves (FITS or whitespace ASCII) by
// quadrature subtraction of the library broadening.
package synthesis
