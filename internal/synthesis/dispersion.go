package synthesis

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/galsed/sedfit/internal/ctxlog"
	"github.com/galsed/sedfit/internal/fiterr"
)

// DispersionCurve tabulates an instrument resolving power R against
// wavelength in microns, sorted ascending.
type DispersionCurve struct {
	Wave []float64
	R    []float64
}

// LoadDispersion reads a resolution curve from path. Files ending in
// .fits or .fit are read as FITS tables with wavelength and resolution
// columns; anything else is parsed as whitespace-separated columns with
// wavelength first and resolving power last, so three-column grating
// files (wave, dlds, R) need no preprocessing.
func LoadDispersion(ctx context.Context, path string) (*DispersionCurve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fiterr.MissingResource(path, err)
	}
	defer f.Close()

	var (
		curve   *DispersionCurve
		readErr error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fits", ".fit":
		curve, readErr = readFITSCurve(f)
	default:
		curve, readErr = readASCIICurve(f)
	}
	if readErr != nil {
		return nil, fmt.Errorf("reading dispersion curve %s: %w", path, readErr)
	}
	if len(curve.Wave) < 2 {
		return nil, fiterr.DataShape("dispersion curve "+path, 2, len(curve.Wave))
	}

	sort.Sort(waveSorter{curve.Wave, curve.R})
	ctxlog.FromContext(ctx).Debug("Loaded dispersion curve",
		"path", path, "samples", len(curve.Wave))
	return curve, nil
}

// ResolutionAt evaluates R at the given wavelength (microns) by linear
// interpolation, extrapolating with the end-segment slopes outside the
// tabulated range.
func (c *DispersionCurve) ResolutionAt(wave float64) float64 {
	return interpLinear(c.Wave, c.R, wave)
}

// sigmaInst converts the tabulated resolving powers to instrumental
// velocity dispersions, sigma = c / (R * fwhmToSigma), in km/s.
func (c *DispersionCurve) sigmaInst() []float64 {
	out := make([]float64, len(c.R))
	for i, r := range c.R {
		out[i] = lightspeedKms / (r * fwhmToSigma)
	}
	return out
}

func readASCIICurve(r io.Reader) (*DispersionCurve, error) {
	curve := &DispersionCurve{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fiterr.DataShape(fmt.Sprintf("line %d", line), 2, len(fields))
		}
		w, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad wavelength %q: %w", line, fields[0], err)
		}
		res, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad resolving power %q: %w", line, fields[len(fields)-1], err)
		}
		curve.Wave = append(curve.Wave, w)
		curve.R = append(curve.R, res)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return curve, nil
}

func readFITSCurve(r io.Reader) (*DispersionCurve, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tbl *fitsio.Table
	for _, hdu := range f.HDUs() {
		if t, ok := hdu.(*fitsio.Table); ok {
			tbl = t
			break
		}
	}
	if tbl == nil {
		return nil, fmt.Errorf("no table extension")
	}

	waveName, resName := "", ""
	var names []string
	for _, col := range tbl.Cols() {
		names = append(names, col.Name)
		switch {
		case isWaveColumn(col.Name):
			waveName = col.Name
		case isResolutionColumn(col.Name):
			resName = col.Name
		}
	}
	if waveName == "" || resName == "" {
		return nil, fmt.Errorf("table lacks wavelength and resolution columns (have %v)", names)
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	curve := &DispersionCurve{}
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.Scan(&row); err != nil {
			return nil, err
		}
		w, err := numericCell(row, waveName)
		if err != nil {
			return nil, err
		}
		res, err := numericCell(row, resName)
		if err != nil {
			return nil, err
		}
		curve.Wave = append(curve.Wave, w)
		curve.R = append(curve.R, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return curve, nil
}

func isWaveColumn(name string) bool {
	switch strings.ToUpper(name) {
	case "WAVELENGTH", "WAVE", "LAMBDA":
		return true
	}
	return false
}

func isResolutionColumn(name string) bool {
	switch strings.ToUpper(name) {
	case "R", "RESOLUTION":
		return true
	}
	return false
}

func numericCell(row map[string]interface{}, name string) (float64, error) {
	v, ok := row[name]
	if !ok {
		return 0, fmt.Errorf("row lacks column %q", name)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("column %q holds %T, not a number", name, v)
	}
}

// waveSorter orders a curve by wavelength, carrying R along.
type waveSorter struct{ w, r []float64 }

func (s waveSorter) Len() int           { return len(s.w) }
func (s waveSorter) Less(i, j int) bool { return s.w[i] < s.w[j] }
func (s waveSorter) Swap(i, j int) {
	s.w[i], s.w[j] = s.w[j], s.w[i]
	s.r[i], s.r[j] = s.r[j], s.r[i]
}

// interpLinear evaluates the piecewise-linear function through (xs, ys)
// at x. Outside the knots it continues the first or last segment. xs
// must be ascending with at least two entries.
func interpLinear(xs, ys []float64, x float64) float64 {
	n := len(xs)
	i := sort.SearchFloat64s(xs, x)
	switch {
	case i == 0:
		i = 1
	case i >= n:
		i = n - 1
	}
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	if x1 == x0 {
		return y0
	}
	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}
