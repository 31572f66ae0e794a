package observation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/galsed/sedfit/internal/ctxlog"
	"github.com/galsed/sedfit/internal/fiterr"
	"github.com/galsed/sedfit/internal/fsutil"
)

// Load reads one observation document. JSON files carry both channels;
// FITS files carry a 1-D spectrum in the first table extension plus
// OBJECT and REDSHIFT header cards. The observation comes back
// validated but not yet cleaned.
func Load(ctx context.Context, path string) (*Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fiterr.MissingResource(path, err)
	}
	defer f.Close()

	var obs *Observation
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		obs, err = readJSON(f)
	case ".fits", ".fit":
		obs, err = readFITS(f)
	default:
		return nil, fiterr.Configuration("unsupported observation format %q (want .json or .fits)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("reading observation %s: %w", path, err)
	}

	if obs.Name == "" {
		obs.Name = fsutil.StemName(path)
	}
	if err := obs.Validate(); err != nil {
		return nil, fmt.Errorf("observation %s: %w", path, err)
	}

	log := ctxlog.FromContext(ctx)
	attrs := []any{"name", obs.Name}
	if obs.Spectrum != nil {
		attrs = append(attrs, "spec_pixels", len(obs.Spectrum.Wavelength))
	}
	if obs.Photometry != nil {
		attrs = append(attrs, "phot_bands", len(obs.Photometry.Filters))
	}
	if obs.Redshift != nil {
		attrs = append(attrs, "redshift", *obs.Redshift)
	}
	log.Debug("Loaded observation", attrs...)
	return obs, nil
}

type jsonSpectrum struct {
	Wavelength  []float64 `json:"wavelength"`
	Flux        []float64 `json:"flux"`
	Uncertainty []float64 `json:"uncertainty"`
	Mask        []bool    `json:"mask"`
}

type jsonPhotometry struct {
	Filters    []string  `json:"filters"`
	Maggies    []float64 `json:"maggies"`
	MaggiesUnc []float64 `json:"maggies_unc"`
	Mask       []bool    `json:"mask"`
}

type jsonDoc struct {
	Name         string          `json:"name"`
	Redshift     *float64        `json:"redshift"`
	Spectroscopy *jsonSpectrum   `json:"spectroscopy"`
	Photometry   *jsonPhotometry `json:"photometry"`
}

func readJSON(r io.Reader) (*Observation, error) {
	var doc jsonDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	obs := &Observation{Name: doc.Name, Redshift: doc.Redshift}
	if s := doc.Spectroscopy; s != nil {
		obs.Spectrum = &Spectrum{
			Wavelength:  s.Wavelength,
			Flux:        s.Flux,
			Uncertainty: s.Uncertainty,
			Mask:        s.Mask,
		}
	}
	if p := doc.Photometry; p != nil {
		obs.Photometry = &Photometry{
			Filters:    p.Filters,
			Maggies:    p.Maggies,
			MaggiesUnc: p.MaggiesUnc,
			Mask:       p.Mask,
		}
	}
	return obs, nil
}

func readFITS(r io.Reader) (*Observation, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	obs := &Observation{}
	if len(f.HDUs()) > 0 {
		hdr := f.HDU(0).Header()
		if c := hdr.Get("OBJECT"); c != nil {
			if s, ok := c.Value.(string); ok {
				obs.Name = strings.TrimSpace(s)
			}
		}
		for _, key := range []string{"REDSHIFT", "Z"} {
			c := hdr.Get(key)
			if c == nil {
				continue
			}
			if z, ok := headerFloat(c.Value); ok {
				obs.Redshift = &z
				break
			}
		}
	}

	var tbl *fitsio.Table
	for _, hdu := range f.HDUs() {
		if t, ok := hdu.(*fitsio.Table); ok {
			tbl = t
			break
		}
	}
	if tbl == nil {
		return nil, fmt.Errorf("no table extension with spectral columns")
	}

	waveName, fluxName, uncName, maskName := "", "", "", ""
	var names []string
	for _, col := range tbl.Cols() {
		names = append(names, col.Name)
		switch strings.ToUpper(col.Name) {
		case "WAVELENGTH", "WAVE", "LAMBDA":
			waveName = col.Name
		case "FLUX":
			fluxName = col.Name
		case "UNCERTAINTY", "UNC", "ERR", "ERROR", "SIGMA":
			uncName = col.Name
		case "MASK":
			maskName = col.Name
		}
	}
	if waveName == "" || fluxName == "" || uncName == "" {
		return nil, fmt.Errorf("table lacks wavelength, flux, and uncertainty columns (have %v)", names)
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spec := &Spectrum{}
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.Scan(&row); err != nil {
			return nil, err
		}
		w, ok := headerFloat(row[waveName])
		if !ok {
			return nil, fmt.Errorf("column %q holds %T, not a number", waveName, row[waveName])
		}
		fl, ok := headerFloat(row[fluxName])
		if !ok {
			return nil, fmt.Errorf("column %q holds %T, not a number", fluxName, row[fluxName])
		}
		unc, ok := headerFloat(row[uncName])
		if !ok {
			return nil, fmt.Errorf("column %q holds %T, not a number", uncName, row[uncName])
		}
		spec.Wavelength = append(spec.Wavelength, w)
		spec.Flux = append(spec.Flux, fl)
		spec.Uncertainty = append(spec.Uncertainty, unc)
		if maskName != "" {
			spec.Mask = append(spec.Mask, cellBool(row[maskName]))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	obs.Spectrum = spec
	return obs, nil
}

func headerFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case int16:
		return float64(x), true
	case int8:
		return float64(x), true
	case uint8:
		return float64(x), true
	default:
		return 0, false
	}
}

func cellBool(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	default:
		f, ok := headerFloat(v)
		return ok && f != 0
	}
}
