// Package summary renders a parameter graph as a plain-text table for
// verbose runs.
package summary

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/zclconf/go-cty/cty"

	"github.com/galsed/sedfit/internal/params"
)

const maxListElements = 6

// Render writes one row per node in graph order: name, status, initial
// value, prior, dependency, shape.
func Render(w io.Writer, g *params.Graph) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATUS\tINIT\tPRIOR\tDEPENDS\tSHAPE")

	for _, n := range g.Nodes() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			n.Name,
			n.Status.String(),
			renderValue(n.Init),
			renderPrior(n),
			renderDependency(n),
			renderShape(n),
		)
	}
	return tw.Flush()
}

func renderValue(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() {
		return "-"
	}
	switch {
	case v.Type() == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case v.Type() == cty.Bool:
		return strconv.FormatBool(v.True())
	case v.Type() == cty.String:
		return v.AsString()
	case v.Type().IsListType() || v.Type().IsTupleType():
		n := v.LengthInt()
		if n > maxListElements {
			return fmt.Sprintf("[%d values]", n)
		}
		parts := make([]string, 0, n)
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			parts = append(parts, renderValue(ev))
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return v.GoString()
	}
}

func renderPrior(n params.Node) string {
	if n.Prior == nil {
		return "-"
	}
	return n.Prior.String()
}

func renderDependency(n params.Node) string {
	if n.Dependency == nil {
		return "-"
	}
	return fmt.Sprintf("%s(%s)", n.Dependency.Transform, strings.Join(n.Dependency.Sources, ", "))
}

func renderShape(n params.Node) string {
	if v := n.Init; v != cty.NilVal && !v.IsNull() {
		t := v.Type()
		if t.IsListType() || t.IsTupleType() {
			it := v.ElementIterator()
			if it.Next() {
				_, first := it.Element()
				ft := first.Type()
				if ft.IsListType() || ft.IsTupleType() {
					return fmt.Sprintf("(%d, %d)", v.LengthInt(), first.LengthInt())
				}
			}
			return fmt.Sprintf("(%d,)", v.LengthInt())
		}
	}
	if n.Arity == 1 {
		return "scalar"
	}
	return fmt.Sprintf("(%d,)", n.Arity)
}
