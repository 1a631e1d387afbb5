package main

import (
	"fmt"

	"github.com/njchilds90/gosymbol"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/extrema/algebra"
)

const plotSamples = 400

// renderPlot draws a univariate objective over its bound (or a window
// around the marked points when unbounded) and overlays the critical
// points as a scatter.
func renderPlot(f gosymbol.Expr, x string, r algebra.Range, pts [][]gosymbol.Expr, out string) error {
	lo, hi := plotWindow(r, pts)
	line := make(plotter.XYs, 0, plotSamples)
	for i := 0; i <= plotSamples; i++ {
		xv := lo + (hi-lo)*float64(i)/plotSamples
		yv, ok := algebra.EvalFloat(gosymbol.Sub(f, x, gosymbol.NFloat(xv)))
		if !ok {
			continue
		}
		line = append(line, plotter.XY{X: xv, Y: yv})
	}
	marks := make(plotter.XYs, 0, len(pts))
	for _, p := range pts {
		if len(p) != 1 {
			continue
		}
		xv, ok := algebra.EvalFloat(p[0])
		if !ok {
			continue
		}
		yv, ok := algebra.EvalFloat(gosymbol.Sub(f, x, gosymbol.NFloat(xv)))
		if !ok {
			continue
		}
		marks = append(marks, plotter.XY{X: xv, Y: yv})
	}

	pl := plot.New()
	pl.Title.Text = f.String()
	pl.X.Label.Text = x
	pl.Y.Label.Text = "f(" + x + ")"
	l, err := plotter.NewLine(line)
	if err != nil {
		return fmt.Errorf("extrema: plot line: %w", err)
	}
	pl.Add(l)
	if len(marks) > 0 {
		s, serr := plotter.NewScatter(marks)
		if serr != nil {
			return fmt.Errorf("extrema: plot scatter: %w", serr)
		}
		pl.Add(s)
	}

	return pl.Save(6*vg.Inch, 4*vg.Inch, out)
}

// plotWindow picks the sampling interval: the variable's bound when both
// sides are finite, otherwise a window around the critical points.
func plotWindow(r algebra.Range, pts [][]gosymbol.Expr) (float64, float64) {
	if lo, ok := boundFloat(r.Lo); ok {
		if hi, ok2 := boundFloat(r.Hi); ok2 {
			return lo, hi
		}
	}
	lo, hi := -1.0, 1.0
	for _, p := range pts {
		if len(p) != 1 {
			continue
		}
		if v, ok := algebra.EvalFloat(p[0]); ok {
			if v-2 < lo {
				lo = v - 2
			}
			if v+2 > hi {
				hi = v + 2
			}
		}
	}

	return lo, hi
}

func boundFloat(e gosymbol.Expr) (float64, bool) {
	if e == nil {
		return 0, false
	}

	return algebra.EvalFloat(e)
}
