// Command extrema finds global or local extrema of a differentiable
// function of one or more variables, optionally under constraints.
//
// Usage:
//
//	extrema -f "x^2+2*y^2" -vars x,y -constr "x^2-2*x+2*y^2+4*y=0"
//	extrema -f "x^3-3*x" -vars "x=-3..3" -mode local
//	extrema -f "x^2" -vars "x=0..2" -plot out.png
//
// Variables are comma-separated; a variable may carry a bound in the form
// name=lo..hi, with either side left empty for a one-sided bound.
// Constraints are semicolon-separated relations built from =, <= and >=.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/algebra"
	"github.com/katalvlaran/extrema/extremum"
	"github.com/katalvlaran/extrema/kkt"
)

func main() {
	var (
		fExpr   = flag.String("f", "", "objective expression (required)")
		varList = flag.String("vars", "", "comma-separated variables, optionally bounded as x=lo..hi (required)")
		conList = flag.String("constr", "", "semicolon-separated constraints (=, <=, >=)")
		mode    = flag.String("mode", "global", "global, min, max or local")
		order   = flag.Int("order", extremum.DefaultMaxOrder, "derivative order budget for -mode local")
		plotOut = flag.String("plot", "", "render a univariate objective with critical points to this PNG")
	)
	flag.Parse()
	if *fExpr == "" || *varList == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*fExpr, *varList, *conList, *mode, *order, *plotOut); err != nil {
		fmt.Fprintln(os.Stderr, "extrema:", err)
		os.Exit(1)
	}
}

func run(fExpr, varList, conList, mode string, order int, plotOut string) error {
	f, err := parseExpr(fExpr)
	if err != nil {
		return err
	}
	vars, bounds, err := parseVars(varList)
	if err != nil {
		return err
	}
	var constraints []kkt.Constraint
	if conList != "" {
		for _, src := range strings.Split(conList, ";") {
			c, cerr := parseConstraint(strings.TrimSpace(src))
			if cerr != nil {
				return cerr
			}
			constraints = append(constraints, c)
		}
	}
	opts := []extremum.Option{extremum.WithMaxOrder(order)}
	for name, r := range bounds {
		opts = append(opts, extremum.WithBound(name, r))
	}

	switch mode {
	case "global":
		res, gerr := extremum.Global(f, constraints, vars, opts...)
		if gerr != nil {
			return gerr
		}
		fmt.Printf("minimum: %s at %s\n", res.Min.String(), formatPoints(vars, res.MinPoints))
		fmt.Printf("maximum: %s\n", res.Max.String())
		if plotOut != "" && len(vars) == 1 {
			return renderPlot(f, vars[0], bounds[vars[0]], res.MinPoints, plotOut)
		}

		return nil
	case "min", "max":
		verb := extremum.Minimize
		if mode == "max" {
			verb = extremum.Maximize
		}
		val, pts, verr := verb(f, constraints, vars, opts...)
		if verr != nil {
			return verr
		}
		fmt.Printf("%s: %s at %s\n", mode, val.String(), formatPoints(vars, pts))
		if plotOut != "" && len(vars) == 1 {
			return renderPlot(f, vars[0], bounds[vars[0]], pts, plotOut)
		}

		return nil
	case "local":
		g, h, serr := kkt.Split(constraints)
		if serr != nil {
			return serr
		}
		if len(g) > 0 {
			return fmt.Errorf("extrema: -mode local accepts equality constraints only")
		}
		pts, lerr := extremum.Local(f, h, vars, opts...)
		if lerr != nil {
			return lerr
		}
		for _, cp := range pts {
			line := formatPoint(vars, cp.Point) + ": " + cp.Class.String()
			if cp.Note != "" {
				line += " (" + cp.Note + ")"
			}
			fmt.Println(line)
		}

		return nil
	default:
		return fmt.Errorf("extrema: unknown mode %q", mode)
	}
}

// parseVars splits the -vars flag into names and optional bounds.
func parseVars(src string) ([]string, map[string]algebra.Range, error) {
	var vars []string
	bounds := make(map[string]algebra.Range)
	for _, spec := range strings.Split(src, ",") {
		spec = strings.TrimSpace(spec)
		eq := strings.Index(spec, "=")
		if eq < 0 {
			vars = append(vars, spec)

			continue
		}
		name := spec[:eq]
		lo, hi, ok := strings.Cut(spec[eq+1:], "..")
		if !ok {
			return nil, nil, fmt.Errorf("%w: bound %q wants lo..hi", errParse, spec)
		}
		r := algebra.Range{}
		if lo != "" {
			e, err := parseExpr(lo)
			if err != nil {
				return nil, nil, err
			}
			r.Lo = e
		}
		if hi != "" {
			e, err := parseExpr(hi)
			if err != nil {
				return nil, nil, err
			}
			r.Hi = e
		}
		vars = append(vars, name)
		bounds[name] = r
	}

	return vars, bounds, nil
}

func formatPoint(vars []string, pt []gosymbol.Expr) string {
	parts := make([]string, len(pt))
	for i, c := range pt {
		name := ""
		if i < len(vars) {
			name = vars[i] + "="
		}
		parts[i] = name + c.String()
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

func formatPoints(vars []string, pts [][]gosymbol.Expr) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = formatPoint(vars, p)
	}

	return strings.Join(parts, ", ")
}
