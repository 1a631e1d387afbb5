package kkt

import (
	"strconv"

	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/algebra"
)

// TempVars mints one surrogate variable per problem variable and registers
// the variable's bound, when present, as an assumption on the surrogate.
// Solving over surrogates keeps user-level assumptions on the original
// names untouched. The returned count is how many assumptions were pushed;
// the caller pops them with asm.PopN once solving is done.
func TempVars(vars []string, bounds map[string]algebra.Range, asm *algebra.Assumptions) ([]string, int) {
	tmp := make([]string, len(vars))
	pushed := 0
	for i, v := range vars {
		// The middle dot keeps surrogates out of any user-typed namespace.
		tmp[i] = "·var" + strconv.Itoa(i)
		r, ok := bounds[v]
		if !ok || asm == nil {
			continue
		}
		asm.Push(tmp[i], r)
		pushed++
	}

	return tmp, pushed
}

// ToTemp renames the problem variables of e to their surrogates.
func ToTemp(e gosymbol.Expr, vars, tmp []string) gosymbol.Expr {
	for i, v := range vars {
		e = gosymbol.Sub(e, v, gosymbol.S(tmp[i]))
	}

	return e
}

// FromTemp renames surrogates back to the problem variables, for candidate
// coordinates that stay symbolic.
func FromTemp(e gosymbol.Expr, vars, tmp []string) gosymbol.Expr {
	for i, v := range tmp {
		e = gosymbol.Sub(e, v, gosymbol.S(vars[i]))
	}

	return e
}
