package ilp

import (
	"fmt"
	"strings"
)

// pbVar locates the unary encoding of one model variable: width consecutive
// boolean bits starting at firstBit, valued lb plus the number of true bits.
// Bits are 1-based, following the pseudo-boolean literal convention.
type pbVar struct {
	firstBit int
	width    int
	lb       int64
}

// pbConstraint is a pseudo-boolean constraint in >= normal form: every
// coefficient positive, negation expressed through negative literals.
type pbConstraint struct {
	lits    []int
	coeffs  []int
	atLeast int
}

type pbInstance struct {
	vars          []pbVar
	bits          int
	constraints   []pbConstraint
	objective     []int // unary bits of the objective variables, weight 1 each
	objectiveBase int64 // sum of the objective variables' lower bounds
	infeasible    bool  // a constraint reduced to a false constant
}

// toPseudoBoolean flattens a Model onto boolean literals. Integer domains
// become unary bit blocks; every constraint is rewritten as one or two >=
// constraints with positive coefficients. Constraints that become trivially
// true are dropped.
func toPseudoBoolean(m Model) pbInstance {
	pb := pbInstance{vars: make([]pbVar, len(m.domains))}

	bit := 1
	for i, d := range m.domains {
		pb.vars[i] = pbVar{firstBit: bit, width: int(d.ub - d.lb), lb: d.lb}
		bit += pb.vars[i].width
	}
	pb.bits = bit - 1

	for _, c := range m.constraints {
		lits, coeffs, rhs := pb.expand(c)
		switch c.sense {
		case senseEq:
			pb.append(lits, coeffs, rhs)
			pb.append(lits, negated(coeffs), -rhs)
		case senseLe:
			pb.append(lits, negated(coeffs), -rhs)
		}
	}

	for _, v := range m.objective {
		pv := pb.vars[v]
		pb.objectiveBase += pv.lb
		for j := range pv.width {
			pb.objective = append(pb.objective, pv.firstBit+j)
		}
	}

	// A bit whose constraints were all dropped as trivial is unknown to the
	// constraint set; if it appears in the objective it gets a tautology
	// clause so engines that size their variable table from the constraints
	// still see it.
	seen := make(map[int]bool)
	for _, constr := range pb.constraints {
		for _, lit := range constr.lits {
			if lit < 0 {
				lit = -lit
			}
			seen[lit] = true
		}
	}
	for _, bit := range pb.objective {
		if seen[bit] {
			continue
		}
		seen[bit] = true
		pb.constraints = append(pb.constraints, pbConstraint{
			lits:    []int{bit, -bit},
			coeffs:  []int{1, 1},
			atLeast: 1,
		})
	}

	return pb
}

// expand rewrites a constraint over model variables as bit-literal terms,
// folding the domain lower bounds into the right-hand side.
func (pb *pbInstance) expand(c constraint) (lits []int, coeffs []int, rhs int) {
	total := c.rhs
	for i, v := range c.vars {
		coeff := c.coeff(i)
		pv := pb.vars[v]
		total -= coeff * pv.lb
		if coeff == 0 {
			continue
		}
		for j := range pv.width {
			lits = append(lits, pv.firstBit+j)
			coeffs = append(coeffs, int(coeff))
		}
	}
	return lits, coeffs, int(total)
}

// append stores sum(coeffs*lits) >= atLeast after normalizing negative
// coefficients into negated literals. coeff*b with coeff < 0 equals
// |coeff|*(not b) - |coeff|, so the bound grows by |coeff|.
func (pb *pbInstance) append(lits []int, coeffs []int, atLeast int) {
	normLits := make([]int, len(lits))
	normCoeffs := make([]int, len(coeffs))
	for i := range lits {
		if coeffs[i] < 0 {
			normLits[i] = -lits[i]
			normCoeffs[i] = -coeffs[i]
			atLeast += -coeffs[i]
		} else {
			normLits[i] = lits[i]
			normCoeffs[i] = coeffs[i]
		}
	}

	if atLeast <= 0 {
		return
	}
	var reachable int
	for _, coeff := range normCoeffs {
		reachable += coeff
	}
	// No assignment of the literals can reach the bound.
	if reachable < atLeast {
		pb.infeasible = true
	}
	if len(normLits) == 0 {
		return
	}
	pb.constraints = append(pb.constraints, pbConstraint{
		lits:    normLits,
		coeffs:  normCoeffs,
		atLeast: atLeast,
	})
}

// decode reconstructs model variable values from a bit assignment. Literals
// the engine never saw are absent from the assignment and count as false.
func (pb pbInstance) decode(bits []bool) []int64 {
	values := make([]int64, len(pb.vars))
	for i, pv := range pb.vars {
		value := pv.lb
		for j := range pv.width {
			if bit := pv.firstBit + j; bit-1 < len(bits) && bits[bit-1] {
				value++
			}
		}
		values[i] = value
	}
	return values
}

func negated(coeffs []int) []int {
	neg := make([]int, len(coeffs))
	for i, coeff := range coeffs {
		neg[i] = -coeff
	}
	return neg
}

// ToOPB serializes the model in the OPB pseudo-boolean input format, suitable
// for external PB solvers and competition tooling. Integer variables appear
// through their unary bits, so x<n> refers to the n-th bit of the flattened
// instance, not to a Var id.
func (m Model) ToOPB() string {
	pb := toPseudoBoolean(m)

	var builder strings.Builder
	fmt.Fprintf(&builder, "* #variable= %d #constraint= %d\n", pb.bits, len(pb.constraints))

	builder.WriteString("min:")
	for _, bit := range pb.objective {
		fmt.Fprintf(&builder, " +1 x%d", bit)
	}
	builder.WriteString(" ;\n")

	for _, constr := range pb.constraints {
		// The linear OPB dialect has no negated literals, so not-x is
		// rewritten as 1-x.
		rhs := constr.atLeast
		for i, lit := range constr.lits {
			coeff := constr.coeffs[i]
			if lit < 0 {
				fmt.Fprintf(&builder, "%+d x%d ", -coeff, -lit)
				rhs -= coeff
			} else {
				fmt.Fprintf(&builder, "%+d x%d ", coeff, lit)
			}
		}
		fmt.Fprintf(&builder, ">= %d ;\n", rhs)
	}

	return builder.String()
}
