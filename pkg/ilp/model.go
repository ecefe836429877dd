package ilp

import "log"

// Var identifies a variable within a single Model. Ids are dense and assigned
// by the Builder in declaration order.
type Var int32

type sense uint8

const (
	senseEq sense = iota
	senseLe
)

type domain struct {
	lb, ub int64
}

type constraint struct {
	vars   []Var
	coeffs []int64 // nil means every coefficient is 1
	sense  sense
	rhs    int64
}

func (c constraint) coeff(i int) int64 {
	if c.coeffs == nil {
		return 1
	}
	return c.coeffs[i]
}

// Model is a finalized integer-linear instance: bounded integer variables,
// linear constraints of the form sum(coeff*var) == rhs or <= rhs, and an
// objective that is the unweighted sum of the registered variables,
// minimized. A Model is obtained from a Builder and never changes afterwards.
type Model struct {
	domains     []domain
	constraints []constraint
	objective   []Var
}

func (m Model) NumVariables() int {
	return len(m.domains)
}

func (m Model) NumConstraints() int {
	return len(m.constraints)
}

// Builder assembles the variables, constraints and objective of a Model. The
// zero value is ready to use. Misuse (unknown variables, mismatched
// coefficient lists, use after Model) is a programming error and panics.
type Builder struct {
	domains     []domain
	constraints []constraint
	objective   []Var
	finalized   bool
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Bool declares a fresh boolean variable, domain [0, 1].
func (b *Builder) Bool() Var {
	return b.Int(0, 1)
}

// Int declares a fresh integer variable with inclusive bounds.
func (b *Builder) Int(lb, ub int64) Var {
	b.mutable()
	if lb > ub {
		log.Panicf("invalid domain [%v, %v]", lb, ub)
	}
	b.domains = append(b.domains, domain{lb: lb, ub: ub})
	return Var(len(b.domains) - 1)
}

// Equal adds the constraint sum(coeffs[i]*vars[i]) == rhs. A nil coeffs
// treats every coefficient as 1.
func (b *Builder) Equal(vars []Var, coeffs []int64, rhs int64) {
	b.add(vars, coeffs, senseEq, rhs)
}

// LessEq adds the constraint sum(coeffs[i]*vars[i]) <= rhs. A nil coeffs
// treats every coefficient as 1.
func (b *Builder) LessEq(vars []Var, coeffs []int64, rhs int64) {
	b.add(vars, coeffs, senseLe, rhs)
}

// MinimizeSum appends vars to the objective. The objective is the unweighted
// sum of every variable registered through it.
func (b *Builder) MinimizeSum(vars ...Var) {
	b.mutable()
	for _, v := range vars {
		b.checkVar(v)
	}
	b.objective = append(b.objective, vars...)
}

// Model finalizes the instance and hands it over as a value. The builder must
// not be used afterwards.
func (b *Builder) Model() Model {
	b.mutable()
	b.finalized = true
	return Model{
		domains:     b.domains,
		constraints: b.constraints,
		objective:   b.objective,
	}
}

func (b *Builder) add(vars []Var, coeffs []int64, sense sense, rhs int64) {
	b.mutable()
	if coeffs != nil && len(coeffs) != len(vars) {
		log.Panicf("constraint over %v variables given %v coefficients", len(vars), len(coeffs))
	}
	for _, v := range vars {
		b.checkVar(v)
	}
	b.constraints = append(b.constraints, constraint{
		vars:   vars,
		coeffs: coeffs,
		sense:  sense,
		rhs:    rhs,
	})
}

func (b *Builder) checkVar(v Var) {
	if v < 0 || int(v) >= len(b.domains) {
		log.Panicf("variable %v is not declared in this builder", v)
	}
}

func (b *Builder) mutable() {
	if b.finalized {
		log.Panicf("builder is already finalized")
	}
}
