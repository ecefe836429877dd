package ilp

import "math/rand/v2"

// GenerateModel builds a random instance shaped like a relaxed scheduling
// model: boolean decision variables tied into constraints that each carry
// their own bounded slack, with the slack sum minimized. Every generated
// instance is satisfiable.
func GenerateModel(variables, constraints int) Model {
	builder := NewBuilder()

	bools := make([]Var, variables)
	for i := range bools {
		bools[i] = builder.Bool()
	}

	for range constraints {
		terms := make([]Var, 0, variables)
		for _, v := range bools {
			if rand.Float32() < 0.5 {
				terms = append(terms, v)
			}
		}
		if len(terms) == 0 {
			terms = append(terms, bools[rand.IntN(variables)])
		}

		rhs := rand.Int64N(int64(len(terms)) + 1)
		slack := builder.Int(0, int64(len(terms)))

		vars := append(terms, slack)
		if rand.Float32() < 0.5 {
			// sum(terms) + slack == rhs
			builder.Equal(vars, nil, rhs)
		} else {
			// sum(terms) - slack <= rhs
			coeffs := make([]int64, len(vars))
			for i := range coeffs {
				coeffs[i] = 1
			}
			coeffs[len(coeffs)-1] = -1
			builder.LessEq(vars, coeffs, rhs)
		}
		builder.MinimizeSum(slack)
	}

	return builder.Model()
}

// AssertSolution checks a solution against a model: every value within its
// domain, every constraint satisfied and the reported objective consistent
// with the assignment.
func AssertSolution(model Model, solution Solution) bool {
	if len(solution.Values) != len(model.domains) {
		return false
	}

	for i, d := range model.domains {
		if value := solution.Values[i]; value < d.lb || value > d.ub {
			return false
		}
	}

	for _, c := range model.constraints {
		var sum int64
		for i, v := range c.vars {
			sum += c.coeff(i) * solution.Values[v]
		}
		switch c.sense {
		case senseEq:
			if sum != c.rhs {
				return false
			}
		case senseLe:
			if sum > c.rhs {
				return false
			}
		}
	}

	var objective int64
	for _, v := range model.objective {
		objective += solution.Values[v]
	}
	return objective == solution.Objective
}
