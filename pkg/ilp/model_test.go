package ilp

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestBuilder(t *testing.T) {
	t.Run("Assigns dense variable ids in declaration order", func(t *testing.T) {
		g := NewWithT(t)

		//** Arrange
		builder := NewBuilder()

		//** Act
		x := builder.Bool()
		s := builder.Int(0, 10)
		y := builder.Bool()
		model := builder.Model()

		//** Assert
		g.Expect(x).To(Equal(Var(0)))
		g.Expect(s).To(Equal(Var(1)))
		g.Expect(y).To(Equal(Var(2)))
		g.Expect(model.NumVariables()).To(Equal(3))
		g.Expect(model.domains[0]).To(Equal(domain{lb: 0, ub: 1}))
		g.Expect(model.domains[1]).To(Equal(domain{lb: 0, ub: 10}))
	})

	t.Run("Tracks constraints and objective", func(t *testing.T) {
		g := NewWithT(t)

		//** Arrange
		builder := NewBuilder()
		x := builder.Bool()
		y := builder.Bool()
		s := builder.Int(0, 5)

		//** Act
		builder.Equal([]Var{x, y, s}, nil, 3)
		builder.LessEq([]Var{x, s}, []int64{1, -1}, 1)
		builder.MinimizeSum(s)
		model := builder.Model()

		//** Assert
		g.Expect(model.NumConstraints()).To(Equal(2))
		g.Expect(model.constraints[0].sense).To(Equal(senseEq))
		g.Expect(model.constraints[1].sense).To(Equal(senseLe))
		g.Expect(model.objective).To(Equal([]Var{s}))
	})

	t.Run("Treats nil coefficients as units", func(t *testing.T) {
		g := NewWithT(t)

		//** Arrange
		builder := NewBuilder()
		x := builder.Bool()
		y := builder.Bool()
		builder.Equal([]Var{x, y}, nil, 1)
		model := builder.Model()

		//** Act
		c := model.constraints[0]

		//** Assert
		g.Expect(c.coeff(0)).To(Equal(int64(1)))
		g.Expect(c.coeff(1)).To(Equal(int64(1)))
	})

	t.Run("Panics on malformed use", func(t *testing.T) {
		g := NewWithT(t)

		g.Expect(func() {
			NewBuilder().Int(3, 1)
		}).To(Panic())

		g.Expect(func() {
			builder := NewBuilder()
			x := builder.Bool()
			builder.Equal([]Var{x}, []int64{1, 2}, 1)
		}).To(Panic())

		g.Expect(func() {
			NewBuilder().LessEq([]Var{7}, nil, 1)
		}).To(Panic())

		g.Expect(func() {
			builder := NewBuilder()
			builder.Bool()
			builder.Model()
			builder.Bool()
		}).To(Panic())
	})
}
