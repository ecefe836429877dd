package ilp

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestToOPB(t *testing.T) {
	t.Run("Serializes equalities as paired inequalities", func(t *testing.T) {
		g := NewWithT(t)

		//** Arrange
		builder := NewBuilder()
		x := builder.Bool()
		s := builder.Int(0, 2)
		builder.Equal([]Var{x, s}, nil, 2)
		builder.MinimizeSum(s)
		model := builder.Model()

		//** Act
		opb := model.ToOPB()

		//** Assert
		expected := "* #variable= 3 #constraint= 2\n" +
			"min: +1 x2 +1 x3 ;\n" +
			"+1 x1 +1 x2 +1 x3 >= 2 ;\n" +
			"-1 x1 -1 x2 -1 x3 >= -2 ;\n"
		g.Expect(opb).To(Equal(expected))
	})

	t.Run("Anchors bits that only appear in the objective", func(t *testing.T) {
		g := NewWithT(t)

		//** Arrange
		builder := NewBuilder()
		s := builder.Int(0, 1)
		builder.LessEq([]Var{s}, []int64{-1}, 1) // trivially true, dropped
		builder.MinimizeSum(s)
		model := builder.Model()

		//** Act
		opb := model.ToOPB()

		//** Assert
		expected := "* #variable= 1 #constraint= 1\n" +
			"min: +1 x1 ;\n" +
			"+1 x1 -1 x1 >= 0 ;\n"
		g.Expect(opb).To(Equal(expected))
	})

	t.Run("Folds integer lower bounds into the bound", func(t *testing.T) {
		g := NewWithT(t)

		//** Arrange
		builder := NewBuilder()
		v := builder.Int(2, 4)
		builder.LessEq([]Var{v}, nil, 3)
		model := builder.Model()

		//** Act
		opb := model.ToOPB()

		//** Assert
		// v = 2 + x1 + x2, so v <= 3 becomes -x1 - x2 >= -1.
		expected := "* #variable= 2 #constraint= 1\n" +
			"min: ;\n" +
			"-1 x1 -1 x2 >= -1 ;\n"
		g.Expect(opb).To(Equal(expected))
	})
}
