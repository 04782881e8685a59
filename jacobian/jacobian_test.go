package jacobian

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestDecomposeIdentityJacobian(t *testing.T) {
	// A 3x3 identity Jacobian: Cartesian velocity equals joint velocity.
	j := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	res, err := Decompose(j, r3.Vector{X: 1, Y: 0, Z: 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Rank, test.ShouldEqual, 3)
	test.That(t, res.Bias[0], test.ShouldAlmostEqual, 1, 1e-6)
	test.That(t, res.Bias[1], test.ShouldAlmostEqual, 0, 1e-6)
	test.That(t, res.Bias[2], test.ShouldAlmostEqual, 0, 1e-6)
	test.That(t, len(res.NullBasis), test.ShouldEqual, 0)
}

func TestDecomposeRedundantManipulatorHasNullSpace(t *testing.T) {
	// 3x4: one redundant DOF, so rank <= 3 and null space has >=1 basis vector.
	j := mat.NewDense(3, 4, []float64{
		1, 0, 0, 1,
		0, 1, 0, 0,
		0, 0, 1, 0,
	})
	res, err := Decompose(j, r3.Vector{X: 0, Y: 1, Z: 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(res.NullBasis), test.ShouldEqual, 4-res.Rank)
	test.That(t, len(res.Bias), test.ShouldEqual, 4)
}

func TestDecomposeEmptyMatrixErrors(t *testing.T) {
	j := &mat.Dense{}
	_, err := Decompose(j, r3.Vector{})
	test.That(t, err, test.ShouldNotBeNil)
}
