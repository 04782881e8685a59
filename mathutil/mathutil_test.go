package mathutil

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestDegRadRoundTrip(t *testing.T) {
	test.That(t, RadToDeg(DegToRad(180)), test.ShouldAlmostEqual, 180, 1e-9)
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi, 1e-9)
}

func TestClamp(t *testing.T) {
	test.That(t, Clamp(5, 0, 10), test.ShouldEqual, 5)
	test.That(t, Clamp(-5, 0, 10), test.ShouldEqual, 0)
	test.That(t, Clamp(15, 0, 10), test.ShouldEqual, 10)
}

func TestAlmostEqual(t *testing.T) {
	test.That(t, AlmostEqual(1.0, 1.0000001, 1e-6), test.ShouldBeTrue)
	test.That(t, AlmostEqual(1.0, 1.1, 1e-6), test.ShouldBeFalse)
}

func TestMinMaxInt(t *testing.T) {
	test.That(t, MinInt(3, 7), test.ShouldEqual, 3)
	test.That(t, MaxInt(3, 7), test.ShouldEqual, 7)
}

func TestEuclideanDistance(t *testing.T) {
	d := EuclideanDistance([]float64{0, 0}, []float64{3, 4})
	test.That(t, d, test.ShouldAlmostEqual, 5, 1e-9)
}

func TestWeightedEuclideanDistance(t *testing.T) {
	d := WeightedEuclideanDistance([]float64{0, 0}, []float64{1, 1}, []float64{3, 4})
	test.That(t, d, test.ShouldAlmostEqual, 5, 1e-9)
}
