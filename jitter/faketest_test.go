package jitter

import (
	"gonum.org/v1/gonum/mat"

	"github.com/nimbus-robotics/jitterkit/spatialmath"
)

// fakeRobot is a test double for RobotAdapter with optional hook fields:
// CheckSelfCollisionFunc and CheckEnvCollisionFunc, when set, replace the
// default (no collision) result, and SetConfigFunc, when set, runs after
// the new configuration is stored. Every other method has fixed behavior.
type fakeRobot struct {
	dof     int
	config  []float64
	min     []float64
	max     []float64
	res     []float64
	links   []Link
	manip   Manipulator
	neighFn NeighStateFn

	CheckSelfCollisionFunc func() (bool, error)
	CheckEnvCollisionFunc  func() (bool, error)
	SetConfigFunc          func(q []float64)
}

func newFakeRobot(dof int) *fakeRobot {
	min := make([]float64, dof)
	max := make([]float64, dof)
	res := make([]float64, dof)
	for i := range min {
		min[i] = -10
		max[i] = 10
	}
	return &fakeRobot{
		dof:    dof,
		config: make([]float64, dof),
		min:    min,
		max:    max,
		res:    res,
	}
}

func (f *fakeRobot) DOF() int                  { return f.dof }
func (f *fakeRobot) CurrentConfig() []float64  { return append([]float64(nil), f.config...) }
func (f *fakeRobot) SetConfig(q []float64) error {
	f.config = append([]float64(nil), q...)
	if f.SetConfigFunc != nil {
		f.SetConfigFunc(f.config)
	}
	return nil
}
func (f *fakeRobot) Limits() ([]float64, []float64) { return f.min, f.max }
func (f *fakeRobot) Resolutions() []float64         { return f.res }
func (f *fakeRobot) Links() []Link                  { return f.links }
func (f *fakeRobot) Manipulator() Manipulator        { return f.manip }
func (f *fakeRobot) NeighStateFn() NeighStateFn      { return f.neighFn }

func (f *fakeRobot) CheckSelfCollision() (bool, error) {
	if f.CheckSelfCollisionFunc != nil {
		return f.CheckSelfCollisionFunc()
	}
	return false, nil
}

func (f *fakeRobot) CheckEnvCollision() (bool, error) {
	if f.CheckEnvCollisionFunc != nil {
		return f.CheckEnvCollisionFunc()
	}
	return false, nil
}

// fakeLink is a test double for Link with a fixed local AABB and a
// transform that can be swapped out mid-test to simulate motion.
type fakeLink struct {
	name      string
	localAABB spatialmath.AABB
	pose      spatialmath.Pose
}

func (l *fakeLink) Name() string                  { return l.name }
func (l *fakeLink) LocalAABB() spatialmath.AABB    { return l.localAABB }
func (l *fakeLink) Transform() spatialmath.Pose    { return l.pose }

// fakeManipulator is a test double for Manipulator.
type fakeManipulator struct {
	pose     spatialmath.Pose
	toolPose spatialmath.Pose
	jacobian *mat.Dense
}

func (m *fakeManipulator) Transform() spatialmath.Pose          { return m.pose }
func (m *fakeManipulator) LocalToolTransform() spatialmath.Pose { return m.toolPose }
func (m *fakeManipulator) Jacobian() (*mat.Dense, error)        { return m.jacobian, nil }
