package trajectory

import (
	"bytes"
	"testing"

	"go.viam.com/test"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	spec, err := NewConfigSpec([]Group{
		{Name: "deltatime", DOF: 1, Interpolation: InterpNone},
		{Name: "joint_values arm1", DOF: 2, Interpolation: InterpLinear},
	})
	test.That(t, err, test.ShouldBeNil)

	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.Insert(0, []float64{0, 1, 2}), test.ShouldBeNil)
	test.That(t, traj.Insert(1, []float64{1, 3, 4}), test.ShouldBeNil)

	var buf bytes.Buffer
	readables := []Readable{{Name: "session", Data: NewSessionTag()}}
	err = Serialize(&buf, traj, "test trajectory", readables)
	test.That(t, err, test.ShouldBeNil)

	got, description, gotReadables, err := Deserialize(&buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, description, test.ShouldEqual, "test trajectory")
	test.That(t, got.Len(), test.ShouldEqual, 2)
	test.That(t, len(gotReadables), test.ShouldEqual, 1)
	test.That(t, gotReadables[0].Name, test.ShouldEqual, "session")

	wp0, err := got.GetWaypoint(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, wp0, test.ShouldResemble, []float64{0, 1, 2})

	wp1, err := got.GetWaypoint(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, wp1, test.ShouldResemble, []float64{1, 3, 4})
}

func TestDeserializeRejectsLegacyStream(t *testing.T) {
	buf := bytes.NewReader([]byte{0x3C, 0x3F, 0x78, 0x6D, 0x6C}) // "<?xml" prefix
	_, _, _, err := Deserialize(buf)
	test.That(t, err, test.ShouldEqual, ErrLegacyFormat)
}

func TestDeserializeRejectsFutureVersion(t *testing.T) {
	var buf bytes.Buffer
	spec, err := NewConfigSpec([]Group{{Name: "joint_values arm1", DOF: 1, Interpolation: InterpLinear}})
	test.That(t, err, test.ShouldBeNil)
	traj, err := Init(spec, 0, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.Insert(0, []float64{0}), test.ShouldBeNil)
	test.That(t, Serialize(&buf, traj, "", nil), test.ShouldBeNil)

	raw := buf.Bytes()
	// Bump the version field (bytes 2-3, little-endian) past what this
	// package understands.
	raw[2] = 0xFF
	raw[3] = 0xFF

	_, _, _, err = Deserialize(bytes.NewReader(raw))
	test.That(t, err, test.ShouldNotBeNil)
}
