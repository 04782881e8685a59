package trajectory

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	magicNumber = uint16(0x62FF)

	version1       = uint16(0x0001) // waypoint data only, interpolation implied linear
	version2       = uint16(0x0002) // adds the readable-interfaces block
	version3       = uint16(0x0003) // adds per-group interpolation order
	currentVersion = version3
)

// Readable is a free-form named annotation serialized alongside a
// trajectory's waypoint data (e.g. the name of the robot component or
// planner run that produced it).
type Readable struct {
	Name string
	Data string
}

// Serialize writes t, description, and readables to w in this package's
// versioned binary format. A random session tag is not stamped here —
// callers that want one should add it as a Readable.
func Serialize(w io.Writer, t *Trajectory, description string, readables []Readable) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, magicNumber); err != nil {
		return errors.Wrap(err, "trajectory: write magic")
	}
	if err := binary.Write(bw, binary.LittleEndian, currentVersion); err != nil {
		return errors.Wrap(err, "trajectory: write version")
	}
	if err := writeString(bw, description); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(t.spec.Groups))); err != nil {
		return errors.Wrap(err, "trajectory: write group count")
	}
	for _, g := range t.spec.Groups {
		if err := writeString(bw, g.Name); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(g.Offset)); err != nil {
			return errors.Wrap(err, "trajectory: write group offset")
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(g.DOF)); err != nil {
			return errors.Wrap(err, "trajectory: write group dof")
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(g.Interpolation)); err != nil {
			return errors.Wrap(err, "trajectory: write group interpolation")
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(t.rows)); err != nil {
		return errors.Wrap(err, "trajectory: write row count")
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(t.spec.DOF())); err != nil {
		return errors.Wrap(err, "trajectory: write dof")
	}
	if err := binary.Write(bw, binary.LittleEndian, t.data); err != nil {
		return errors.Wrap(err, "trajectory: write payload")
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(readables))); err != nil {
		return errors.Wrap(err, "trajectory: write readable count")
	}
	for _, r := range readables {
		if err := writeString(bw, r.Name); err != nil {
			return err
		}
		if err := writeString(bw, r.Data); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Deserialize reads a trajectory previously written by Serialize.
// If the stream does not begin with this package's magic number,
// Deserialize returns ErrLegacyFormat after consuming only the two
// magic-number bytes, rather than buffering ahead into the rest of the
// stream, so a caller that retains those two bytes alongside r can still
// hand the full original stream to a legacy XML parser.
func Deserialize(r io.Reader) (*Trajectory, string, []Readable, error) {
	head := make([]byte, 2)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, "", nil, errors.Wrap(err, "trajectory: read magic")
	}
	magic := binary.LittleEndian.Uint16(head)
	if magic != magicNumber {
		return nil, "", nil, ErrLegacyFormat
	}

	br := bufio.NewReader(r)

	var version uint16
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, "", nil, errors.Wrap(err, "trajectory: read version")
	}
	if version < version1 || version > currentVersion {
		return nil, "", nil, errors.Wrapf(ErrCommandNotSupported, "trajectory: unsupported format version 0x%04x", version)
	}

	description, err := readString(br)
	if err != nil {
		return nil, "", nil, err
	}

	var numGroups uint32
	if err := binary.Read(br, binary.LittleEndian, &numGroups); err != nil {
		return nil, "", nil, errors.Wrap(err, "trajectory: read group count")
	}
	groups := make([]Group, numGroups)
	for i := range groups {
		name, err := readString(br)
		if err != nil {
			return nil, "", nil, err
		}
		var offset, dof uint32
		if err := binary.Read(br, binary.LittleEndian, &offset); err != nil {
			return nil, "", nil, errors.Wrap(err, "trajectory: read group offset")
		}
		if err := binary.Read(br, binary.LittleEndian, &dof); err != nil {
			return nil, "", nil, errors.Wrap(err, "trajectory: read group dof")
		}
		interp := InterpLinear
		if version >= version3 {
			var raw uint16
			if err := binary.Read(br, binary.LittleEndian, &raw); err != nil {
				return nil, "", nil, errors.Wrap(err, "trajectory: read group interpolation")
			}
			interp = Interpolation(raw)
		}
		groups[i] = Group{Name: name, Offset: int(offset), DOF: int(dof), Interpolation: interp}
	}
	spec := &ConfigSpec{Groups: groups}

	var numRows, dof uint32
	if err := binary.Read(br, binary.LittleEndian, &numRows); err != nil {
		return nil, "", nil, errors.Wrap(err, "trajectory: read row count")
	}
	if err := binary.Read(br, binary.LittleEndian, &dof); err != nil {
		return nil, "", nil, errors.Wrap(err, "trajectory: read dof")
	}
	if int(dof) != spec.DOF() {
		return nil, "", nil, errors.Wrapf(ErrInvalidState, "trajectory: payload dof %d does not match group layout dof %d", dof, spec.DOF())
	}
	data := make([]float64, int(numRows)*int(dof))
	if err := binary.Read(br, binary.LittleEndian, data); err != nil {
		return nil, "", nil, errors.Wrap(err, "trajectory: read payload")
	}

	var readables []Readable
	if version >= version2 {
		var numReadables uint32
		if err := binary.Read(br, binary.LittleEndian, &numReadables); err != nil {
			return nil, "", nil, errors.Wrap(err, "trajectory: read readable count")
		}
		readables = make([]Readable, numReadables)
		for i := range readables {
			name, err := readString(br)
			if err != nil {
				return nil, "", nil, err
			}
			val, err := readString(br)
			if err != nil {
				return nil, "", nil, err
			}
			readables[i] = Readable{Name: name, Data: val}
		}
	}

	t := &Trajectory{
		spec:          spec,
		rows:          int(numRows),
		data:          data,
		internalDirty: true,
		verifiedDirty: true,
	}
	if g, ok := spec.FindGroup(deltaTimeGroupName); ok {
		t.hasDeltaTime = true
		t.deltaTimeOffset = g.Offset
	}
	if err := t.buildInterpolators(); err != nil {
		return nil, "", nil, err
	}

	return t, description, readables, nil
}

// NewSessionTag returns a random identifier suitable for use as a
// Readable's Data when callers want to correlate a serialized trajectory
// with, e.g., a particular jitter or planning session.
func NewSessionTag() string {
	return uuid.New().String()
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return errors.Wrap(err, "trajectory: write string length")
	}
	if _, err := io.WriteString(w, s); err != nil {
		return errors.Wrap(err, "trajectory: write string data")
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", errors.Wrap(err, "trajectory: read string length")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errors.Wrap(err, "trajectory: read string data")
	}
	return string(buf), nil
}
